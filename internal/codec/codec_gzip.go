package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

func init() {
	Register(&Codec{
		Name:         "gzip",
		Encode:       gzipEncode,
		Decode:       gzipDecode,
		ValidateOpts: validateLevelOpt,
	})
}

func gzipEncode(src []byte, opts map[string]any) ([]byte, error) {
	level, err := levelOrDefault(opts, gzip.DefaultCompression)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	if _, err := w.Write(src); err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return buf.Bytes(), nil
}

func gzipDecode(src []byte, _ map[string]any, decodedSize int) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	defer r.Close()

	out := bytes.NewBuffer(make([]byte, 0, decodedSize))
	if _, err := io.Copy(out, r); err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return out.Bytes(), nil
}
