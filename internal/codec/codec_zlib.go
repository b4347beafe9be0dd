package codec

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

func init() {
	Register(&Codec{
		Name:         "zlib",
		Encode:       zlibEncode,
		Decode:       zlibDecode,
		ValidateOpts: validateLevelOpt,
	})
}

func zlibEncode(src []byte, opts map[string]any) ([]byte, error) {
	level, err := levelOrDefault(opts, zlib.DefaultCompression)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	if _, err := w.Write(src); err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	return buf.Bytes(), nil
}

func zlibDecode(src []byte, _ map[string]any, decodedSize int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	defer r.Close()

	out := make([]byte, 0, decodedSize)
	buf := bytes.NewBuffer(out)
	if _, err := io.Copy(buf, r); err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	return buf.Bytes(), nil
}
