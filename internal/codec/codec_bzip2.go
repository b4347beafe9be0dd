package codec

import (
	"bytes"
	stdbzip2 "compress/bzip2"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
)

func init() {
	Register(&Codec{
		Name:         "bzip2",
		Encode:       bzip2Encode,
		Decode:       bzip2Decode,
		ValidateOpts: validateLevelOpt,
	})
}

// bzip2Encode compresses with dsnet/compress/bzip2, the write-capable
// library the standard library lacks (compress/bzip2 only decodes).
func bzip2Encode(src []byte, opts map[string]any) ([]byte, error) {
	level, err := levelOrDefault(opts, bzip2.DefaultCompression)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{Level: level})
	if err != nil {
		return nil, fmt.Errorf("bzip2: %w", err)
	}
	if _, err := w.Write(src); err != nil {
		return nil, fmt.Errorf("bzip2: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("bzip2: %w", err)
	}
	return buf.Bytes(), nil
}

// bzip2Decode uses the standard library reader, which is sufficient for
// the read path.
func bzip2Decode(src []byte, _ map[string]any, decodedSize int) ([]byte, error) {
	r := stdbzip2.NewReader(bytes.NewReader(src))
	out := bytes.NewBuffer(make([]byte, 0, decodedSize))
	if _, err := io.Copy(out, r); err != nil {
		return nil, fmt.Errorf("bzip2: %w", err)
	}
	return out.Bytes(), nil
}
