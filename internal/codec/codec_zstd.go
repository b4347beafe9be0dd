package codec

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

func init() {
	Register(&Codec{
		Name:         "zstd",
		Encode:       zstdEncode,
		Decode:       zstdDecode,
		ValidateOpts: validateLevelOpt,
	})
}

func zstdEncode(src []byte, opts map[string]any) ([]byte, error) {
	level, err := levelOrDefault(opts, int(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevel(level)))
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(src, make([]byte, 0, len(src))), nil
}

func zstdDecode(src []byte, _ map[string]any, decodedSize int) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(src, make([]byte, 0, decodedSize))
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	return out, nil
}
