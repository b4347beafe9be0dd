package codec

import (
	"fmt"

	"github.com/golang/snappy"
)

func init() {
	Register(&Codec{
		Name:   "snappy",
		Encode: snappyEncode,
		Decode: snappyDecode,
	})
}

func snappyEncode(src []byte, _ map[string]any) ([]byte, error) {
	return snappy.Encode(nil, src), nil
}

func snappyDecode(src []byte, _ map[string]any, decodedSize int) ([]byte, error) {
	out, err := snappy.Decode(make([]byte, 0, decodedSize), src)
	if err != nil {
		return nil, fmt.Errorf("snappy: %w", err)
	}
	return out, nil
}
