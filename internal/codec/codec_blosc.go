package codec

import (
	"fmt"

	"github.com/mrjoshuak/go-blosc"
)

func init() {
	Register(&Codec{
		Name:         "blosc",
		Encode:       bloscEncode,
		Decode:       bloscDecode,
		ValidateOpts: validateBloscOpts,
	})
}

func validateBloscOpts(opts map[string]any) error {
	if opts == nil {
		return nil
	}
	for k := range opts {
		switch k {
		case "clevel", "shuffle", "typesize":
		default:
			return fmt.Errorf("unknown blosc compression option %q", k)
		}
	}
	return nil
}

func bloscEncode(src []byte, opts map[string]any) ([]byte, error) {
	clevel := 5
	typesize := 1
	doShuffle := true

	if opts != nil {
		if v, ok := opts["clevel"].(float64); ok {
			clevel = int(v)
		}
		if v, ok := opts["typesize"].(float64); ok {
			typesize = int(v)
		}
		if v, ok := opts["shuffle"].(bool); ok {
			doShuffle = v
		}
	}

	out, err := blosc.Compress(src, typesize, clevel, doShuffle)
	if err != nil {
		return nil, fmt.Errorf("blosc: %w", err)
	}
	return out, nil
}

func bloscDecode(src []byte, _ map[string]any, decodedSize int) ([]byte, error) {
	out, err := blosc.Decompress(src)
	if err != nil {
		return nil, fmt.Errorf("blosc: %w", err)
	}
	if len(out) != decodedSize {
		return nil, fmt.Errorf("blosc: decoded %d bytes, expected %d", len(out), decodedSize)
	}
	return out, nil
}
