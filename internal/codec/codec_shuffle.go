package codec

import "fmt"

func init() {
	Register(&Codec{
		Name:         "shuffle",
		Encode:       shuffleEncode,
		Decode:       shuffleDecode,
		ValidateOpts: validateShuffleOpts,
	})
}

func validateShuffleOpts(opts map[string]any) error {
	if opts == nil {
		return fmt.Errorf("shuffle requires a compression_opts.elementsize")
	}
	v, ok := opts["elementsize"]
	if !ok {
		return fmt.Errorf("shuffle requires a compression_opts.elementsize")
	}
	size, err := asPositiveInt(v)
	if err != nil {
		return fmt.Errorf("compression_opts.elementsize: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("compression_opts.elementsize must be positive")
	}
	return nil
}

func asPositiveInt(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, fmt.Errorf("must be a number, got %T", v)
	}
}

func elementSizeOpt(opts map[string]any) (int, error) {
	if err := validateShuffleOpts(opts); err != nil {
		return 0, err
	}
	return asPositiveInt(opts["elementsize"])
}

// shuffleEncode transposes element-major bytes to byte-plane-major order,
// the standard transform applied before a general-purpose compressor to
// expose structure in numeric arrays.
func shuffleEncode(data []byte, opts map[string]any) ([]byte, error) {
	elementSize, err := elementSizeOpt(opts)
	if err != nil {
		return nil, err
	}

	dataLen := len(data)
	if dataLen == 0 {
		return data, nil
	}
	if dataLen%elementSize != 0 {
		return nil, fmt.Errorf("shuffle: data length %d not a multiple of element size %d", dataLen, elementSize)
	}

	numElements := dataLen / elementSize
	shuffled := make([]byte, dataLen)
	for byteIndex := 0; byteIndex < elementSize; byteIndex++ {
		for elemIndex := 0; elemIndex < numElements; elemIndex++ {
			srcIndex := elemIndex*elementSize + byteIndex
			dstIndex := byteIndex*numElements + elemIndex
			shuffled[dstIndex] = data[srcIndex]
		}
	}
	return shuffled, nil
}

// shuffleDecode reverses shuffleEncode.
func shuffleDecode(data []byte, opts map[string]any, decodedSize int) ([]byte, error) {
	elementSize, err := elementSizeOpt(opts)
	if err != nil {
		return nil, err
	}

	dataLen := len(data)
	if dataLen == 0 {
		return data, nil
	}
	if dataLen != decodedSize {
		return nil, fmt.Errorf("shuffle: input length %d does not match expected decoded size %d", dataLen, decodedSize)
	}
	if dataLen%elementSize != 0 {
		return nil, fmt.Errorf("shuffle: data length %d not a multiple of element size %d", dataLen, elementSize)
	}

	numElements := dataLen / elementSize
	unshuffled := make([]byte, dataLen)
	for byteIndex := 0; byteIndex < elementSize; byteIndex++ {
		for elemIndex := 0; elemIndex < numElements; elemIndex++ {
			srcIndex := byteIndex*numElements + elemIndex
			dstIndex := elemIndex*elementSize + byteIndex
			unshuffled[dstIndex] = data[srcIndex]
		}
	}
	return unshuffled, nil
}
