package codec

import (
	"errors"
	"fmt"
)

func init() {
	Register(&Codec{
		Name:   "lzf",
		Encode: lzfEncode,
		Decode: lzfDecode,
	})
}

func lzfEncode(src []byte, _ map[string]any) ([]byte, error) {
	if len(src) == 0 {
		return []byte{}, nil
	}
	return lzfCompress(src), nil
}

func lzfDecode(src []byte, _ map[string]any, decodedSize int) ([]byte, error) {
	if decodedSize == 0 {
		return []byte{}, nil
	}
	out, err := lzfDecompress(src)
	if err != nil {
		return nil, fmt.Errorf("lzf: %w", err)
	}
	return out, nil
}

// lzfCompress implements the LZF algorithm (LZ77 family, 8KB window,
// 3-byte hash matching): literal runs of up to 32 bytes and short/long
// backreferences.
func lzfCompress(input []byte) []byte {
	inLen := len(input)
	maxOut := inLen + (inLen / 32) + 256
	output := make([]byte, 0, maxOut)

	const hlog = 14
	const hsize = 1 << hlog
	var htab [hsize]uint32

	inPos := 0
	litPos := 0

	for inPos < inLen {
		if inPos+3 > inLen {
			break
		}

		hash := hashLZF(input[inPos], input[inPos+1], input[inPos+2])
		ref := int(htab[hash])
		htab[hash] = uint32(inPos) //nolint:gosec // inPos < len(input), fits in uint32

		offset := inPos - ref
		if ref > 0 && offset <= 8192 && offset > 0 &&
			input[ref] == input[inPos] &&
			input[ref+1] == input[inPos+1] &&
			input[ref+2] == input[inPos+2] {
			if litPos < inPos {
				output = appendLiteral(output, input[litPos:inPos])
			}

			maxLen := inLen - inPos
			if maxLen > 264 {
				maxLen = 264
			}

			matchLen := 3
			for matchLen < maxLen && input[ref+matchLen] == input[inPos+matchLen] {
				matchLen++
			}

			output = appendBackref(output, offset, matchLen)

			inPos += matchLen
			litPos = inPos

			for i := 1; i < matchLen-2; i++ {
				pos := inPos - matchLen + i
				if pos+2 < inLen {
					h := hashLZF(input[pos], input[pos+1], input[pos+2])
					htab[h] = uint32(pos) //nolint:gosec // pos < len(input), fits in uint32
				}
			}
		} else {
			inPos++
		}
	}

	if litPos < inLen {
		output = appendLiteral(output, input[litPos:])
	}

	return output
}

func hashLZF(b0, b1, b2 byte) uint32 {
	v := (uint32(b0) << 16) | (uint32(b1) << 8) | uint32(b2)
	v ^= v >> 16
	v *= 0x45d9f3b
	v ^= v >> 16
	return v & 0x3fff
}

func appendLiteral(output, literal []byte) []byte {
	for len(literal) > 0 {
		runLen := len(literal)
		if runLen > 32 {
			runLen = 32
		}
		ctrl := byte(runLen - 1)
		output = append(output, ctrl)
		output = append(output, literal[:runLen]...)
		literal = literal[runLen:]
	}
	return output
}

func appendBackref(output []byte, offset, length int) []byte {
	offset--

	if length <= 8 {
		runBits := (length - 2) << 5
		ctrl := byte(runBits | (offset >> 8))
		output = append(output, ctrl, byte(offset&0xFF))
	} else {
		ctrl := byte(0xE0 | (offset >> 8))
		output = append(output, ctrl, byte(offset&0xFF), byte(length-9))
	}

	return output
}

func lzfDecompress(input []byte) ([]byte, error) {
	inLen := len(input)
	if inLen == 0 {
		return input, nil
	}

	output := make([]byte, 0, inLen*2)
	inPos := 0

	for inPos < inLen {
		ctrl := input[inPos]
		inPos++

		if (ctrl & 0xE0) == 0 {
			runLen := int(ctrl) + 1
			if inPos+runLen > inLen {
				return nil, errors.New("lzf: truncated literal run")
			}
			output = append(output, input[inPos:inPos+runLen]...)
			inPos += runLen
		} else {
			if inPos >= inLen {
				return nil, errors.New("lzf: truncated backreference")
			}

			offsetHigh := int(ctrl & 0x1F)
			offsetLow := int(input[inPos])
			inPos++

			offset := (offsetHigh << 8) | offsetLow
			offset++

			var runLen int
			if (ctrl & 0xE0) == 0xE0 {
				if inPos >= inLen {
					return nil, errors.New("lzf: truncated long backreference")
				}
				runLen = int(input[inPos]) + 9
				inPos++
			} else {
				runBits := (ctrl >> 5) & 0x07
				runLen = int(runBits) + 2
			}

			if offset > len(output) {
				return nil, fmt.Errorf("lzf: invalid offset %d (output size: %d)", offset, len(output))
			}

			srcPos := len(output) - offset
			for i := 0; i < runLen; i++ {
				output = append(output, output[srcPos+i])
			}
		}
	}

	return output, nil
}
