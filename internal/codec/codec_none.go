package codec

// noneCodec is the identity codec for compression == "NONE". It is not
// registered in the map since Lookup special-cases it, but it follows the
// same Codec shape so callers never need to special-case it themselves.
var noneCodec = &Codec{
	Name: "NONE",
	Encode: func(src []byte, _ map[string]any) ([]byte, error) {
		out := make([]byte, len(src))
		copy(out, src)
		return out, nil
	},
	Decode: func(src []byte, _ map[string]any, decodedSize int) ([]byte, error) {
		out := make([]byte, decodedSize)
		copy(out, src)
		return out, nil
	},
}
