package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShuffleEncode_TransposesBytePlanes(t *testing.T) {
	// Three 2-byte elements: 0x01 0x02, 0x03 0x04, 0x05 0x06.
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	out, err := shuffleEncode(data, map[string]any{"elementsize": float64(2)})
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x03, 0x05, 0x02, 0x04, 0x06}, out)
}

func TestShuffleDecode_ReversesEncode(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	opts := map[string]any{"elementsize": float64(4)}

	encoded, err := shuffleEncode(data, opts)
	require.NoError(t, err)

	decoded, err := shuffleDecode(encoded, opts, len(data))
	require.NoError(t, err)
	require.Equal(t, data, decoded)
}

func TestValidateShuffleOpts_RequiresElementSize(t *testing.T) {
	require.Error(t, validateShuffleOpts(nil))
	require.Error(t, validateShuffleOpts(map[string]any{}))
	require.Error(t, validateShuffleOpts(map[string]any{"elementsize": float64(0)}))
	require.NoError(t, validateShuffleOpts(map[string]any{"elementsize": float64(4)}))
}

func TestShuffleEncode_RejectsNonMultipleLength(t *testing.T) {
	_, err := shuffleEncode([]byte{1, 2, 3}, map[string]any{"elementsize": float64(4)})
	require.Error(t, err)
}
