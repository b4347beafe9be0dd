package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkKey_RoundTrip(t *testing.T) {
	cases := [][]int{{}, {0}, {3}, {1, 2}, {10, 0, 7}}
	for _, coord := range cases {
		key := ChunkKey(coord)
		parsed, err := ParseChunkKey(key)
		require.NoError(t, err, key)
		if len(coord) == 0 {
			require.Equal(t, []int{}, parsed)
		} else {
			require.Equal(t, coord, parsed)
		}
	}
}

func TestChunkKey_ZeroDIsLiteralZero(t *testing.T) {
	require.Equal(t, "0", ChunkKey(nil))
	require.Equal(t, "1.2", ChunkKey([]int{1, 2}))
}

func TestParseChunkKey_RejectsLeadingZeros(t *testing.T) {
	_, err := ParseChunkKey("01.2")
	require.Error(t, err)
	require.True(t, Is(err, KindInvalidMetadata))
}

func TestParseChunkKey_RejectsNegativeOrEmptySegment(t *testing.T) {
	_, err := ParseChunkKey("1..2")
	require.Error(t, err)

	_, err = ParseChunkKey("-1.2")
	require.Error(t, err)
}

func TestNewChunkGrid_RejectsMismatchedLengthsAndBadDims(t *testing.T) {
	_, err := NewChunkGrid([]int{10, 10}, []int{5})
	require.Error(t, err)

	_, err = NewChunkGrid([]int{-1}, []int{5})
	require.Error(t, err)

	_, err = NewChunkGrid([]int{10}, []int{0})
	require.Error(t, err)
}

func TestChunkGrid_ValidateSelection(t *testing.T) {
	g, err := NewChunkGrid([]int{20, 20}, []int{10, 10})
	require.NoError(t, err)

	require.NoError(t, g.ValidateSelection(Selection{{Lo: 0, Hi: 20}, {Lo: 0, Hi: 20}}))

	err = g.ValidateSelection(Selection{{Lo: 0, Hi: 25}, {Lo: 0, Hi: 20}})
	require.Error(t, err)
	require.True(t, Is(err, KindOutOfBounds))

	err = g.ValidateSelection(Selection{{Lo: 0, Hi: 20}})
	require.Error(t, err)
	require.True(t, Is(err, KindShapeMismatch))
}

func TestChunkGrid_Triples_FullCoverageFourChunks(t *testing.T) {
	g, err := NewChunkGrid([]int{20, 20}, []int{10, 10})
	require.NoError(t, err)

	triples, err := g.Triples(Selection{{Lo: 0, Hi: 20}, {Lo: 0, Hi: 20}})
	require.NoError(t, err)
	require.Len(t, triples, 4)

	keys := make(map[string]bool)
	for _, tr := range triples {
		keys[tr.ChunkKey] = true
		require.True(t, tr.FullCoverage(g.ChunkShape()))
	}
	for _, want := range []string{"0.0", "0.1", "1.0", "1.1"} {
		require.True(t, keys[want], "missing chunk key %q", want)
	}
}

func TestChunkGrid_Triples_PartialChunkRegions(t *testing.T) {
	g, err := NewChunkGrid([]int{20, 20}, []int{10, 10})
	require.NoError(t, err)

	triples, err := g.Triples(Selection{{Lo: 5, Hi: 15}, {Lo: 5, Hi: 15}})
	require.NoError(t, err)
	require.Len(t, triples, 4)

	for _, tr := range triples {
		require.False(t, tr.FullCoverage(g.ChunkShape()))
		for d := range tr.ChunkRegion {
			require.Equal(t, tr.ChunkRegion[d].size(), tr.OutRegion[d].size())
		}
	}
}

func TestChunkGrid_Triples_EmptySelectionYieldsNoChunks(t *testing.T) {
	g, err := NewChunkGrid([]int{20, 20}, []int{10, 10})
	require.NoError(t, err)

	triples, err := g.Triples(Selection{{Lo: 0, Hi: 0}, {Lo: 0, Hi: 20}})
	require.NoError(t, err)
	require.Nil(t, triples)
}

func TestChunkGrid_Triples_ZeroDimensional(t *testing.T) {
	g, err := NewChunkGrid([]int{}, []int{})
	require.NoError(t, err)

	triples, err := g.Triples(Selection{})
	require.NoError(t, err)
	require.Len(t, triples, 1)
	require.Equal(t, "0", triples[0].ChunkKey)
	require.Empty(t, triples[0].ChunkRegion)
	require.Empty(t, triples[0].OutRegion)
}

func TestCopyRegion_RowMajorSubBlock(t *testing.T) {
	// 4x4 grid of int32 (itemSize 4), row-major. Copy the 2x2 sub-block at
	// (1,1)-(3,3) out of src into a freshly zeroed 2x2 dst.
	const itemSize = 4
	src := make([]byte, 4*4*itemSize)
	for i := 0; i < 16; i++ {
		src[i*itemSize] = byte(i)
	}

	dst := make([]byte, 2*2*itemSize)
	srcRegion := Region{{Lo: 1, Hi: 3}, {Lo: 1, Hi: 3}}
	dstRegion := Region{{Lo: 0, Hi: 2}, {Lo: 0, Hi: 2}}

	err := CopyRegion(dst, []int{2, 2}, dstRegion, src, []int{4, 4}, srcRegion, itemSize, OrderRowMajor)
	require.NoError(t, err)

	// src element (1,1) -> index 5, (1,2) -> 6, (2,1) -> 9, (2,2) -> 10
	require.Equal(t, byte(5), dst[0])
	require.Equal(t, byte(6), dst[itemSize])
	require.Equal(t, byte(9), dst[2*itemSize])
	require.Equal(t, byte(10), dst[3*itemSize])
}

func TestCopyRegion_RejectsMismatchedExtents(t *testing.T) {
	dst := make([]byte, 16)
	src := make([]byte, 16)
	err := CopyRegion(dst, []int{2, 2}, Region{{Lo: 0, Hi: 2}, {Lo: 0, Hi: 1}}, src, []int{2, 2}, Region{{Lo: 0, Hi: 2}, {Lo: 0, Hi: 2}}, 4, OrderRowMajor)
	require.Error(t, err)
	require.True(t, Is(err, KindShapeMismatch))
}

func TestCopyRegion_ZeroDimensionalIsPlainCopy(t *testing.T) {
	dst := make([]byte, 4)
	src := []byte{1, 2, 3, 4}
	err := CopyRegion(dst, []int{}, Region{}, src, []int{}, Region{}, 4, OrderRowMajor)
	require.NoError(t, err)
	require.Equal(t, src, dst)
}

func TestStrides_RowMajorVsColumnMajor(t *testing.T) {
	require.Equal(t, []int{20, 1}, strides([]int{5, 20}, OrderRowMajor))
	require.Equal(t, []int{1, 5}, strides([]int{5, 20}, OrderColumnMajor))
	require.Equal(t, []int{}, strides(nil, OrderRowMajor))
}
