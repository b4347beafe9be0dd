package zarr

import (
	"context"
	"encoding/binary"
	"math"
	"testing"

	"github.com/scigolib/zarr/internal/core"
	"github.com/scigolib/zarr/store"
	"github.com/stretchr/testify/require"
)

// TestIntegration_HierarchyAndArrayLifecycle exercises a small tree of
// groups and arrays end to end: implicit ancestor creation, attribute
// round-tripping, chunked I/O with a real codec, and member listing.
func TestIntegration_HierarchyAndArrayLifecycle(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	root, err := CreateGroup(ctx, st, "")
	require.NoError(t, err)
	require.NoError(t, root.SetAttributes(ctx, map[string]any{"project": "weather"}))

	arr, err := CreateArray(ctx, st, "readings/surface", ArraySpec{
		Shape: []int{4, 4}, Chunks: []int{2, 2}, Dtype: "<i4",
		Compression: "gzip", FillValue: float64(-1),
	})
	require.NoError(t, err)

	src := int32Bytes(1, 2, 3, 4)
	require.NoError(t, arr.Write(ctx, Selection{{Lo: 0, Hi: 2}, {Lo: 0, Hi: 2}}, src))

	out := make([]byte, 4*4*4)
	require.NoError(t, arr.Read(ctx, Selection{{Lo: 0, Hi: 4}, {Lo: 0, Hi: 4}}, out))
	require.Equal(t, int32(1), int32At(out, 0))
	require.Equal(t, int32(-1), int32At(out, 3*4+3))

	readingsGroup, err := OpenGroup(ctx, st, "readings")
	require.NoError(t, err)
	members, err := readingsGroup.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, "surface", members[0].Name)
	require.Equal(t, MemberArray, members[0].Kind)

	rootAttrs, err := root.Attributes(ctx)
	require.NoError(t, err)
	require.Equal(t, "weather", rootAttrs["project"])
}

func int32At(buf []byte, elemIdx int) int32 {
	return int32(binary.LittleEndian.Uint32(buf[elemIdx*4:]))
}

func TestIntegration_PathNormalizationTable(t *testing.T) {
	cases := []struct {
		raw       string
		canonical string
	}{
		{"", ""},
		{"a", "a"},
		{`a\b`, "a/b"},
		{"a//b///c", "a/b/c"},
		{"/a/b/", "a/b"},
	}
	for _, tc := range cases {
		got, err := core.Normalize(tc.raw)
		require.NoError(t, err, tc.raw)
		require.Equal(t, tc.canonical, got, tc.raw)
	}
}

func TestIntegration_StructuredDtypeArray(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	arr, err := CreateArray(ctx, st, "points", ArraySpec{
		Shape: []int{2}, Chunks: []int{2}, Dtype: `[["x","<f4"],["y","<f4"]]`,
	})
	require.NoError(t, err)
	require.True(t, arr.Dtype().IsStructured())
	require.Equal(t, 8, arr.Dtype().ItemSize())

	buf := make([]byte, 2*8)
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(1.5))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(2.5))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(3.5))
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(4.5))

	require.NoError(t, arr.Write(ctx, Selection{{Lo: 0, Hi: 2}}, buf))

	out := make([]byte, 2*8)
	require.NoError(t, arr.Read(ctx, Selection{{Lo: 0, Hi: 2}}, out))
	require.Equal(t, buf, out)
}
