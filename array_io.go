package zarr

import (
	"context"

	"github.com/scigolib/zarr/internal/codec"
	"github.com/scigolib/zarr/internal/core"
	"github.com/scigolib/zarr/store"
)

func (a *Array) chunkElems() int {
	n, _ := core.ProdInts(a.meta.Chunks)
	return n
}

func (a *Array) chunkByteSize() int {
	return a.chunkElems() * a.meta.Dtype.ItemSize()
}

func (a *Array) checkBufferSize(op string, sel core.Selection, buf []byte) error {
	wantElems := sel.Size()
	wantBytes := wantElems * a.meta.Dtype.ItemSize()
	if len(buf) != wantBytes {
		return core.NewError(op, core.KindShapeMismatch,
			"buffer size does not match selection element count times item size")
	}
	return nil
}

func (a *Array) chunkKey(triple core.IndexTriple) string {
	return core.JoinKey(a.path, triple.ChunkKey)
}

// Read fills out with the contents of the selection sel, synthesizing
// fill values for uninitialized chunks.
func (a *Array) Read(ctx context.Context, sel core.Selection, out []byte) error {
	const op = "zarr.Array.Read"

	if err := a.checkBufferSize(op, sel, out); err != nil {
		return err
	}

	triples, err := a.grid.Triples(sel)
	if err != nil {
		return err
	}

	itemSize := a.meta.Dtype.ItemSize()
	for _, triple := range triples {
		if err := a.readOneChunk(ctx, triple, sel, out, itemSize); err != nil {
			return err
		}
	}
	return nil
}

func (a *Array) readOneChunk(ctx context.Context, triple core.IndexTriple, sel core.Selection, out []byte, itemSize int) error {
	const op = "zarr.Array.Read"

	raw, err := a.store.Get(ctx, a.chunkKey(triple))
	if err != nil {
		if err == store.ErrNotFound {
			return a.fillIntoOut(triple, sel, out, itemSize)
		}
		return core.WrapError(op, core.KindStoreError, err)
	}

	decoded, err := codec.Decode(a.meta.Compression, raw, a.meta.CompressionOpts, a.chunkByteSize())
	if err != nil {
		return err
	}

	selShape := selectionShape(sel)
	return core.CopyRegion(out, selShape, triple.OutRegion, decoded, a.meta.Chunks, triple.ChunkRegion, itemSize, a.meta.Order)
}

func (a *Array) fillIntoOut(triple core.IndexTriple, sel core.Selection, out []byte, itemSize int) error {
	const op = "zarr.Array.Read"

	tiled, err := core.TileFillValue(a.meta.Dtype, a.meta.FillValue, a.chunkElems())
	if err != nil {
		return err
	}

	selShape := selectionShape(sel)
	if err := core.CopyRegion(out, selShape, triple.OutRegion, tiled, a.meta.Chunks, triple.ChunkRegion, itemSize, a.meta.Order); err != nil {
		return core.WrapError(op, core.KindShapeMismatch, err)
	}
	return nil
}

// Write stores src into the selection sel: full-coverage
// chunks are encoded directly from src; partial chunks go through
// read-modify-write against the existing (or fill-initialized) chunk.
func (a *Array) Write(ctx context.Context, sel core.Selection, src []byte) error {
	const op = "zarr.Array.Write"

	if err := a.checkBufferSize(op, sel, src); err != nil {
		return err
	}

	triples, err := a.grid.Triples(sel)
	if err != nil {
		return err
	}

	itemSize := a.meta.Dtype.ItemSize()
	selShape := selectionShape(sel)
	for _, triple := range triples {
		if err := a.writeOneChunk(ctx, triple, selShape, src, itemSize); err != nil {
			return err
		}
	}
	return nil
}

func (a *Array) writeOneChunk(ctx context.Context, triple core.IndexTriple, selShape []int, src []byte, itemSize int) error {
	const op = "zarr.Array.Write"

	var working []byte
	if triple.FullCoverage(a.meta.Chunks) {
		working = make([]byte, a.chunkByteSize())
		if err := core.CopyRegion(working, a.meta.Chunks, triple.ChunkRegion, src, selShape, triple.OutRegion, itemSize, a.meta.Order); err != nil {
			return err
		}
	} else {
		existing, err := a.loadOrFillChunk(ctx, triple)
		if err != nil {
			return err
		}
		working = existing
		if err := core.CopyRegion(working, a.meta.Chunks, triple.ChunkRegion, src, selShape, triple.OutRegion, itemSize, a.meta.Order); err != nil {
			return err
		}
	}

	isFill, err := core.IsFillBuffer(a.meta.Dtype, a.meta.FillValue, working)
	if err != nil {
		return err
	}
	if isFill {
		if _, err := a.store.Delete(ctx, a.chunkKey(triple)); err != nil {
			return core.WrapError(op, core.KindStoreError, err)
		}
		return nil
	}

	encoded, err := codec.Encode(a.meta.Compression, working, a.meta.CompressionOpts)
	if err != nil {
		return err
	}
	if err := a.store.Set(ctx, a.chunkKey(triple), encoded); err != nil {
		return core.WrapError(op, core.KindStoreError, err)
	}
	return nil
}

func (a *Array) loadOrFillChunk(ctx context.Context, triple core.IndexTriple) ([]byte, error) {
	const op = "zarr.Array.Write"

	raw, err := a.store.Get(ctx, a.chunkKey(triple))
	if err != nil {
		if err == store.ErrNotFound {
			return core.TileFillValue(a.meta.Dtype, a.meta.FillValue, a.chunkElems())
		}
		return nil, core.WrapError(op, core.KindStoreError, err)
	}
	return codec.Decode(a.meta.Compression, raw, a.meta.CompressionOpts, a.chunkByteSize())
}

func selectionShape(sel core.Selection) []int {
	shape := make([]int, len(sel))
	for i, r := range sel {
		shape[i] = r.Hi - r.Lo
	}
	return shape
}
