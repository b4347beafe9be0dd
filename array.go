// Package zarr implements a chunked N-dimensional array store whose
// on-disk representation follows the Zarr v2 format: JSON metadata
// documents plus compressed chunk payloads over a pluggable key/value
// Store.
package zarr

import (
	"context"

	"github.com/scigolib/zarr/internal/codec"
	"github.com/scigolib/zarr/internal/core"
	"github.com/scigolib/zarr/store"
)

// validateCompression looks up the named codec and validates its options
// at array create/open time, so a bad configuration fails before any
// chunk is touched. codec.Encode checks the options again on each call.
func validateCompression(meta *core.ArrayMetadata) error {
	c, err := codec.Lookup(meta.Compression)
	if err != nil {
		return err
	}
	if c.ValidateOpts != nil {
		if err := c.ValidateOpts(meta.CompressionOpts); err != nil {
			return core.WrapError("zarr.validateCompression", core.KindInvalidMetadata, err)
		}
	}
	return nil
}

// ArraySpec bundles the parameters needed to create a new array.
type ArraySpec struct {
	Shape           []int
	Chunks          []int
	Dtype           string
	Order           core.Order
	Compression     string
	CompressionOpts map[string]any
	FillValue       any
}

// createConfig accumulates CreateOption settings.
type createConfig struct {
	overwrite bool
}

// CreateOption configures CreateArray/CreateGroup.
type CreateOption func(*createConfig)

// WithOverwrite requests that an existing node at the target path (and
// everything beneath it) be deleted before the new node is written.
func WithOverwrite() CreateOption {
	return func(c *createConfig) { c.overwrite = true }
}

func resolveCreateConfig(opts []CreateOption) createConfig {
	var c createConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Array is a handle on a chunked array at a fixed logical path.
type Array struct {
	store store.Store
	path  string // canonical path; "" at root
	meta  *core.ArrayMetadata
	grid  *core.ChunkGrid
}

// Path returns the array's canonical logical path.
func (a *Array) Path() string { return a.path }

// Shape returns the array's declared shape.
func (a *Array) Shape() []int { return a.meta.Shape }

// Chunks returns the array's declared chunk shape.
func (a *Array) Chunks() []int { return a.meta.Chunks }

// Dtype returns the array's dtype descriptor.
func (a *Array) Dtype() core.Dtype { return a.meta.Dtype }

// CreateArray writes a new array's metadata (and an empty attributes
// document) at path, creating any missing ancestor groups along the
// way.
func CreateArray(ctx context.Context, st store.Store, path string, spec ArraySpec, opts ...CreateOption) (*Array, error) {
	const op = "zarr.CreateArray"

	canonical, err := core.Normalize(path)
	if err != nil {
		return nil, err
	}

	dt, err := core.ParseDtypeString(spec.Dtype)
	if err != nil {
		return nil, err
	}

	order := spec.Order
	if order == "" {
		order = core.OrderRowMajor
	}

	meta := &core.ArrayMetadata{
		Shape:           spec.Shape,
		Chunks:          spec.Chunks,
		Dtype:           dt,
		Compression:     spec.Compression,
		CompressionOpts: spec.CompressionOpts,
		FillValue:       spec.FillValue,
		Order:           order,
	}

	grid, err := core.NewChunkGrid(meta.Shape, meta.Chunks)
	if err != nil {
		return nil, err
	}

	if err := validateCompression(meta); err != nil {
		return nil, err
	}

	cfg := resolveCreateConfig(opts)
	if err := ensureAncestors(ctx, st, canonical); err != nil {
		return nil, err
	}
	if err := prepareNodeSlot(ctx, st, canonical, cfg.overwrite); err != nil {
		return nil, err
	}

	encoded, err := meta.Encode()
	if err != nil {
		return nil, err
	}
	if err := st.Set(ctx, core.JoinKey(canonical, ".zarray"), encoded); err != nil {
		return nil, core.WrapError(op, core.KindStoreError, err)
	}

	attrsEncoded, err := core.EncodeAttributes(nil)
	if err != nil {
		return nil, err
	}
	if err := st.Set(ctx, core.JoinKey(canonical, ".zattrs"), attrsEncoded); err != nil {
		return nil, core.WrapError(op, core.KindStoreError, err)
	}

	return &Array{store: st, path: canonical, meta: meta, grid: grid}, nil
}

// OpenArray loads an existing array's metadata from path.
func OpenArray(ctx context.Context, st store.Store, path string) (*Array, error) {
	const op = "zarr.OpenArray"

	canonical, err := core.Normalize(path)
	if err != nil {
		return nil, err
	}

	raw, err := st.Get(ctx, core.JoinKey(canonical, ".zarray"))
	if err != nil {
		if err == store.ErrNotFound {
			return nil, core.NewError(op, core.KindInvalidPath, "no array at path: "+path)
		}
		return nil, core.WrapError(op, core.KindStoreError, err)
	}

	meta, err := core.ParseArrayMetadata(raw)
	if err != nil {
		return nil, err
	}

	grid, err := core.NewChunkGrid(meta.Shape, meta.Chunks)
	if err != nil {
		return nil, err
	}

	if err := validateCompression(meta); err != nil {
		return nil, err
	}

	return &Array{store: st, path: canonical, meta: meta, grid: grid}, nil
}
