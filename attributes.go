package zarr

import (
	"context"

	"github.com/scigolib/zarr/internal/core"
	"github.com/scigolib/zarr/store"
)

// Attributes reads the JSON object bound to g via its sibling ".zattrs"
// key, returning an empty object if none was ever written.
func (g *Group) Attributes(ctx context.Context) (map[string]any, error) {
	return readAttributes(ctx, g.store, g.path)
}

// SetAttributes replaces g's ".zattrs" document wholesale: last writer
// wins, there is no merge with the previous contents.
func (g *Group) SetAttributes(ctx context.Context, attrs map[string]any) error {
	return writeAttributes(ctx, g.store, g.path, attrs)
}

// Attributes reads the JSON object bound to a via its sibling ".zattrs"
// key.
func (a *Array) Attributes(ctx context.Context) (map[string]any, error) {
	return readAttributes(ctx, a.store, a.path)
}

// SetAttributes replaces a's ".zattrs" document wholesale.
func (a *Array) SetAttributes(ctx context.Context, attrs map[string]any) error {
	return writeAttributes(ctx, a.store, a.path, attrs)
}

func readAttributes(ctx context.Context, st store.Store, canonical string) (map[string]any, error) {
	const op = "zarr.Attributes"

	raw, err := st.Get(ctx, core.JoinKey(canonical, ".zattrs"))
	if err != nil {
		if err == store.ErrNotFound {
			return map[string]any{}, nil
		}
		return nil, core.WrapError(op, core.KindStoreError, err)
	}
	return core.ParseAttributes(raw)
}

func writeAttributes(ctx context.Context, st store.Store, canonical string, attrs map[string]any) error {
	const op = "zarr.SetAttributes"

	encoded, err := core.EncodeAttributes(attrs)
	if err != nil {
		return err
	}
	if err := st.Set(ctx, core.JoinKey(canonical, ".zattrs"), encoded); err != nil {
		return core.WrapError(op, core.KindStoreError, err)
	}
	return nil
}
