package zarr

import (
	"context"
	"strings"

	"github.com/scigolib/zarr/internal/core"
	"github.com/scigolib/zarr/store"
)

// Group is a handle on a node in the path hierarchy that carries only a
// format marker and attributes.
type Group struct {
	store store.Store
	path  string
}

// Path returns the group's canonical logical path ("" at root).
func (g *Group) Path() string { return g.path }

// CreateGroup writes ".zgroup" at path, creating any missing ancestor
// groups.
func CreateGroup(ctx context.Context, st store.Store, path string, opts ...CreateOption) (*Group, error) {
	const op = "zarr.CreateGroup"

	canonical, err := core.Normalize(path)
	if err != nil {
		return nil, err
	}

	cfg := resolveCreateConfig(opts)
	if err := ensureAncestors(ctx, st, canonical); err != nil {
		return nil, err
	}
	if err := prepareNodeSlot(ctx, st, canonical, cfg.overwrite); err != nil {
		return nil, err
	}

	meta := &core.GroupMetadata{ZarrFormat: core.ZarrFormatVersion}
	encoded, err := meta.Encode()
	if err != nil {
		return nil, err
	}
	if err := st.Set(ctx, core.JoinKey(canonical, ".zgroup"), encoded); err != nil {
		return nil, core.WrapError(op, core.KindStoreError, err)
	}

	attrsEncoded, err := core.EncodeAttributes(nil)
	if err != nil {
		return nil, err
	}
	if err := st.Set(ctx, core.JoinKey(canonical, ".zattrs"), attrsEncoded); err != nil {
		return nil, core.WrapError(op, core.KindStoreError, err)
	}

	return &Group{store: st, path: canonical}, nil
}

// OpenGroup loads an existing group at path.
func OpenGroup(ctx context.Context, st store.Store, path string) (*Group, error) {
	const op = "zarr.OpenGroup"

	canonical, err := core.Normalize(path)
	if err != nil {
		return nil, err
	}

	raw, err := st.Get(ctx, core.JoinKey(canonical, ".zgroup"))
	if err != nil {
		if err == store.ErrNotFound {
			return nil, core.NewError(op, core.KindInvalidPath, "no group at path: "+path)
		}
		return nil, core.WrapError(op, core.KindStoreError, err)
	}
	if _, err := core.ParseGroupMetadata(raw); err != nil {
		return nil, err
	}

	return &Group{store: st, path: canonical}, nil
}

// MemberKind distinguishes a group's child nodes.
type MemberKind int

// The two kinds of hierarchy node.
const (
	MemberGroup MemberKind = iota
	MemberArray
)

// Member is one direct child of a group, as returned by ListMembers.
type Member struct {
	Name string
	Kind MemberKind
}

// ListMembers scans for immediate children of g: keys matching
// "<child>/.zgroup" or "<child>/.zarray" directly beneath g's prefix.
func (g *Group) ListMembers(ctx context.Context) ([]Member, error) {
	const op = "zarr.Group.ListMembers"

	prefix := core.KeyPrefix(g.path)
	keys, err := g.store.ListPrefix(ctx, prefix)
	if err != nil {
		return nil, core.WrapError(op, core.KindStoreError, err)
	}

	seen := make(map[string]MemberKind)
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue // doesn't actually share the prefix; defensive.
		}
		rest := key[len(prefix):]

		var name string
		var kind MemberKind
		switch {
		case strings.HasSuffix(rest, "/.zgroup"):
			name = strings.TrimSuffix(rest, "/.zgroup")
			kind = MemberGroup
		case strings.HasSuffix(rest, "/.zarray"):
			name = strings.TrimSuffix(rest, "/.zarray")
			kind = MemberArray
		default:
			continue
		}

		if name == "" || strings.Contains(name, "/") {
			continue // not a direct child.
		}
		seen[name] = kind
	}

	members := make([]Member, 0, len(seen))
	for name, kind := range seen {
		members = append(members, Member{Name: name, Kind: kind})
	}
	return members, nil
}

// ensureAncestors writes ".zgroup" at every proper ancestor of canonical,
// the root included, not already present, failing with PATH_CONFLICT if
// an ancestor is already an array ("an existing .zarray ancestor is an
// error because arrays cannot contain other nodes").
func ensureAncestors(ctx context.Context, st store.Store, canonical string) error {
	const op = "zarr.ensureAncestors"

	ancestors := core.Ancestors(canonical)
	if canonical != "" {
		ancestors = append([]string{""}, ancestors...)
	}
	for _, ancestor := range ancestors {
		isArray, err := st.Contains(ctx, core.JoinKey(ancestor, ".zarray"))
		if err != nil {
			return core.WrapError(op, core.KindStoreError, err)
		}
		if isArray {
			return core.NewError(op, core.KindPathConflict, "ancestor path is an array: "+ancestor)
		}

		isGroup, err := st.Contains(ctx, core.JoinKey(ancestor, ".zgroup"))
		if err != nil {
			return core.WrapError(op, core.KindStoreError, err)
		}
		if isGroup {
			continue
		}

		meta := &core.GroupMetadata{ZarrFormat: core.ZarrFormatVersion}
		encoded, err := meta.Encode()
		if err != nil {
			return err
		}
		if err := st.Set(ctx, core.JoinKey(ancestor, ".zgroup"), encoded); err != nil {
			return core.WrapError(op, core.KindStoreError, err)
		}
	}
	return nil
}

// prepareNodeSlot checks whether canonical is already occupied by a
// group or array. With overwrite, it deletes every key under the node's
// prefix plus its own metadata keys before returning nil. Without
// overwrite, occupancy fails with PATH_EXISTS.
func prepareNodeSlot(ctx context.Context, st store.Store, canonical string, overwrite bool) error {
	const op = "zarr.prepareNodeSlot"

	hasGroup, err := st.Contains(ctx, core.JoinKey(canonical, ".zgroup"))
	if err != nil {
		return core.WrapError(op, core.KindStoreError, err)
	}
	hasArray, err := st.Contains(ctx, core.JoinKey(canonical, ".zarray"))
	if err != nil {
		return core.WrapError(op, core.KindStoreError, err)
	}

	if !hasGroup && !hasArray {
		return nil
	}
	if !overwrite {
		return core.NewError(op, core.KindPathExists, "path already exists: "+canonical)
	}

	// Overwrite: enumerate and delete everything under the node's
	// prefix, plus its own metadata keys. O(chunks), non-atomic.
	prefix := core.KeyPrefix(canonical)
	keys, err := st.ListPrefix(ctx, prefix)
	if err != nil {
		return core.WrapError(op, core.KindStoreError, err)
	}
	for _, key := range keys {
		if _, err := st.Delete(ctx, key); err != nil {
			return core.WrapError(op, core.KindStoreError, err)
		}
	}
	for _, suffix := range []string{".zgroup", ".zarray", ".zattrs"} {
		if _, err := st.Delete(ctx, core.JoinKey(canonical, suffix)); err != nil {
			return core.WrapError(op, core.KindStoreError, err)
		}
	}
	return nil
}
