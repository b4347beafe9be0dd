package zarr

import "github.com/scigolib/zarr/internal/core"

// Range, Selection, IndexTriple, Order, Dtype and ErrorKind are
// re-exported as aliases of their internal/core counterparts so callers
// outside this module can build selections, inspect dtypes, and branch
// on error class for Array.Read/Write without reaching into an internal
// package.
type (
	Range       = core.Range
	Selection   = core.Selection
	IndexTriple = core.IndexTriple
	Order       = core.Order
	Dtype       = core.Dtype
	ErrorKind   = core.Kind
)

// The two legal Order values.
const (
	RowMajor    = core.OrderRowMajor
	ColumnMajor = core.OrderColumnMajor
)

// Error kind constants covering the taxonomy Array and Group operations
// can return.
const (
	KindInvalidPath     = core.KindInvalidPath
	KindInvalidMetadata = core.KindInvalidMetadata
	KindPathExists      = core.KindPathExists
	KindPathConflict    = core.KindPathConflict
	KindOutOfBounds     = core.KindOutOfBounds
	KindShapeMismatch   = core.KindShapeMismatch
	KindCodecError      = core.KindCodecError
	KindStoreError      = core.KindStoreError
)

// ErrorKindOf extracts the ErrorKind from err, if it (or something it
// wraps) carries one.
func ErrorKindOf(err error) (ErrorKind, bool) {
	return core.KindOf(err)
}
