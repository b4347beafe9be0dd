// Package codec implements a pluggable compressor registry: each codec is
// a capability record, not a type hierarchy. The registry adds no framing,
// length prefix or checksum of its own beyond what each compressor's
// format emits, and the array engine stores the codec output as is.
package codec

import (
	"fmt"
	"sort"
	"sync"

	"github.com/scigolib/zarr/internal/core"
)

// Codec is one compressor's capability record.
type Codec struct {
	Name string

	// Encode compresses src with the given options.
	Encode func(src []byte, opts map[string]any) ([]byte, error)

	// Decode decompresses src, given the exact decoded size the caller
	// expects (every chunk's decoded size is known up front from its
	// dtype and chunk shape, so no codec needs to discover it).
	Decode func(src []byte, opts map[string]any, decodedSize int) ([]byte, error)

	// ValidateOpts rejects malformed compression_opts before Encode ever
	// runs. A nil ValidateOpts means the codec takes no options.
	ValidateOpts func(opts map[string]any) error
}

var (
	registryMu sync.RWMutex
	registry   = map[string]*Codec{}
)

// Register adds a codec to the registry. Re-registering an existing name
// replaces it, which lets tests install fakes.
func Register(c *Codec) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[c.Name] = c
}

// Lookup returns the codec registered under name.
func Lookup(name string) (*Codec, error) {
	const op = "codec.Lookup"

	if name == "" || name == core.CompressionNone {
		return noneCodec, nil
	}

	registryMu.RLock()
	c, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, core.NewError(op, core.KindCodecError, fmt.Sprintf("unknown codec %q", name))
	}
	return c, nil
}

// Names returns the sorted list of registered codec names, for
// diagnostics and tests.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Encode looks up name and compresses src, validating opts first.
func Encode(name string, src []byte, opts map[string]any) ([]byte, error) {
	c, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if c.ValidateOpts != nil {
		if err := c.ValidateOpts(opts); err != nil {
			return nil, core.WrapError("codec.Encode", core.KindInvalidMetadata, err)
		}
	}
	out, err := c.Encode(src, opts)
	if err != nil {
		return nil, core.WrapError("codec.Encode["+name+"]", core.KindCodecError, err)
	}
	return out, nil
}

// Decode looks up name and decompresses src into decodedSize bytes.
func Decode(name string, src []byte, opts map[string]any, decodedSize int) ([]byte, error) {
	c, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	out, err := c.Decode(src, opts, decodedSize)
	if err != nil {
		return nil, core.WrapError("codec.Decode["+name+"]", core.KindCodecError, err)
	}
	if len(out) != decodedSize {
		return nil, core.NewError("codec.Decode["+name+"]", core.KindCodecError,
			fmt.Sprintf("decoded %d bytes, expected %d", len(out), decodedSize))
	}
	return out, nil
}
