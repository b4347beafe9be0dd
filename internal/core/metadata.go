package core

import (
	"encoding/json"
	"fmt"
	"sort"

	canonicaljson "github.com/gibson042/canonicaljson-go"
)

// Order is the in-chunk element layout.
type Order string

// The only two legal Order values.
const (
	OrderRowMajor    Order = "C"
	OrderColumnMajor Order = "F"
)

// CompressionNone is the reserved codec name meaning "no compression",
// wire-encoded as JSON null.
const CompressionNone = "NONE"

// ZarrFormatVersion is the only supported value of the "zarr_format" key.
const ZarrFormatVersion = 2

// ArrayMetadata is the decoded ".zarray" document. Its JSON form has
// EXACTLY eight keys; anything missing or extra is KindInvalidMetadata.
type ArrayMetadata struct {
	Shape           []int
	Chunks          []int
	Dtype           Dtype
	Compression     string // CompressionNone for no compression.
	CompressionOpts map[string]any
	FillValue       any // nil means UNDEFINED.
	Order           Order
}

type arrayMetadataWire struct {
	ZarrFormat      int             `json:"zarr_format"`
	Shape           []int           `json:"shape"`
	Chunks          []int           `json:"chunks"`
	Dtype           json.RawMessage `json:"dtype"`
	Compression     json.RawMessage `json:"compression"`
	CompressionOpts json.RawMessage `json:"compression_opts"`
	FillValue       json.RawMessage `json:"fill_value"`
	Order           string          `json:"order"`
}

var arrayMetadataKeys = []string{
	"zarr_format", "shape", "chunks", "dtype",
	"compression", "compression_opts", "fill_value", "order",
}

// ParseArrayMetadata decodes a ".zarray" document, enforcing the exact
// key set and zarr_format/order constraints.
func ParseArrayMetadata(raw []byte) (*ArrayMetadata, error) {
	const op = "core.ParseArrayMetadata"

	if err := requireExactKeys(op, raw, arrayMetadataKeys); err != nil {
		return nil, err
	}

	var wire arrayMetadataWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, WrapError(op, KindInvalidMetadata, err)
	}

	if wire.ZarrFormat != ZarrFormatVersion {
		return nil, NewError(op, KindInvalidMetadata, fmt.Sprintf("unsupported zarr_format %d", wire.ZarrFormat))
	}

	order := Order(wire.Order)
	if order != OrderRowMajor && order != OrderColumnMajor {
		return nil, NewError(op, KindInvalidMetadata, "order must be \"C\" or \"F\"")
	}

	if len(wire.Shape) != len(wire.Chunks) {
		if !(len(wire.Shape) == 0 && len(wire.Chunks) == 0) {
			return nil, NewError(op, KindInvalidMetadata, "shape and chunks must have the same length")
		}
	}
	for i, c := range wire.Chunks {
		if c <= 0 {
			return nil, NewError(op, KindInvalidMetadata, fmt.Sprintf("chunk dimension %d must be positive", i))
		}
	}

	dt, err := ParseDtype(wire.Dtype)
	if err != nil {
		return nil, err
	}

	compression, err := parseCompressionName(op, wire.Compression)
	if err != nil {
		return nil, err
	}

	var opts map[string]any
	if len(wire.CompressionOpts) > 0 && string(wire.CompressionOpts) != "null" {
		if err := json.Unmarshal(wire.CompressionOpts, &opts); err != nil {
			return nil, WrapError(op, KindInvalidMetadata, err)
		}
	}

	fillValue, err := DecodeFillValue(dt, wire.FillValue)
	if err != nil {
		return nil, err
	}

	return &ArrayMetadata{
		Shape:           wire.Shape,
		Chunks:          wire.Chunks,
		Dtype:           dt,
		Compression:     compression,
		CompressionOpts: opts,
		FillValue:       fillValue,
		Order:           order,
	}, nil
}

func parseCompressionName(op string, raw json.RawMessage) (string, error) {
	trimmed := trimSpaceBytes(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return CompressionNone, nil
	}
	var name string
	if err := json.Unmarshal(trimmed, &name); err != nil {
		return "", WrapError(op, KindInvalidMetadata, err)
	}
	if name == "" {
		return CompressionNone, nil
	}
	return name, nil
}

// Encode serializes the document in the canonical form mandated by
// sorted keys, two-space indent, via canonicaljson-go.
func (m *ArrayMetadata) Encode() ([]byte, error) {
	const op = "core.ArrayMetadata.Encode"

	dtypeJSON, err := m.Dtype.MarshalJSON()
	if err != nil {
		return nil, WrapError(op, KindInvalidMetadata, err)
	}

	var compressionJSON json.RawMessage
	if m.Compression == "" || m.Compression == CompressionNone {
		compressionJSON = json.RawMessage("null")
	} else {
		b, mErr := json.Marshal(m.Compression)
		if mErr != nil {
			return nil, WrapError(op, KindInvalidMetadata, mErr)
		}
		compressionJSON = b
	}

	var optsJSON json.RawMessage
	if len(m.CompressionOpts) == 0 {
		optsJSON = json.RawMessage("null")
	} else {
		b, mErr := json.Marshal(m.CompressionOpts)
		if mErr != nil {
			return nil, WrapError(op, KindInvalidMetadata, mErr)
		}
		optsJSON = b
	}

	fillJSON, err := EncodeFillValue(m.Dtype, m.FillValue)
	if err != nil {
		return nil, err
	}

	doc := map[string]json.RawMessage{
		"zarr_format":      json.RawMessage("2"),
		"shape":            mustMarshal(m.Shape),
		"chunks":           mustMarshal(m.Chunks),
		"dtype":            dtypeJSON,
		"compression":      compressionJSON,
		"compression_opts": optsJSON,
		"fill_value":       fillJSON,
		"order":            mustMarshal(string(m.Order)),
	}

	out, err := canonicaljson.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, WrapError(op, KindInvalidMetadata, err)
	}
	return out, nil
}

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err) // v is always a plain []int or string here.
	}
	return b
}

// GroupMetadata is the decoded ".zgroup" document: just a format marker.
type GroupMetadata struct {
	ZarrFormat int
}

// ParseGroupMetadata decodes a ".zgroup" document.
func ParseGroupMetadata(raw []byte) (*GroupMetadata, error) {
	const op = "core.ParseGroupMetadata"

	if err := requireExactKeys(op, raw, []string{"zarr_format"}); err != nil {
		return nil, err
	}

	var wire struct {
		ZarrFormat int `json:"zarr_format"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, WrapError(op, KindInvalidMetadata, err)
	}
	if wire.ZarrFormat != ZarrFormatVersion {
		return nil, NewError(op, KindInvalidMetadata, fmt.Sprintf("unsupported zarr_format %d", wire.ZarrFormat))
	}
	return &GroupMetadata{ZarrFormat: wire.ZarrFormat}, nil
}

// Encode serializes the ".zgroup" document canonically.
func (g *GroupMetadata) Encode() ([]byte, error) {
	out, err := canonicaljson.MarshalIndent(map[string]int{"zarr_format": ZarrFormatVersion}, "", "  ")
	if err != nil {
		return nil, WrapError("core.GroupMetadata.Encode", KindInvalidMetadata, err)
	}
	return out, nil
}

// ParseAttributes decodes a ".zattrs" document: any JSON object.
func ParseAttributes(raw []byte) (map[string]any, error) {
	const op = "core.ParseAttributes"
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var attrs map[string]any
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil, WrapError(op, KindInvalidMetadata, err)
	}
	if attrs == nil {
		attrs = map[string]any{}
	}
	return attrs, nil
}

// EncodeAttributes serializes a ".zattrs" document canonically.
func EncodeAttributes(attrs map[string]any) ([]byte, error) {
	if attrs == nil {
		attrs = map[string]any{}
	}
	out, err := canonicaljson.MarshalIndent(attrs, "", "  ")
	if err != nil {
		return nil, WrapError("core.EncodeAttributes", KindInvalidMetadata, err)
	}
	return out, nil
}

// requireExactKeys fails with KindInvalidMetadata unless raw is a JSON
// object whose key set is exactly wanted, no more and no fewer.
func requireExactKeys(op string, raw []byte, wanted []string) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return WrapError(op, KindInvalidMetadata, err)
	}

	want := make(map[string]struct{}, len(wanted))
	for _, k := range wanted {
		want[k] = struct{}{}
	}

	var missing, extra []string
	for _, k := range wanted {
		if _, ok := obj[k]; !ok {
			missing = append(missing, k)
		}
	}
	for k := range obj {
		if _, ok := want[k]; !ok {
			extra = append(extra, k)
		}
	}

	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	sort.Strings(missing)
	sort.Strings(extra)
	return NewError(op, KindInvalidMetadata, fmt.Sprintf("missing keys %v, extra keys %v", missing, extra))
}
