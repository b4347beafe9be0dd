package core

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
)

// Floating-point sentinel strings: standard JSON has no token for NaN or
// signed infinity, so they travel as exact quoted strings.
const (
	sentinelNaN     = "NaN"
	sentinelPosInf  = "Infinity"
	sentinelNegInf  = "-Infinity"
	rawJSONNullText = "null"
)

// EncodeFillValue renders a fill value (or nil for UNDEFINED) to its JSON
// form: float specials as sentinel strings, other floats
// and integers as JSON numbers, bools as JSON booleans, byte strings
// base64-encoded, unicode strings as JSON strings, structured records as
// JSON objects keyed by field name.
func EncodeFillValue(dt Dtype, value any) (json.RawMessage, error) {
	const op = "core.EncodeFillValue"

	if value == nil {
		return json.RawMessage(rawJSONNullText), nil
	}

	if dt.IsStructured() {
		rec, ok := value.(map[string]any)
		if !ok {
			return nil, NewError(op, KindInvalidMetadata, "structured fill value must be a map[string]any")
		}
		obj := make(map[string]json.RawMessage, len(dt.Fields()))
		for _, f := range dt.Fields() {
			fv, encErr := EncodeFillValue(f.Type, rec[f.Name])
			if encErr != nil {
				return nil, encErr
			}
			obj[f.Name] = fv
		}
		out, err := json.Marshal(obj)
		if err != nil {
			return nil, WrapError(op, KindInvalidMetadata, err)
		}
		return out, nil
	}

	return encodeScalarFillValue(op, dt, value)
}

func encodeScalarFillValue(op string, dt Dtype, value any) (json.RawMessage, error) {
	switch dt.Kind() {
	case KindFloat:
		f, err := toFloat64(value)
		if err != nil {
			return nil, WrapError(op, KindInvalidMetadata, err)
		}
		switch {
		case math.IsNaN(f):
			return json.Marshal(sentinelNaN)
		case math.IsInf(f, 1):
			return json.Marshal(sentinelPosInf)
		case math.IsInf(f, -1):
			return json.Marshal(sentinelNegInf)
		default:
			return json.Marshal(f)
		}
	case KindBool:
		b, ok := value.(bool)
		if !ok {
			return nil, NewError(op, KindInvalidMetadata, "fill value for bool dtype must be a bool")
		}
		return json.Marshal(b)
	case KindBytes:
		raw, err := toBytes(value)
		if err != nil {
			return nil, WrapError(op, KindInvalidMetadata, err)
		}
		return json.Marshal(base64.StdEncoding.EncodeToString(raw))
	case KindUnicode:
		s, ok := value.(string)
		if !ok {
			return nil, NewError(op, KindInvalidMetadata, "fill value for unicode dtype must be a string")
		}
		return json.Marshal(s)
	default: // int, uint, complex, timedelta, datetime, void: plain JSON numbers.
		f, err := toFloat64(value)
		if err != nil {
			return nil, WrapError(op, KindInvalidMetadata, err)
		}
		return json.Marshal(f)
	}
}

// DecodeFillValue parses a JSON fill value document into a typed Go
// value, or nil for UNDEFINED.
func DecodeFillValue(dt Dtype, raw json.RawMessage) (any, error) {
	const op = "core.DecodeFillValue"

	trimmed := trimSpaceBytes(raw)
	if len(trimmed) == 0 || string(trimmed) == rawJSONNullText {
		return nil, nil
	}

	if dt.IsStructured() {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, WrapError(op, KindInvalidMetadata, err)
		}
		rec := make(map[string]any, len(dt.Fields()))
		for _, f := range dt.Fields() {
			fv, ok := obj[f.Name]
			if !ok {
				continue
			}
			decoded, err := DecodeFillValue(f.Type, fv)
			if err != nil {
				return nil, err
			}
			rec[f.Name] = decoded
		}
		return rec, nil
	}

	return decodeScalarFillValue(op, dt, trimmed)
}

func decodeScalarFillValue(op string, dt Dtype, trimmed []byte) (any, error) {
	switch dt.Kind() {
	case KindFloat:
		if len(trimmed) > 0 && trimmed[0] == '"' {
			var s string
			if err := json.Unmarshal(trimmed, &s); err != nil {
				return nil, WrapError(op, KindInvalidMetadata, err)
			}
			switch s {
			case sentinelNaN:
				return math.NaN(), nil
			case sentinelPosInf:
				return math.Inf(1), nil
			case sentinelNegInf:
				return math.Inf(-1), nil
			default:
				return nil, NewError(op, KindInvalidMetadata, "unrecognized float sentinel: "+s)
			}
		}
		var f float64
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return nil, WrapError(op, KindInvalidMetadata, err)
		}
		return f, nil
	case KindBool:
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return nil, WrapError(op, KindInvalidMetadata, err)
		}
		return b, nil
	case KindBytes:
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, WrapError(op, KindInvalidMetadata, err)
		}
		raw, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, WrapError(op, KindInvalidMetadata, err)
		}
		return raw, nil
	case KindUnicode:
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, WrapError(op, KindInvalidMetadata, err)
		}
		return s, nil
	default:
		var f float64
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return nil, WrapError(op, KindInvalidMetadata, err)
		}
		return f, nil
	}
}

func toFloat64(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("cannot interpret %T as a numeric fill value", value)
	}
}

func toBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("cannot interpret %T as a byte-string fill value", value)
	}
}

// TileFillValue allocates prod(chunkShape)*itemSize bytes and tiles the
// binary encoding of value (or a zero element for UNDEFINED) across it,
// respecting the dtype's byte order and the array's in-chunk element
// order. A pooled scratch buffer holds the single-element encoding before
// it is repeated across the output.
func TileFillValue(dt Dtype, value any, numElements int) ([]byte, error) {
	const op = "core.TileFillValue"

	itemSize := dt.ItemSize()
	out := make([]byte, numElements*itemSize)
	if itemSize == 0 || numElements == 0 {
		return out, nil
	}

	elem := GetBuffer(itemSize)
	defer ReleaseBuffer(elem)

	if err := encodeElementBinary(dt, value, elem); err != nil {
		return nil, WrapError(op, KindInvalidMetadata, err)
	}

	for i := 0; i < numElements; i++ {
		copy(out[i*itemSize:(i+1)*itemSize], elem)
	}
	return out, nil
}

// encodeElementBinary writes one element's binary representation of
// value into dst (len(dst) == dt.ItemSize()). A nil value (UNDEFINED)
// encodes as all zero bytes, which is a deterministic, documented choice
// for the otherwise-implementation-defined UNDEFINED case.
func encodeElementBinary(dt Dtype, value any, dst []byte) error {
	if dt.IsStructured() {
		rec, _ := value.(map[string]any)
		offset := 0
		for _, f := range dt.Fields() {
			size := f.Type.ItemSize()
			var fv any
			if rec != nil {
				fv = rec[f.Name]
			}
			if err := encodeElementBinary(f.Type, fv, dst[offset:offset+size]); err != nil {
				return err
			}
			offset += size
		}
		return nil
	}

	if value == nil {
		for i := range dst {
			dst[i] = 0
		}
		return nil
	}

	order := dt.ByteOrder()
	switch dt.Kind() {
	case KindFloat:
		f, err := toFloat64(value)
		if err != nil {
			return err
		}
		switch len(dst) {
		case 4:
			order.PutUint32(dst, math.Float32bits(float32(f)))
		case 8:
			order.PutUint64(dst, math.Float64bits(f))
		default:
			return fmt.Errorf("unsupported float item size %d", len(dst))
		}
	case KindBool:
		b, _ := value.(bool)
		if b {
			dst[0] = 1
		} else {
			dst[0] = 0
		}
	case KindBytes, KindUnicode:
		raw, err := toBytes(value)
		if err != nil {
			return err
		}
		n := copy(dst, raw)
		for i := n; i < len(dst); i++ {
			dst[i] = 0
		}
	default: // int, uint, timedelta, datetime, void: integer encodings.
		f, err := toFloat64(value)
		if err != nil {
			return err
		}
		putInt(order, dst, int64(f))
	}
	return nil
}

func putInt(order binary.ByteOrder, dst []byte, v int64) {
	switch len(dst) {
	case 1:
		dst[0] = byte(v)
	case 2:
		order.PutUint16(dst, uint16(v))
	case 4:
		order.PutUint32(dst, uint32(v))
	case 8:
		order.PutUint64(dst, uint64(v))
	default:
		// Unusual integer width (e.g. 3-byte packed ints): fall back to a
		// little/big-endian byte-at-a-time fill from the low end.
		for i := 0; i < len(dst); i++ {
			shift := uint(i * 8)
			if order == binary.BigEndian {
				shift = uint(len(dst)-1-i) * 8
			}
			dst[i] = byte(v >> shift)
		}
	}
}

// IsFillBuffer reports whether buf equals numElements tiled copies of the
// encoded fill value, used to decide whether a full-chunk write of the
// fill value should delete the chunk key instead of storing it.
func IsFillBuffer(dt Dtype, value any, buf []byte) (bool, error) {
	itemSize := dt.ItemSize()
	if itemSize == 0 || len(buf) == 0 {
		return true, nil
	}
	if len(buf)%itemSize != 0 {
		return false, nil
	}

	elem := GetBuffer(itemSize)
	defer ReleaseBuffer(elem)
	if err := encodeElementBinary(dt, value, elem); err != nil {
		return false, err
	}

	for off := 0; off < len(buf); off += itemSize {
		for i := 0; i < itemSize; i++ {
			if buf[off+i] != elem[i] {
				return false, nil
			}
		}
	}
	return true, nil
}
