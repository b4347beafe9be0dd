package codec

import "fmt"

// levelOrDefault extracts an integer "level" option, falling back to def
// when opts is nil or the key is absent. JSON numbers decode to float64,
// so that is the accepted wire representation.
func levelOrDefault(opts map[string]any, def int) (int, error) {
	if opts == nil {
		return def, nil
	}
	raw, ok := opts["level"]
	if !ok {
		return def, nil
	}
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("compression_opts.level must be a number, got %T", raw)
	}
}

// validateLevelOpt accepts an empty map, a nil map, or a map with exactly
// one numeric "level" key.
func validateLevelOpt(opts map[string]any) error {
	if opts == nil {
		return nil
	}
	for k, v := range opts {
		if k != "level" {
			return fmt.Errorf("unknown compression option %q", k)
		}
		if _, ok := v.(float64); !ok {
			if _, ok := v.(int); !ok {
				return fmt.Errorf("compression_opts.level must be a number, got %T", v)
			}
		}
	}
	return nil
}
