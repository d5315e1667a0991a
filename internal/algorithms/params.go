package algorithms

import (
	"fmt"
	"math"

	"pixel-transforms/internal/core"
)

// intParam reads an integer parameter, falling back to def when absent.
// Integral floats are accepted since YAML and JSON decoders may produce them.
func intParam(params Params, name string, def int) (int, error) {
	val, ok := params[name]
	if !ok {
		return def, nil
	}

	switch v := val.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint8:
		return int(v), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: %s must be an integer, got %v", core.ErrInvalidParameter, name, v)
		}
		if v > math.MaxInt32 || v < math.MinInt32 {
			return 0, fmt.Errorf("%w: %s out of range: %v", core.ErrInvalidParameter, name, v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("%w: %s must be an integer, got %T", core.ErrInvalidParameter, name, val)
	}
}

// floatParam reads a real-valued parameter, falling back to def when absent.
func floatParam(params Params, name string, def float64) (float64, error) {
	val, ok := params[name]
	if !ok {
		return def, nil
	}

	switch v := val.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number, got %T", core.ErrInvalidParameter, name, val)
	}
}
