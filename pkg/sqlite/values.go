package sqlite

import (
	"database/sql/driver"
	"fmt"
	"math"
	"time"
)

// BindValue converts a caller-supplied parameter to a value the engine
// can bind. Supported: nil, bool, signed/unsigned integers, floats,
// string, []byte, and time.Time.
func BindValue(v any) (driver.Value, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case bool:
		return x, nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, fmt.Errorf("sqlite: uint64 parameter %d overflows", x)
		}
		return int64(x), nil
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	case string:
		return x, nil
	case []byte:
		return x, nil
	case time.Time:
		return x, nil
	default:
		return nil, fmt.Errorf("sqlite: unsupported parameter type %T", v)
	}
}

// BindValues converts a parameter list with BindValue.
func BindValues(params []any) ([]driver.Value, error) {
	out := make([]driver.Value, len(params))
	for i, p := range params {
		v, err := BindValue(p)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}
