package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ToInt converts various types to int using explicit type switching.
// It handles standard integer types, floats, strings, and byte slices.
// Unparseable values yield 0; use ToIntE when the caller must tell them apart.
func ToInt(val any) int {
	i, _ := ToIntE(val)
	return i
}

// ToIntE converts val to int, reporting values that are not integral numbers.
func ToIntE(val any) (int, error) {
	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case int32:
		return int(v), nil
	case int16:
		return int(v), nil
	case int8:
		return int(v), nil
	case uint:
		return int(v), nil
	case uint64:
		return int(v), nil
	case uint32:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint8:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		return int(v), nil
	case float32:
		if v != float32(int(v)) {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		return int(v), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	case []byte:
		return strconv.Atoi(strings.TrimSpace(string(v)))
	case nil:
		return 0, fmt.Errorf("value is empty")
	default:
		return strconv.Atoi(fmt.Sprintf("%v", v))
	}
}

// ToString converts various types to string. nil yields "".
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToBool converts various types to bool.
// It handles bool, numeric types (1=true), and strings ("1", "true").
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int, int64, int32, int16, int8, uint, uint64, uint32, uint16, uint8, float64:
		return ToInt(v) == 1
	case string:
		return v == "1" || strings.ToLower(v) == "true"
	case []byte:
		s := string(v)
		return s == "1" || strings.ToLower(s) == "true"
	default:
		return false
	}
}

// ToStringSlice accepts a single value or a list and returns its string elements.
// Empty strings and nil elements are dropped.
func ToStringSlice(val any) []string {
	switch v := val.(type) {
	case nil:
		return nil
	case []string:
		out := make([]string, 0, len(v))
		for _, s := range v {
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s := ToString(e); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := ToString(v); s != "" {
			return []string{s}
		}
		return nil
	}
}
