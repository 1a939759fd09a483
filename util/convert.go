package util

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var ErrUnsupportedTypeConversion = errors.New("unsupported type conversion")

// ListDelimiterFunc reports whether a rune separates elements of a list value.
type ListDelimiterFunc func(r rune) bool

// DefaultDelimiter splits list values on ',', '|' or ' '.
func DefaultDelimiter(r rune) bool {
	return r == ',' || r == '|' || r == ' '
}

// ConvertString converts value into the variable pointed to by data. Dates and
// times are parsed leniently (dateparse). Slices of strings are split using
// delimiterFunc.
func ConvertString(value string, data any, delimiterFunc ListDelimiterFunc) error {
	if delimiterFunc == nil {
		delimiterFunc = DefaultDelimiter
	}

	switch t := data.(type) {
	case *string:
		*t = value
	case *[]string:
		*t = strings.FieldsFunc(value, delimiterFunc)
	case *bool:
		val, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %q as bool", ErrUnsupportedTypeConversion, value)
		}
		*t = val
	case *int:
		val, err := strconv.ParseInt(value, 10, 0)
		if err != nil {
			return fmt.Errorf("%w: %q as int", ErrUnsupportedTypeConversion, value)
		}
		*t = int(val)
	case *int64:
		val, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %q as int64", ErrUnsupportedTypeConversion, value)
		}
		*t = val
	case *uint:
		val, err := strconv.ParseUint(value, 10, 0)
		if err != nil {
			return fmt.Errorf("%w: %q as uint", ErrUnsupportedTypeConversion, value)
		}
		*t = uint(val)
	case *uint64:
		val, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %q as uint64", ErrUnsupportedTypeConversion, value)
		}
		*t = val
	case *float64:
		val, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %q as float64", ErrUnsupportedTypeConversion, value)
		}
		*t = val
	case *time.Time:
		val, err := dateparse.ParseAny(value)
		if err != nil {
			return fmt.Errorf("%w: %q as time", ErrUnsupportedTypeConversion, value)
		}
		*t = val
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedTypeConversion, data)
	}

	return nil
}

// Coerce converts raw, a value decoded from a config file, to the type of
// like. A nil like leaves raw unchanged. The concrete types produced by the
// TOML and YAML decoders (string, bool, int, int64, float64, time.Time and
// []any) are all accepted as sources.
func Coerce(raw any, like any) (any, error) {
	if like == nil || raw == nil {
		return raw, nil
	}

	switch like.(type) {
	case string:
		if s, ok := raw.(string); ok {
			return s, nil
		}
		return fmt.Sprint(raw), nil
	case bool:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			var b bool
			if err := ConvertString(v, &b, nil); err != nil {
				return nil, err
			}
			return b, nil
		}
	case int:
		if n, ok := toInt64(raw); ok {
			return int(n), nil
		}
	case int64:
		if n, ok := toInt64(raw); ok {
			return n, nil
		}
	case uint:
		if n, ok := toInt64(raw); ok && n >= 0 {
			return uint(n), nil
		}
	case uint64:
		if n, ok := toInt64(raw); ok && n >= 0 {
			return uint64(n), nil
		}
	case float64:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case string:
			var f float64
			if err := ConvertString(v, &f, nil); err != nil {
				return nil, err
			}
			return f, nil
		}
	case time.Time:
		switch v := raw.(type) {
		case time.Time:
			return v, nil
		case string:
			var t time.Time
			if err := ConvertString(v, &t, nil); err != nil {
				return nil, err
			}
			return t, nil
		}
	case []string:
		switch v := raw.(type) {
		case []string:
			return v, nil
		case []any:
			values := make([]string, len(v))
			for i, item := range v {
				values[i] = fmt.Sprint(item)
			}
			return values, nil
		case string:
			var list []string
			if err := ConvertString(v, &list, nil); err != nil {
				return nil, err
			}
			return list, nil
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedTypeConversion, like)
	}

	return nil, fmt.Errorf("%w: %T as %T", ErrUnsupportedTypeConversion, raw, like)
}

func toInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case uint64:
		return int64(v), true
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	}
	return 0, false
}
