package tools

import (
	"encoding/json"
	"math"

	"github.com/pkg/errors"
)

// Args is the loosely-typed argument bag a tool executes against, straight
// from decoded JSON. The accessors tolerate the types JSON decoding actually
// produces (float64 for numbers, []any for arrays) plus decimal strings for
// integers that may exceed float precision.
type Args map[string]any

// String returns the string under key, or "" when absent.
func (a Args) String(key string) string {
	s, _ := a[key].(string)
	return s
}

// StringRequired returns the string under key or an error when absent/empty.
func (a Args) StringRequired(key string) (string, error) {
	s, ok := a[key].(string)
	if !ok || s == "" {
		return "", errors.Wrapf(ErrInvalidArgument, "missing required argument %q", key)
	}
	return s, nil
}

// Int64Ptr returns the integer under key, nil when absent.
func (a Args) Int64Ptr(key string) (*int64, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, nil
	}
	n, err := toInt64(key, v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Uint64Ptr returns the non-negative integer under key, nil when absent.
func (a Args) Uint64Ptr(key string) (*uint64, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, nil
	}
	n, err := toInt64(key, v)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "argument %q must not be negative", key)
	}
	u := uint64(n)
	return &u, nil
}

// StringSlice returns the string array under key, nil when absent.
func (a Args) StringSlice(key string) ([]string, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidArgument, "argument %q must be an array of strings", key)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidArgument, "argument %q must be an array of strings", key)
		}
		out = append(out, s)
	}
	return out, nil
}

// AnySlice returns the array under key, nil when absent.
func (a Args) AnySlice(key string) ([]any, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidArgument, "argument %q must be an array", key)
	}
	return items, nil
}

func toInt64(key string, v any) (int64, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, errors.Wrapf(ErrInvalidArgument, "argument %q must be an integer", key)
		}
		return int64(n), nil
	case json.Number:
		out, err := n.Int64()
		if err != nil {
			return 0, errors.Wrapf(ErrInvalidArgument, "argument %q must be an integer: %v", key, err)
		}
		return out, nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, errors.Wrapf(ErrInvalidArgument, "argument %q must be an integer", key)
	}
}
