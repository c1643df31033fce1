// Package utils holds the small generic helpers the frontend view-models and
// template functions share.
//
//   - Map, Filter, Reduce: slice processing.
//   - ToFloat64: numeric coercion for template arithmetic.
//   - Percent: share of a maximum, clamped to [0, 100], for bar widths.
package utils

type mapFunc[E any, R any] func(E) R

// Map returns f applied to every element of s.
func Map[S ~[]E, E any, R any](s S, f mapFunc[E, R]) []R {
	result := make([]R, len(s))
	for i, e := range s {
		result[i] = f(e)
	}

	return result
}

type keepFunc[E any] func(E) bool

// Filter returns the elements of s that f keeps, in order.
func Filter[S ~[]E, E any](s S, f keepFunc[E]) S {
	result := S{}
	for _, v := range s {
		if f(v) {
			result = append(result, v)
		}
	}

	return result
}

type reduceFunc[E any, R any] func(acc R, next E) R

// Reduce folds s into a single value starting from init.
func Reduce[E any, R any](s []E, init R, f reduceFunc[E, R]) R {
	acc := init
	for _, v := range s {
		acc = f(acc, v)
	}

	return acc
}

// ToFloat64 converts any numeric value to float64. Anything else is 0.
func ToFloat64(value any) float64 {
	switch v := value.(type) {
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case float32:
		return float64(v)
	case float64:
		return v
	default:
		return 0
	}
}

// Percent returns value as a percentage of max.
func Percent(value, max any) float64 {
	m := ToFloat64(max)
	if m <= 0 {
		return 0
	}
	p := ToFloat64(value) / m * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}

	return p
}
