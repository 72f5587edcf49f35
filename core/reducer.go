package core

import (
	"math"
)

// Reducer combines per-batch accumulators of a ParallelReduce. Join must be
// associative and Identity must be its neutral element.
type Reducer[T any] struct {
	Identity func() T
	Join     func(a, b T) T
}

func SumReducer[T Number]() Reducer[T] {
	return Reducer[T]{
		Identity: func() (zero T) { return },
		Join:     func(a, b T) T { return a + b },
	}
}

func MaxReducer[T Number]() Reducer[T] {
	return Reducer[T]{
		Identity: lowest[T],
		Join: func(a, b T) T {
			if b > a {
				return b
			}
			return a
		},
	}
}

func MinReducer[T Number]() Reducer[T] {
	return Reducer[T]{
		Identity: highest[T],
		Join: func(a, b T) T {
			if b < a {
				return b
			}
			return a
		},
	}
}

func lowest[T Number]() T {
	var zero T
	switch any(zero).(type) {
	case int:
		v := int64(math.MinInt)
		return T(v)
	case int32:
		v := int64(math.MinInt32)
		return T(v)
	case int64:
		v := int64(math.MinInt64)
		return T(v)
	case uint32, uint64:
		return zero
	default:
		return T(math.Inf(-1))
	}
}

func highest[T Number]() T {
	var zero T
	switch any(zero).(type) {
	case int:
		v := int64(math.MaxInt)
		return T(v)
	case int32:
		v := int64(math.MaxInt32)
		return T(v)
	case int64:
		v := int64(math.MaxInt64)
		return T(v)
	case uint32:
		v := uint64(math.MaxUint32)
		return T(v)
	case uint64:
		v := uint64(math.MaxUint64)
		return T(v)
	default:
		return T(math.Inf(1))
	}
}
