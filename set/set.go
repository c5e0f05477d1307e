package set

import (
	"cmp"
	"sort"
)

func Set[T cmp.Ordered](incoming []T) []T {
	return Sort(Unique(incoming))
}

func Unique[T cmp.Ordered](incoming []T) []T {
	intermediate := make(map[T]bool)
	for _, item := range incoming {
		intermediate[item] = true
	}
	result := make([]T, 0, len(intermediate))
	for key := range intermediate {
		result = append(result, key)
	}
	return result
}

func Sort[T cmp.Ordered](set []T) []T {
	sort.Slice(set, func(left, right int) bool {
		return set[left] < set[right]
	})
	return set
}

func Member[T cmp.Ordered](set []T, candidate T) bool {
	for _, item := range set {
		if item == candidate {
			return true
		}
	}
	return false
}

func Keys[Key cmp.Ordered, Value any](source map[Key]Value) []Key {
	result := make([]Key, 0, len(source))
	for key := range source {
		result = append(result, key)
	}
	return Sort(result)
}
