// Package collection has the few generic slice helpers the services and
// presenters lean on.
//
//	names := collection.Map(products, func(p models.Product) string { return p.Brand })
//	byCat := collection.GroupBy(products, func(p models.Product) uint { return p.CategoryID })
package collection

import "sort"

// Map returns fn applied to every element.
func Map[T, R any](s []T, fn func(T) R) []R {
	out := make([]R, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// Filter keeps the elements fn accepts.
func Filter[T any](s []T, fn func(T) bool) []T {
	out := make([]T, 0, len(s))
	for _, v := range s {
		if fn(v) {
			out = append(out, v)
		}
	}
	return out
}

// Contains reports whether any element satisfies fn.
func Contains[T any](s []T, fn func(T) bool) bool {
	for _, v := range s {
		if fn(v) {
			return true
		}
	}
	return false
}

// GroupBy buckets elements by key, keeping input order inside each bucket.
func GroupBy[T any, K comparable](s []T, fn func(T) K) map[K][]T {
	out := make(map[K][]T)
	for _, v := range s {
		k := fn(v)
		out[k] = append(out[k], v)
	}
	return out
}

// KeyBy indexes elements by key; later elements win on collision.
func KeyBy[T any, K comparable](s []T, fn func(T) K) map[K]T {
	out := make(map[K]T, len(s))
	for _, v := range s {
		out[fn(v)] = v
	}
	return out
}

// Unique drops repeated values, keeping the first occurrence.
func Unique[T comparable](s []T) []T {
	seen := make(map[T]struct{}, len(s))
	out := make([]T, 0, len(s))
	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[K ~int | ~uint | ~string, V any](m map[K]V) []K {
	out := make([]K, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
