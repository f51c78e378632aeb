// Package resource shapes models into the JSON the API returns, so handlers
// never serialise a GORM struct directly.
//
//	func Product(p models.Product) resource.Map {
//	    return resource.Map{"id": p.ID, "name": p.DisplayName()}
//	}
//
//	c.Success(resource.Many(products, Product))
package resource

// Map is one rendered object.
type Map = map[string]interface{}

// Transformer renders one value.
type Transformer[T any] func(T) Map

// One renders a single value.
func One[T any](v T, fn Transformer[T]) Map {
	return fn(v)
}

// Many renders a slice. A nil slice renders as an empty list, never null.
func Many[T any](items []T, fn Transformer[T]) []Map {
	out := make([]Map, 0, len(items))
	for _, v := range items {
		out = append(out, fn(v))
	}
	return out
}

// Merge copies extra into m and returns it.
func Merge(m Map, extra Map) Map {
	for k, v := range extra {
		m[k] = v
	}
	return m
}
