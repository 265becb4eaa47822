package slices

// Find searches for a given element in a slice of elements of the same type.
// It relaxes comparison between primitives with underlying types.
func Find[E ~[]T, T any](l E, pred func(T) bool) (T, bool) {
	for _, x := range l {
		if pred(x) {
			return x, true
		}
	}
	var x T
	return x, false
}

// OneOf reports whether x equals any of xs.
func OneOf[T comparable](x T, xs ...T) bool {
	for _, x2 := range xs {
		if x == x2 {
			return true
		}
	}

	return false
}

// Dedup drops repeated elements, keeping the first occurrence of each.
func Dedup[T comparable](xs []T) []T {
	seen := make(map[T]struct{}, len(xs))
	res := xs[:0:0]
	for _, x := range xs {
		if _, found := seen[x]; !found {
			seen[x] = struct{}{}
			res = append(res, x)
		}
	}
	return res
}
