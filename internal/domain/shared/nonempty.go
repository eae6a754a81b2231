package shared

// NonEmptySet is an immutable, insertion-ordered set that is guaranteed to
// hold at least one element. Constructing one validates the guarantee, so
// code receiving a NonEmptySet never needs an emptiness check.
type NonEmptySet[T comparable] struct {
	items []T
}

// NewNonEmptySet builds a set from the given items, dropping duplicates
// while preserving first-occurrence order. It fails on an empty input.
func NewNonEmptySet[T comparable](items ...T) (NonEmptySet[T], error) {
	if len(items) == 0 {
		return NonEmptySet[T]{}, NewDomainError("EMPTY_SET", "set must contain at least one element")
	}
	seen := make(map[T]struct{}, len(items))
	deduped := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		deduped = append(deduped, item)
	}
	return NonEmptySet[T]{items: deduped}, nil
}

// Items returns the elements in insertion order. The returned slice is a
// copy; mutating it does not affect the set.
func (s NonEmptySet[T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Size returns the number of distinct elements
func (s NonEmptySet[T]) Size() int {
	return len(s.items)
}

// Contains reports whether the set holds the given element
func (s NonEmptySet[T]) Contains(item T) bool {
	for _, it := range s.items {
		if it == item {
			return true
		}
	}
	return false
}
