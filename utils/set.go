package utils

// OrderedSet is a set that remembers insertion order.
// Not safe for concurrent use; the pipeline is single-threaded.
type OrderedSet[K comparable] struct {
	seen  map[K]struct{}
	items []K
}

// NewOrderedSet creates an empty OrderedSet.
func NewOrderedSet[K comparable]() *OrderedSet[K] {
	return &OrderedSet[K]{seen: make(map[K]struct{})}
}

// Add returns true if k was newly added, false if already present.
func (s *OrderedSet[K]) Add(k K) bool {
	if _, exists := s.seen[k]; exists {
		return false
	}
	s.seen[k] = struct{}{}
	s.items = append(s.items, k)
	return true
}

// Contains returns true if k is in the set.
func (s *OrderedSet[K]) Contains(k K) bool {
	_, exists := s.seen[k]
	return exists
}

// Size returns the number of unique items tracked.
func (s *OrderedSet[K]) Size() int {
	return len(s.items)
}

// Items returns the members in insertion order.
func (s *OrderedSet[K]) Items() []K {
	out := make([]K, len(s.items))
	copy(out, s.items)
	return out
}
