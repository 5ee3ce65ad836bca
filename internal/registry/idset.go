package registry

// IDSet is an insertion-ordered set of announcement identifiers.
// The zero value is an empty set ready to use.
type IDSet struct {
	order []string
	index map[string]struct{}
}

// NewIDSet builds a set from ids, dropping duplicates and keeping first-seen order.
func NewIDSet(ids ...string) *IDSet {
	s := &IDSet{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id and reports whether it was new.
func (s *IDSet) Add(id string) bool {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// Has reports membership. A nil set contains nothing.
func (s *IDSet) Has(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[id]
	return ok
}

// Len returns the number of ids.
func (s *IDSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// IDs returns a copy of the ids in insertion order.
func (s *IDSet) IDs() []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Union returns a new set holding the ids of s followed by the new ids of other.
func (s *IDSet) Union(other ...string) *IDSet {
	out := NewIDSet(s.IDs()...)
	for _, id := range other {
		out.Add(id)
	}
	return out
}
