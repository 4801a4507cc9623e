package localstate

// IdSet 保持插入顺序的活动 id 集合
type IdSet struct {
	items []string
	index map[string]struct{}
}

func NewIdSet(ids ...string) *IdSet {
	s := &IdSet{index: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add returns false when id was already present or empty.
func (s *IdSet) Add(id string) bool {
	if id == "" {
		return false
	}
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = struct{}{}
	s.items = append(s.items, id)
	return true
}

func (s *IdSet) Remove(id string) bool {
	if _, ok := s.index[id]; !ok {
		return false
	}
	delete(s.index, id)
	for i, item := range s.items {
		if item == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return true
}

func (s *IdSet) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s *IdSet) Len() int {
	return len(s.items)
}

// Items returns a copy in insertion order.
func (s *IdSet) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}
