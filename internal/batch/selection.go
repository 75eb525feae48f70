package batch

import "sort"

// Selection is the toggle set behind an assignment dialog. Each dialog
// instance owns its own Selection; nothing here touches the network.
type Selection struct {
	ids map[string]struct{}
}

func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

func (s *Selection) Toggle(id string) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// ToggleAll flips between full selection and empty selection over the
// given pool.
func (s *Selection) ToggleAll(pool []string) {
	if len(s.ids) == len(pool) && len(pool) > 0 {
		s.Clear()
		return
	}
	for _, id := range pool {
		s.ids[id] = struct{}{}
	}
}

func (s *Selection) Clear() {
	s.ids = make(map[string]struct{})
}

func (s *Selection) Count() int {
	return len(s.ids)
}

// IDs returns the selected ids in stable order.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
