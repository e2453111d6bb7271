package skills

import "strings"

// Set is an ordered set of normalized skill tokens. Tokens are lowercased
// and trimmed on insertion; insertion order is preserved so that extraction
// order survives serialization and truncation.
type Set struct {
	items []string
	index map[string]struct{}
}

// NewSet builds a set from the provided tokens. Empty tokens are dropped.
func NewSet(tokens ...string) *Set {
	s := &Set{index: make(map[string]struct{}, len(tokens))}
	for _, token := range tokens {
		s.Add(token)
	}
	return s
}

// Normalize returns the canonical form of a skill token.
func Normalize(token string) string {
	return strings.ToLower(strings.TrimSpace(token))
}

// Add inserts a token, normalizing it first. Duplicates and empty tokens are
// ignored.
func (s *Set) Add(token string) {
	token = Normalize(token)
	if token == "" {
		return
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[token]; ok {
		return
	}
	s.index[token] = struct{}{}
	s.items = append(s.items, token)
}

// Has reports whether the normalized form of token is present.
func (s *Set) Has(token string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[Normalize(token)]
	return ok
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Values returns the tokens in insertion order. The returned slice is a copy.
func (s *Set) Values() []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// First returns up to n tokens in insertion order.
func (s *Set) First(n int) []string {
	if s == nil || n <= 0 {
		return []string{}
	}
	if n > len(s.items) {
		n = len(s.items)
	}
	out := make([]string, n)
	copy(out, s.items[:n])
	return out
}
