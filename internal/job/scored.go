package job

import (
	"encoding/json"
	"sort"

	"github.com/ekshubina/ai-job-agent/internal/skills"
)

// Derived record keys added by the annotation stage. They never shadow or
// remove original posting fields.
const (
	KeyExtractedSkills = "extracted_skills"
	KeyMatchPercentage = "match_percentage"
	KeyMissingSkills   = "missing_skills"
	KeyExtraSkills     = "extra_skills"
)

// Scored is a posting annotated with extracted skills and the match against
// the user's profile. Created once per annotation run, never mutated.
type Scored struct {
	Posting *Posting

	// ExtractedSkills keeps extraction order; downstream prompt building
	// truncates it without re-sorting.
	ExtractedSkills []string
	MatchPercentage float64
	MissingSkills   []string
	ExtraSkills     []string
}

// NewScored annotates a posting with the four derived fields computed from
// the extracted skill set and the profile.
func NewScored(posting *Posting, extracted, profile *skills.Set) *Scored {
	return &Scored{
		Posting:         posting,
		ExtractedSkills: extracted.Values(),
		MatchPercentage: skills.Score(extracted, profile),
		MissingSkills:   skills.Missing(extracted, profile).Values(),
		ExtraSkills:     skills.Extra(extracted, profile).Values(),
	}
}

// Record returns the full scored record: every original posting field plus
// exactly the four derived ones.
func (s *Scored) Record() map[string]any {
	record := s.Posting.Record()
	record[KeyExtractedSkills] = s.ExtractedSkills
	record[KeyMatchPercentage] = s.MatchPercentage
	record[KeyMissingSkills] = s.MissingSkills
	record[KeyExtraSkills] = s.ExtraSkills
	return record
}

func (s *Scored) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Record())
}

func (s *Scored) UnmarshalJSON(data []byte) error {
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return err
	}

	s.ExtractedSkills = stringSlice(record[KeyExtractedSkills])
	s.MatchPercentage = floatValue(record[KeyMatchPercentage])
	s.MissingSkills = stringSlice(record[KeyMissingSkills])
	s.ExtraSkills = stringSlice(record[KeyExtraSkills])

	delete(record, KeyExtractedSkills)
	delete(record, KeyMatchPercentage)
	delete(record, KeyMissingSkills)
	delete(record, KeyExtraSkills)

	posting, err := FromRecord(record)
	if err != nil {
		return err
	}
	s.Posting = posting

	return nil
}

// ScoredPostings is a ranked collection of scored postings.
type ScoredPostings struct {
	Items []*Scored
}

func (s *ScoredPostings) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}

// Sort orders the collection by match percentage descending. The sort is
// stable: equal scores keep their original relative order.
func (s *ScoredPostings) Sort() {
	sort.SliceStable(s.Items, func(i, j int) bool {
		return s.Items[i].MatchPercentage > s.Items[j].MatchPercentage
	})
}

// Top returns the first n items, or all of them when fewer exist.
func (s *ScoredPostings) Top(n int) []*Scored {
	if s == nil || n <= 0 {
		return nil
	}
	if n > len(s.Items) {
		n = len(s.Items)
	}
	return s.Items[:n]
}

func stringSlice(v any) []string {
	switch typed := v.(type) {
	case []string:
		return typed
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return []string{}
	}
}

func floatValue(v any) float64 {
	switch typed := v.(type) {
	case float64:
		return typed
	case int:
		return float64(typed)
	case json.Number:
		f, _ := typed.Float64()
		return f
	default:
		return 0
	}
}
