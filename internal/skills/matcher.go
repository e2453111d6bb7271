// Package skills implements the skill set model and the matching logic used
// to score a posting's extracted skills against the user's profile.
package skills

import "math"

// Score returns the match percentage between a posting's skills and the
// profile: 100 * |posting ∩ profile| / |profile|, rounded to one decimal.
//
// This is a coverage metric, not a symmetric similarity: it measures what
// fraction of the profile the posting asks for, so postings demanding skills
// outside the profile are not penalized and a large posting skill set does
// not dilute the score. An empty profile always scores 0.0.
func Score(posting, profile *Set) float64 {
	if profile.Len() == 0 {
		return 0.0
	}

	matched := 0
	for _, token := range profile.Values() {
		if posting.Has(token) {
			matched++
		}
	}

	return math.Round(float64(matched)/float64(profile.Len())*1000) / 10
}

// Missing returns the profile skills absent from the posting.
func Missing(posting, profile *Set) *Set {
	out := NewSet()
	for _, token := range profile.Values() {
		if !posting.Has(token) {
			out.Add(token)
		}
	}
	return out
}

// Extra returns the posting skills absent from the profile.
func Extra(posting, profile *Set) *Set {
	out := NewSet()
	for _, token := range posting.Values() {
		if !profile.Has(token) {
			out.Add(token)
		}
	}
	return out
}
