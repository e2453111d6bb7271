package skills

import (
	"reflect"
	"testing"
)

func TestScoreEmptyProfile(t *testing.T) {
	if got := Score(NewSet("python", "sql"), NewSet()); got != 0.0 {
		t.Fatalf("expected 0.0 for empty profile, got %v", got)
	}

	if got := Score(NewSet(), NewSet()); got != 0.0 {
		t.Fatalf("expected 0.0 for empty sets, got %v", got)
	}
}

func TestScoreCoverage(t *testing.T) {
	profile := NewSet("python", "sql", "tableau")

	cases := []struct {
		name    string
		posting *Set
		want    float64
	}{
		{"two of three", NewSet("python", "sql"), 66.7},
		{"one of three", NewSet("python"), 33.3},
		{"two of three plus extras", NewSet("sql", "tableau", "excel"), 66.7},
		{"none", NewSet(), 0.0},
		{"full profile", NewSet("python", "sql", "tableau"), 100.0},
		{"superset of profile", NewSet("python", "sql", "tableau", "aws", "git"), 100.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.posting, profile)
			if got != tc.want {
				t.Fatalf("Score() = %v, want %v", got, tc.want)
			}
			if got < 0 || got > 100 {
				t.Fatalf("score %v out of [0,100]", got)
			}
		})
	}
}

// A posting asking for skills outside the profile must not be penalized:
// the metric is coverage of the profile, not a symmetric similarity.
func TestScoreNotDilutedByPostingSize(t *testing.T) {
	profile := NewSet("python", "sql")
	small := NewSet("python", "sql")
	large := NewSet("python", "sql", "java", "scala", "kafka", "spark")

	if Score(small, profile) != Score(large, profile) {
		t.Fatalf("large posting skill set diluted the score")
	}
}

func TestMissingAndExtra(t *testing.T) {
	posting := NewSet("python", "excel")
	profile := NewSet("python", "sql", "tableau")

	missing := Missing(posting, profile)
	if !reflect.DeepEqual(missing.Values(), []string{"sql", "tableau"}) {
		t.Fatalf("unexpected missing skills: %v", missing.Values())
	}

	extra := Extra(posting, profile)
	if !reflect.DeepEqual(extra.Values(), []string{"excel"}) {
		t.Fatalf("unexpected extra skills: %v", extra.Values())
	}

	// profile − missing and posting − extra both equal the intersection
	fromMissing := NewSet()
	for _, token := range profile.Values() {
		if !missing.Has(token) {
			fromMissing.Add(token)
		}
	}
	fromExtra := NewSet()
	for _, token := range posting.Values() {
		if !extra.Has(token) {
			fromExtra.Add(token)
		}
	}
	if !reflect.DeepEqual(fromMissing.Values(), fromExtra.Values()) {
		t.Fatalf("intersection identities disagree: %v vs %v", fromMissing.Values(), fromExtra.Values())
	}
}

func TestScoreRounding(t *testing.T) {
	// 2 of 7 = 28.571... rounds to 28.6
	profile := NewSet("a", "b", "c", "d", "e", "f", "g")
	posting := NewSet("a", "b")

	if got := Score(posting, profile); got != 28.6 {
		t.Fatalf("expected one-decimal rounding to 28.6, got %v", got)
	}
}
