package skills

import (
	"reflect"
	"testing"
)

func TestSetNormalizesAndDeduplicates(t *testing.T) {
	set := NewSet("  Python ", "SQL", "python", "", "tableau")

	if set.Len() != 3 {
		t.Fatalf("expected 3 tokens, got %d: %v", set.Len(), set.Values())
	}

	if !reflect.DeepEqual(set.Values(), []string{"python", "sql", "tableau"}) {
		t.Fatalf("unexpected values: %v", set.Values())
	}

	if !set.Has("PYTHON") {
		t.Fatalf("lookup should normalize the token")
	}
}

func TestSetKeepsInsertionOrder(t *testing.T) {
	set := NewSet("zeta", "alpha", "mid")

	if !reflect.DeepEqual(set.Values(), []string{"zeta", "alpha", "mid"}) {
		t.Fatalf("insertion order not preserved: %v", set.Values())
	}

	if !reflect.DeepEqual(set.First(2), []string{"zeta", "alpha"}) {
		t.Fatalf("unexpected First(2): %v", set.First(2))
	}

	if got := set.First(10); len(got) != 3 {
		t.Fatalf("First beyond length should return all tokens, got %v", got)
	}
}

func TestNilSetIsEmpty(t *testing.T) {
	var set *Set

	if set.Len() != 0 || set.Has("python") || len(set.Values()) != 0 {
		t.Fatalf("nil set should behave as empty")
	}
}
