package ids

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	id := New(PrefixOrder)

	if !strings.HasPrefix(id, "ORD") {
		t.Errorf("id %q missing prefix", id)
	}
	// prefix + 13 digit millisecond timestamp + 6 char suffix
	if len(id) != len(PrefixOrder)+13+6 {
		t.Errorf("id %q has unexpected length %d", id, len(id))
	}
	for _, r := range id[len(PrefixOrder):] {
		if !strings.ContainsRune(alphabet, r) {
			t.Errorf("id %q contains unexpected character %q", id, r)
		}
	}
}

func TestNewUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New(PrefixTransaction)
		if seen[id] {
			t.Fatalf("duplicate id %q after %d generations", id, i)
		}
		seen[id] = true
	}
}
