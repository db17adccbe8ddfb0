package ids

import (
	"testing"

	"github.com/google/uuid"
)

func TestGenerate_IsDeterministic(t *testing.T) {
	a := Generate("compass-axis", "honesty")
	b := Generate("compass-axis", "honesty")
	if a != b {
		t.Fatalf("expected identical IDs, got %s and %s", a, b)
	}
	if a == uuid.Nil {
		t.Fatalf("expected non-nil ID")
	}
}

func TestGenerate_IsCaseInsensitiveOnName(t *testing.T) {
	a := Generate("archetype", "Hero")
	b := Generate("archetype", "hero")
	c := Generate("archetype", "HERO")
	if a != b || b != c {
		t.Fatalf("expected case variants to collapse: %s %s %s", a, b, c)
	}
}

func TestGenerate_SeparatesEntityTypes(t *testing.T) {
	a := Generate("compass-axis", "honesty")
	b := Generate("archetype", "honesty")
	if a == b {
		t.Fatalf("expected distinct IDs across entity types, both %s", a)
	}
}

func TestGenerate_DelimiterPreventsBoundaryCollisions(t *testing.T) {
	a := Generate("ab", "c")
	b := Generate("a", "bc")
	if a == b {
		t.Fatalf("expected %q/%q and %q/%q to differ, both %s", "ab", "c", "a", "bc", a)
	}
}
