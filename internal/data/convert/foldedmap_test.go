package convert

import "testing"

func TestFoldedStringListMap_LookupIsCaseInsensitive(t *testing.T) {
	m := NewFoldedStringListMap()
	m.Set("Theme", []string{"forest", "castle"})

	got, ok := m.Get("theme")
	if !ok {
		t.Fatalf("expected folded lookup to hit")
	}
	if !StringList(got).Equal(StringList{"forest", "castle"}) {
		t.Fatalf("unexpected values %v", got)
	}
	if !m.Has("THEME") {
		t.Fatalf("expected Has to fold case")
	}
}

func TestFoldedStringListMap_SetReplacesCaseVariantKey(t *testing.T) {
	m := NewFoldedStringListMap()
	m.Set("Theme", []string{"old"})
	m.Set("theme", []string{"new"})

	if m.Len() != 1 {
		t.Fatalf("expected one entry, got %d", m.Len())
	}
	got, _ := m.Get("Theme")
	if !StringList(got).Equal(StringList{"new"}) {
		t.Fatalf("expected replacement, got %v", got)
	}
	keys := m.Keys()
	if len(keys) != 1 || keys[0] != "theme" {
		t.Fatalf("expected latest casing to win, got %v", keys)
	}
}

func TestFoldedStringListMap_RoundTripPreservesFolding(t *testing.T) {
	in := NewFoldedStringListMap()
	in.Set("Theme", []string{"forest"})
	in.Set("difficulty", []string{"easy", "normal"})

	raw, err := in.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var out FoldedStringListMap
	if err := out.Scan(raw); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !out.Equal(in) {
		t.Fatalf("round trip mismatch")
	}
	if _, ok := out.Get("theme"); !ok {
		t.Fatalf("expected folded lookup after round trip")
	}
}

func TestFoldedStringListMap_EqualFoldsKeys(t *testing.T) {
	a := NewFoldedStringListMap()
	a.Set("Theme", []string{"forest"})
	b := NewFoldedStringListMap()
	b.Set("theme", []string{"forest"})
	if !a.Equal(b) {
		t.Fatalf("expected case-variant keys to compare equal")
	}

	c := NewFoldedStringListMap()
	c.Set("theme", []string{"castle"})
	if a.Equal(c) {
		t.Fatalf("expected differing values to compare unequal")
	}
}

func TestFoldedStringListMap_HashFoldsKeys(t *testing.T) {
	a := NewFoldedStringListMap()
	a.Set("Theme", []string{"forest"})
	a.Set("Difficulty", []string{"easy"})

	b := NewFoldedStringListMap()
	b.Set("difficulty", []string{"easy"})
	b.Set("theme", []string{"forest"})

	if a.Hash() != b.Hash() {
		t.Fatalf("expected hashes to agree across key case and order")
	}
}

func TestFoldedStringListMap_SetCopiesValues(t *testing.T) {
	src := []string{"forest"}
	m := NewFoldedStringListMap()
	m.Set("theme", src)
	src[0] = "mutated"

	got, _ := m.Get("theme")
	if got[0] != "forest" {
		t.Fatalf("expected stored values to be isolated from caller slice")
	}
}
