package convert

import (
	"database/sql/driver"
	"encoding/json"
	"hash/fnv"
	"strings"
)

// FoldedStringListMap is a map[string][]string JSON column whose lookups
// are case-insensitive. Keys keep the casing they were written with, but
// Get, Has and Equal fold before comparing, so a value stored under
// "Theme" is found under "theme" after a round-trip.
type FoldedStringListMap struct {
	entries map[string][]string
	// folded lower-case key -> canonical key in entries
	folded map[string]string
}

func NewFoldedStringListMap() FoldedStringListMap {
	return FoldedStringListMap{
		entries: map[string][]string{},
		folded:  map[string]string{},
	}
}

func (FoldedStringListMap) GormDataType() string { return "jsonb" }

func (m *FoldedStringListMap) ensure() {
	if m.entries == nil {
		m.entries = map[string][]string{}
	}
	if m.folded == nil {
		m.folded = map[string]string{}
	}
}

// Set stores values under key. A key differing only in case replaces the
// existing entry but keeps the new casing.
func (m *FoldedStringListMap) Set(key string, values []string) {
	m.ensure()
	fold := strings.ToLower(key)
	if canonical, ok := m.folded[fold]; ok && canonical != key {
		delete(m.entries, canonical)
	}
	m.entries[key] = append([]string(nil), values...)
	m.folded[fold] = key
}

func (m FoldedStringListMap) Get(key string) ([]string, bool) {
	canonical, ok := m.folded[strings.ToLower(key)]
	if !ok {
		return nil, false
	}
	values, ok := m.entries[canonical]
	return values, ok
}

func (m FoldedStringListMap) Has(key string) bool {
	_, ok := m.folded[strings.ToLower(key)]
	return ok
}

func (m FoldedStringListMap) Len() int { return len(m.entries) }

// Keys returns the canonical (as-written) keys.
func (m FoldedStringListMap) Keys() []string {
	out := make([]string, 0, len(m.entries))
	for k := range m.entries {
		out = append(out, k)
	}
	return out
}

// MarshalJSON serializes the canonical entries, matching the column wire
// format so outbox payload snapshots and column values agree.
func (m FoldedStringListMap) MarshalJSON() ([]byte, error) {
	if m.entries == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m.entries)
}

func (m *FoldedStringListMap) UnmarshalJSON(raw []byte) error {
	decoded := map[string][]string{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	out := NewFoldedStringListMap()
	for k, v := range decoded {
		out.Set(k, v)
	}
	*m = out
	return nil
}

func (m FoldedStringListMap) Value() (driver.Value, error) {
	if m.entries == nil {
		return jsonValue(map[string][]string{})
	}
	return jsonValue(m.entries)
}

func (m *FoldedStringListMap) Scan(src interface{}) error {
	decoded := map[string][]string{}
	if !jsonScan("FoldedStringListMap", src, &decoded) {
		*m = NewFoldedStringListMap()
		return nil
	}
	out := NewFoldedStringListMap()
	for k, v := range decoded {
		out.Set(k, v)
	}
	*m = out
	return nil
}

// Equal is order-independent over entries and case-insensitive over keys;
// value lists compare in order.
func (m FoldedStringListMap) Equal(other FoldedStringListMap) bool {
	if len(m.entries) != len(other.entries) {
		return false
	}
	for key, values := range m.entries {
		got, ok := other.Get(key)
		if !ok || !StringList(values).Equal(StringList(got)) {
			return false
		}
	}
	return true
}

// Hash folds keys and accumulates entry hashes commutatively.
func (m FoldedStringListMap) Hash() uint64 {
	var acc uint64
	for key, values := range m.entries {
		h := fnv.New64a()
		h.Write([]byte(strings.ToLower(key)))
		h.Write([]byte{0})
		for _, v := range values {
			h.Write([]byte(v))
			h.Write([]byte{0})
		}
		acc += h.Sum64()
	}
	return acc
}
