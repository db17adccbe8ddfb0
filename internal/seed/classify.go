package seed

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// CategoryOther is the fallback for echo-type names absent from the
// classification asset.
const CategoryOther = "other"

// Classifier maps echo-type names to one of the seven known categories.
// The mapping is data, not logic: it lives in the embedded
// echo_categories.json asset.
type Classifier struct {
	byName map[string]string
}

func NewClassifier() (*Classifier, error) {
	raw, err := embeddedData.ReadFile("data/echo_categories.json")
	if err != nil {
		return nil, fmt.Errorf("seed: read classification asset: %w", err)
	}
	var categories map[string][]string
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, fmt.Errorf("seed: parse classification asset: %w", err)
	}

	byName := map[string]string{}
	for category, names := range categories {
		for _, name := range names {
			key := strings.ToLower(name)
			if existing, ok := byName[key]; ok && existing != category {
				return nil, fmt.Errorf("seed: echo type %q classified as both %q and %q", name, existing, category)
			}
			byName[key] = category
		}
	}
	return &Classifier{byName: byName}, nil
}

// Classify is case-insensitive on the name.
func (c *Classifier) Classify(name string) string {
	if category, ok := c.byName[strings.ToLower(name)]; ok {
		return category
	}
	return CategoryOther
}

// Categories returns the distinct categories in the asset, sorted.
func (c *Classifier) Categories() []string {
	set := map[string]bool{}
	for _, category := range c.byName {
		set[category] = true
	}
	out := make([]string, 0, len(set))
	for category := range set {
		out = append(out, category)
	}
	sort.Strings(out)
	return out
}
