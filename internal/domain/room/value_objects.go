package room

import (
	"sort"
	"strings"
)

// Features is a normalized amenity set: lower-cased, deduplicated, sorted.
type Features struct {
	values []string
}

func NewFeatures(values []string) Features {
	seen := make(map[string]struct{}, len(values))
	normalized := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		normalized = append(normalized, v)
	}
	sort.Strings(normalized)
	return Features{values: normalized}
}

func (f Features) Contains(feature string) bool {
	feature = strings.ToLower(strings.TrimSpace(feature))
	for _, v := range f.values {
		if v == feature {
			return true
		}
	}
	return false
}

func (f Features) Values() []string {
	out := make([]string, len(f.values))
	copy(out, f.values)
	return out
}

func (f Features) IsEmpty() bool {
	return len(f.values) == 0
}
