package domain

import "strings"

// FallbackCategory is used when a transaction arrives without a category.
const FallbackCategory = "Sonstiges"

// DefaultCategories returns the initial category vocabulary in display order.
func DefaultCategories() []string {
	return []string{
		"Lebensmittel", "Miete/Wohnen", "Mobilität", "Freizeit",
		"Versicherungen", "Gehalt", "Kleidung", "Gesundheit",
		"Bildung", "Sparen", "Sonstiges", "Haustiere",
	}
}

// DedupeCategories trims names and drops blanks and duplicates, keeping the
// first occurrence so display order is preserved.
func DedupeCategories(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
