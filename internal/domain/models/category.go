package models

import "strings"

// Category is a topical label. It selects the storage subdirectory and the
// signal rule set.
type Category string

const (
	CategoryFinance     Category = "Finance"
	CategoryEconomics   Category = "Economics"
	CategoryAI          Category = "AI"
	CategoryGeopolitics Category = "Geopolitics"
)

// Categories lists every supported category in display order.
func Categories() []Category {
	return []Category{CategoryFinance, CategoryEconomics, CategoryAI, CategoryGeopolitics}
}

// ParseCategory matches s case-insensitively against the closed set.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// RequiresTicker reports whether requests for c must carry a ticker symbol.
func (c Category) RequiresTicker() bool {
	return c == CategoryFinance || c == CategoryEconomics
}

func (c Category) String() string { return string(c) }
