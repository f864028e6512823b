package models

import "strings"

// ExpenseCategory is the closed set of categories a budget can allocate
// limits for and an expense can be filed under.
type ExpenseCategory string

const (
	CategoryFood          ExpenseCategory = "FOOD"
	CategoryTransport     ExpenseCategory = "TRANSPORT"
	CategoryUtilities     ExpenseCategory = "UTILITIES"
	CategoryEntertainment ExpenseCategory = "ENTERTAINMENT"
	CategoryHealth        ExpenseCategory = "HEALTH"
	CategoryOther         ExpenseCategory = "OTHER"
	CategoryNA            ExpenseCategory = "NA"
)

var categoryDisplayNames = map[ExpenseCategory]string{
	CategoryFood:          "Food",
	CategoryTransport:     "Transport",
	CategoryUtilities:     "Utilities",
	CategoryEntertainment: "Entertainment",
	CategoryHealth:        "Health",
	CategoryOther:         "Other",
	CategoryNA:            "N/A",
}

// DisplayName returns the human-readable name for the category.
func (c ExpenseCategory) DisplayName() string {
	if name, ok := categoryDisplayNames[c]; ok {
		return name
	}
	return string(c)
}

// Valid reports whether c is one of the known categories.
func (c ExpenseCategory) Valid() bool {
	_, ok := categoryDisplayNames[c]
	return ok
}

// ParseCategory resolves client input to a known category. Matching is
// case-insensitive against both the enum name and the display name; the bool
// reports whether the input named a real category.
func ParseCategory(value string) (ExpenseCategory, bool) {
	normalized := strings.TrimSpace(value)
	if normalized == "" {
		return CategoryNA, false
	}
	for cat, display := range categoryDisplayNames {
		if strings.EqualFold(string(cat), normalized) || strings.EqualFold(display, normalized) {
			return cat, true
		}
	}
	return CategoryNA, false
}

// CategoryFromString is the lenient form of ParseCategory used for expenses:
// anything unrecognized (including empty input) files under NA.
func CategoryFromString(value string) ExpenseCategory {
	cat, _ := ParseCategory(value)
	return cat
}
