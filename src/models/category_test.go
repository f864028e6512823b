package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryFromString(t *testing.T) {
	cases := []struct {
		input string
		want  ExpenseCategory
	}{
		{"FOOD", CategoryFood},
		{"food", CategoryFood},
		{"Food", CategoryFood},
		{"Transport", CategoryTransport},
		{"UTILITIES", CategoryUtilities},
		{"entertainment", CategoryEntertainment},
		{"Health", CategoryHealth},
		{"other", CategoryOther},
		{"N/A", CategoryNA},
		{"na", CategoryNA},
		{"", CategoryNA},
		{"   ", CategoryNA},
		{"groceries", CategoryNA},
		{" Food ", CategoryFood},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CategoryFromString(tc.input), "input %q", tc.input)
	}
}

func TestParseCategory(t *testing.T) {
	cat, ok := ParseCategory("food")
	assert.True(t, ok)
	assert.Equal(t, CategoryFood, cat)

	cat, ok = ParseCategory("N/A")
	assert.True(t, ok)
	assert.Equal(t, CategoryNA, cat)

	// Unlike CategoryFromString, unrecognized input is reported instead of
	// being filed under NA.
	for _, input := range []string{"", "   ", "GADGETS", "groceries"} {
		_, ok := ParseCategory(input)
		assert.False(t, ok, "input %q", input)
	}
}

func TestCategoryValid(t *testing.T) {
	assert.True(t, CategoryFood.Valid())
	assert.True(t, CategoryNA.Valid())
	assert.False(t, ExpenseCategory("GADGETS").Valid())
	assert.False(t, ExpenseCategory("").Valid())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("ROOT").Valid())
}
