// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"strings"
)

// Category is a closed set of tags used to filter vault listings.
// It carries no security meaning.
type Category string

const (
	// CategoryPassword tags credentials and PINs.
	CategoryPassword Category = "password"

	// CategoryNote tags free-form secure notes.
	CategoryNote Category = "note"

	// CategoryCard tags payment card details.
	CategoryCard Category = "card"

	// CategoryOther tags everything else.
	CategoryOther Category = "other"

	// CategoryAll is the empty filter used by listings to mean "every category".
	// It is never a valid category for a stored record.
	CategoryAll Category = ""
)

// Categories returns the closed category vocabulary in display order.
func Categories() []Category {
	return []Category{CategoryPassword, CategoryNote, CategoryCard, CategoryOther}
}

// Valid reports whether c belongs to the closed vocabulary.
func (c Category) Valid() bool {
	switch c {
	case CategoryPassword, CategoryNote, CategoryCard, CategoryOther:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory converts user input into a Category. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}
