// Package zap strips categories of presentation attributes from block trees.
//
// Every attribute key is classified against a Taxonomy of named categories.
// Essential keys always survive, Media keys survive when Options.KeepMedia is
// set, and the remaining categories are removed either selectively (per
// Options flag) or wholesale in Mega mode. Keys that belong to no category are
// never removed.
package zap

import (
	"fmt"
	"strings"
)

// Category names a fixed set of attribute keys.
type Category string

const (
	CategoryEssential        Category = "essential"
	CategoryMedia            Category = "media"
	CategoryBlockSettings    Category = "blockSettings"
	CategoryBlockStyles      Category = "blockStyles"
	CategoryCustomProperties Category = "customProperties"
	CategoryCustomClasses    Category = "customClasses"
	CategoryCustomAnchors    Category = "customAnchors"
	CategoryHTMLElements     Category = "htmlElements"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategoryEssential,
		CategoryMedia,
		CategoryBlockSettings,
		CategoryBlockStyles,
		CategoryCustomProperties,
		CategoryCustomClasses,
		CategoryCustomAnchors,
		CategoryHTMLElements,
	}
}

// RemovableCategories returns the categories controlled by an Options flag,
// i.e. everything except Essential and Media.
func RemovableCategories() []Category {
	return Categories()[2:]
}

// Removable reports whether c is controlled by an Options flag.
func (c Category) Removable() bool {
	switch c {
	case CategoryBlockSettings, CategoryBlockStyles, CategoryCustomProperties,
		CategoryCustomClasses, CategoryCustomAnchors, CategoryHTMLElements:
		return true
	}
	return false
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == CategoryEssential || c == CategoryMedia || c.Removable()
}

// Title returns a display name for the category.
func (c Category) Title() string {
	switch c {
	case CategoryEssential:
		return "Essential"
	case CategoryMedia:
		return "Media"
	case CategoryBlockSettings:
		return "Block settings"
	case CategoryBlockStyles:
		return "Block styles"
	case CategoryCustomProperties:
		return "Custom properties"
	case CategoryCustomClasses:
		return "Custom classes"
	case CategoryCustomAnchors:
		return "Custom anchors"
	case CategoryHTMLElements:
		return "HTML elements"
	default:
		return string(c)
	}
}

// ParseCategory resolves a category name. Matching ignores case, dashes and
// underscores, so "block-styles", "block_styles" and "blockStyles" are equal.
func ParseCategory(s string) (Category, error) {
	norm := normalizeName(s)
	for _, c := range Categories() {
		if normalizeName(string(c)) == norm {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
}
