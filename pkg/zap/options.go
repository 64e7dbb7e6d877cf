package zap

import (
	"fmt"
	"strings"
)

// Mode selects the cleaning policy.
type Mode string

const (
	// ModeSelective removes exactly the categories flagged in Options.
	ModeSelective Mode = "selective"

	// ModeMega removes every category except Essential, and Media unless
	// Options.KeepMedia is set.
	ModeMega Mode = "mega"
)

// ParseMode resolves a mode name. The empty string means Selective.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeSelective:
		return ModeSelective, nil
	case ModeMega:
		return ModeMega, nil
	default:
		return "", fmt.Errorf("unknown zap mode %q (expected selective or mega)", s)
	}
}

// Options selects which categories a pass removes. A true flag means
// "remove this category". Options are read-only to the engine.
type Options struct {
	// === Removable categories (Selective mode) ===

	// BlockSettings removes alignment, layout and behaviour toggles.
	BlockSettings bool `json:"blockSettings" yaml:"blockSettings" mapstructure:"blockSettings"`

	// BlockStyles removes colors, gradients, typography and the style object.
	BlockStyles bool `json:"blockStyles" yaml:"blockStyles" mapstructure:"blockStyles"`

	// CustomProperties removes dimension and spacing values.
	CustomProperties bool `json:"customProperties" yaml:"customProperties" mapstructure:"customProperties"`

	// CustomClasses removes the additional CSS class name.
	CustomClasses bool `json:"customClasses" yaml:"customClasses" mapstructure:"customClasses"`

	// CustomAnchors removes HTML anchors.
	CustomAnchors bool `json:"customAnchors" yaml:"customAnchors" mapstructure:"customAnchors"`

	// HTMLElements removes overrides of the rendered HTML tag.
	HTMLElements bool `json:"htmlElements" yaml:"htmlElements" mapstructure:"htmlElements"`

	// === Preservation (both modes) ===

	// KeepMedia protects media keys, including dimension keys shared with
	// CustomProperties.
	KeepMedia bool `json:"keepMedia" yaml:"keepMedia" mapstructure:"keepMedia"`
}

// DefaultOptions returns the options an editor panel starts with: styles and
// classes selected, media protected.
func DefaultOptions() Options {
	return Options{
		BlockStyles:   true,
		CustomClasses: true,
		KeepMedia:     true,
	}
}

// Removes reports whether the flag for c is set. Essential, Media and unknown
// categories report false.
func (o Options) Removes(c Category) bool {
	switch c {
	case CategoryBlockSettings:
		return o.BlockSettings
	case CategoryBlockStyles:
		return o.BlockStyles
	case CategoryCustomProperties:
		return o.CustomProperties
	case CategoryCustomClasses:
		return o.CustomClasses
	case CategoryCustomAnchors:
		return o.CustomAnchors
	case CategoryHTMLElements:
		return o.HTMLElements
	default:
		return false
	}
}

// Set returns a copy of o with the flag for c set to remove. Use
// CategoryMedia to toggle KeepMedia (remove=true clears KeepMedia).
func (o Options) Set(c Category, remove bool) (Options, error) {
	switch c {
	case CategoryBlockSettings:
		o.BlockSettings = remove
	case CategoryBlockStyles:
		o.BlockStyles = remove
	case CategoryCustomProperties:
		o.CustomProperties = remove
	case CategoryCustomClasses:
		o.CustomClasses = remove
	case CategoryCustomAnchors:
		o.CustomAnchors = remove
	case CategoryHTMLElements:
		o.HTMLElements = remove
	case CategoryMedia:
		o.KeepMedia = !remove
	default:
		return o, fmt.Errorf("category %q cannot be removed", c)
	}
	return o, nil
}

// Selected returns the removable categories whose flag is set.
func (o Options) Selected() []Category {
	var out []Category
	for _, c := range RemovableCategories() {
		if o.Removes(c) {
			out = append(out, c)
		}
	}
	return out
}

// AnySelected reports whether at least one removable category is flagged.
// Editors use it to disable a Selective zap that would do nothing; the engine
// itself never refuses a pass.
func (o Options) AnySelected() bool {
	return len(o.Selected()) > 0
}

// Merge returns o with every flag set in other also set. KeepMedia is taken
// from other only when other sets it.
func (o Options) Merge(other Options) Options {
	merged := o
	for _, c := range other.Selected() {
		merged, _ = merged.Set(c, true)
	}
	if other.KeepMedia {
		merged.KeepMedia = true
	}
	return merged
}

// OptionsFromNames builds options that remove the named categories. Names are
// resolved with ParseCategory.
func OptionsFromNames(names []string, keepMedia bool) (Options, error) {
	opts := Options{KeepMedia: keepMedia}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		c, err := ParseCategory(name)
		if err != nil {
			return Options{}, err
		}
		if !c.Removable() {
			return Options{}, fmt.Errorf("category %q cannot be removed", c)
		}
		opts, _ = opts.Set(c, true)
	}
	return opts, nil
}
