package zap

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Taxonomy maps categories to attribute key sets. A Taxonomy is immutable
// once built and may be shared between goroutines.
type Taxonomy struct {
	keys       map[Category]map[string]struct{}
	membership map[string][]Category
}

// defaultKeys are the built-in category tables for common editor blocks.
// width, height, aspectRatio and scale appear in both Media and
// CustomProperties; a key survives if either category does.
var defaultKeys = map[Category][]string{
	CategoryEssential: {
		"content", "text", "value", "citation", "caption", "level", "ordered",
		"values", "start", "reversed", "url", "href", "linkTarget", "rel",
		"placeholder", "label", "title", "summary", "body", "ref", "name",
		"language", "lineNumbers", "head", "foot", "columns", "rows",
	},
	CategoryMedia: {
		"id", "ids", "mediaId", "mediaUrl", "mediaType", "mediaAlt", "mediaLink",
		"mediaPosition", "mediaSizeSlug", "mediaWidth", "src", "alt", "sizeSlug",
		"linkDestination", "images", "poster", "autoplay", "loop", "muted",
		"controls", "playsInline", "preload", "focalPoint", "icon", "iconName",
		"svg", "videoId", "width", "height", "aspectRatio", "scale",
	},
	CategoryBlockSettings: {
		"align", "textAlign", "verticalAlignment", "isStackedOnMobile", "layout",
		"lock", "allowedBlocks", "templateLock", "orientation", "justifyContent",
		"dropCap", "isDark", "hasParallax", "isRepeated", "useFeaturedImage",
		"openInNewTab", "displayAsDropdown", "showSubmenuIcon", "isLink",
	},
	CategoryBlockStyles: {
		"style", "backgroundColor", "textColor", "gradient", "customGradient",
		"overlayColor", "customOverlayColor", "borderColor", "fontSize",
		"fontFamily", "dimRatio", "shadow", "customTextColor",
		"customBackgroundColor",
	},
	CategoryCustomProperties: {
		"width", "height", "aspectRatio", "scale", "minHeight", "minHeightUnit",
		"contentPosition", "padding", "margin", "blockGap", "spacing",
		"maxWidth", "contentSize", "wideSize",
	},
	CategoryCustomClasses: {
		"className",
	},
	CategoryCustomAnchors: {
		"anchor",
	},
	CategoryHTMLElements: {
		"tagName", "htmlTag", "htmlElement", "tag",
	},
}

// DefaultTaxonomy returns the built-in category tables.
func DefaultTaxonomy() *Taxonomy {
	t, err := NewTaxonomy(defaultKeys)
	if err != nil {
		panic(err) // built-in tables are static
	}
	return t
}

// NewTaxonomy builds a taxonomy from category key lists. Unknown category
// names and empty keys are rejected.
func NewTaxonomy(sets map[Category][]string) (*Taxonomy, error) {
	t := &Taxonomy{
		keys:       make(map[Category]map[string]struct{}, len(sets)),
		membership: make(map[string][]Category),
	}
	for c, keys := range sets {
		if err := t.add(c, keys); err != nil {
			return nil, err
		}
	}
	t.sortMembership()
	return t, nil
}

func (t *Taxonomy) add(c Category, keys []string) error {
	if !c.Valid() {
		return fmt.Errorf("unknown category %q", c)
	}
	set, ok := t.keys[c]
	if !ok {
		set = make(map[string]struct{}, len(keys))
		t.keys[c] = set
	}
	for _, k := range keys {
		if k == "" {
			return fmt.Errorf("category %s: empty attribute key", c)
		}
		if _, dup := set[k]; dup {
			continue
		}
		set[k] = struct{}{}
		t.membership[k] = append(t.membership[k], c)
	}
	return nil
}

func (t *Taxonomy) sortMembership() {
	order := make(map[Category]int)
	for i, c := range Categories() {
		order[c] = i
	}
	for k, cats := range t.membership {
		sort.Slice(cats, func(i, j int) bool { return order[cats[i]] < order[cats[j]] })
		t.membership[k] = cats
	}
}

// Extend returns a new taxonomy with extra keys added to the given
// categories. The receiver is unchanged.
func (t *Taxonomy) Extend(extra map[Category][]string) (*Taxonomy, error) {
	merged := make(map[Category][]string, len(t.keys)+len(extra))
	for c := range t.keys {
		merged[c] = t.Keys(c)
	}
	for c, keys := range extra {
		merged[c] = append(merged[c], keys...)
	}
	return NewTaxonomy(merged)
}

// Keys returns the sorted keys of category c.
func (t *Taxonomy) Keys(c Category) []string {
	set := t.keys[c]
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key is a member of category c.
func (t *Taxonomy) Has(c Category, key string) bool {
	_, ok := t.keys[c][key]
	return ok
}

// CategoriesOf returns every category key belongs to, in display order. An
// empty result means the key is unknown.
func (t *Taxonomy) CategoriesOf(key string) []Category {
	cats := t.membership[key]
	out := make([]Category, len(cats))
	copy(out, cats)
	return out
}

// CategoryInfo describes one category of a taxonomy.
type CategoryInfo struct {
	Name      Category `json:"name" yaml:"name"`
	Title     string   `json:"title" yaml:"title"`
	Removable bool     `json:"removable" yaml:"removable"`
	Keys      []string `json:"keys" yaml:"keys"`
}

// Describe lists every category in display order with its keys.
func (t *Taxonomy) Describe() []CategoryInfo {
	cats := Categories()
	out := make([]CategoryInfo, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryInfo{
			Name:      c,
			Title:     c.Title(),
			Removable: c.Removable(),
			Keys:      t.Keys(c),
		})
	}
	return out
}

// taxonomyFile is the YAML structure of a taxonomy extension file:
//
//	categories:
//	  blockStyles: [myColor]
//	  customClasses: [extraClassName]
type taxonomyFile struct {
	Categories map[string][]string `yaml:"categories"`
}

// LoadExtension reads extra category keys from a YAML file and returns a
// taxonomy extending base.
func LoadExtension(base *Taxonomy, path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path) //#nosec G304
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}

	var f taxonomyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}

	extra := make(map[Category][]string, len(f.Categories))
	for name, keys := range f.Categories {
		c, err := ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("taxonomy %s: %w", path, err)
		}
		extra[c] = append(extra[c], keys...)
	}
	return base.Extend(extra)
}
