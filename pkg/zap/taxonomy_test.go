package zap

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultTaxonomy(t *testing.T) {
	tax := DefaultTaxonomy()

	for _, c := range Categories() {
		if len(tax.Keys(c)) == 0 {
			t.Errorf("category %s has no keys", c)
		}
	}

	tests := []struct {
		key  string
		want []Category
	}{
		{"content", []Category{CategoryEssential}},
		{"src", []Category{CategoryMedia}},
		{"backgroundColor", []Category{CategoryBlockStyles}},
		{"className", []Category{CategoryCustomClasses}},
		{"anchor", []Category{CategoryCustomAnchors}},
		{"tagName", []Category{CategoryHTMLElements}},
		{"width", []Category{CategoryMedia, CategoryCustomProperties}},
		{"aspectRatio", []Category{CategoryMedia, CategoryCustomProperties}},
		{"notAThing", []Category{}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := tax.CategoriesOf(tt.key); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CategoriesOf(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestNewTaxonomy(t *testing.T) {
	t.Run("rejects unknown category", func(t *testing.T) {
		if _, err := NewTaxonomy(map[Category][]string{"colors": {"x"}}); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("rejects empty key", func(t *testing.T) {
		if _, err := NewTaxonomy(map[Category][]string{CategoryMedia: {""}}); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("deduplicates keys", func(t *testing.T) {
		tax, err := NewTaxonomy(map[Category][]string{CategoryMedia: {"src", "src"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := tax.Keys(CategoryMedia); len(got) != 1 {
			t.Errorf("expected 1 key, got %v", got)
		}
		if got := tax.CategoriesOf("src"); len(got) != 1 {
			t.Errorf("expected single membership, got %v", got)
		}
	})
}

func TestTaxonomyExtend(t *testing.T) {
	base := DefaultTaxonomy()
	ext, err := base.Extend(map[Category][]string{
		CategoryBlockStyles: {"acmeAccent"},
		CategoryMedia:       {"acmeVideo"},
	})
	if err != nil {
		t.Fatalf("Extend() error = %v", err)
	}

	if !ext.Has(CategoryBlockStyles, "acmeAccent") {
		t.Error("expected extended key")
	}
	if !ext.Has(CategoryBlockStyles, "backgroundColor") {
		t.Error("expected base keys to carry over")
	}
	if base.Has(CategoryBlockStyles, "acmeAccent") {
		t.Error("Extend must not modify the base taxonomy")
	}

	got := Classify(ext, []string{"acmeAccent", "acmeVideo"}, ModeMega, Options{KeepMedia: true})
	if !reflect.DeepEqual(got.Removed, []string{"acmeAccent"}) {
		t.Errorf("removed = %v", got.Removed)
	}
}

func TestLoadExtension(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "taxonomy.yaml")
		data := "categories:\n  block-styles: [acmeAccent]\n  customAnchors: [acmeAnchor]\n"
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}

		tax, err := LoadExtension(DefaultTaxonomy(), path)
		if err != nil {
			t.Fatalf("LoadExtension() error = %v", err)
		}
		if !tax.Has(CategoryBlockStyles, "acmeAccent") || !tax.Has(CategoryCustomAnchors, "acmeAnchor") {
			t.Error("expected keys from file")
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(path, []byte("categories:\n  colors: [x]\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadExtension(DefaultTaxonomy(), path); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadExtension(DefaultTaxonomy(), filepath.Join(dir, "nope.yaml")); err == nil {
			t.Error("expected error")
		}
	})
}

func TestTaxonomyDescribe(t *testing.T) {
	infos := DefaultTaxonomy().Describe()
	if len(infos) != len(Categories()) {
		t.Fatalf("expected %d categories, got %d", len(Categories()), len(infos))
	}
	if infos[0].Name != CategoryEssential || infos[0].Removable {
		t.Errorf("essential should come first and not be removable: %+v", infos[0])
	}
	if infos[1].Name != CategoryMedia || infos[1].Removable {
		t.Errorf("media should not be removable: %+v", infos[1])
	}
	for _, info := range infos[2:] {
		if !info.Removable || info.Title == "" || len(info.Keys) == 0 {
			t.Errorf("unexpected category info: %+v", info)
		}
	}
}
