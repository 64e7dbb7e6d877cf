package zap

import (
	"sort"

	"github.com/jmylchreest/blockzap/pkg/block"
)

// Inventory describes which attribute categories occur in a forest. Editors
// use it to grey out options that would remove nothing.
type Inventory struct {
	Blocks    int `json:"blocks" yaml:"blocks"`
	Malformed int `json:"malformed" yaml:"malformed"`

	// ByCategory counts key occurrences per category. Keys in several
	// categories are counted under each.
	ByCategory map[Category]int `json:"by_category" yaml:"by_category"`

	// Unknown counts occurrences of keys no category claims.
	Unknown map[string]int `json:"unknown" yaml:"unknown"`

	keys     map[string]int
	taxonomy *Taxonomy
}

// Inventory scans nodes without modifying or rebuilding them. Subtrees of
// malformed nodes are not scanned.
func (z *Zapper) Inventory(nodes []block.Node) *Inventory {
	inv := &Inventory{
		ByCategory: make(map[Category]int),
		Unknown:    make(map[string]int),
		keys:       make(map[string]int),
		taxonomy:   z.taxonomy,
	}

	block.Walk(nodes, func(_ block.Path, n block.Node) bool {
		if err := block.Validate(n); err != nil {
			inv.Blocks += block.Count(n)
			inv.Malformed++
			return false
		}
		inv.Blocks++
		for key := range n.Attributes {
			inv.keys[key]++
			cats := z.taxonomy.CategoriesOf(key)
			if len(cats) == 0 {
				inv.Unknown[key]++
				continue
			}
			for _, c := range cats {
				inv.ByCategory[c]++
			}
		}
		return true
	})

	return inv
}

// Present returns the categories with at least one occurrence, in display
// order.
func (inv *Inventory) Present() []Category {
	out := make([]Category, 0, len(inv.ByCategory))
	for _, c := range Categories() {
		if inv.ByCategory[c] > 0 {
			out = append(out, c)
		}
	}
	return out
}

// UnknownKeys returns the unclaimed keys in sorted order.
func (inv *Inventory) UnknownKeys() []string {
	keys := make([]string, 0, len(inv.Unknown))
	for k := range inv.Unknown {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Removable predicts how many attribute keys a pass with mode and opts would
// remove from the scanned forest.
func (inv *Inventory) Removable(mode Mode, opts Options) int {
	total := 0
	for key, count := range inv.keys {
		if !keep(inv.taxonomy, key, mode, opts) {
			total += count
		}
	}
	return total
}
