package zap

import "sort"

// Classification partitions a key set into kept and removed keys. Both
// slices are sorted and disjoint, and together hold every input key once.
type Classification struct {
	Kept    []string `json:"kept" yaml:"kept"`
	Removed []string `json:"removed" yaml:"removed"`
}

// Survives reports whether category c survives a pass with the given mode
// and options.
func Survives(c Category, mode Mode, opts Options) bool {
	switch c {
	case CategoryEssential:
		return true
	case CategoryMedia:
		return opts.KeepMedia
	}
	if mode == ModeMega {
		return false
	}
	return !opts.Removes(c)
}

// Classify partitions keys against taxonomy t. A key is kept when any of its
// categories survives, or when it belongs to no category at all. Duplicate
// input keys are collapsed.
func Classify(t *Taxonomy, keys []string, mode Mode, opts Options) Classification {
	result := Classification{
		Kept:    []string{},
		Removed: []string{},
	}

	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if keep(t, key, mode, opts) {
			result.Kept = append(result.Kept, key)
		} else {
			result.Removed = append(result.Removed, key)
		}
	}

	sort.Strings(result.Kept)
	sort.Strings(result.Removed)
	return result
}

func keep(t *Taxonomy, key string, mode Mode, opts Options) bool {
	cats := t.membership[key]
	if len(cats) == 0 {
		return true
	}
	for _, c := range cats {
		if Survives(c, mode, opts) {
			return true
		}
	}
	return false
}
