package zap

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmylchreest/blockzap/pkg/block"
)

// Report summarizes one cleaning pass.
type Report struct {
	Mode Mode `json:"mode" yaml:"mode"`

	// Totals
	Visited int `json:"visited" yaml:"visited"` // every node reachable from the input, skipped ones included
	Changed int `json:"changed" yaml:"changed"` // nodes with at least one removed key
	Removed int `json:"removed" yaml:"removed"` // attribute keys removed across all nodes

	// Nodes holds one entry per changed node, in pre-order.
	Nodes []NodeReport `json:"nodes" yaml:"nodes"`

	// Skipped lists nodes left out of the cleaned forest.
	Skipped []Skip `json:"skipped,omitempty" yaml:"skipped,omitempty"`

	// RemovedByCategory counts removed keys per category. A key belonging to
	// several removed categories is counted under each.
	RemovedByCategory map[Category]int `json:"removed_by_category" yaml:"removed_by_category"`

	Duration time.Duration `json:"duration_ns" yaml:"duration_ns"`
}

// NodeReport describes the keys removed from a single node.
type NodeReport struct {
	Path             string   `json:"path" yaml:"path"`
	Kind             string   `json:"kind" yaml:"kind"`
	ClientID         string   `json:"clientId,omitempty" yaml:"clientId,omitempty"`
	AttributesBefore int      `json:"attributes_before" yaml:"attributes_before"`
	AttributesAfter  int      `json:"attributes_after" yaml:"attributes_after"`
	RemovedKeys      []string `json:"removed_keys" yaml:"removed_keys"`

	// Error is set when the node could not be rebuilt. The removal record is
	// kept as a best-effort account of what the pass intended.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// SkipReason classifies why a node was left out.
type SkipReason string

const (
	SkipMalformed      SkipReason = "malformed"
	SkipReconstruction SkipReason = "reconstruction"
)

// Skip records a node dropped from the cleaned forest.
type Skip struct {
	Path     string     `json:"path" yaml:"path"`
	Kind     string     `json:"kind,omitempty" yaml:"kind,omitempty"`
	ClientID string     `json:"clientId,omitempty" yaml:"clientId,omitempty"`
	Reason   SkipReason `json:"reason" yaml:"reason"`
	Message  string     `json:"message" yaml:"message"`

	// Descendants is the number of nodes below this one that were dropped
	// with it.
	Descendants int `json:"descendants" yaml:"descendants"`

	Err error `json:"-" yaml:"-"`
}

// String returns a formatted skip message.
func (s Skip) String() string {
	return fmt.Sprintf("[%s] %s at %s: %s", s.Reason, labelOf(s.Kind, s.ClientID), pathOrRoot(s.Path), s.Message)
}

func labelOf(kind, clientID string) string {
	return block.Node{Kind: kind, ClientID: clientID}.Label()
}

// NewReport creates an empty report for a pass in the given mode.
func NewReport(mode Mode) *Report {
	return &Report{
		Mode:              mode,
		Nodes:             []NodeReport{},
		RemovedByCategory: make(map[Category]int),
	}
}

// RecordRemoval records the removed keys of a changed node and returns its
// index in Nodes.
func (r *Report) RecordRemoval(nr NodeReport, t *Taxonomy) int {
	r.Changed++
	r.Removed += len(nr.RemovedKeys)
	for _, key := range nr.RemovedKeys {
		for _, c := range t.CategoriesOf(key) {
			r.RemovedByCategory[c]++
		}
	}
	r.Nodes = append(r.Nodes, nr)
	return len(r.Nodes) - 1
}

// RecordSkip records a dropped node.
func (r *Report) RecordSkip(s Skip) {
	if s.Err != nil && s.Message == "" {
		s.Message = s.Err.Error()
	}
	r.Skipped = append(r.Skipped, s)
}

// HasSkipped returns true if any node was dropped.
func (r *Report) HasSkipped() bool {
	return len(r.Skipped) > 0
}

// Errors returns the per-node errors of the pass, in traversal order.
func (r *Report) Errors() []error {
	errs := make([]error, 0, len(r.Skipped))
	for _, s := range r.Skipped {
		if s.Err != nil {
			errs = append(errs, s.Err)
		}
	}
	return errs
}

// String returns a human-readable summary of the report.
func (r *Report) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Mode: %s\n", r.Mode))
	sb.WriteString(fmt.Sprintf("Blocks: %d visited, %d changed, %d skipped\n",
		r.Visited, r.Changed, len(r.Skipped)))
	sb.WriteString(fmt.Sprintf("Attributes removed: %d\n", r.Removed))

	if len(r.RemovedByCategory) > 0 {
		cats := make([]Category, 0, len(r.RemovedByCategory))
		for c := range r.RemovedByCategory {
			cats = append(cats, c)
		}
		sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })

		parts := make([]string, 0, len(cats))
		for _, c := range cats {
			parts = append(parts, fmt.Sprintf("%s=%d", c, r.RemovedByCategory[c]))
		}
		sb.WriteString("Removed by category: ")
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteString("\n")
	}

	for _, n := range r.Nodes {
		sb.WriteString(fmt.Sprintf("  %s %s: %d -> %d (%s)",
			pathOrRoot(n.Path), labelOf(n.Kind, n.ClientID),
			n.AttributesBefore, n.AttributesAfter, strings.Join(n.RemovedKeys, ", ")))
		if n.Error != "" {
			sb.WriteString(" [not applied: " + n.Error + "]")
		}
		sb.WriteString("\n")
	}

	for _, s := range r.Skipped {
		sb.WriteString("  skipped " + s.String() + "\n")
	}

	return sb.String()
}

// Result contains the output of a cleaning pass.
type Result struct {
	// Blocks is the cleaned forest. Skipped nodes are omitted.
	Blocks []block.Node `json:"blocks" yaml:"blocks"`

	// Report describes what the pass did.
	Report *Report `json:"report" yaml:"report"`
}
