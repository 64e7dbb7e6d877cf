package zap

import (
	"io"
	"log/slog"
	"time"

	"github.com/jmylchreest/blockzap/pkg/block"
)

// Zapper cleans block trees. It holds only immutable configuration and is
// safe for concurrent use.
type Zapper struct {
	taxonomy *Taxonomy
	factory  block.Factory
	logger   *slog.Logger
}

// Option configures a Zapper.
type Option func(*Zapper)

// WithTaxonomy sets the category tables. Nil keeps the default.
func WithTaxonomy(t *Taxonomy) Option {
	return func(z *Zapper) {
		if t != nil {
			z.taxonomy = t
		}
	}
}

// WithFactory sets the node constructor. Nil keeps the default.
func WithFactory(f block.Factory) Option {
	return func(z *Zapper) {
		if f != nil {
			z.factory = f
		}
	}
}

// WithLogger sets the logger used to report skipped nodes.
func WithLogger(l *slog.Logger) Option {
	return func(z *Zapper) {
		if l != nil {
			z.logger = l
		}
	}
}

// New creates a Zapper using DefaultTaxonomy and block.DefaultFactory unless
// overridden.
func New(opts ...Option) *Zapper {
	z := &Zapper{
		taxonomy: DefaultTaxonomy(),
		factory:  block.DefaultFactory(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(z)
	}
	return z
}

// Taxonomy returns the category tables in use.
func (z *Zapper) Taxonomy() *Taxonomy {
	return z.taxonomy
}

// Classify partitions keys using the zapper's taxonomy.
func (z *Zapper) Classify(keys []string, mode Mode, opts Options) Classification {
	return Classify(z.taxonomy, keys, mode, opts)
}

// Clean cleans a single tree. It returns the rebuilt node and the keys
// removed from the root itself. The error is non-nil only when the root was
// dropped (a *MalformedNodeError or *ReconstructionError); failures further
// down the tree drop the affected subtree and are logged.
func (z *Zapper) Clean(node block.Node, mode Mode, opts Options) (block.Node, []string, error) {
	report := NewReport(mode)
	out, removed, ok := z.cleanNode(node, nil, mode, opts, report)
	if !ok {
		return block.Node{}, removed, report.Skipped[len(report.Skipped)-1].Err
	}
	return out, removed, nil
}

// CleanForest cleans every tree in nodes. Per-node failures never abort the
// pass: failing nodes are left out of Result.Blocks and listed in
// Report.Skipped.
func (z *Zapper) CleanForest(nodes []block.Node, mode Mode, opts Options) *Result {
	start := time.Now()
	report := NewReport(mode)

	cleaned := make([]block.Node, 0, len(nodes))
	for i, n := range nodes {
		out, _, ok := z.cleanNode(n, block.Path{i}, mode, opts, report)
		if ok {
			cleaned = append(cleaned, out)
		}
	}

	report.Duration = time.Since(start)
	z.logger.Debug("zap pass complete",
		"mode", mode,
		"visited", report.Visited,
		"changed", report.Changed,
		"removed", report.Removed,
		"skipped", len(report.Skipped))

	return &Result{Blocks: cleaned, Report: report}
}

// cleanNode classifies n, cleans its children in order, and rebuilds it.
// The returned bool is false when n is dropped.
func (z *Zapper) cleanNode(n block.Node, path block.Path, mode Mode, opts Options, report *Report) (block.Node, []string, bool) {
	report.Visited++

	if err := block.Validate(n); err != nil {
		descendants := block.Count(n) - 1
		report.Visited += descendants
		merr := &MalformedNodeError{Path: path.String(), ClientID: n.ClientID, Err: err}
		report.RecordSkip(Skip{
			Path:        path.String(),
			Kind:        n.Kind,
			ClientID:    n.ClientID,
			Reason:      SkipMalformed,
			Descendants: descendants,
			Err:         merr,
		})
		z.logger.Warn("skipping malformed block", "path", pathOrRoot(path.String()), "error", err)
		return block.Node{}, nil, false
	}

	keys := n.Keys()
	class := z.Classify(keys, mode, opts)

	entry := -1
	if len(class.Removed) > 0 {
		entry = report.RecordRemoval(NodeReport{
			Path:             path.String(),
			Kind:             n.Kind,
			ClientID:         n.ClientID,
			AttributesBefore: len(keys),
			AttributesAfter:  len(class.Kept),
			RemovedKeys:      class.Removed,
		}, z.taxonomy)
	}

	children := make([]block.Node, 0, len(n.Children))
	for i, child := range n.Children {
		out, _, ok := z.cleanNode(child, path.Child(i), mode, opts, report)
		if ok {
			children = append(children, out)
		}
	}

	attrs := make(map[string]any, len(class.Kept))
	for _, k := range class.Kept {
		attrs[k] = n.Attributes[k]
	}

	rebuilt, err := z.factory.Build(n.Kind, attrs, children)
	if err != nil {
		rerr := &ReconstructionError{Path: path.String(), Kind: n.Kind, ClientID: n.ClientID, Err: err}
		if entry >= 0 {
			report.Nodes[entry].Error = err.Error()
		}
		report.RecordSkip(Skip{
			Path:        path.String(),
			Kind:        n.Kind,
			ClientID:    n.ClientID,
			Reason:      SkipReconstruction,
			Descendants: block.CountForest(children),
			Err:         rerr,
		})
		z.logger.Warn("dropping block the factory refused", "block", n.Label(), "path", pathOrRoot(path.String()), "error", err)
		return block.Node{}, class.Removed, false
	}

	rebuilt.ClientID = n.ClientID
	return rebuilt, class.Removed, true
}
