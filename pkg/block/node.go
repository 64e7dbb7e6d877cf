// Package block defines the content-block tree that blockzap cleans.
// A block is a kind, a map of attributes, and an ordered list of inner blocks,
// mirroring the shape editors use to serialize nested content.
package block

import (
	"sort"
	"strconv"
	"strings"
)

// Node is a single block in a content tree.
type Node struct {
	// Kind is the block type identifier (e.g. "core/paragraph"). It is never
	// interpreted, only used to rebuild a node of the same kind.
	Kind string `json:"name" yaml:"name" validate:"required"`

	// Attributes maps attribute keys to opaque values.
	Attributes map[string]any `json:"attributes" yaml:"attributes" validate:"attrkeys"`

	// Children are the inner blocks, in document order.
	Children []Node `json:"innerBlocks,omitempty" yaml:"innerBlocks,omitempty" validate:"-"`

	// ClientID is an identity token supplied by the host so it can match a
	// rebuilt node to its original. It is carried through untouched.
	ClientID string `json:"clientId,omitempty" yaml:"clientId,omitempty"`
}

// Keys returns the node's attribute keys in sorted order.
func (n Node) Keys() []string {
	keys := make([]string, 0, len(n.Attributes))
	for k := range n.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Label returns a short human-readable label for the node, used in reports
// and log lines.
func (n Node) Label() string {
	if n.Kind == "" {
		return "(unnamed)"
	}
	if n.ClientID != "" {
		return n.Kind + "#" + n.ClientID
	}
	return n.Kind
}

// Count returns the number of nodes in the subtree rooted at n, including n.
func Count(n Node) int {
	total := 1
	for _, c := range n.Children {
		total += Count(c)
	}
	return total
}

// CountForest returns the number of nodes across all trees in nodes.
func CountForest(nodes []Node) int {
	total := 0
	for _, n := range nodes {
		total += Count(n)
	}
	return total
}

// Walk visits every node in the forest in pre-order. The path is the chain of
// child indexes leading to the node. Returning false from fn stops descent
// into that node's children.
func Walk(nodes []Node, fn func(path Path, n Node) bool) {
	walk(nodes, nil, fn)
}

func walk(nodes []Node, parent Path, fn func(Path, Node) bool) {
	for i, n := range nodes {
		p := parent.Child(i)
		if fn(p, n) {
			walk(n.Children, p, fn)
		}
	}
}

// Path locates a node in a forest as a chain of child indexes.
type Path []int

// Child returns a new path for the i-th child of p. The receiver is not
// modified, so sibling paths never share backing storage.
func (p Path) Child(i int) Path {
	next := make(Path, len(p)+1)
	copy(next, p)
	next[len(p)] = i
	return next
}

// String renders the path as slash-separated indexes, e.g. "0/2/1".
func (p Path) String() string {
	if len(p) == 0 {
		return ""
	}
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, "/")
}
