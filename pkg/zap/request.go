package zap

import (
	"encoding/json"
	"errors"

	"github.com/jmylchreest/blockzap/pkg/block"
)

// Request is the JSON form of a cleaning pass used by the HTTP API and the C
// bindings.
type Request struct {
	// Blocks is a block document: an array of blocks or {"blocks": [...]}.
	Blocks json.RawMessage `json:"blocks"`

	// Mode is "selective" (default) or "mega".
	Mode string `json:"mode,omitempty"`

	// Options selects categories to remove. Nil means DefaultOptions.
	Options *Options `json:"options,omitempty"`

	// Remove names additional categories to remove.
	Remove []string `json:"remove,omitempty"`
}

// ErrNoBlocks is returned by Resolve when the request has no blocks field.
var ErrNoBlocks = errors.New("blocks is required")

// Resolve decodes the request's document and resolves its mode and options.
func (r Request) Resolve() ([]block.Node, Mode, Options, error) {
	if len(r.Blocks) == 0 {
		return nil, "", Options{}, ErrNoBlocks
	}
	doc, err := block.FromJSON(r.Blocks)
	if err != nil {
		return nil, "", Options{}, err
	}

	mode, err := ParseMode(r.Mode)
	if err != nil {
		return nil, "", Options{}, err
	}

	opts := DefaultOptions()
	if r.Options != nil {
		opts = *r.Options
	}
	if len(r.Remove) > 0 {
		extra, err := OptionsFromNames(r.Remove, false)
		if err != nil {
			return nil, "", Options{}, err
		}
		opts = opts.Merge(extra)
	}
	return doc.Blocks, mode, opts, nil
}
