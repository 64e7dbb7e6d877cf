package main

import (
	"encoding/json"
	"fmt"

	"github.com/jmylchreest/blockzap/pkg/zap"
)

// engine is shared by every call; a Zapper holds only immutable state.
var engine = zap.New()

// zapJSON runs a cleaning pass for a JSON-encoded zap.Request and returns the
// JSON-encoded zap.Result.
func zapJSON(request string) (string, error) {
	req, err := decodeRequest(request)
	if err != nil {
		return "", err
	}
	blocks, mode, opts, err := req.Resolve()
	if err != nil {
		return "", err
	}
	return encode(engine.CleanForest(blocks, mode, opts))
}

// inspectResult is the JSON returned by blockzap_inspect.
type inspectResult struct {
	Inventory *zap.Inventory `json:"inventory"`
	Present   []zap.Category `json:"present"`
	Removable int            `json:"removable"`
}

func inspectJSON(request string) (string, error) {
	req, err := decodeRequest(request)
	if err != nil {
		return "", err
	}
	blocks, mode, opts, err := req.Resolve()
	if err != nil {
		return "", err
	}
	inv := engine.Inventory(blocks)
	return encode(inspectResult{
		Inventory: inv,
		Present:   inv.Present(),
		Removable: inv.Removable(mode, opts),
	})
}

func categoriesJSON() (string, error) {
	return encode(engine.Taxonomy().Describe())
}

func decodeRequest(request string) (zap.Request, error) {
	var req zap.Request
	if err := json.Unmarshal([]byte(request), &req); err != nil {
		return zap.Request{}, fmt.Errorf("decode request: %w", err)
	}
	return req, nil
}

func encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return string(data), nil
}
