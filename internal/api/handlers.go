package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jmylchreest/blockzap/internal/version"
	"github.com/jmylchreest/blockzap/pkg/block"
	"github.com/jmylchreest/blockzap/pkg/zap"
)

// ZapRequest is the body of POST /v1/zap and POST /v1/inspect.
type ZapRequest = zap.Request

// InspectResponse is the body returned by POST /v1/inspect.
type InspectResponse struct {
	Inventory *zap.Inventory `json:"inventory"`
	Present   []zap.Category `json:"present"`

	// Removable is the number of keys a pass with the request's mode and
	// options would remove.
	Removable int `json:"removable"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status  string       `json:"status"`
	Version version.Info `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: version.Get()})
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.zapper.Taxonomy().Describe())
}

func (s *Server) handleZap(w http.ResponseWriter, r *http.Request) {
	blocks, mode, opts, status, err := s.decodeRequest(w, r)
	if err != nil {
		writeError(w, status, err)
		return
	}

	res := s.zapper.CleanForest(blocks, mode, opts)
	if res.Report.HasSkipped() {
		s.logger.Warn("zap request skipped blocks", "skipped", len(res.Report.Skipped))
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	blocks, mode, opts, status, err := s.decodeRequest(w, r)
	if err != nil {
		writeError(w, status, err)
		return
	}

	inv := s.zapper.Inventory(blocks)
	writeJSON(w, http.StatusOK, InspectResponse{
		Inventory: inv,
		Present:   inv.Present(),
		Removable: inv.Removable(mode, opts),
	})
}

// decodeRequest reads a ZapRequest and resolves its mode and options. On
// failure it returns the HTTP status to report.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) ([]block.Node, zap.Mode, zap.Options, int, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", zap.Options{}, http.StatusRequestEntityTooLarge,
				fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, "", zap.Options{}, http.StatusBadRequest, fmt.Errorf("read body: %w", err)
	}

	var req ZapRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, "", zap.Options{}, http.StatusBadRequest, fmt.Errorf("decode request: %w", err)
	}

	blocks, mode, opts, err := req.Resolve()
	if err != nil {
		return nil, "", zap.Options{}, http.StatusBadRequest, err
	}
	return blocks, mode, opts, http.StatusOK, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
