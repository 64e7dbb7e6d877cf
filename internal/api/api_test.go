package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jmylchreest/blockzap/pkg/zap"
)

func newTestServer(cfg Config) *Server {
	return New(zap.New(), cfg)
}

func do(t *testing.T, s *Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(Config{}), http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" || body.Version.Version == "" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestCategories(t *testing.T) {
	rec := do(t, newTestServer(Config{}), http.MethodGet, "/v1/categories", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var infos []zap.CategoryInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(infos) != len(zap.Categories()) {
		t.Errorf("expected %d categories, got %d", len(zap.Categories()), len(infos))
	}
}

func TestZap(t *testing.T) {
	s := newTestServer(Config{})

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantBlocks  int
		wantRemoved int
		wantSkipped int
	}{
		{
			name:        "mega keeping media",
			body:        `{"mode":"mega","options":{"keepMedia":true},"blocks":[{"name":"core/image","attributes":{"id":1,"src":"a.jpg","className":"x","align":"wide"}}]}`,
			wantStatus:  http.StatusOK,
			wantBlocks:  1,
			wantRemoved: 2,
		},
		{
			name:        "default options",
			body:        `{"blocks":[{"name":"core/paragraph","attributes":{"content":"hi","className":"lead","anchor":"a"}}]}`,
			wantStatus:  http.StatusOK,
			wantBlocks:  1,
			wantRemoved: 1,
		},
		{
			name:        "remove names merge with options",
			body:        `{"options":{"blockStyles":true},"remove":["custom-anchors"],"blocks":[{"name":"core/paragraph","attributes":{"content":"hi","textColor":"red","anchor":"a"}}]}`,
			wantStatus:  http.StatusOK,
			wantBlocks:  1,
			wantRemoved: 2,
		},
		{
			name:        "malformed node is skipped",
			body:        `{"mode":"mega","blocks":[{"attributes":{"className":"x"}},{"name":"core/separator"}]}`,
			wantStatus:  http.StatusOK,
			wantBlocks:  1,
			wantSkipped: 1,
		},
		{
			name:        "null kind is skipped",
			body:        `{"mode":"mega","blocks":[{"name":"core/separator"},{"name":null,"attributes":{"className":"x"}}]}`,
			wantStatus:  http.StatusOK,
			wantBlocks:  1,
			wantSkipped: 1,
		},
		{
			name:       "empty forest",
			body:       `{"blocks":[]}`,
			wantStatus: http.StatusOK,
		},
		{name: "invalid json", body: `{`, wantStatus: http.StatusBadRequest},
		{name: "missing blocks", body: `{"mode":"mega"}`, wantStatus: http.StatusBadRequest},
		{name: "wrong shape", body: `{"blocks":[{"name":1}]}`, wantStatus: http.StatusBadRequest},
		{name: "unknown mode", body: `{"mode":"ultra","blocks":[]}`, wantStatus: http.StatusBadRequest},
		{name: "essential cannot be removed", body: `{"remove":["essential"],"blocks":[]}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/v1/zap", tt.body, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				var e errorResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil || e.Error == "" {
					t.Errorf("expected JSON error body, got %s", rec.Body.String())
				}
				return
			}

			var res zap.Result
			if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(res.Blocks) != tt.wantBlocks {
				t.Errorf("blocks = %d, want %d", len(res.Blocks), tt.wantBlocks)
			}
			if res.Report.Removed != tt.wantRemoved {
				t.Errorf("removed = %d, want %d", res.Report.Removed, tt.wantRemoved)
			}
			if len(res.Report.Skipped) != tt.wantSkipped {
				t.Errorf("skipped = %d, want %d", len(res.Report.Skipped), tt.wantSkipped)
			}
		})
	}
}

func TestZapBodyTooLarge(t *testing.T) {
	s := newTestServer(Config{MaxBodyBytes: 16})
	rec := do(t, s, http.MethodPost, "/v1/zap", `{"blocks":[{"name":"core/paragraph"}]}`, nil)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestInspect(t *testing.T) {
	s := newTestServer(Config{})
	body := `{"mode":"mega","options":{"keepMedia":true},"blocks":[{"name":"core/image","attributes":{"src":"a.png","width":300,"className":"x","acmeFlag":true}}]}`

	rec := do(t, s, http.MethodPost, "/v1/inspect", body, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}
	var resp InspectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Inventory.Blocks != 1 {
		t.Errorf("blocks = %d", resp.Inventory.Blocks)
	}
	// className only; width survives through media
	if resp.Removable != 1 {
		t.Errorf("removable = %d, want 1", resp.Removable)
	}
	if resp.Inventory.Unknown["acmeFlag"] != 1 {
		t.Errorf("unknown = %v", resp.Inventory.Unknown)
	}
}

func TestCORS(t *testing.T) {
	t.Run("any origin by default", func(t *testing.T) {
		rec := do(t, newTestServer(Config{}), http.MethodGet, "/healthz", "",
			map[string]string{"Origin": "https://editor.example"})
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Allow-Origin = %q", got)
		}
	})

	t.Run("restricted origins", func(t *testing.T) {
		s := newTestServer(Config{AllowedOrigins: []string{"https://editor.example"}})

		rec := do(t, s, http.MethodGet, "/healthz", "", map[string]string{"Origin": "https://editor.example"})
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://editor.example" {
			t.Errorf("Allow-Origin = %q", got)
		}

		rec = do(t, s, http.MethodGet, "/healthz", "", map[string]string{"Origin": "https://other.example"})
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("unexpected Allow-Origin %q", got)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		rec := do(t, newTestServer(Config{}), http.MethodOptions, "/v1/zap", "", map[string]string{
			"Origin":                        "https://editor.example",
			"Access-Control-Request-Method": http.MethodPost,
		})
		if rec.Code != http.StatusNoContent {
			t.Errorf("preflight status = %d", rec.Code)
		}
		if rec.Header().Get("Access-Control-Allow-Methods") == "" {
			t.Error("expected Allow-Methods header")
		}
	})
}
