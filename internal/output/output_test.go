package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/blockzap/pkg/block"
	"github.com/jmylchreest/blockzap/pkg/zap"
)

func sampleResult() *zap.Result {
	z := zap.New()
	return z.CleanForest([]block.Node{
		{Kind: "core/paragraph", ClientID: "p1", Attributes: map[string]any{
			"content":   "<strong>Hi</strong>",
			"className": "lead",
			"fontSize":  "large",
		}},
		{Attributes: map[string]any{"className": "x"}},
	}, zap.ModeMega, zap.Options{})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"jsonl", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestNewWriter(t *testing.T) {
	buf := &bytes.Buffer{}

	w, err := NewWriter(buf, FormatJSON)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if _, ok := w.(*JSONWriter); !ok {
		t.Errorf("expected *JSONWriter, got %T", w)
	}

	w, err = NewWriter(buf, FormatYAML)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if _, ok := w.(*YAMLWriter); !ok {
		t.Errorf("expected *YAMLWriter, got %T", w)
	}

	if _, err := NewWriter(buf, Format("xml")); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected unsupported format error, got %v", err)
	}
}

func TestJSONWriter_Document(t *testing.T) {
	res := sampleResult()
	buf := &bytes.Buffer{}
	if err := WriteOne(buf, FormatJSON, block.Document{Blocks: res.Blocks}); err != nil {
		t.Fatalf("WriteOne() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "<strong>Hi</strong>") {
		t.Errorf("HTML content should not be escaped: %s", out)
	}
	if !strings.Contains(out, "\n  ") {
		t.Errorf("expected indented output: %s", out)
	}

	doc, err := block.FromJSON(buf.Bytes())
	if err != nil {
		t.Fatalf("output is not a valid document: %v", err)
	}
	if len(doc.Blocks) != 1 || len(doc.Blocks[0].Attributes) != 1 {
		t.Errorf("unexpected cleaned document: %+v", doc.Blocks)
	}
}

func TestJSONWriter_Compact(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteOne(buf, FormatJSON, map[string]int{"a": 1}, WithPretty(false)); err != nil {
		t.Fatalf("WriteOne() error = %v", err)
	}
	if got := buf.String(); got != "{\"a\":1}\n" {
		t.Errorf("unexpected compact output: %q", got)
	}
}

func TestJSONWriter_Report(t *testing.T) {
	res := sampleResult()
	buf := &bytes.Buffer{}
	if err := WriteOne(buf, FormatJSON, res.Report, WithIndent("\t")); err != nil {
		t.Fatalf("WriteOne() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["mode"] != "mega" || decoded["removed"] != float64(2) {
		t.Errorf("unexpected report: %v", decoded)
	}
	if _, ok := decoded["skipped"]; !ok {
		t.Error("expected skipped entries")
	}
}

func TestYAMLWriter_MultipleDocuments(t *testing.T) {
	res := sampleResult()
	buf := &bytes.Buffer{}
	w := NewYAMLWriter(buf)
	if err := w.Write(block.Document{Blocks: res.Blocks}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Write(res.Report); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "---") {
		t.Errorf("expected document separator: %s", out)
	}
	if strings.Contains(out, "err:") {
		t.Errorf("error values should not be encoded: %s", out)
	}

	dec := yaml.NewDecoder(strings.NewReader(out))
	var doc block.Document
	if err := dec.Decode(&doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}
	if len(doc.Blocks) != 1 || doc.Blocks[0].Kind != "core/paragraph" {
		t.Errorf("unexpected blocks: %+v", doc.Blocks)
	}
	var report map[string]any
	if err := dec.Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report["mode"] != "mega" {
		t.Errorf("unexpected report: %v", report)
	}
}

func TestSummary(t *testing.T) {
	res := sampleResult()
	s := Summary(res.Report, 2048, 1024)

	for _, want := range []string{
		"blockzap (mega): 2 blocks, 1 changed, 2 attributes removed, 1 skipped",
		"size: 2.0 kB -> 1.0 kB (50.0% smaller)",
		"Block styles 1",
		"Custom classes 1",
		"skipped [malformed]",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("expected summary to contain %q, got:\n%s", want, s)
		}
	}

	if strings.Contains(Summary(res.Report, 0, 0), "size:") {
		t.Error("size line should be omitted without sizes")
	}
}

func TestInventorySummary(t *testing.T) {
	inv := zap.New().Inventory([]block.Node{
		{Kind: "core/image", Attributes: map[string]any{"src": "a.png", "acmeFlag": true}},
	})
	s := InventorySummary(inv)
	for _, want := range []string{"1 blocks", "Media", "unknown keys (kept): acmeFlag"} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %q in:\n%s", want, s)
		}
	}
}
