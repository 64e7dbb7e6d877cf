package output

import (
	"bufio"
	"encoding/json"
	"io"
)

// JSONWriter writes one JSON value per Write call, each followed by a
// newline. HTML in block content is written unescaped.
type JSONWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewJSONWriter creates a JSON writer. An empty indent produces compact
// output.
func NewJSONWriter(w io.Writer, indent string) *JSONWriter {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return &JSONWriter{w: bw, enc: enc}
}

// Write encodes a value.
func (w *JSONWriter) Write(v any) error {
	return w.enc.Encode(v)
}

// Close flushes the writer.
func (w *JSONWriter) Close() error {
	return w.w.Flush()
}
