package block

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// Document is a serialized block forest.
type Document struct {
	Blocks []Node `json:"blocks" yaml:"blocks"`
}

// Format identifies a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrInvalidDocument is wrapped by every schema mismatch returned from the
// From* functions.
var ErrInvalidDocument = errors.New("invalid block document")

//go:embed document.schema.json
var documentSchemaJSON string

const documentSchemaURL = "https://schemas.blockzap.dev/document.json"

var (
	schemaOnce     sync.Once
	documentSchema *jsonschema.Schema
	schemaErr      error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(documentSchemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse document schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(documentSchemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add document schema: %w", err)
			return
		}
		documentSchema, schemaErr = compiler.Compile(documentSchemaURL)
	})
	return documentSchema, schemaErr
}

// checkShape validates a decoded instance against the document schema.
func checkShape(instance any) error {
	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(instance); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%w at %s: %s", ErrInvalidDocument, instancePath(deepestCause(verr)), verr.Error())
		}
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return nil
}

// deepestCause follows the first cause chain to the most specific failure.
func deepestCause(e *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(e.Causes) > 0 {
		e = e.Causes[0]
	}
	return e
}

func instancePath(e *jsonschema.ValidationError) string {
	if len(e.InstanceLocation) == 0 {
		return "$"
	}
	return "$." + strings.Join(e.InstanceLocation, ".")
}

// FromJSON decodes a document from JSON. Both {"blocks": [...]} and a bare
// array of blocks are accepted.
func FromJSON(data []byte) (Document, error) {
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return Document{}, fmt.Errorf("failed to parse JSON document: %w", err)
	}
	if err := checkShape(instance); err != nil {
		return Document{}, err
	}

	var doc Document
	if _, isArray := instance.([]any); isArray {
		if err := json.Unmarshal(data, &doc.Blocks); err != nil {
			return Document{}, fmt.Errorf("failed to decode blocks: %w", err)
		}
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}

// FromYAML decodes a document from YAML. Both a "blocks" mapping and a bare
// sequence of blocks are accepted.
func FromYAML(data []byte) (Document, error) {
	var instance any
	if err := yaml.Unmarshal(data, &instance); err != nil {
		return Document{}, fmt.Errorf("failed to parse YAML document: %w", err)
	}
	instance = jsonValue(instance)
	if err := checkShape(instance); err != nil {
		return Document{}, err
	}

	var doc Document
	if _, isSeq := instance.([]any); isSeq {
		if err := yaml.Unmarshal(data, &doc.Blocks); err != nil {
			return Document{}, fmt.Errorf("failed to decode blocks: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("failed to decode document: %w", err)
	}
	normalizeAttributes(doc.Blocks)
	return doc, nil
}

// jsonValue rewrites YAML-only values into the JSON data model: mappings with
// non-string keys get their keys formatted as strings and timestamps become
// RFC 3339 strings.
func jsonValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = jsonValue(e)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = jsonValue(e)
		}
		return m
	case []any:
		for i, e := range t {
			t[i] = jsonValue(e)
		}
		return t
	case time.Time:
		return t.Format(time.RFC3339Nano)
	default:
		return v
	}
}

func normalizeAttributes(nodes []Node) {
	for i := range nodes {
		for k, v := range nodes[i].Attributes {
			nodes[i].Attributes[k] = jsonValue(v)
		}
		normalizeAttributes(nodes[i].Children)
	}
}

// Decode decodes data in the given format.
func Decode(data []byte, format Format) (Document, error) {
	switch format {
	case FormatJSON:
		return FromJSON(data)
	case FormatYAML:
		return FromYAML(data)
	default:
		return Document{}, fmt.Errorf("unsupported document format: %s", format)
	}
}

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported document file format: %s", filepath.Ext(path))
	}
}

// FromFile loads a document from a JSON or YAML file.
func FromFile(path string) (Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Document{}, err
	}
	data, err := os.ReadFile(path) //#nosec G304
	if err != nil {
		return Document{}, fmt.Errorf("failed to read document file: %w", err)
	}
	return Decode(data, format)
}
