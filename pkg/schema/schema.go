// Package schema describes the signature record and HTTP API as an OpenAPI
// document. Form renderers read field labels, placeholders and input types
// from the SignatureData component.
package schema

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-siggen/pkg/model"
	"github.com/goliatone/go-siggen/pkg/render"
)

// RecordSchema names the component describing the signature record.
const RecordSchema = "SignatureData"

//go:embed openapi.yaml
var document []byte

var (
	specsOnce sync.Once
	specs     []render.FieldSpec
	specsErr  error
)

// Raw returns the embedded document as YAML.
func Raw() []byte {
	out := make([]byte, len(document))
	copy(out, document)
	return out
}

// Load parses and validates the embedded document.
func Load(ctx context.Context) (*openapi3.T, error) {
	return Parse(ctx, document)
}

// Parse loads and validates an OpenAPI document from raw bytes.
func Parse(ctx context.Context, raw []byte) (*openapi3.T, error) {
	if len(raw) == 0 {
		return nil, errors.New("schema: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("schema: load document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("schema: validate document: %w", err)
	}
	return doc, nil
}

// FieldSpecs returns the field specs of the embedded document. The result is
// computed once and shared.
func FieldSpecs(ctx context.Context) ([]render.FieldSpec, error) {
	specsOnce.Do(func() {
		var doc *openapi3.T
		doc, specsErr = Load(ctx)
		if specsErr != nil {
			return
		}
		specs, specsErr = FieldSpecsFrom(doc)
	})
	if specsErr != nil {
		return nil, specsErr
	}
	out := make([]render.FieldSpec, len(specs))
	copy(out, specs)
	return out, nil
}

// FieldSpecsFrom extracts ordered field specs from the record component of
// doc. Order follows the component's required list.
func FieldSpecsFrom(doc *openapi3.T) ([]render.FieldSpec, error) {
	if doc == nil || doc.Components == nil {
		return nil, errors.New("schema: document has no components")
	}
	ref, ok := doc.Components.Schemas[RecordSchema]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("schema: component %q not found", RecordSchema)
	}
	record := ref.Value

	out := make([]render.FieldSpec, 0, len(record.Required))
	for _, name := range record.Required {
		field, err := model.ParseField(name)
		if err != nil {
			return nil, fmt.Errorf("schema: property %q: %w", name, err)
		}
		prop, ok := record.Properties[name]
		if !ok || prop == nil || prop.Value == nil {
			return nil, fmt.Errorf("schema: required property %q is not declared", name)
		}
		out = append(out, fieldSpec(field, prop.Value))
	}
	return out, nil
}

func fieldSpec(field model.Field, prop *openapi3.Schema) render.FieldSpec {
	label := strings.TrimSpace(prop.Title)
	if label == "" {
		label = field.String()
	}
	spec := render.FieldSpec{
		Name:        field.String(),
		Label:       label,
		Placeholder: strings.TrimSpace(prop.Description),
		InputType:   inputType(prop.Format),
	}
	if def, ok := prop.Default.(string); ok {
		spec.Default = def
	}
	return spec
}

func inputType(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "email":
		return "email"
	case "uri", "url":
		return "url"
	default:
		return "text"
	}
}
