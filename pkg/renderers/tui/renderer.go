package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-siggen/pkg/model"
	"github.com/goliatone/go-siggen/pkg/render"
)

// Name is the registry key of the renderer.
const Name = "tui"

// Renderer implements render.Renderer for terminal-driven sessions. Render
// prompts for every field, starting from the given record, and serialises the
// answers.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	fields       []render.FieldSpec
	review       bool
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatYAML:
		return "application/yaml"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render collects answers and serialises the resulting record.
func (r *Renderer) Render(ctx context.Context, data model.SignatureData, opts render.RenderOptions) ([]byte, error) {
	collected, err := r.Collect(ctx, data, opts.Fields)
	if err != nil {
		return nil, err
	}
	return r.Serialize(collected, r.specs(opts.Fields))
}

// Collect prompts for each field in order. Every prompt defaults to the
// current value and shows the placeholder as help. Answers are applied
// through a model.Form so the record only ever holds known fields.
func (r *Renderer) Collect(ctx context.Context, data model.SignatureData, fields []render.FieldSpec) (model.SignatureData, error) {
	if ctx == nil {
		return model.SignatureData{}, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return model.SignatureData{}, err
	}
	if r.driver == nil {
		return model.SignatureData{}, errors.New("tui: prompt driver is nil")
	}

	specs := r.specs(fields)
	if len(specs) == 0 {
		return model.SignatureData{}, ErrNoFields
	}

	form := model.NewFormFrom(data)
	for {
		for _, spec := range specs {
			if err := r.promptField(ctx, form, spec); err != nil {
				return model.SignatureData{}, err
			}
		}

		if !r.review {
			return form.Data(), nil
		}

		summary, err := prettyText(form.Data(), specs)
		if err != nil {
			return model.SignatureData{}, err
		}
		if err := r.driver.Info(ctx, r.theme.InfoPrefix+strings.TrimRight(string(summary), "\n")); err != nil {
			return model.SignatureData{}, err
		}
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: r.theme.PromptPrefix + "Use these details?",
			Default: true,
		})
		if err != nil {
			return model.SignatureData{}, err
		}
		if ok {
			return form.Data(), nil
		}
	}
}

func (r *Renderer) promptField(ctx context.Context, form *model.Form, spec render.FieldSpec) error {
	field, err := model.ParseField(spec.Name)
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	current, err := form.Data().Get(field)
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	label := spec.Label
	if label == "" {
		label = field.String()
	}

	answer, err := r.driver.Input(ctx, InputConfig{
		Message: r.theme.PromptPrefix + label,
		Default: current,
		Help:    spec.Placeholder,
	})
	if err != nil {
		return fmt.Errorf("tui: prompt %s: %w", field, err)
	}
	return form.UpdateField(field, answer)
}

func (r *Renderer) specs(fields []render.FieldSpec) []render.FieldSpec {
	if len(fields) > 0 {
		return fields
	}
	return r.fields
}

// Serialize encodes data in the configured output format. specs supply the
// labels used by the pretty format.
func (r *Renderer) Serialize(data model.SignatureData, specs []render.FieldSpec) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatYAML:
		out, err := yaml.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("tui: encode yaml: %w", err)
		}
		return out, nil
	case OutputFormatPrettyText:
		return prettyText(data, specs)
	default:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode json: %w", err)
		}
		return append(out, '\n'), nil
	}
}

func prettyText(data model.SignatureData, specs []render.FieldSpec) ([]byte, error) {
	labels := make(map[model.Field]string, len(specs))
	for _, spec := range specs {
		if field, err := model.ParseField(spec.Name); err == nil && spec.Label != "" {
			labels[field] = spec.Label
		}
	}

	width := 0
	for _, field := range model.Fields() {
		if n := len(labelFor(field, labels)); n > width {
			width = n
		}
	}

	var buf bytes.Buffer
	for _, field := range model.Fields() {
		value, err := data.Get(field)
		if err != nil {
			return nil, fmt.Errorf("tui: %w", err)
		}
		fmt.Fprintf(&buf, "%-*s  %s\n", width+1, labelFor(field, labels)+":", value)
	}
	return buf.Bytes(), nil
}

func labelFor(field model.Field, labels map[model.Field]string) string {
	if label, ok := labels[field]; ok {
		return label
	}
	return field.String()
}
