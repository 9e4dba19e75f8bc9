package gotemplate

import (
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-siggen/pkg/testsupport"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"greeting.tmpl": {Data: []byte(`Hello {{ name }}`)},
		"rows.tmpl":     {Data: []byte(`{% for row in rows %}[{{ row.text }}]{% endfor %}`)},
		"escape.tmpl":   {Data: []byte(`<p>{{ value }}</p>`)},
	}
}

func TestNew_RequiresTemplateSource(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatalf("expected error without base dir or fs")
	}
}

func TestEngine_RenderTemplateAppendsExtension(t *testing.T) {
	engine, err := New(WithFS(testFS()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	out, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("greeting", map[string]any{"name": "Alice"}, w)
	})
	if out != "Hello Alice" {
		t.Fatalf("unexpected output %q", out)
	}
	if written != out {
		t.Fatalf("writer received %q", written)
	}
}

func TestEngine_StructsUseJSONTagNames(t *testing.T) {
	engine, err := New(WithFS(testFS()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	type row struct {
		Text string `json:"text"`
	}
	out, err := engine.RenderTemplate("rows", map[string]any{
		"rows": []row{{Text: "a"}, {Text: "b"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "[a][b]" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestEngine_AutoescapesValues(t *testing.T) {
	engine, err := New(WithFS(testFS()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	out, err := engine.RenderTemplate("escape", map[string]any{"value": `<script>"x" & y</script>`})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("expected markup to be escaped, got %q", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Fatalf("expected escaped entity, got %q", out)
	}
}

func TestEngine_RenderDispatchesInlineContent(t *testing.T) {
	engine, err := New(WithFS(testFS()), WithGlobalData(map[string]any{"org": "GGS"}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	out, err := engine.Render(`{{ org }}/{{ name }}`, map[string]any{"name": "x"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "GGS/x" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestEngine_TemplateFuncFilter(t *testing.T) {
	shout := pongo2.FilterFunction(func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		return pongo2.AsValue(strings.ToUpper(in.String())), nil
	})
	engine, err := New(WithFS(testFS()), WithTemplateFunc(map[string]any{"gotemplate_test_shout": shout}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	out, err := engine.RenderString(`{{ v|gotemplate_test_shout }}`, map[string]any{"v": "hi"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "HI" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestEngine_RegisterFilterRejectsDuplicates(t *testing.T) {
	engine, err := New(WithFS(testFS()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	double := func(input any, _ any) (any, error) {
		s, _ := input.(string)
		return s + s, nil
	}
	if err := engine.RegisterFilter("gotemplate_test_double", double); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := engine.RegisterFilter("gotemplate_test_double", double); err == nil {
		t.Fatalf("expected duplicate filter error")
	}

	out, err := engine.RenderString(`{{ v|gotemplate_test_double }}`, map[string]any{"v": "ab"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "abab" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestEngine_MissingTemplate(t *testing.T) {
	engine, err := New(WithFS(testFS()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected missing template error")
	}
}
