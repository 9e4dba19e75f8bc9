package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-siggen/pkg/model"
)

// recordInput builds a record from defaults, an optional data file and
// --set overrides, applied in that order.
type recordInput struct {
	dataFile string
	sets     []string
}

func (in *recordInput) bind(flags *pflag.FlagSet) {
	flags.StringVarP(&in.dataFile, "data", "d", "", "JSON or YAML record file, - for stdin; missing fields keep their defaults")
	flags.StringArrayVar(&in.sets, "set", nil, "override a field, e.g. --set name=\"Jane Doe\" (repeatable)")
}

func (in *recordInput) load(stdin io.Reader) (model.SignatureData, error) {
	data := model.Default()

	if in.dataFile != "" {
		raw, err := readDataFile(in.dataFile, stdin)
		if err != nil {
			return data, err
		}
		if data, err = decodeRecord(in.dataFile, raw, data); err != nil {
			return data, err
		}
	}

	form := model.NewFormFrom(data)
	for _, assignment := range in.sets {
		name, value, ok := strings.Cut(assignment, "=")
		if !ok {
			return data, fmt.Errorf("cli: --set %q: expected field=value", assignment)
		}
		field, err := model.ParseField(name)
		if err != nil {
			return data, fmt.Errorf("cli: --set %q: %w", assignment, err)
		}
		if err := form.UpdateField(field, value); err != nil {
			return data, err
		}
	}
	return form.Data(), nil
}

func readDataFile(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("cli: read stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cli: read data file: %w", err)
	}
	return raw, nil
}

// decodeRecord overlays raw onto base. Files ending in .json are strict JSON;
// anything else is read as YAML, which also accepts JSON documents. Unknown
// keys are rejected.
func decodeRecord(path string, raw []byte, base model.SignatureData) (model.SignatureData, error) {
	data := base
	if strings.EqualFold(filepath.Ext(path), ".json") {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&data); err != nil {
			return base, fmt.Errorf("cli: decode %s: %w", path, err)
		}
		return data, nil
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return base, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&data); err != nil {
		return base, fmt.Errorf("cli: decode %s: %w", path, err)
	}
	return data, nil
}

func writeOutput(path string, out []byte, stdout io.Writer) error {
	if path == "" {
		if _, err := stdout.Write(out); err != nil {
			return err
		}
		if len(out) > 0 && out[len(out)-1] != '\n' {
			_, err := io.WriteString(stdout, "\n")
			return err
		}
		return nil
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("cli: write output: %w", err)
	}
	fmt.Fprintf(stdout, "Signature written to %s\n", path)
	return nil
}
