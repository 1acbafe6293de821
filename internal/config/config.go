// Package config loads the static registry configuration: historical
// participant lists per cycle, the operator-pooled company list, and the
// option lists offered by the recommendation form.
//
// The data lives in a YAML or CUE file and is validated against an embedded
// CUE schema. A default file is compiled into the binary so the service runs
// without any external configuration. New cycles are added here, never in
// matching code.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed registry.yaml
var defaultRegistry []byte

//go:embed schema.cue
var schemaCUE string

// DefaultOtherSector is the sector label that requires a free-text detail.
const DefaultOtherSector = "기타"

// Format identifies the encoding of a registry file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// Cycle is one past program iteration and the companies that took part in it.
type Cycle struct {
	Name      string   `yaml:"name" json:"name"`
	Companies []string `yaml:"companies" json:"companies"`
}

// Registry is the decoded configuration file.
type Registry struct {
	// Cycles in matching order. The first cycle containing a name wins.
	Cycles []Cycle `yaml:"cycles" json:"cycles"`

	// Pool lists companies pooled by operators. Display only.
	Pool []string `yaml:"pool" json:"pool"`

	// Sectors offered by the form. Empty means any non-blank sector is accepted.
	Sectors []string `yaml:"sectors" json:"sectors"`

	// OtherSector is the sector whose free-text detail replaces it on storage.
	OtherSector string `yaml:"other_sector" json:"other_sector"`

	// Stages offered for the optional investment stage. Empty means unrestricted.
	Stages []string `yaml:"stages" json:"stages"`
}

// Default returns the registry compiled into the binary.
func Default() (*Registry, error) {
	reg, err := Parse(defaultRegistry, FormatYAML, "registry.yaml")
	if err != nil {
		return nil, fmt.Errorf("default registry: %w", err)
	}
	return reg, nil
}

// Load reads a registry file. The format follows the file extension
// (.yaml, .yml or .cue). An empty path returns Default().
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default()
	}

	format, err := formatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}

	return Parse(data, format, path)
}

// Parse decodes and validates registry data. name is used in error messages.
func Parse(data []byte, format Format, name string) (*Registry, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile registry schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Registry"))

	var reg Registry
	switch format {
	case FormatYAML:
		if err := decodeYAML(data, &reg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		reg.fillNilSlices()
		if err := validateValue(def.Unify(ctx.Encode(reg)), name); err != nil {
			return nil, err
		}

	case FormatCUE:
		v := def.Unify(ctx.CompileBytes(data, cue.Filename(name)))
		if err := validateValue(v, name); err != nil {
			return nil, err
		}
		if err := v.Decode(&reg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		reg.fillNilSlices()

	default:
		return nil, fmt.Errorf("unsupported registry format %q", format)
	}

	if reg.OtherSector == "" {
		reg.OtherSector = DefaultOtherSector
	}

	if err := reg.check(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return &reg, nil
}

// CompanyCount returns the number of historical entries across all cycles.
func (r *Registry) CompanyCount() int {
	n := 0
	for _, c := range r.Cycles {
		n += len(c.Companies)
	}
	return n
}

// check enforces the rules the schema cannot express.
func (r *Registry) check() error {
	seen := make(map[string]bool, len(r.Cycles))
	for _, c := range r.Cycles {
		if seen[c.Name] {
			return fmt.Errorf("duplicate cycle %q", c.Name)
		}
		seen[c.Name] = true
	}

	if len(r.Sectors) > 0 && !contains(r.Sectors, r.OtherSector) {
		return fmt.Errorf("other_sector %q is not one of sectors", r.OtherSector)
	}

	return nil
}

func (r *Registry) fillNilSlices() {
	if r.Pool == nil {
		r.Pool = []string{}
	}
	if r.Sectors == nil {
		r.Sectors = []string{}
	}
	if r.Stages == nil {
		r.Stages = []string{}
	}
	for i := range r.Cycles {
		if r.Cycles[i].Companies == nil {
			r.Cycles[i].Companies = []string{}
		}
	}
}

// decodeYAML rejects keys Registry does not define, so a misspelled section
// fails loudly instead of dropping its list. An empty document decodes to the
// zero Registry and is then refused by the schema.
func decodeYAML(data []byte, reg *Registry) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(reg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func validateValue(v cue.Value, name string) error {
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid registry %s: %s", name, strings.TrimSpace(cueerrors.Details(err, nil)))
	}
	return nil
}

func formatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", fmt.Errorf("unsupported registry file %q: want .yaml, .yml or .cue", path)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
