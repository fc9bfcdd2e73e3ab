// Package config holds the checker's behavior toggles. The toggles
// surface deliberately ambiguous annotation conventions as explicit
// options instead of hard-coded assumptions.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options controls how lenient or strict a checking pass is.
type Options struct {
	// TreatMissingAnnotationAsAny makes unannotated parameters and
	// returns check as Any. Turning it off reports them as warnings
	// but still checks them as Any.
	TreatMissingAnnotationAsAny bool `yaml:"treat_missing_annotation_as_any"`

	// UnionDistributesOverSource requires every member of a union-typed
	// argument to satisfy the parameter. When off, a single satisfying
	// member is enough.
	UnionDistributesOverSource bool `yaml:"union_distributes_over_source"`

	// DefaultNoneImpliesOptional rewrites a parameter annotated T with
	// a None default to Optional[T].
	DefaultNoneImpliesOptional bool `yaml:"default_none_implies_optional"`

	// CollapseAnyUnions collapses a union containing Any to Any. When
	// off, both are retained so diagnostics can show the full union.
	CollapseAnyUnions bool `yaml:"collapse_any_unions"`
}

// Default returns the options matching conventional annotation semantics.
func Default() Options {
	return Options{
		TreatMissingAnnotationAsAny: true,
		UnionDistributesOverSource:  true,
		DefaultNoneImpliesOptional:  true,
		CollapseAnyUnions:           false,
	}
}

// Load reads options from a YAML file, starting from defaults so omitted
// keys keep their conventional values.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	opts := Default()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return opts, nil
}
