// Package manifest loads YAML module descriptions: the classes, type
// variables, aliases, signatures, and call sites of one module. The
// manifest is the checker's only input format; hierarchy construction
// happens here, outside the checking core.
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hintcheck/hintcheck/internal/diag"
	"github.com/hintcheck/hintcheck/internal/hierarchy"
	"github.com/hintcheck/hintcheck/internal/types"
)

// Class declares a nominal class and its direct bases.
type Class struct {
	Name  string   `yaml:"name"`
	Bases []string `yaml:"bases"`
}

// TypeVar declares a type variable, optionally constrained to a fixed
// set of admissible types.
type TypeVar struct {
	Name        string   `yaml:"name"`
	Constraints []string `yaml:"constraints"`
}

// Alias declares a type alias for an annotation expression.
type Alias struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Param is one declared function parameter. A "None" default marks the
// parameter for the Optional rewrite.
type Param struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Default string `yaml:"default"`

	Line   int `yaml:"-"`
	Column int `yaml:"-"`
}

// UnmarshalYAML records the manifest position alongside the fields so
// diagnostics can point at the declaration.
func (p *Param) UnmarshalYAML(node *yaml.Node) error {
	type raw Param
	var r raw
	if err := node.Decode(&r); err != nil {
		return err
	}
	*p = Param(r)
	p.Line = node.Line
	p.Column = node.Column
	return nil
}

// Function is one function definition with raw annotations.
type Function struct {
	Name   string  `yaml:"name"`
	Params []Param `yaml:"params"`
	Return string  `yaml:"return"`

	Line   int `yaml:"-"`
	Column int `yaml:"-"`
}

func (f *Function) UnmarshalYAML(node *yaml.Node) error {
	type raw Function
	var r raw
	if err := node.Decode(&r); err != nil {
		return err
	}
	*f = Function(r)
	f.Line = node.Line
	f.Column = node.Column
	return nil
}

// Call is one call site: the callee and the declared argument types.
type Call struct {
	Callee string   `yaml:"callee"`
	Args   []string `yaml:"args"`

	Line   int `yaml:"-"`
	Column int `yaml:"-"`
}

func (c *Call) UnmarshalYAML(node *yaml.Node) error {
	type raw Call
	var r raw
	if err := node.Decode(&r); err != nil {
		return err
	}
	*c = Call(r)
	c.Line = node.Line
	c.Column = node.Column
	return nil
}

// Module is a parsed manifest file.
type Module struct {
	Name      string     `yaml:"module"`
	Classes   []Class    `yaml:"classes"`
	TypeVars  []TypeVar  `yaml:"typevars"`
	Aliases   []Alias    `yaml:"aliases"`
	Functions []Function `yaml:"functions"`
	Calls     []Call     `yaml:"calls"`

	Path string `yaml:"-"`
}

// Parse decodes and validates a manifest payload.
func Parse(data []byte, path string) (*Module, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("manifest: %s is empty", path)
	}
	var m Module
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: decode %s: %w", path, err)
	}
	m.Path = filepath.Clean(path)
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("manifest: %s: %w", path, err)
	}
	return &m, nil
}

// Load reads a manifest file from disk.
func Load(path string) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Validate checks the structural requirements a manifest must meet
// before a checking pass can consume it.
func (m *Module) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("missing module name")
	}
	for i, c := range m.Classes {
		if c.Name == "" {
			return fmt.Errorf("class %d has no name", i)
		}
	}
	for i, tv := range m.TypeVars {
		if tv.Name == "" {
			return fmt.Errorf("typevar %d has no name", i)
		}
	}
	for i, a := range m.Aliases {
		if a.Name == "" || a.Type == "" {
			return fmt.Errorf("alias %d needs both a name and a type", i)
		}
	}
	for i, f := range m.Functions {
		if f.Name == "" {
			return fmt.Errorf("function %d has no name", i)
		}
	}
	for i, c := range m.Calls {
		if c.Callee == "" {
			return fmt.Errorf("call %d has no callee", i)
		}
	}
	return nil
}

// BuildHierarchy declares every class of every module into one hierarchy
// table. Base classes that no module declares explicitly are still
// registered so descent queries about them answer consistently.
func BuildHierarchy(mods ...*Module) *hierarchy.Table {
	t := hierarchy.NewTable()
	for _, m := range mods {
		for _, c := range m.Classes {
			t.Declare(c.Name, c.Bases...)
			for _, b := range c.Bases {
				t.Declare(b)
			}
		}
	}
	return t
}

// Program converts the manifest into the checking core's input model:
// a scope snapshot plus function definitions and call sites.
func (m *Module) Program() *types.Module {
	scope := types.NewScope(nil)
	for _, c := range m.Classes {
		scope.InsertClass(c.Name)
	}
	for _, tv := range m.TypeVars {
		scope.InsertTypeVar(tv.Name, tv.Constraints...)
	}
	for _, a := range m.Aliases {
		scope.InsertAlias(a.Name, a.Type)
	}

	mod := &types.Module{Name: m.Name, Scope: scope}
	for _, f := range m.Functions {
		def := types.FuncDef{
			Name: f.Name,
			Span: m.span(f.Line, f.Column),
		}
		for _, p := range f.Params {
			param := types.Param{
				Name:          p.Name,
				HasDefault:    p.Default != "",
				DefaultIsNone: p.Default == "None",
			}
			if p.Type != "" {
				param.Annotation = &types.Annotation{Text: p.Type, Span: m.span(p.Line, p.Column)}
			}
			def.Params = append(def.Params, param)
		}
		if f.Return != "" {
			def.Return = &types.Annotation{Text: f.Return, Span: m.span(f.Line, f.Column)}
		}
		mod.Funcs = append(mod.Funcs, def)
	}
	for _, c := range m.Calls {
		call := types.CallSite{
			Callee: c.Callee,
			Span:   m.span(c.Line, c.Column),
		}
		for _, arg := range c.Args {
			call.Args = append(call.Args, types.Annotation{Text: arg, Span: m.span(c.Line, c.Column)})
		}
		mod.Calls = append(mod.Calls, call)
	}
	return mod
}

func (m *Module) span(line, column int) diag.Span {
	return diag.Span{Filename: m.Path, Line: line, Column: column}
}
