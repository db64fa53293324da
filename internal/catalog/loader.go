package catalog

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/conduit-lang/docbridge/internal/resource"
	"github.com/conduit-lang/docbridge/internal/utils"
)

// File is the on-disk catalog layout:
//
//	types:
//	  Order:
//	    properties:
//	      - name: id
//	        type: string!
//	      - name: address
//	        kind: complex
//	        properties:
//	          - name: city
//	            type: string
//	      - name: tags
//	        kind: collection
//	        type: string
//	sets:
//	  Orders: Order
type File struct {
	Types map[string]TypeDecl `yaml:"types"`
	Sets  map[string]string   `yaml:"sets"`
}

// TypeDecl declares a resource type
type TypeDecl struct {
	Doc        string         `yaml:"doc,omitempty"`
	Properties []PropertyDecl `yaml:"properties"`
}

// PropertyDecl declares a single property. Kind defaults to primitive, or to
// complex when inline properties are given.
type PropertyDecl struct {
	Name       string         `yaml:"name"`
	Kind       string         `yaml:"kind,omitempty"`
	Type       string         `yaml:"type,omitempty"`
	Properties []PropertyDecl `yaml:"properties,omitempty"`
}

// LoadFile reads a YAML catalog file and builds a Registry
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	registry, err := LoadYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return registry, nil
}

// LoadPath loads a catalog file, or every .yaml and .yml file under a
// directory merged into one catalog
func LoadPath(path string) (*Registry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	if !info.IsDir() {
		return LoadFile(path)
	}

	paths, err := utils.FindFiles(path, ".yaml", ".yml")
	if err != nil {
		return nil, fmt.Errorf("failed to scan catalog directory: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files in %s", path)
	}

	merged := &File{Types: map[string]TypeDecl{}, Sets: map[string]string{}}
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog: %w", err)
		}
		file, err := parse(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		if err := merged.Merge(file); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	return merged.Build()
}

// LoadYAML parses a YAML catalog and builds a Registry
func LoadYAML(r io.Reader) (*Registry, error) {
	file, err := parse(r)
	if err != nil {
		return nil, err
	}
	return file.Build()
}

func parse(r io.Reader) (*File, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return &file, nil
}

// Merge adds other's declarations. A type or set declared in both is an error.
func (f *File) Merge(other *File) error {
	for name, decl := range other.Types {
		if _, exists := f.Types[name]; exists {
			return fmt.Errorf("type %s already declared", name)
		}
		f.Types[name] = decl
	}
	for name, typeName := range other.Sets {
		if _, exists := f.Sets[name]; exists {
			return fmt.Errorf("set %s already declared", name)
		}
		f.Sets[name] = typeName
	}
	return nil
}

// Build converts the declarations into a Registry
func (f *File) Build() (*Registry, error) {
	b := NewBuilder()

	typeNames := make([]string, 0, len(f.Types))
	for name := range f.Types {
		typeNames = append(typeNames, name)
	}
	sort.Strings(typeNames)

	for _, name := range typeNames {
		decl := f.Types[name]
		tb := b.Type(name).Doc(decl.Doc)
		if err := declareProperties(tb, decl.Properties); err != nil {
			return nil, err
		}
	}

	setNames := make([]string, 0, len(f.Sets))
	for name := range f.Sets {
		setNames = append(setNames, name)
	}
	sort.Strings(setNames)
	for _, name := range setNames {
		b.Set(name, f.Sets[name])
	}

	return b.Build()
}

func declareProperties(tb *TypeBuilder, decls []PropertyDecl) error {
	for _, decl := range decls {
		if err := declareProperty(tb, decl); err != nil {
			return fmt.Errorf("%s.%s: %w", tb.Name(), decl.Name, err)
		}
	}
	return nil
}

func declareProperty(tb *TypeBuilder, decl PropertyDecl) error {
	kindName := decl.Kind
	if kindName == "" {
		kindName = "primitive"
		if len(decl.Properties) > 0 {
			kindName = "complex"
		}
	}

	kind, err := resource.ParsePropertyKind(kindName)
	if err != nil {
		return err
	}

	var inline func(*TypeBuilder)
	var inlineErr error
	if len(decl.Properties) > 0 {
		inline = func(nested *TypeBuilder) {
			inlineErr = declareProperties(nested, decl.Properties)
		}
	}

	switch kind {
	case resource.Primitive:
		ref, err := resource.ParseTypeRef(decl.Type)
		if err != nil {
			return err
		}
		tb.Primitive(decl.Name, ref)
	case resource.ComplexReference:
		if decl.Type != "" {
			return fmt.Errorf("complex property cannot declare type %q", decl.Type)
		}
		tb.Complex(decl.Name, inline)
	case resource.Collection:
		if len(decl.Properties) > 0 || decl.Type == "" {
			tb.ComplexCollection(decl.Name, inline)
			break
		}
		ref, err := resource.ParseTypeRef(decl.Type)
		if err != nil {
			return err
		}
		tb.Collection(decl.Name, ref)
	}

	return inlineErr
}
