// Package templates turns YAML template documents into feature module trees.
//
// A template document has four optional sections:
//
//	structure:   directories and files created inside modules/<name>
//	routes:      handler stubs emitted into modules/<name>/routes.go
//	templates:   view templates written under the project's templates/ dir
//	tests:       test files written under modules/<name>/tests
//
// Every string is rendered with text/template. {{module_name}} and
// {{.ModuleName}} both expand to the module name, and filters such as
// {{module_name | title}} are available through the function map.
package templates

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Response types recognized in route entries.
const (
	ResponseHTML = "html"
	ResponseJSON = "json"
	ResponseText = "text"
)

// Document is a parsed template document. Generators never modify it.
type Document struct {
	Name        string      `yaml:"name,omitempty" json:"name,omitempty"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	Structure   *Structure  `yaml:"structure,omitempty" json:"structure,omitempty"`
	Routes      []RouteSpec `yaml:"routes,omitempty" json:"routes,omitempty"`
	Templates   []ViewSpec  `yaml:"templates,omitempty" json:"templates,omitempty"`
	Tests       []TestSpec  `yaml:"tests,omitempty" json:"tests,omitempty"`
}

// Structure lists directories and files created inside the module directory.
type Structure struct {
	Directories []DirectorySpec `yaml:"directories,omitempty" json:"directories,omitempty"`
	Files       []FileSpec      `yaml:"files,omitempty" json:"files,omitempty"`
}

// markerDirs get a package marker unless the entry says otherwise.
var markerDirs = map[string]bool{
	"tests":  true,
	"views":  true,
	"models": true,
}

// DirectorySpec is a directory entry. In YAML it is either a bare name or a
// mapping with name and package keys.
type DirectorySpec struct {
	Name    string `yaml:"name" json:"name"`
	Package *bool  `yaml:"package,omitempty" json:"package,omitempty"`
}

// UnmarshalYAML accepts both the scalar and the mapping form.
func (d *DirectorySpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		d.Name = node.Value
		return nil
	}
	type plain DirectorySpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*d = DirectorySpec(p)
	return nil
}

// MarshalYAML writes the scalar form when no package override is set.
func (d DirectorySpec) MarshalYAML() (interface{}, error) {
	if d.Package == nil {
		return d.Name, nil
	}
	type plain DirectorySpec
	return plain(d), nil
}

// NeedsMarker reports whether the directory gets a package marker file.
// The rendered name decides the default.
func (d DirectorySpec) NeedsMarker(renderedName string) bool {
	if d.Package != nil {
		return *d.Package
	}
	return markerDirs[renderedName]
}

// FileSpec is a structure file with inline content or a referenced template.
type FileSpec struct {
	Name     string `yaml:"name" json:"name"`
	Content  string `yaml:"content,omitempty" json:"content,omitempty"`
	Template string `yaml:"template,omitempty" json:"template,omitempty"`
}

// RouteSpec is one handler stub.
type RouteSpec struct {
	Path         string `yaml:"path" json:"path"`
	Function     string `yaml:"function" json:"function"`
	Method       string `yaml:"method,omitempty" json:"method,omitempty"`
	ResponseType string `yaml:"response_type,omitempty" json:"response_type,omitempty"`
	Template     string `yaml:"template,omitempty" json:"template,omitempty"`
}

// HTTPMethod returns the upper-cased method, defaulting to GET.
func (r RouteSpec) HTTPMethod() string {
	if r.Method == "" {
		return "GET"
	}
	return strings.ToUpper(r.Method)
}

// ViewSpec is a view template written under the project templates dir.
type ViewSpec struct {
	Path    string `yaml:"path" json:"path"`
	Content string `yaml:"content" json:"content"`
}

// TestSpec is a test file written under the module's tests dir.
type TestSpec struct {
	Name    string `yaml:"name" json:"name"`
	Content string `yaml:"content" json:"content"`
}

// Parse validates data against the template schema and decodes it. name is
// used in error messages.
func Parse(name string, data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &TemplateParseError{Template: name, Err: fmt.Errorf("document is empty")}
	}

	v, err := loadSchema()
	if err != nil {
		return nil, err
	}
	if problems := v.validate(name, data); len(problems) > 0 {
		return nil, &TemplateParseError{
			Template: name,
			Err:      fmt.Errorf("document does not match the template schema"),
			Problems: problems,
		}
	}

	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, &TemplateParseError{Template: name, Err: err}
	}
	return &doc, nil
}

// Sections returns the names of the non-empty top-level sections.
func (d *Document) Sections() []string {
	var out []string
	if d.Structure != nil && (len(d.Structure.Directories) > 0 || len(d.Structure.Files) > 0) {
		out = append(out, "structure")
	}
	if len(d.Routes) > 0 {
		out = append(out, "routes")
	}
	if len(d.Templates) > 0 {
		out = append(out, "templates")
	}
	if len(d.Tests) > 0 {
		out = append(out, "tests")
	}
	return out
}
