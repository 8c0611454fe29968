package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed builtin/*.yml builtin/files
var builtinFS embed.FS

const builtinRoot = "builtin"

// DefaultTemplateName is used when no template is given.
const DefaultTemplateName = "default"

// Source labels for loaded templates.
const (
	SourceBuiltin = "built-in"
	SourceFile    = "file"
)

// Template is a parsed document together with where file references in its
// structure section are resolved.
type Template struct {
	// Name is the built-in name or the document's base name.
	Name string

	// Source is SourceBuiltin or SourceFile.
	Source string

	// Path is the document path for file templates.
	Path string

	// Raw is the unmodified document.
	Raw []byte

	Doc *Document

	fsys fs.FS
	dir  string
}

// ReadFile reads a file referenced from structure.files[].template,
// relative to the document's directory.
func (t *Template) ReadFile(name string) ([]byte, error) {
	clean := path.Clean(filepath.ToSlash(name))
	if !fs.ValidPath(clean) {
		return nil, fmt.Errorf("template file reference %q must be a relative path inside the template directory", name)
	}
	return fs.ReadFile(t.fsys, path.Join(t.dir, clean))
}

// Info describes a template for listings.
type Info struct {
	Name        string
	Description string
	Source      string
	Default     bool
}

// Builtins lists the embedded templates in name order.
func Builtins() []Info {
	entries, err := fs.ReadDir(builtinFS, builtinRoot)
	if err != nil {
		return nil
	}

	var infos []Info
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yml" {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".yml")
		info := Info{Name: name, Source: SourceBuiltin, Default: name == DefaultTemplateName}
		if t, err := loadBuiltin(name); err == nil {
			info.Description = t.Doc.Description
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// BuiltinNames returns the names of the embedded templates.
func BuiltinNames() []string {
	var names []string
	for _, info := range Builtins() {
		names = append(names, info.Name)
	}
	return names
}

// IsBuiltin reports whether name is an embedded template.
func IsBuiltin(name string) bool {
	_, err := fs.Stat(builtinFS, path.Join(builtinRoot, name+".yml"))
	return err == nil
}

func loadBuiltin(name string) (*Template, error) {
	file := path.Join(builtinRoot, name+".yml")
	data, err := fs.ReadFile(builtinFS, file)
	if err != nil {
		return nil, &TemplateNotFoundError{Name: name, Searched: []string{SourceBuiltin}}
	}
	doc, err := Parse(name, data)
	if err != nil {
		return nil, err
	}
	return &Template{
		Name:   name,
		Source: SourceBuiltin,
		Raw:    data,
		Doc:    doc,
		fsys:   builtinFS,
		dir:    builtinRoot,
	}, nil
}

// LoadFile loads a template document from disk. File references inside it
// resolve against the document's directory.
func LoadFile(p string) (*Template, error) {
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &TemplateNotFoundError{Name: p, Searched: []string{p}}
	}
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", p, err)
	}

	doc, err := Parse(p, data)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return nil, fmt.Errorf("resolving template path: %w", err)
	}
	base := filepath.Base(abs)
	return &Template{
		Name:   strings.TrimSuffix(base, filepath.Ext(base)),
		Source: SourceFile,
		Path:   abs,
		Raw:    data,
		Doc:    doc,
		fsys:   os.DirFS(filepath.Dir(abs)),
		dir:    ".",
	}, nil
}

// looksLikePath reports whether ident names a file rather than a template.
func looksLikePath(ident string) bool {
	ext := filepath.Ext(ident)
	return ext == ".yml" || ext == ".yaml" || strings.ContainsRune(ident, '/') || strings.ContainsRune(ident, filepath.Separator)
}

// Resolve loads a template by identifier. A path (anything with a separator
// or a .yml/.yaml extension) is read from disk. A bare name is looked up as
// <dir>/<name>.yml or .yaml in each search dir, then among the built-ins.
// An empty identifier means DefaultTemplateName.
func Resolve(ident string, searchDirs ...string) (*Template, error) {
	if ident == "" {
		ident = DefaultTemplateName
	}
	if looksLikePath(ident) {
		return LoadFile(ident)
	}

	var searched []string
	for _, dir := range searchDirs {
		if dir == "" {
			continue
		}
		for _, ext := range []string{".yml", ".yaml"} {
			candidate := filepath.Join(dir, ident+ext)
			searched = append(searched, candidate)
			if _, err := os.Stat(candidate); err == nil {
				return LoadFile(candidate)
			}
		}
	}

	if IsBuiltin(ident) {
		return loadBuiltin(ident)
	}
	searched = append(searched, SourceBuiltin)
	return nil, &TemplateNotFoundError{Name: ident, Searched: searched}
}

// List returns the built-ins and the documents found in searchDirs, sorted
// by name. A document shadowing a built-in replaces it; the first search dir
// wins among documents.
func List(searchDirs ...string) []Info {
	byName := make(map[string]Info)
	for _, info := range Builtins() {
		byName[info.Name] = info
	}

	for _, dir := range searchDirs {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			ext := filepath.Ext(e.Name())
			if e.IsDir() || (ext != ".yml" && ext != ".yaml") {
				continue
			}
			name := strings.TrimSuffix(e.Name(), ext)
			if _, dup := byName[name]; dup && byName[name].Source == SourceFile {
				continue
			}
			info := Info{Name: name, Source: SourceFile, Default: name == DefaultTemplateName}
			if t, err := LoadFile(filepath.Join(dir, e.Name())); err == nil {
				info.Description = t.Doc.Description
			}
			byName[name] = info
		}
	}

	infos := make([]Info, 0, len(byName))
	for _, info := range byName {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
