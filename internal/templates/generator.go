package templates

import (
	"errors"
	"fmt"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	oerrors "github.com/constrictor-dev/constrictor/internal/errors"
	"github.com/constrictor-dev/constrictor/pkg/blueprint"
)

// Step names a generation phase. Files are written in step order.
type Step string

const (
	StepStructure Step = "structure"
	StepRoutes    Step = "routes"
	StepTemplates Step = "templates"
	StepTests     Step = "tests"
)

// Layout directories relative to the project root.
const (
	ViewsDir   = "templates"
	TestsDir   = "tests"
	MarkerFile = "doc.go"
)

// Options configures a Generator.
type Options struct {
	// Root is the project root; the module is written to Root/modules/<name>.
	Root string

	// ModuleName is the module to generate.
	ModuleName string

	// Template is the loaded template. Nil means the default built-in.
	Template *Template

	// ProjectModule is the Go module path used in generated imports.
	// Empty means read it from Root/go.mod.
	ProjectModule string

	// Force replaces an existing module directory.
	Force bool

	// DryRun plans and renders everything but writes nothing.
	DryRun bool

	// SkipIndex leaves modules/modules.go untouched.
	SkipIndex bool

	// IndexIgnore lists module name globs kept out of modules/modules.go.
	IndexIgnore []string

	// Emitter produces the routing-definition file. Defaults to GinEmitter.
	Emitter RouteEmitter

	Logger *log.Logger
}

// PlannedFile is one rendered file.
type PlannedFile struct {
	// Path is relative to the project root.
	Path        string
	Content     []byte
	Step        Step
	Description string
}

// Result describes a generation.
type Result struct {
	Module   string
	Template string

	// ModuleDir is relative to the project root.
	ModuleDir string

	// Dirs lists declared directories relative to the project root.
	Dirs []string

	// Files lists rendered files in write order. A later entry for the same
	// path replaces an earlier one.
	Files []PlannedFile

	// Replaced is set when an existing module directory was (or, for a dry
	// run, would be) removed first.
	Replaced bool

	DryRun bool

	// Index lists the imports written to modules/modules.go.
	Index        []string
	IndexWritten bool
}

// Tree maps each output path to a short description, for display.
func (r *Result) Tree() map[string]string {
	tree := make(map[string]string, len(r.Files)+1)
	for _, f := range r.Files {
		tree[filepath.ToSlash(f.Path)] = f.Description
	}
	if r.IndexWritten {
		tree[filepath.ToSlash(filepath.Join(blueprint.ModulesDir, IndexFile))] = "module index"
	}
	return tree
}

// Generator materializes a module from a template.
type Generator struct {
	opts   Options
	logger *log.Logger
}

// NewGenerator creates a generator.
func NewGenerator(opts Options) *Generator {
	if opts.Emitter == nil {
		opts.Emitter = GinEmitter{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Generator{opts: opts, logger: logger}
}

// Plan validates the module name, checks the target and renders every file
// in memory. Nothing is written.
func (g *Generator) Plan() (*Result, error) {
	name := g.opts.ModuleName
	if err := ValidateModuleName(name); err != nil {
		return nil, err
	}

	tmpl := g.opts.Template
	if tmpl == nil {
		var err error
		if tmpl, err = Resolve(DefaultTemplateName); err != nil {
			return nil, err
		}
	}

	moduleRel := filepath.Join(blueprint.ModulesDir, name)
	replaced, err := g.checkTarget(filepath.Join(g.opts.Root, moduleRel))
	if err != nil {
		return nil, err
	}

	p := &planner{
		tmpl:      tmpl,
		renderer:  NewRenderer(NewContext(name, g.projectModule())),
		emitter:   g.opts.Emitter,
		moduleRel: moduleRel,
		result: &Result{
			Module:    name,
			Template:  tmpl.Name,
			ModuleDir: moduleRel,
			Replaced:  replaced,
			DryRun:    g.opts.DryRun,
		},
	}
	if err := p.plan(); err != nil {
		return nil, err
	}

	g.logger.Debug("planned module",
		"module", name,
		"template", tmpl.Name,
		"dirs", len(p.result.Dirs),
		"files", len(p.result.Files))
	return p.result, nil
}

// Generate plans the module and writes it. With Force an existing module
// directory is moved aside and replaced, so no stale files survive. If a
// write fails, files created by this call are removed, files it overwrote
// get their previous content back, and a replaced module is restored.
func (g *Generator) Generate() (*Result, error) {
	res, err := g.Plan()
	if err != nil {
		return nil, err
	}
	if g.opts.DryRun {
		return res, nil
	}

	moduleDir := filepath.Join(g.opts.Root, res.ModuleDir)
	var backup string
	if res.Replaced {
		backup, err = g.moveAside(moduleDir)
		if err != nil {
			return nil, err
		}
	}

	w := &treeWriter{root: g.opts.Root, logger: g.logger}
	if err := w.write(res); err != nil {
		w.rollback()
		if rmErr := os.RemoveAll(moduleDir); rmErr != nil {
			g.logger.Warn("could not remove partial module", "path", moduleDir, "error", rmErr)
		}
		if backup != "" {
			if mvErr := os.Rename(backup, moduleDir); mvErr != nil {
				g.logger.Error("could not restore previous module", "path", moduleDir, "backup", backup, "error", mvErr)
			}
		}
		return nil, err
	}
	if backup != "" {
		if err := os.RemoveAll(backup); err != nil {
			g.logger.Warn("could not remove previous module", "path", backup, "error", err)
		}
	}

	if !g.opts.SkipIndex {
		imports, err := WriteModulesIndex(g.opts.Root, g.projectModule(), g.opts.IndexIgnore...)
		if err != nil {
			return nil, fmt.Errorf("updating module index: %w", err)
		}
		res.Index = imports
		res.IndexWritten = true
	}

	return res, nil
}

// moveAside renames an existing module directory to a hidden sibling, which
// the go tool and the modules index ignore.
func (g *Generator) moveAside(moduleDir string) (string, error) {
	backup := filepath.Join(filepath.Dir(moduleDir), "."+filepath.Base(moduleDir)+".previous")
	if err := os.RemoveAll(backup); err != nil {
		return "", oerrors.PathError("clearing", backup, err)
	}
	g.logger.Debug("moving existing module aside", "path", moduleDir, "backup", backup)
	if err := os.Rename(moduleDir, backup); err != nil {
		return "", oerrors.PathError("moving aside", moduleDir, err)
	}
	return backup, nil
}

func (g *Generator) checkTarget(moduleDir string) (bool, error) {
	info, err := os.Stat(moduleDir)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking module directory: %w", err)
	}
	if !info.IsDir() {
		return false, oerrors.NewValidationError(
			fmt.Sprintf("%s exists and is not a directory", moduleDir),
			moduleDir, "module", "remove the file or choose another module name")
	}
	if !g.opts.Force {
		return false, oerrors.NewValidationError(
			fmt.Sprintf("module %q already exists", g.opts.ModuleName),
			moduleDir, "module", "use --force to replace it")
	}
	return true, nil
}

func (g *Generator) projectModule() string {
	if g.opts.ProjectModule != "" {
		return g.opts.ProjectModule
	}
	if mp, err := ReadModulePath(g.opts.Root); err == nil {
		g.opts.ProjectModule = mp
		return mp
	}
	abs, err := filepath.Abs(g.opts.Root)
	if err != nil {
		abs = g.opts.Root
	}
	g.opts.ProjectModule = filepath.Base(abs)
	g.logger.Debug("no go.mod module path; using directory name", "module_path", g.opts.ProjectModule)
	return g.opts.ProjectModule
}

// planner renders one template into a Result.
type planner struct {
	tmpl      *Template
	renderer  *Renderer
	emitter   RouteEmitter
	moduleRel string
	result    *Result
}

func (p *planner) plan() error {
	doc := p.tmpl.Doc
	steps := []func(*Document) error{p.structure, p.routes, p.views, p.tests}
	for _, step := range steps {
		if err := step(doc); err != nil {
			return err
		}
	}
	return nil
}

func (p *planner) fail(field string, err error) error {
	return &TemplateParseError{Template: p.tmpl.Name, Field: field, Err: err}
}

func (p *planner) render(field, content string) (string, error) {
	out, err := p.renderer.RenderString(field, content)
	if err != nil {
		return "", p.fail(field, err)
	}
	return out, nil
}

// renderPath renders a relative path and rejects anything that would
// escape its base directory.
func (p *planner) renderPath(field, raw string) (string, error) {
	out, err := p.render(field, raw)
	if err != nil {
		return "", err
	}
	local := filepath.FromSlash(out)
	if out == "" || !filepath.IsLocal(local) {
		return "", p.fail(field, fmt.Errorf("path %q must be relative and stay inside its directory", out))
	}
	return local, nil
}

func (p *planner) add(path string, content []byte, step Step, desc string) {
	p.result.Files = append(p.result.Files, PlannedFile{
		Path:        path,
		Content:     content,
		Step:        step,
		Description: desc,
	})
}

func (p *planner) structure(doc *Document) error {
	if doc.Structure == nil {
		return nil
	}

	for i, d := range doc.Structure.Directories {
		field := fmt.Sprintf("structure.directories[%d]", i)
		dir, err := p.renderPath(field, d.Name)
		if err != nil {
			return err
		}
		p.result.Dirs = append(p.result.Dirs, filepath.Join(p.moduleRel, dir))

		if !d.NeedsMarker(filepath.ToSlash(dir)) {
			continue
		}
		pkg := filepath.Base(dir)
		if !token.IsIdentifier(pkg) {
			return p.fail(field, fmt.Errorf("directory %q needs a package marker but is not a valid package name", dir))
		}
		p.add(filepath.Join(p.moduleRel, dir, MarkerFile), markerSource(pkg, p.result.Module), StepStructure, "package marker")
	}

	for i, f := range doc.Structure.Files {
		field := fmt.Sprintf("structure.files[%d]", i)
		name, err := p.renderPath(field+".name", f.Name)
		if err != nil {
			return err
		}

		raw := f.Content
		if f.Template != "" {
			data, err := p.tmpl.ReadFile(f.Template)
			if err != nil {
				return p.fail(field+".template", err)
			}
			raw = string(data)
		}
		content, err := p.render(field, raw)
		if err != nil {
			return err
		}
		p.add(filepath.Join(p.moduleRel, name), []byte(content), StepStructure, "")
	}
	return nil
}

func (p *planner) routes(doc *Document) error {
	routesPath := filepath.Join(p.moduleRel, p.emitter.FileName())
	if len(doc.Routes) == 0 && p.hasFile(routesPath) {
		return nil
	}

	routes := make([]Route, 0, len(doc.Routes))
	for i, r := range doc.Routes {
		field := fmt.Sprintf("routes[%d]", i)
		urlPath, err := p.render(field+".path", r.Path)
		if err != nil {
			return err
		}
		if !strings.HasPrefix(urlPath, "/") {
			return p.fail(field+".path", fmt.Errorf("route path %q must start with /", urlPath))
		}
		handler, err := p.render(field+".function", r.Function)
		if err != nil {
			return err
		}
		view, err := p.render(field+".template", r.Template)
		if err != nil {
			return err
		}
		routes = append(routes, Route{
			Method:       r.HTTPMethod(),
			Path:         urlPath,
			Handler:      handler,
			ResponseType: strings.ToLower(r.ResponseType),
			View:         view,
		})
	}

	src, err := p.emitter.Emit(p.result.Module, routes)
	if err != nil {
		return p.fail("routes", err)
	}
	p.add(routesPath, src, StepRoutes, fmt.Sprintf("routes (%d handlers)", len(routes)))
	return nil
}

func (p *planner) views(doc *Document) error {
	for i, v := range doc.Templates {
		field := fmt.Sprintf("templates[%d]", i)
		rel, err := p.renderPath(field+".path", v.Path)
		if err != nil {
			return err
		}
		content, err := p.render(field+".content", v.Content)
		if err != nil {
			return err
		}
		p.add(filepath.Join(ViewsDir, rel), []byte(content), StepTemplates, "view template")
	}
	return nil
}

func (p *planner) tests(doc *Document) error {
	if len(doc.Tests) == 0 {
		return nil
	}

	testsDir := filepath.Join(p.moduleRel, TestsDir)
	if !p.hasDir(testsDir) {
		p.result.Dirs = append(p.result.Dirs, testsDir)
	}
	for i, t := range doc.Tests {
		field := fmt.Sprintf("tests[%d]", i)
		name, err := p.renderPath(field+".name", t.Name)
		if err != nil {
			return err
		}
		content, err := p.render(field+".content", t.Content)
		if err != nil {
			return err
		}
		p.add(filepath.Join(testsDir, name), []byte(content), StepTests, "test")
	}
	return nil
}

func (p *planner) hasFile(path string) bool {
	for _, f := range p.result.Files {
		if f.Path == path {
			return true
		}
	}
	return false
}

func (p *planner) hasDir(path string) bool {
	for _, d := range p.result.Dirs {
		if d == path {
			return true
		}
	}
	return false
}

func markerSource(pkg, module string) []byte {
	return []byte(fmt.Sprintf("// Package %s holds the %s module's %s.\npackage %s\n", pkg, module, pkg, pkg))
}

// treeWriter writes a Result and remembers what it created or overwrote.
type treeWriter struct {
	root        string
	logger      *log.Logger
	files       []string
	dirs        []string
	overwritten []savedFile
}

// savedFile is the previous state of a file the writer replaced.
type savedFile struct {
	path    string
	content []byte
	mode    fs.FileMode
}

func (w *treeWriter) write(res *Result) error {
	if err := w.mkdir(filepath.Join(w.root, res.ModuleDir)); err != nil {
		return err
	}
	for _, d := range res.Dirs {
		if err := w.mkdir(filepath.Join(w.root, d)); err != nil {
			return err
		}
	}
	for _, f := range res.Files {
		if err := w.writeFile(f); err != nil {
			return fmt.Errorf("%s step: %w", f.Step, err)
		}
	}
	return nil
}

// mkdir creates dir and its missing parents, recording each one created.
func (w *treeWriter) mkdir(dir string) error {
	var missing []string
	for d := dir; ; d = filepath.Dir(d) {
		if _, err := os.Stat(d); err == nil {
			break
		}
		missing = append(missing, d)
		if parent := filepath.Dir(d); parent == d {
			break
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return oerrors.PathError("creating directory", dir, err)
	}
	for i := len(missing) - 1; i >= 0; i-- {
		w.dirs = append(w.dirs, missing[i])
	}
	return nil
}

func (w *treeWriter) writeFile(f PlannedFile) error {
	target := filepath.Join(w.root, f.Path)
	if err := w.mkdir(filepath.Dir(target)); err != nil {
		return err
	}
	info, statErr := os.Stat(target)
	existed := statErr == nil
	if existed {
		prev, err := os.ReadFile(target)
		if err != nil {
			return oerrors.PathError("reading", f.Path, err)
		}
		w.overwritten = append(w.overwritten, savedFile{path: target, content: prev, mode: info.Mode().Perm()})
	}

	if err := os.WriteFile(target, f.Content, 0o644); err != nil {
		return oerrors.PathError("writing", f.Path, err)
	}
	if !existed {
		w.files = append(w.files, target)
	}
	w.logger.Debug("wrote file", "path", f.Path, "step", f.Step)
	return nil
}

// rollback restores overwritten files, removes created files, then removes
// created directories deepest first.
func (w *treeWriter) rollback() {
	for i := len(w.overwritten) - 1; i >= 0; i-- {
		f := w.overwritten[i]
		if err := os.WriteFile(f.path, f.content, f.mode); err != nil {
			w.logger.Warn("rollback: could not restore file", "path", f.path, "error", err)
		}
	}
	for i := len(w.files) - 1; i >= 0; i-- {
		if err := os.Remove(w.files[i]); err != nil && !errors.Is(err, fs.ErrNotExist) {
			w.logger.Warn("rollback: could not remove file", "path", w.files[i], "error", err)
		}
	}
	for i := len(w.dirs) - 1; i >= 0; i-- {
		_ = os.Remove(w.dirs[i])
	}
}
