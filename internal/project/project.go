// Package project scaffolds new constrictor projects.
package project

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/template"

	"github.com/charmbracelet/log"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	"github.com/constrictor-dev/constrictor/internal/config"
	oerrors "github.com/constrictor-dev/constrictor/internal/errors"
	"github.com/constrictor-dev/constrictor/internal/output"
	"github.com/constrictor-dev/constrictor/internal/templates"
	"github.com/constrictor-dev/constrictor/internal/toolrunner"
	"github.com/constrictor-dev/constrictor/internal/version"
)

//go:embed scaffold
var scaffoldFS embed.FS

// GoVersion is written to the go directive of new projects.
const GoVersion = "1.25"

const gitignoreFile = ".gitignore"

// Tools runs the external commands a scaffold needs. *toolrunner.Runner
// satisfies it.
type Tools interface {
	Go(ctx context.Context, args ...string) (*toolrunner.Result, error)
	Git(ctx context.Context, args ...string) (*toolrunner.Result, error)
}

// Options configures Create.
type Options struct {
	// Name is the project name and directory name.
	Name string

	// Parent is the directory the project is created in. Defaults to ".".
	Parent string

	// ModulePath is the Go module path. Defaults to Name.
	ModulePath string

	// FrameworkVersion is required in go.mod. "latest" or empty leaves the
	// requirement to `go mod tidy`.
	FrameworkVersion string

	SkipGit  bool
	SkipDeps bool

	// NewTools returns the tool runner for the project root. Defaults to
	// a toolrunner.Runner.
	NewTools func(root string) Tools

	Logger *log.Logger
}

// Result describes a created project.
type Result struct {
	Root       string
	ModulePath string

	// Files maps created file paths (relative to Root) to descriptions.
	Files map[string]string

	DepsInstalled  bool
	GitInitialized bool
}

type scaffoldData struct {
	Name            string
	ModulePath      string
	FrameworkModule string
}

// Create scaffolds a project. On any failure the project directory is
// removed.
func Create(ctx context.Context, opts Options) (*Result, error) {
	if err := templates.ValidateProjectName(opts.Name); err != nil {
		return nil, err
	}
	if opts.ModulePath == "" {
		opts.ModulePath = opts.Name
	}
	if err := module.CheckImportPath(opts.ModulePath); err != nil {
		return nil, oerrors.NewValidationError(
			fmt.Sprintf("invalid module path %q: %v", opts.ModulePath, err),
			"", "module-path", "use a path like example.com/"+opts.Name)
	}
	if opts.Parent == "" {
		opts.Parent = "."
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if opts.NewTools == nil {
		opts.NewTools = func(root string) Tools { return toolrunner.NewRunner(root, logger) }
	}

	root, err := filepath.Abs(filepath.Join(opts.Parent, opts.Name))
	if err != nil {
		return nil, fmt.Errorf("resolving project directory: %w", err)
	}
	if _, err := os.Stat(root); err == nil {
		return nil, oerrors.NewValidationError(
			fmt.Sprintf("directory already exists: %s", root),
			root, "", "choose a different name or remove the existing directory")
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("checking %s: %w", root, err)
	}

	files, err := render(opts)
	if err != nil {
		return nil, err
	}

	res := &Result{Root: root, ModulePath: opts.ModulePath, Files: make(map[string]string, len(files))}
	if err := create(ctx, root, files, opts, logger, res); err != nil {
		if rmErr := os.RemoveAll(root); rmErr != nil {
			logger.Warn("failed to clean up project directory", "path", root, "error", rmErr)
		}
		return nil, err
	}
	return res, nil
}

type file struct {
	path string
	desc string
	data []byte
}

func render(opts Options) ([]file, error) {
	data := scaffoldData{
		Name:            opts.Name,
		ModulePath:      opts.ModulePath,
		FrameworkModule: version.FrameworkModule,
	}

	appSrc, err := execScaffold("scaffold/app.go.tmpl", data)
	if err != nil {
		return nil, err
	}
	ignore, err := execScaffold("scaffold/gitignore", data)
	if err != nil {
		return nil, err
	}
	gomod, err := goModFile(opts.ModulePath, opts.FrameworkVersion)
	if err != nil {
		return nil, err
	}
	cfg, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", config.ProjectConfigFile, err)
	}
	index, err := templates.RenderModulesIndex(nil)
	if err != nil {
		return nil, fmt.Errorf("rendering module index: %w", err)
	}

	return []file{
		{config.GoModFile, "Go module definition", gomod},
		{config.AppFile, "application entry point", appSrc},
		{config.ProjectConfigFile, "project configuration", cfg},
		{filepath.Join(config.ModulesDir, templates.IndexFile), "module index", index},
		{gitignoreFile, "git ignore rules", ignore},
	}, nil
}

func execScaffold(name string, data scaffoldData) ([]byte, error) {
	raw, err := scaffoldFS.ReadFile(name)
	if err != nil {
		return nil, err
	}
	t, err := template.New(filepath.Base(name)).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func goModFile(modulePath, frameworkVersion string) ([]byte, error) {
	f := new(modfile.File)
	if err := f.AddModuleStmt(modulePath); err != nil {
		return nil, fmt.Errorf("writing module directive: %w", err)
	}
	if err := f.AddGoStmt(GoVersion); err != nil {
		return nil, fmt.Errorf("writing go directive: %w", err)
	}
	if frameworkVersion != "" && frameworkVersion != "latest" {
		if err := f.AddRequire(version.FrameworkModule, frameworkVersion); err != nil {
			return nil, fmt.Errorf("requiring %s: %w", version.FrameworkModule, err)
		}
	}
	return modfile.Format(f.Syntax), nil
}

func create(ctx context.Context, root string, files []file, opts Options, logger *log.Logger, res *Result) error {
	for _, dir := range []string{root, filepath.Join(root, config.ModulesDir), filepath.Join(root, config.TemplatesDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return oerrors.PathError("creating", dir, err)
		}
	}
	res.Files[config.TemplatesDir+"/"] = "view templates"

	for _, f := range files {
		target := filepath.Join(root, f.path)
		if err := os.WriteFile(target, f.data, 0o644); err != nil {
			return oerrors.PathError("writing", f.path, err)
		}
		res.Files[filepath.ToSlash(f.path)] = f.desc
		logger.Debug("created file", "path", f.path)
	}

	tools := opts.NewTools(root)

	if !opts.SkipDeps {
		err := output.RunWithSpinner(ctx, func(ctx context.Context) error {
			if opts.FrameworkVersion == "" || opts.FrameworkVersion == "latest" {
				if _, err := tools.Go(ctx, "get", version.FrameworkModule+"@latest"); err != nil {
					return err
				}
			}
			_, err := tools.Go(ctx, "mod", "tidy")
			return err
		}, output.WithTitle("Installing dependencies"))
		if err != nil {
			return fmt.Errorf("installing dependencies: %w", err)
		}
		res.DepsInstalled = true
		if _, err := os.Stat(filepath.Join(root, "go.sum")); err == nil {
			res.Files["go.sum"] = "dependency checksums"
		}
	}

	if !opts.SkipGit {
		err := output.RunWithSpinner(ctx, func(ctx context.Context) error {
			_, err := tools.Git(ctx, "init", "--quiet")
			return err
		}, output.WithTitle("Initializing git repository"))
		if err != nil {
			return fmt.Errorf("initializing git repository: %w", err)
		}
		res.GitInitialized = true
	}

	return nil
}
