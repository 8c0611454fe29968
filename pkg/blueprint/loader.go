package blueprint

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
)

// Layout names the registrar relies on.
const (
	ModulesDir = "modules"
	RoutesFile = "routes.go"
)

// Host is the application blueprints are registered with.
type Host interface {
	// RootPath is the project root; modules are read from RootPath()/modules.
	RootPath() string

	// RegisterBlueprint mounts a blueprint's routes.
	RegisterBlueprint(bp *Blueprint) error
}

// Candidate is a module directory found under the modules directory.
type Candidate struct {
	Name       string
	Dir        string
	RoutesFile string
	HasRoutes  bool
}

// Skip records a candidate that was passed over without an error.
type Skip struct {
	Module string
	Reason string
}

// LoadResult summarizes one Load call.
type LoadResult struct {
	// ModulesDir is the directory that was scanned.
	ModulesDir string

	// Err is set when the scan stopped early: ErrModulesDirMissing,
	// ErrModulesNotDir, or a directory read failure.
	Err error

	// Registered holds the blueprints handed to the host, in load order.
	Registered []*Blueprint

	// Skipped holds candidates without routes.go or without a registered
	// factory.
	Skipped []Skip

	// Failed holds candidates whose factory or registration failed.
	Failed []*ModuleLoadError
}

// Loaded returns the names of the modules that were registered.
func (r *LoadResult) Loaded() []string {
	names := make([]string, 0, len(r.Registered))
	for _, bp := range r.Registered {
		names = append(names, bp.Name())
	}
	return names
}

type loadConfig struct {
	logger   *log.Logger
	registry *Registry
	ignore   []string
}

// LoadOption configures Load and Discover.
type LoadOption func(*loadConfig)

// WithLogger sets the logger used for scan progress and per-module problems.
func WithLogger(l *log.Logger) LoadOption {
	return func(c *loadConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRegistry resolves factories from r instead of the default registry.
func WithRegistry(r *Registry) LoadOption {
	return func(c *loadConfig) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithIgnore excludes module directories whose name matches any of the
// doublestar patterns.
func WithIgnore(patterns ...string) LoadOption {
	return func(c *loadConfig) {
		c.ignore = append(c.ignore, patterns...)
	}
}

func newLoadConfig(opts []LoadOption) *loadConfig {
	c := &loadConfig{
		logger:   log.Default(),
		registry: defaultRegistry,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Discover lists the module candidates under modulesDir in lexical order.
func Discover(modulesDir string, opts ...LoadOption) ([]Candidate, error) {
	return newLoadConfig(opts).discover(modulesDir)
}

func (c *loadConfig) discover(modulesDir string) ([]Candidate, error) {
	info, err := os.Stat(modulesDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrModulesDirMissing
	}
	if err != nil {
		return nil, fmt.Errorf("checking modules directory: %w", err)
	}
	if !info.IsDir() {
		return nil, ErrModulesNotDir
	}

	entries, err := os.ReadDir(modulesDir)
	if err != nil {
		return nil, fmt.Errorf("reading modules directory: %w", err)
	}

	// os.ReadDir sorts by name already; keep the guarantee explicit.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var candidates []Candidate
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if c.ignored(name) {
			c.logger.Debug("ignoring module directory", "module", name)
			continue
		}

		dir := filepath.Join(modulesDir, name)
		routes := filepath.Join(dir, RoutesFile)
		_, statErr := os.Stat(routes)

		candidates = append(candidates, Candidate{
			Name:       name,
			Dir:        dir,
			RoutesFile: routes,
			HasRoutes:  statErr == nil,
		})
	}
	return candidates, nil
}

func (c *loadConfig) ignored(name string) bool {
	for _, pattern := range c.ignore {
		match, err := doublestar.Match(pattern, name)
		if err != nil {
			c.logger.Debug("invalid ignore pattern", "pattern", pattern, "error", err)
			continue
		}
		if match {
			return true
		}
	}
	return false
}

// Load discovers modules under host.RootPath()/modules and registers each
// module's blueprint with host. It never returns an error: a missing modules
// directory ends the scan early, and a failing module is logged and skipped
// without affecting the others.
func Load(host Host, opts ...LoadOption) *LoadResult {
	c := newLoadConfig(opts)
	modulesDir := filepath.Join(host.RootPath(), ModulesDir)
	result := &LoadResult{ModulesDir: modulesDir}

	candidates, err := c.discover(modulesDir)
	switch {
	case errors.Is(err, ErrModulesDirMissing):
		c.logger.Warn("modules directory not found", "path", modulesDir)
		result.Err = err
		return result
	case errors.Is(err, ErrModulesNotDir):
		c.logger.Error("modules path exists but is not a directory", "path", modulesDir)
		result.Err = err
		return result
	case err != nil:
		c.logger.Error("error reading modules directory", "path", modulesDir, "error", err)
		result.Err = err
		return result
	}

	if len(candidates) == 0 {
		c.logger.Info("no modules found in modules directory", "path", modulesDir)
		return result
	}

	names := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		names = append(names, cand.Name)
	}
	c.logger.Info(fmt.Sprintf("found %d modules", len(candidates)), "modules", strings.Join(names, ", "))

	for _, cand := range candidates {
		c.loadOne(host, cand, result)
	}

	return result
}

func (c *loadConfig) loadOne(host Host, cand Candidate, result *LoadResult) {
	if !cand.HasRoutes {
		c.logger.Warn("module has no routes file", "module", cand.Name, "file", RoutesFile)
		result.Skipped = append(result.Skipped, Skip{Module: cand.Name, Reason: "no " + RoutesFile})
		return
	}

	factory, ok := c.registry.Lookup(cand.Name)
	if !ok {
		c.logger.Warn("module does not register a blueprint",
			"module", cand.Name,
			"hint", "call blueprint.MustRegister in routes.go and import the package from modules/modules.go")
		result.Skipped = append(result.Skipped, Skip{Module: cand.Name, Reason: "no blueprint registered"})
		return
	}

	bp, err := build(factory)
	if err == nil {
		err = register(host, bp)
	}
	if err != nil {
		loadErr := &ModuleLoadError{Module: cand.Name, Err: err}
		c.logger.Error("failed to load module", "module", cand.Name, "error", err)
		result.Failed = append(result.Failed, loadErr)
		return
	}

	if bp.Name() != cand.Name {
		c.logger.Debug("blueprint name differs from module directory", "module", cand.Name, "blueprint", bp.Name())
	}

	result.Registered = append(result.Registered, bp)
	c.logger.Info("loaded blueprint", "module", cand.Name, "routes", len(bp.routes))
}

func build(factory Factory) (bp *Blueprint, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("factory panicked: %v", r)
		}
	}()

	bp, err = factory()
	if err != nil {
		return nil, err
	}
	if bp == nil {
		return nil, ErrNilBlueprint
	}
	return bp, nil
}

func register(host Host, bp *Blueprint) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("registering routes: %v", r)
		}
	}()
	return host.RegisterBlueprint(bp)
}
