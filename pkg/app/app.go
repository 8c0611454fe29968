// Package app provides the gin-backed host application that feature
// module blueprints are registered with.
//
// A generated project's app.go looks like:
//
//	a, err := app.New(".", cfg)
//	...
//	a.LoadModules()
//	a.Run(ctx)
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/constrictor-dev/constrictor/pkg/blueprint"
)

const shutdownTimeout = 5 * time.Second

// App is a web application rooted at a project directory.
type App struct {
	root   string
	cfg    Config
	engine *gin.Engine
	logger *log.Logger
	views  []string

	mu         sync.Mutex
	blueprints []*blueprint.Blueprint
}

var _ blueprint.Host = (*App)(nil)

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger used by the app and the module registrar.
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an App for the project at root. View templates under
// root/templates are parsed eagerly so syntax errors surface at startup.
func New(root string, cfg Config, opts ...Option) (*App, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{
		root:   absRoot,
		cfg:    cfg,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	a.engine = gin.New()
	a.engine.Use(gin.Recovery(), a.requestLogger())

	set, names, err := loadViews(filepath.Join(absRoot, TemplatesDir))
	if err != nil {
		return nil, err
	}
	if set != nil {
		a.engine.SetHTMLTemplate(set)
		a.views = names
		a.logger.Debug("loaded view templates", "count", len(names))
	}

	return a, nil
}

// RootPath returns the absolute project root.
func (a *App) RootPath() string {
	return a.root
}

// Config returns the server settings.
func (a *App) Config() Config {
	return a.cfg
}

// Engine exposes the underlying gin engine for custom middleware or routes.
func (a *App) Engine() *gin.Engine {
	return a.engine
}

// Handler returns the app as an http.Handler.
func (a *App) Handler() http.Handler {
	return a.engine
}

// Views returns the names of the loaded view templates.
func (a *App) Views() []string {
	return a.views
}

// RegisterBlueprint mounts bp's routes. Registration is additive; gin panics
// on a conflicting route, which the module registrar recovers and reports.
func (a *App) RegisterBlueprint(bp *blueprint.Blueprint) error {
	if bp == nil {
		return blueprint.ErrNilBlueprint
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	bp.Register(a.engine)
	a.blueprints = append(a.blueprints, bp)
	return nil
}

// Blueprints returns the registered blueprints in registration order.
func (a *App) Blueprints() []*blueprint.Blueprint {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*blueprint.Blueprint(nil), a.blueprints...)
}

// LoadModules runs the module registrar against this app.
func (a *App) LoadModules(opts ...blueprint.LoadOption) *blueprint.LoadResult {
	opts = append([]blueprint.LoadOption{blueprint.WithLogger(a.logger)}, opts...)
	return blueprint.Load(a, opts...)
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("serving", "addr", "http://"+srv.Addr, "debug", a.cfg.Debug)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func (a *App) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		a.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
