// Package blueprint discovers feature modules under a project's modules
// directory and registers their route collections with a host application.
//
// A feature module is a Go package at <root>/modules/<name> containing a
// routes.go file. The package registers a Factory for its blueprint from
// init():
//
//	func init() {
//		blueprint.MustRegister("billing", New)
//	}
//
// At startup the host calls Load, which walks the modules directory in
// lexical order, resolves each directory name through the registry, and
// hands the resulting blueprints to the host. A module that cannot be loaded
// is logged and skipped; Load itself never fails.
//
// The directory tree is the only source of truth for which modules exist.
// A package that is compiled in but has no directory is not loaded, and a
// directory whose package is not imported is reported as unregistered.
package blueprint
