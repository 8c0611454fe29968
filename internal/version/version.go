// Package version provides version information for the constrictor CLI.
package version

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version (set via ldflags).
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// FrameworkModule is the module generated projects depend on.
const FrameworkModule = "github.com/constrictor-dev/constrictor"

// Info contains version information.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
}

// ToolInfo describes an external tool the CLI shells out to.
type ToolInfo struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Version string `json:"version"`
	Found   bool   `json:"found"`
}

// Get returns the current version information. When Version was not set
// through ldflags, the module version recorded in the build info is used.
func Get() Info {
	v := Version
	if v == "v0.0.0-dev" {
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			v = bi.Main.Version
		}
	}
	return Info{
		Version:   v,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}

// FrameworkVersion returns the version to require in generated go.mod files,
// or "latest" for development builds.
func FrameworkVersion() string {
	v := Get().Version
	if v == "" || strings.HasSuffix(v, "-dev") {
		return "latest"
	}
	return v
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("constrictor:\n  Version:  %s\n  Build ID: %s/%s\n  Go:       %s",
		i.Version, i.BuildDate, i.GitCommit, i.GoVersion)
}

// DetectTool looks up name on PATH and asks it for its version using
// versionArgs. A missing tool is reported through Found, not an error.
func DetectTool(ctx context.Context, name string, versionArgs ...string) ToolInfo {
	info := ToolInfo{Name: name}

	path, err := exec.LookPath(name)
	if err != nil {
		return info
	}
	info.Path = path
	info.Found = true

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, versionArgs...).Output()
	if err == nil {
		info.Version = strings.TrimSpace(string(out))
	}
	return info
}

// String returns a one-line description of the tool.
func (t ToolInfo) String() string {
	if !t.Found {
		return fmt.Sprintf("  %-4s not found", t.Name+":")
	}
	return fmt.Sprintf("  %-4s %s (%s)", t.Name+":", t.Version, t.Path)
}

// FullVersionString returns version information including external tools.
func FullVersionString(info Info, tools ...ToolInfo) string {
	var sb strings.Builder
	sb.WriteString(info.String())
	if len(tools) > 0 {
		sb.WriteString("\n\nTools:")
		for _, t := range tools {
			sb.WriteString("\n")
			sb.WriteString(t.String())
		}
	}
	return sb.String()
}
