package templates

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Context is the data every placeholder is rendered against.
type Context struct {
	// ModuleName is the module being generated (e.g. "billing").
	ModuleName string

	// ModulePascal is the PascalCase module name (e.g. "UserProfiles").
	ModulePascal string

	// ProjectModule is the Go module path from the project's go.mod.
	ProjectModule string
}

// NewContext builds the rendering context for a module.
func NewContext(moduleName, projectModule string) Context {
	return Context{
		ModuleName:    moduleName,
		ModulePascal:  Pascal(moduleName),
		ProjectModule: projectModule,
	}
}

// Renderer renders template strings against a Context.
type Renderer struct {
	ctx   Context
	funcs template.FuncMap
}

// NewRenderer creates a renderer for ctx.
func NewRenderer(ctx Context) *Renderer {
	title := cases.Title(language.English)
	return &Renderer{
		ctx: ctx,
		funcs: template.FuncMap{
			"module_name":    func() string { return ctx.ModuleName },
			"project_module": func() string { return ctx.ProjectModule },
			"pascal":         Pascal,
			"title": func(s string) string {
				return title.String(strings.ReplaceAll(s, "_", " "))
			},
			"upper": strings.ToUpper,
			"lower": strings.ToLower,
		},
	}
}

// Context returns the renderer's context.
func (r *Renderer) Context() Context {
	return r.ctx
}

// RenderString renders content. name labels parse and execution errors.
func (r *Renderer) RenderString(name, content string) (string, error) {
	if !strings.Contains(content, "{{") {
		return content, nil
	}

	tmpl, err := template.New(name).Funcs(r.funcs).Option("missingkey=error").Parse(content)
	if err != nil {
		return "", fmt.Errorf("parsing: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r.ctx); err != nil {
		return "", fmt.Errorf("executing: %w", err)
	}
	return buf.String(), nil
}

// Pascal converts snake_case to PascalCase: "user_profiles" -> "UserProfiles".
func Pascal(s string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range s {
		if r == '_' || r == '-' || r == ' ' {
			upperNext = true
			continue
		}
		if upperNext {
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
