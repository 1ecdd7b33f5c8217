// Package scaffold renders the files of a generated project.
package scaffold

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Name identifies a template.
type Name string

// Template names. Each maps to templates/<name>.tmpl.
const (
	Package     Name = "package"
	WWW         Name = "www"
	Config      Name = "config"
	Passport    Name = "passport"
	Helpers     Name = "helpers"
	AppError    Name = "apperror"
	Middlewares Name = "middlewares"
	MainRouter  Name = "mainrouter"
	Express     Name = "express"
	Env         Name = "env"
	Gitignore   Name = "gitignore"
	Schema      Name = "schema"
	ModelRouter Name = "modelrouter"
)

// Names lists every template the renderer knows.
var Names = []Name{
	Package, WWW, Config, Passport, Helpers, AppError, Middlewares,
	MainRouter, Express, Env, Gitignore, Schema, ModelRouter,
}

// ProjectData parameterizes the project-level templates.
type ProjectData struct {
	Name string // package name, lower-case slug
}

// SchemaData parameterizes the model schema template.
type SchemaData struct {
	Singular string
	Auth     bool // adds email/password fields and hashing hooks
}

// ModelRouterData parameterizes the per-model router template.
type ModelRouterData struct {
	Singular string
	Plural   string
	Group    string // "admin" or "front"
	Actions  Actions
}

// Renderer renders a named template with data into file text.
type Renderer interface {
	Render(name Name, data any) (string, error)
}

// TemplateRenderer renders the embedded templates.
type TemplateRenderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*TemplateRenderer, error) {
	tmpl, err := template.New("vulegen").Option("missingkey=error").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &TemplateRenderer{tmpl: tmpl}, nil
}

// Render executes the template called name.
func (r *TemplateRenderer) Render(name Name, data any) (string, error) {
	t := r.tmpl.Lookup(string(name) + ".tmpl")
	if t == nil {
		return "", fmt.Errorf("unknown template %q", name)
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return b.String(), nil
}
