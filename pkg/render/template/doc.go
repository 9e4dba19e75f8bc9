// Package template defines the engine contract renderers depend on. The
// pongo2-backed implementation lives in the gotemplate subpackage; tests and
// callers can substitute any TemplateRenderer.
package template
