// Package web embeds the dashboard templates and static assets into the
// binary.
package web

import "embed"

// TemplatesFS holds the page templates and the HTMX partials.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet and the dashboard script.
//
//go:embed static/*
var StaticFS embed.FS
