// Package web holds the embedded templates and static assets.
package web

import "embed"

// TemplatesFS holds the page, section fragment and admin templates.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet and the reveal script.
//
//go:embed static/*
var StaticFS embed.FS
