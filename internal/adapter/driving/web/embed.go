package web

import "embed"

// StaticFS holds the embedded static assets (stylesheet and panel script).
//
//go:embed static/*
var StaticFS embed.FS
