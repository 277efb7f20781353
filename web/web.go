// Package web embeds the compiled single-page application. The dist
// directory is produced by the frontend build and checked in so the Go
// binary ships self-contained.
package web

import "embed"

//go:embed dist
var DistFiles embed.FS
