// Package app is the application layer. It orchestrates the addon catalog,
// per-user installs, and overlay resolution over the repository and cache
// interfaces defined in domain.
package app
