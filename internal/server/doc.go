// Package server is the HTTP layer: an Echo server exposing the addon and
// overlay REST API under /api/v1, the Twitch login flow under /auth, and the
// embedded single-page application for everything else.
package server
