package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/OdatNurd/ruinous-twitch-ui/web"
)

// reservedPrefixes are routes that must never fall through to the SPA.
var reservedPrefixes = []string{"/api/", "/auth/", "/health/", "/metrics", "/version"}

// registerStaticRoutes serves the embedded SPA. Unknown paths outside the
// reserved prefixes fall back to index.html so client-side routing works on
// deep links.
func (s *Server) registerStaticRoutes() {
	s.echo.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Root:       "dist",
		Filesystem: http.FS(web.DistFiles),
		HTML5:      true,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			for _, prefix := range reservedPrefixes {
				if strings.HasPrefix(path, prefix) {
					return true
				}
			}
			return false
		},
	}))
}
