package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/evm-agent/internal/api"
)

func GetReadyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/ready", getReadyHandler(s))
}

// getReadyHandler reports whether the server is fully initialized: every
// component wired and at least one network connection alive.
func getReadyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.Ready() || len(s.Conns.Names()) == 0 {
			return c.String(521, "Not ready.")
		}

		return c.String(http.StatusOK, "Ready.")
	}
}
