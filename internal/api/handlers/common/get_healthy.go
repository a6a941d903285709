package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/evm-agent/internal/api"
	"github/chapool/evm-agent/internal/util"
)

func GetHealthyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/healthy", getHealthyHandler(s))
}

// getHealthyHandler probes the current network with a chain-id round trip, so
// liveness reflects the upstream node, not just this process.
func getHealthyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		if !s.Ready() {
			return c.String(521, "Not healthy.")
		}

		conn, err := s.Conns.Get("")
		if err != nil {
			return c.String(521, "Not healthy.")
		}
		if _, err := conn.Client().ChainID(ctx); err != nil {
			log.Warn().Err(err).Str("network", conn.Name()).Msg("Healthiness probe failed")
			return c.String(521, "Not healthy.")
		}

		return c.String(http.StatusOK, "Healthy.")
	}
}
