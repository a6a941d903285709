package tools

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/evm-agent/internal/api"
	toolreg "github/chapool/evm-agent/internal/tools"
)

// GetToolsResponse enumerates every exposed tool with its input schema.
type GetToolsResponse struct {
	Tools []toolreg.Tool `json:"tools"`
}

func GetToolsRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Tools.GET("", getToolsHandler(s))
}

func getToolsHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, &GetToolsResponse{Tools: s.Tools.All()})
	}
}
