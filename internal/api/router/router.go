package router

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github/chapool/evm-agent/internal/api"
	"github/chapool/evm-agent/internal/api/handlers/common"
	toolhandlers "github/chapool/evm-agent/internal/api/handlers/tools"
	"github/chapool/evm-agent/internal/api/httperrors"
)

// Init attaches the echo instance, middleware stack, route groups and every
// handler route to the server.
func Init(s *api.Server) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(s)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "evmagent",
		Registerer: s.Metrics,
	}))

	s.Echo = e
	s.Router = &api.Router{
		Root:       e.Group(""),
		Management: e.Group("/-"),
		APIV1Tools: e.Group("/api/v1/tools"),
	}

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: s.Metrics,
	}))

	s.Router.Routes = []*echo.Route{
		common.GetHealthyRoute(s),
		common.GetReadyRoute(s),
		toolhandlers.GetToolsRoute(s),
		toolhandlers.PostToolRoute(s),
	}
}

// errorHandler renders public HTTPError payloads and keeps everything else
// opaque when configured to hide internal error details.
func errorHandler(s *api.Server) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var httpErr *httperrors.HTTPError
		if errors.As(err, &httpErr) {
			_ = c.JSON(httpErr.Code, httpErr)
			return
		}

		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			_ = c.JSON(echoErr.Code, httperrors.NewHTTPError(echoErr.Code, httperrors.TypeGeneric, http.StatusText(echoErr.Code)))
			return
		}

		internal := httperrors.NewHTTPError(http.StatusInternalServerError, httperrors.TypeGeneric, http.StatusText(http.StatusInternalServerError))
		if !s.Config.Echo.HideInternalServerErrorDetails {
			internal = internal.WithDetail(err.Error())
		}
		_ = c.JSON(internal.Code, internal)
	}
}
