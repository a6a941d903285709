package tools

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github/chapool/evm-agent/internal/api"
	"github/chapool/evm-agent/internal/api/httperrors"
	"github/chapool/evm-agent/internal/chain/conn"
	"github/chapool/evm-agent/internal/chain/identity"
	"github/chapool/evm-agent/internal/chain/txn"
	toolreg "github/chapool/evm-agent/internal/tools"
	"github/chapool/evm-agent/internal/util"
)

// PostToolResponse wraps a tool execution result.
type PostToolResponse struct {
	Tool   string `json:"tool"`
	Result any    `json:"result"`
}

func PostToolRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Tools.POST("/:name", postToolHandler(s))
}

func postToolHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)
		name := c.Param("name")

		args := toolreg.Args{}
		if err := c.Bind(&args); err != nil {
			return httperrors.ErrBadRequestValidation.WithDetail("request body must be a JSON object")
		}

		result, err := s.Tools.Execute(ctx, name, args)
		if err != nil {
			log.Debug().Err(err).Str("tool", name).Msg("Tool execution failed")
			return toHTTPError(err)
		}

		return c.JSON(http.StatusOK, &PostToolResponse{Tool: name, Result: result})
	}
}

// toHTTPError maps the domain error taxonomy onto public HTTP errors.
func toHTTPError(err error) error {
	var submissionErr *txn.SubmissionError

	switch {
	case errors.Is(err, toolreg.ErrToolNotFound):
		return httperrors.ErrNotFoundTool
	case errors.Is(err, toolreg.ErrInvalidArgument):
		return httperrors.ErrBadRequestValidation.WithDetail(err.Error())
	case errors.Is(err, conn.ErrNetworkNotConfigured):
		return httperrors.ErrBadRequestNetworkUnknown.WithDetail(err.Error())
	case errors.Is(err, identity.ErrNoIdentityAvailable):
		return httperrors.ErrBadRequestNoIdentity.WithDetail(err.Error())
	case errors.As(err, &submissionErr):
		return httperrors.ErrBadGatewaySubmission.WithDetail(submissionErr.Error())
	default:
		return err
	}
}
