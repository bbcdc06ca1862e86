package middleware

import (
	"errors"
	"net/http"

	"sisrekomact/domain"
	"sisrekomact/pkg/logger"
	jsonres "sisrekomact/pkg/response"

	"github.com/labstack/echo/v4"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// checked in order; the first match wins
var errorMappings = []errorMapping{
	{domain.ErrEmptyPopulation, http.StatusNotFound, "NOT_FOUND"},
	{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{domain.ErrNoRecommendations, http.StatusNotFound, "NO_RECOMMENDATIONS"},
	{domain.ErrModelUnavailable, http.StatusServiceUnavailable, "MODEL_UNAVAILABLE"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrInconsistentSchema, http.StatusInternalServerError, "INCONSISTENT_SCHEMA"},
	{domain.ErrRecomputeFailed, http.StatusInternalServerError, "RECOMPUTE_FAILED"},
}

// HTTPErrorHandler renders every error returned by a handler as a
// response.ErrorBody.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, code, message := resolveError(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", err,
			"method", c.Request().Method,
			"path", c.Path(),
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		)
	}

	var respErr error
	if c.Request().Method == http.MethodHead {
		respErr = c.NoContent(status)
	} else {
		respErr = c.JSON(status, jsonres.Error(code, message, nil))
	}
	if respErr != nil {
		logger.Error("Failed to write error response", respErr)
	}
}

func resolveError(err error) (int, string, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		return he.Code, codeForStatus(he.Code), msg
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			message := err.Error()
			if m.status >= http.StatusInternalServerError && m.status != http.StatusServiceUnavailable {
				// cause is logged, not returned
				message = m.target.Error()
			}
			return m.status, m.code, message
		}
	}

	return http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	}
	if status >= http.StatusInternalServerError {
		return "INTERNAL_ERROR"
	}
	return "ERROR"
}
