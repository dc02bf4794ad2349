package http

import (
	"errors"
	"net/http"

	"custody/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

var kindStatus = map[errs.Kind]int{
	errs.KindNotFound:            http.StatusNotFound,
	errs.KindAlreadyExists:       http.StatusConflict,
	errs.KindInvalidInput:        http.StatusBadRequest,
	errs.KindInvalidState:        http.StatusConflict,
	errs.KindValidationFailed:    http.StatusUnprocessableEntity,
	errs.KindIdentityMismatch:    http.StatusUnprocessableEntity,
	errs.KindPolicyLimitExceeded: http.StatusPreconditionFailed,
	errs.KindPrerequisiteNotMet:  http.StatusPreconditionFailed,
	errs.KindIntegrityFault:      http.StatusInternalServerError,
}

// StatusOf maps a domain or application error onto an HTTP status.
func StatusOf(err error) int {
	if status, ok := kindStatus[errs.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorHandler replaces echo's default so every error leaves with the same body shape.
// Messages of unclassified errors are not exposed.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var body Error
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		body = Error{Code: httpErr.Code, Kind: errs.KindInvalidInput.String(), Message: http.StatusText(httpErr.Code)}
		if msg, ok := httpErr.Message.(string); ok {
			body.Message = msg
		}
	} else {
		kind := errs.KindOf(err)
		body = Error{Code: StatusOf(err), Kind: kind.String(), Message: err.Error()}
		if kind == errs.KindUnknown {
			body.Message = http.StatusText(body.Code)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(body.Code)
		return
	}
	_ = c.JSON(body.Code, body)
}

func badRequest(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}
