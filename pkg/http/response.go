package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// StatusCoder is implemented by errors that know their HTTP status.
type StatusCoder interface {
	error
	HTTPStatus() int
}

// SuccessResponse writes v as a 200 JSON body.
func SuccessResponse(c echo.Context, v interface{}) error {
	return c.JSON(http.StatusOK, v)
}

// BadRequestResponse writes a 400 body listing field errors.
func BadRequestResponse(c echo.Context, errs []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ErrorBody{Status: StatusError, Message: Summary(errs), Errors: errs})
}

// ErrorResponse maps err to a status code and writes the uniform error body.
func ErrorResponse(c echo.Context, err error) error {
	status, msg := StatusFor(err)
	return c.JSON(status, ErrorBody{Status: StatusError, Message: msg})
}

// StatusFor returns the HTTP status and client-facing message for err.
// Unclassified errors become an opaque 500.
func StatusFor(err error) (int, string) {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatus(), sc.Error()
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			return he.Code, msg
		}
		return he.Code, http.StatusText(he.Code)
	}

	return http.StatusInternalServerError, "Internal Server Error"
}

// HTTPErrorHandler renders errors returned by handlers and middleware with the
// uniform body.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	_ = ErrorResponse(c, err)
}
