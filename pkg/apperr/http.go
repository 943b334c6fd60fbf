package apperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

const HeaderStatusReason = "X-Status-Reason"

// ToHTTP converts a service error into the response the client sees.
func ToHTTP(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	return echo.NewHTTPError(Status(err), Message(err))
}

// ErrorHandler renders errors as {"message": ...}. A 304 response cannot
// carry a body, so its message goes into a header instead.
func ErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		he := ToHTTP(err)
		if he.Code == http.StatusNotModified {
			if msg, ok := he.Message.(string); ok {
				c.Response().Header().Set(HeaderStatusReason, msg)
			}
			if err := c.NoContent(http.StatusNotModified); err != nil {
				e.Logger.Error(err)
			}
			return
		}
		e.DefaultHTTPErrorHandler(he, c)
	}
}
