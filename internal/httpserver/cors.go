package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

var (
	corsHeaders = []string{
		echo.HeaderXRequestedWith,
		echo.HeaderContentType,
		echo.HeaderAccept,
		echo.HeaderOrigin,
		echo.HeaderAuthorization,
	}
	corsMethods = []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodDelete,
		http.MethodPatch,
		http.MethodOptions,
	}
)

// preflightCORS answers OPTIONS preflight requests.
func preflightCORS() echo.MiddlewareFunc {
	return echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: corsHeaders,
		AllowMethods: corsMethods,
	})
}

// permissiveCORS sets the CORS headers on every response, with or without an
// Origin header on the request.
func permissiveCORS() echo.MiddlewareFunc {
	headers := strings.Join(corsHeaders, ", ")
	methods := strings.Join(corsMethods, ", ")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, "*")
			h.Set(echo.HeaderAccessControlAllowHeaders, headers)
			h.Set(echo.HeaderAccessControlAllowMethods, methods)
			return next(c)
		}
	}
}
