package httpserver

import (
	"github.com/labstack/echo/v4"
)

type Deps struct {
	CartHandler *CartHTTP
}

func Register(e *echo.Echo, d *Deps) {
	carts := e.Group("/store/api/v1/carts")
	carts.PUT("", d.CartHandler.PutCart)
	carts.PUT("/:id", d.CartHandler.PutCart)
	carts.GET("/:id", d.CartHandler.GetCart)
	carts.DELETE("/:id", d.CartHandler.DeleteCart)
}
