package httpserver

import (
	"github.com/labstack/echo/v4"
)

type Deps struct {
	CatalogHandler *CatalogHTTP
	// RequireAdmin guards catalog mutations.
	RequireAdmin echo.MiddlewareFunc
}

func Register(e *echo.Echo, d *Deps) {
	products := e.Group("/catalog/api/v1/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)

	admin := products.Group("")
	if d.RequireAdmin != nil {
		admin.Use(d.RequireAdmin)
	}
	admin.POST("", d.CatalogHandler.CreateProduct)
	admin.PATCH("/:id", d.CatalogHandler.PatchProduct)
	admin.DELETE("/:id", d.CatalogHandler.DeleteProduct)
}
