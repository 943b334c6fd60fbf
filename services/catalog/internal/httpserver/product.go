package httpserver

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/store/pkg/apperr"
	"github.com/Skotchmaster/store/pkg/logging"
	"github.com/Skotchmaster/store/pkg/request"
	"github.com/Skotchmaster/store/pkg/validate"
	"github.com/Skotchmaster/store/services/catalog/internal/service"
	"github.com/Skotchmaster/store/services/catalog/internal/transport"
)

type CatalogHTTP struct {
	Svc     *service.CatalogService
	BaseURL string
}

func fail(c echo.Context, op string, err error) error {
	he := apperr.ToHTTP(err)
	l := logging.FromContext(c.Request().Context())
	if he.Code >= http.StatusInternalServerError {
		l.Error(op+"_error", "status", he.Code, "error", err)
	} else {
		l.Warn(op+"_error", "status", he.Code, "reason", he.Message, "error", err)
	}
	return he
}

func cursorParam(c echo.Context) (int64, error) {
	raw := c.QueryParam("cursor")
	if raw == "" {
		return 0, nil
	}
	return validate.Integer("cursor", raw)
}

func (h *CatalogHTTP) page(p *service.Page, next func(int64) string) transport.ListResponse {
	resp := transport.ListResponse{
		Products: transport.FromModels(h.BaseURL, p.Products),
		Meta:     transport.ListMeta{TotalCount: p.Total},
	}
	if p.HasNext {
		resp.Meta.CursorNext = next(p.Next)
	}
	return resp
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()

	cursor, err := cursorParam(c)
	if err != nil {
		return fail(c, "get_products", err)
	}

	p, err := h.Svc.ListProducts(ctx, cursor)
	if err != nil {
		return fail(c, "get_products", err)
	}

	logging.FromContext(ctx).Info("get_products_success", "cursor", cursor, "count", len(p.Products))
	return c.JSON(http.StatusOK, h.page(p, func(next int64) string {
		return h.BaseURL + "catalog/api/v1/products?cursor=" + strconv.FormatInt(next, 10)
	}))
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()

	q := strings.TrimSpace(c.QueryParam("q"))
	cursor, err := cursorParam(c)
	if err != nil {
		return fail(c, "search_products", err)
	}

	p, err := h.Svc.SearchProducts(ctx, q, cursor)
	if err != nil {
		return fail(c, "search_products", err)
	}

	return c.JSON(http.StatusOK, h.page(p, func(next int64) string {
		return h.BaseURL + "catalog/api/v1/products/search?q=" + url.QueryEscape(q) + "&cursor=" + strconv.FormatInt(next, 10)
	}))
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := validate.Integer("id", c.Param("id"))
	if err != nil {
		return fail(c, "get_product", err)
	}

	prod, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(c, "get_product", err)
	}

	return c.JSON(http.StatusOK, transport.ProductResponse{Product: transport.FromModel(h.BaseURL, *prod)})
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.CreateProductRequest
	if err := request.BindJSON(c, &req); err != nil {
		return fail(c, "create_product", err)
	}

	prod, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return fail(c, "create_product", err)
	}

	logging.FromContext(ctx).Info("create_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusCreated, transport.ProductResponse{Product: transport.FromModel(h.BaseURL, *prod)})
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := validate.Integer("id", c.Param("id"))
	if err != nil {
		return fail(c, "patch_product", err)
	}

	var req transport.PatchProductRequest
	if err := request.BindJSON(c, &req); err != nil {
		return fail(c, "patch_product", err)
	}

	prod, err := h.Svc.PatchProduct(ctx, id, req)
	if err != nil {
		return fail(c, "patch_product", err)
	}

	logging.FromContext(ctx).Info("patch_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusOK, transport.ProductResponse{Product: transport.FromModel(h.BaseURL, *prod)})
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := validate.Integer("id", c.Param("id"))
	if err != nil {
		return fail(c, "delete_product", err)
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return fail(c, "delete_product", err)
	}

	logging.FromContext(ctx).Info("delete_product_success", "product_id", id)
	return c.JSON(http.StatusOK, transport.StatusResponse{Status: "deleted"})
}
