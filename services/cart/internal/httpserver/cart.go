package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/store/pkg/apperr"
	"github.com/Skotchmaster/store/pkg/logging"
	"github.com/Skotchmaster/store/pkg/request"
	"github.com/Skotchmaster/store/services/cart/internal/service"
	"github.com/Skotchmaster/store/services/cart/internal/transport"
)

type CartHTTP struct {
	Svc     *service.CartService
	BaseURL string
}

func failed(l *slog.Logger, op string, err error) error {
	he := apperr.ToHTTP(err)
	if he.Code >= http.StatusInternalServerError {
		l.Error(op+"_error", "status", he.Code, "error", err)
	} else {
		l.Warn(op+"_error", "status", he.Code, "reason", he.Message, "error", err)
	}
	return he
}

func (h *CartHTTP) render(v *service.View) transport.CartResponse {
	return transport.FromCart(h.BaseURL, v.ID, v.Items, v.Total)
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.cart")

	view, err := h.Svc.GetCart(ctx, c.Param("id"))
	if err != nil {
		return failed(l, "get_cart", err)
	}

	l.Info("get_cart_success", "cart_id", view.ID, "items", len(view.Items))
	return c.JSON(http.StatusOK, h.render(view))
}

// PutCart serves both PUT /carts and PUT /carts/:id; without an id a new cart
// is started.
func (h *CartHTTP) PutCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "put.cart")

	var req transport.PutCartRequest
	if err := request.BindJSON(c, &req); err != nil {
		return failed(l, "put_cart", err)
	}

	view, created, err := h.Svc.PutCart(ctx, c.Param("id"), req)
	if err != nil {
		return failed(l, "put_cart", err)
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	l.Info("put_cart_success", "cart_id", view.ID, "created", created, "total", view.Total)
	return c.JSON(status, h.render(view))
}

func (h *CartHTTP) DeleteCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete.cart")

	if err := h.Svc.DeleteCart(ctx, c.Param("id")); err != nil {
		return failed(l, "delete_cart", err)
	}

	l.Info("delete_cart_success", "cart_id", c.Param("id"))
	return c.JSON(http.StatusOK, transport.StatusResponse{Status: "deleted"})
}
