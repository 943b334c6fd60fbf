package transport

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/store/services/cart/internal/domain"
)

// PutCartRequest keeps items untyped; a nil Items means the key was absent.
type PutCartRequest struct {
	Items any `json:"items"`
}

type CartItem struct {
	ID       int64  `json:"id"`
	Quantity int64  `json:"quantity"`
	Link     string `json:"link"`
}

type CartMeta struct {
	ID    string  `json:"cart.id"`
	Total float64 `json:"cart.total"`
}

type CartResponse struct {
	Items []CartItem `json:"items"`
	Meta  CartMeta   `json:"meta"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

func ProductLink(base string, id int64) string {
	return base + "catalog/api/v1/products/" + strconv.FormatInt(id, 10)
}

func FromCart(base, cartID string, items []domain.Item, totalMinor int64) CartResponse {
	resp := CartResponse{
		Items: make([]CartItem, 0, len(items)),
		Meta: CartMeta{
			ID:    cartID,
			Total: decimal.New(totalMinor, -2).InexactFloat64(),
		},
	}
	for _, it := range items {
		resp.Items = append(resp.Items, CartItem{ID: it.ProductID, Quantity: it.Quantity, Link: ProductLink(base, it.ProductID)})
	}
	return resp
}
