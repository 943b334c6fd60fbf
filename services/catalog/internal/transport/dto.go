package transport

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/store/services/catalog/internal/models"
)

// Request fields stay untyped: the validator decides what a usable value is.
// A nil field was absent (or null) in the body.
type CreateProductRequest struct {
	Title any `json:"title"`
	Price any `json:"price"`
}

type PatchProductRequest struct {
	Title any `json:"title"`
	Price any `json:"price"`
}

type Product struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Link  string  `json:"link"`
}

type ProductResponse struct {
	Product Product `json:"product"`
}

type ListMeta struct {
	TotalCount int64  `json:"total.count"`
	CursorNext string `json:"cursor.next,omitempty"`
}

type ListResponse struct {
	Products []Product `json:"products"`
	Meta     ListMeta  `json:"meta"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

func ProductLink(base string, id int64) string {
	return base + "catalog/api/v1/products/" + strconv.FormatInt(id, 10)
}

func MajorUnits(minor int64) float64 {
	return decimal.New(minor, -2).InexactFloat64()
}

func FromModel(base string, p models.Product) Product {
	return Product{
		ID:    p.ID,
		Title: p.Title,
		Price: MajorUnits(p.Price),
		Link:  ProductLink(base, p.ID),
	}
}

func FromModels(base string, ps []models.Product) []Product {
	out := make([]Product, 0, len(ps))
	for _, p := range ps {
		out = append(out, FromModel(base, p))
	}
	return out
}
