// Package search keeps a full-text view of the catalog.
package search

import (
	"context"

	"github.com/Skotchmaster/store/services/catalog/internal/models"
)

type Index interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	Search(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error)
}

type productSearcher interface {
	SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error)
}

// DBIndex searches the products table directly; there is nothing to keep in sync.
type DBIndex struct {
	Repo productSearcher
}

func (DBIndex) IndexProduct(context.Context, models.Product) error { return nil }
func (DBIndex) DeleteProduct(context.Context, int64) error         { return nil }

func (i DBIndex) Search(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	return i.Repo.SearchProducts(ctx, q, offset, limit)
}
