package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/Skotchmaster/store/pkg/apperr"
	"github.com/Skotchmaster/store/pkg/events"
	"github.com/Skotchmaster/store/pkg/logging"
	"github.com/Skotchmaster/store/pkg/validate"
	"github.com/Skotchmaster/store/services/catalog/internal/models"
	"github.com/Skotchmaster/store/services/catalog/internal/search"
	"github.com/Skotchmaster/store/services/catalog/internal/transport"
	"github.com/Skotchmaster/store/services/catalog/internal/util"
)

var (
	errProductNotFound = apperr.New(apperr.ErrNotFound, "Product not found")
	errTitleTaken      = apperr.New(apperr.ErrConflict, "This title is already taken")
	errNotChanged      = apperr.New(apperr.ErrNotModified, "Not changed")
	errInvalidData     = apperr.New(apperr.ErrInvalidInput, "Invalid input data")
)

type Repository interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	FindByTitle(ctx context.Context, title string) (*models.Product, error)
	ListProducts(ctx context.Context, offset, limit int) ([]models.Product, error)
	CountProducts(ctx context.Context) (int64, error)
	CreateProduct(ctx context.Context, prod *models.Product) error
	SaveProduct(ctx context.Context, prod *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type CatalogService struct {
	Repo   Repository
	Index  search.Index
	Events events.Publisher
}

type Page struct {
	Products []models.Product
	Total    int64
	Next     int64
	HasNext  bool
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return prod, nil
}

// ListProducts returns one page starting at position cursor.
func (s *CatalogService) ListProducts(ctx context.Context, cursor int64) (*Page, error) {
	if cursor < 0 {
		return nil, apperr.New(apperr.ErrInvalidInput, `Invalid input parameter "cursor"`)
	}

	items, err := s.Repo.ListProducts(ctx, int(cursor), util.PageSize)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	hasMore := false
	if len(items) == util.PageSize {
		beyond, err := s.Repo.ListProducts(ctx, int(cursor)+util.PageSize, 1)
		if err != nil {
			return nil, fmt.Errorf("check next page: %w", err)
		}
		hasMore = len(beyond) > 0
	}

	total, err := s.Repo.CountProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	page := &Page{Products: items, Total: total}
	page.Next, page.HasNext = util.NextCursor(cursor, util.PageSize, len(items), hasMore)
	return page, nil
}

func (s *CatalogService) SearchProducts(ctx context.Context, q string, cursor int64) (*Page, error) {
	if q == "" {
		return nil, apperr.New(apperr.ErrInvalidInput, `Invalid input parameter "q"`)
	}
	if cursor < 0 {
		return nil, apperr.New(apperr.ErrInvalidInput, `Invalid input parameter "cursor"`)
	}

	total, items, err := s.Index.Search(ctx, q, int(cursor), util.PageSize)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	page := &Page{Products: items, Total: total}
	page.Next, page.HasNext = util.NextCursor(cursor, util.PageSize, len(items), total > cursor+util.PageSize)
	return page, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Title == nil || req.Price == nil {
		return nil, errInvalidData
	}
	title, err := validate.String("title", req.Title)
	if err != nil {
		return nil, err
	}
	price, err := validate.Price("price", req.Price)
	if err != nil {
		return nil, err
	}

	if err := s.ensureTitleFree(ctx, title); err != nil {
		return nil, err
	}

	prod := &models.Product{Title: title, Price: price}
	if err := s.Repo.CreateProduct(ctx, prod); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errTitleTaken
		}
		return nil, fmt.Errorf("create product: %w", err)
	}
	if prod.ID == 0 {
		return nil, apperr.New(apperr.ErrInternal, "Product could not be created")
	}

	s.sync(ctx, "product_created", *prod)
	return prod, nil
}

// PatchProduct applies the fields present in req. Fields equal to the
// stored values do not count as a change.
func (s *CatalogService) PatchProduct(ctx context.Context, id int64, req transport.PatchProductRequest) (*models.Product, error) {
	prod, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := 0
	if req.Title != nil {
		title, err := validate.String("title", req.Title)
		if err != nil {
			return nil, err
		}
		if title != prod.Title {
			if err := s.ensureTitleFree(ctx, title); err != nil {
				return nil, err
			}
			prod.Title = title
			changes++
		}
	}
	if req.Price != nil {
		price, err := validate.Price("price", req.Price)
		if err != nil {
			return nil, err
		}
		if price != prod.Price {
			prod.Price = price
			changes++
		}
	}
	if changes == 0 {
		return nil, errNotChanged
	}

	if err := s.Repo.SaveProduct(ctx, prod); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errTitleTaken
		}
		return nil, fmt.Errorf("save product %d: %w", id, err)
	}

	s.sync(ctx, "product_updated", *prod)
	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errProductNotFound
		}
		return fmt.Errorf("delete product %d: %w", id, err)
	}

	l := logging.FromContext(ctx)
	if err := s.Index.DeleteProduct(ctx, id); err != nil {
		l.Error("search_index_error", "op", "delete", "product_id", id, "error", err)
	}
	s.publish(ctx, events.New("product_deleted", strconv.FormatInt(id, 10), map[string]any{"productID": id}))
	return nil
}

func (s *CatalogService) ensureTitleFree(ctx context.Context, title string) error {
	existing, err := s.Repo.FindByTitle(ctx, title)
	if err != nil {
		return fmt.Errorf("find product by title: %w", err)
	}
	if existing != nil {
		return errTitleTaken
	}
	return nil
}

// sync pushes a stored product to the search index and the event stream.
// Both are secondary to the database, so failures are only logged.
func (s *CatalogService) sync(ctx context.Context, typ string, p models.Product) {
	if err := s.Index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Error("search_index_error", "op", "index", "product_id", p.ID, "error", err)
	}
	s.publish(ctx, events.New(typ, strconv.FormatInt(p.ID, 10), map[string]any{
		"productID": p.ID,
		"title":     p.Title,
		"price":     p.Price,
	}))
}

func (s *CatalogService) publish(ctx context.Context, ev events.Event) {
	if err := s.Events.Publish(ctx, events.TopicProducts, ev); err != nil {
		logging.FromContext(ctx).Error("event_publish_error", "topic", events.TopicProducts, "type", ev.Type, "error", err)
	}
}
