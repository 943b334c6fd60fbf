package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/store/pkg/apperr"
	"github.com/Skotchmaster/store/pkg/events"
	"github.com/Skotchmaster/store/pkg/logging"
	"github.com/Skotchmaster/store/pkg/validate"
	"github.com/Skotchmaster/store/services/cart/internal/domain"
	"github.com/Skotchmaster/store/services/cart/internal/lock"
	"github.com/Skotchmaster/store/services/cart/internal/models"
	"github.com/Skotchmaster/store/services/cart/internal/transport"
)

var errCartNotFound = apperr.New(apperr.ErrNotFound, "Cart not found")

type Repository interface {
	FindProduct(ctx context.Context, id int64) (*models.Product, error)
	FindProducts(ctx context.Context, ids []int64) ([]models.Product, error)
	FindByCart(ctx context.Context, cartID string) ([]models.CartItem, error)
	Save(ctx context.Context, cartID string, upserts []models.CartItem, deleteIDs []int64) error
	DeleteByCart(ctx context.Context, cartID string) (int64, error)
}

type CartService struct {
	Repo   Repository
	Locker lock.Locker
	Events events.Publisher
}

// View is a cart as presented: lines whose product is gone are left out.
type View struct {
	ID    string
	Items []domain.Item
	Total int64
}

func (s *CartService) GetCart(ctx context.Context, idParam string) (*View, error) {
	id, ok := validate.GUID(idParam)
	if !ok {
		return nil, errCartNotFound
	}

	rows, err := s.Repo.FindByCart(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(rows) == 0 {
		return nil, errCartNotFound
	}
	return s.view(ctx, id, toItems(rows))
}

// PutCart applies the requested deltas to the cart identified by idParam, or
// to a new cart when idParam is not a valid id. created reports whether the
// cart held nothing before the update.
func (s *CartService) PutCart(ctx context.Context, idParam string, req transport.PutCartRequest) (view *View, created bool, err error) {
	if req.Items == nil {
		return nil, false, domain.ErrNotChanged
	}
	entries, ok := req.Items.([]any)
	if !ok {
		return nil, false, domain.ErrInvalidData
	}

	id := domain.Identify(idParam)

	unlock, err := s.Locker.Lock(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("lock cart: %w", err)
	}
	defer unlock()

	rows, err := s.Repo.FindByCart(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("load cart: %w", err)
	}
	cart := domain.New(id, toItems(rows))
	created = cart.Empty()

	if err := cart.ProcessUpdates(ctx, entries, s.productExists); err != nil {
		return nil, false, err
	}

	upserts, deleteIDs := cart.Changes()
	if err := s.Repo.Save(ctx, id, toRows(upserts), deleteIDs); err != nil {
		return nil, false, fmt.Errorf("save cart: %w", err)
	}

	view, err = s.view(ctx, id, cart.Items())
	if err != nil {
		return nil, false, err
	}

	s.publish(ctx, events.New("cart_updated", id, map[string]any{
		"cartID": id,
		"items":  len(view.Items),
		"total":  view.Total,
	}))
	return view, created, nil
}

func (s *CartService) DeleteCart(ctx context.Context, idParam string) error {
	id, ok := validate.GUID(idParam)
	if !ok {
		return errCartNotFound
	}

	unlock, err := s.Locker.Lock(ctx, id)
	if err != nil {
		return fmt.Errorf("lock cart: %w", err)
	}
	defer unlock()

	n, err := s.Repo.DeleteByCart(ctx, id)
	if err != nil {
		return fmt.Errorf("truncate cart: %w", err)
	}
	if n == 0 {
		return errCartNotFound
	}

	s.publish(ctx, events.New("cart_deleted", id, map[string]any{"cartID": id}))
	return nil
}

func (s *CartService) productExists(ctx context.Context, id int64) (bool, error) {
	p, err := s.Repo.FindProduct(ctx, id)
	if err != nil {
		return false, fmt.Errorf("find product %d: %w", id, err)
	}
	return p != nil, nil
}

func (s *CartService) view(ctx context.Context, id string, items []domain.Item) (*View, error) {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.Repo.FindProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load cart products: %w", err)
	}
	prices := make(map[int64]int64, len(products))
	for _, p := range products {
		prices[p.ID] = p.Price
	}

	v := &View{ID: id, Items: make([]domain.Item, 0, len(items))}
	for _, it := range items {
		if _, ok := prices[it.ProductID]; ok {
			v.Items = append(v.Items, it)
		}
	}
	v.Total = domain.Total(v.Items, func(pid int64) (int64, bool) {
		p, ok := prices[pid]
		return p, ok
	})
	return v, nil
}

func (s *CartService) publish(ctx context.Context, ev events.Event) {
	if err := s.Events.Publish(ctx, events.TopicCarts, ev); err != nil {
		logging.FromContext(ctx).Error("event_publish_error", "topic", events.TopicCarts, "type", ev.Type, "error", err)
	}
}

func toItems(rows []models.CartItem) []domain.Item {
	out := make([]domain.Item, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Item{ProductID: r.ProductID, Quantity: r.Quantity, RecordID: r.ID})
	}
	return out
}

func toRows(items []domain.Item) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	for _, it := range items {
		out = append(out, models.CartItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}
