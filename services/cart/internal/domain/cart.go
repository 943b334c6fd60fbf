// Package domain holds the cart aggregate: quantity reconciliation and the
// per-cart limits. It never touches storage itself.
package domain

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/Skotchmaster/store/pkg/apperr"
	"github.com/Skotchmaster/store/pkg/validate"
)

const (
	MaxQuantity = 10
	MaxProducts = 3
)

var (
	ErrInvalidData       = apperr.New(apperr.ErrInvalidInput, "Invalid data")
	ErrNotChanged        = apperr.New(apperr.ErrNotModified, "Not changed")
	ErrQuantityExceeded  = apperr.New(apperr.ErrLimitExceeded, "Only 10 pieces of the same product is allowed")
	ErrItemCountExceeded = apperr.New(apperr.ErrLimitExceeded, "Only 3 different products are allowed")
)

// Item is one product line. RecordID is zero until the line is persisted.
type Item struct {
	ProductID int64
	Quantity  int64
	RecordID  int64
}

// ProductExists reports whether the catalog still has the product.
type ProductExists func(ctx context.Context, productID int64) (bool, error)

type Cart struct {
	ID    string
	items map[int64]*Item
}

// Identify reuses a well-formed cart id and mints a fresh one otherwise.
func Identify(candidate string) string {
	if id, ok := validate.GUID(candidate); ok {
		return id
	}
	return validate.NewCartID()
}

// Merge applies delta to a quantity; the result never goes below zero and
// saturates at math.MaxInt64 instead of wrapping.
func Merge(existing, delta int64) int64 {
	if delta > 0 && existing > math.MaxInt64-delta {
		return math.MaxInt64
	}
	if n := existing + delta; n > 0 {
		return n
	}
	return 0
}

func New(id string, persisted []Item) *Cart {
	c := &Cart{ID: id, items: make(map[int64]*Item, len(persisted))}
	for _, it := range persisted {
		it := it
		c.items[it.ProductID] = &it
	}
	return c
}

// Empty reports whether the cart holds no product with a positive quantity.
func (c *Cart) Empty() bool {
	return len(c.Items()) == 0
}

// ProcessUpdates merges raw request entries into the cart. Every entry must be
// an object with "id" and "quantity". Zero quantities are skipped, unknown new
// products are dropped, lines already in the cart merge without a catalog
// lookup. The limits are checked afterwards; a batch that changes nothing
// fails with ErrNotChanged.
func (c *Cart) ProcessUpdates(ctx context.Context, entries []any, exists ProductExists) error {
	changed := false
	for _, raw := range entries {
		entry, ok := raw.(map[string]any)
		if !ok {
			return ErrInvalidData
		}
		rawID, okID := entry["id"]
		rawQty, okQty := entry["quantity"]
		if !okID || !okQty || rawID == nil || rawQty == nil {
			return ErrInvalidData
		}

		productID, err := validate.Integer("id", rawID)
		if err != nil {
			return err
		}
		delta, err := validate.Integer("quantity", rawQty)
		if err != nil {
			return err
		}
		if delta == 0 {
			continue
		}

		it, inCart := c.items[productID]
		if !inCart {
			found, err := exists(ctx, productID)
			if err != nil {
				return err
			}
			if !found {
				continue
			}
			it = &Item{ProductID: productID}
		}

		next := Merge(it.Quantity, delta)
		if next == it.Quantity {
			continue
		}
		it.Quantity = next
		if !inCart {
			c.items[productID] = it
		}
		changed = true
	}

	if err := c.Validate(); err != nil {
		return err
	}
	if !changed {
		return ErrNotChanged
	}
	return nil
}

// Validate checks both limits and reports every violation together.
func (c *Cart) Validate() error {
	var errs []error
	count := 0
	tooMany := false
	for _, it := range c.items {
		if it.Quantity <= 0 {
			continue
		}
		count++
		if it.Quantity > MaxQuantity {
			tooMany = true
		}
	}
	if tooMany {
		errs = append(errs, ErrQuantityExceeded)
	}
	if count > MaxProducts {
		errs = append(errs, ErrItemCountExceeded)
	}
	return errors.Join(errs...)
}

// Items returns the positive lines ordered by product id.
func (c *Cart) Items() []Item {
	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		if it.Quantity > 0 {
			out = append(out, *it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// Changes splits the cart into lines to upsert and persisted record ids to delete.
func (c *Cart) Changes() (upserts []Item, deleteIDs []int64) {
	upserts = c.Items()
	for _, it := range c.items {
		if it.Quantity <= 0 && it.RecordID != 0 {
			deleteIDs = append(deleteIDs, it.RecordID)
		}
	}
	sort.Slice(deleteIDs, func(i, j int) bool { return deleteIDs[i] < deleteIDs[j] })
	return upserts, deleteIDs
}

// Total sums price*quantity in minor units. Lines whose price is unknown are
// left out.
func Total(items []Item, price func(productID int64) (int64, bool)) int64 {
	var total int64
	for _, it := range items {
		if p, ok := price(it.ProductID); ok && it.Quantity > 0 {
			total += p * it.Quantity
		}
	}
	return total
}
