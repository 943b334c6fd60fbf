package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/store/services/cart/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

// FindProduct returns nil, nil when the product does not exist.
func (r *GormRepo) FindProduct(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	err := r.DB.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) FindProducts(ctx context.Context, ids []int64) ([]models.Product, error) {
	var out []models.Product
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) FindByCart(ctx context.Context, cartID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).Where("cart_id = ?", cartID).Order("product_id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save upserts the given lines keyed by (cart_id, product_id) and removes the
// rows in deleteIDs, all in one transaction. Record ids on upserts are ignored.
func (r *GormRepo) Save(ctx context.Context, cartID string, upserts []models.CartItem, deleteIDs []int64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(deleteIDs) > 0 {
			if err := tx.Where("cart_id = ? AND id IN ?", cartID, deleteIDs).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
		}
		if len(upserts) == 0 {
			return nil
		}
		rows := make([]models.CartItem, 0, len(upserts))
		for _, it := range upserts {
			rows = append(rows, models.CartItem{CartID: cartID, ProductID: it.ProductID, Quantity: it.Quantity})
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity"}),
		}).Create(&rows).Error
	})
}

func (r *GormRepo) DeleteByCart(ctx context.Context, cartID string) (int64, error) {
	res := r.DB.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}
