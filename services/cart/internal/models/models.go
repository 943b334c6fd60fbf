package models

type CartItem struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	CartID    string `gorm:"size:38;not null;uniqueIndex:idx_cart_product"`
	ProductID int64  `gorm:"not null;uniqueIndex:idx_cart_product"`
	Quantity  int64  `gorm:"not null;check:quantity > 0"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// Product is the cart's read-only view of the catalog table.
type Product struct {
	ID    int64
	Title string
	Price int64
}

func (Product) TableName() string {
	return "products"
}
