package models

// Product prices are stored in minor units (cents).
type Product struct {
	ID    int64  `gorm:"primaryKey;autoIncrement"        json:"id"`
	Title string `gorm:"size:255;not null;uniqueIndex"    json:"title"`
	Price int64  `gorm:"not null;check:price >= 0"        json:"price"`
}

func (Product) TableName() string {
	return "products"
}
