// Package cart mounts the shopping cart API.
package cart

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Skotchmaster/store/pkg/events"
	"github.com/Skotchmaster/store/services/cart/internal/httpserver"
	"github.com/Skotchmaster/store/services/cart/internal/lock"
	"github.com/Skotchmaster/store/services/cart/internal/models"
	"github.com/Skotchmaster/store/services/cart/internal/repo"
	"github.com/Skotchmaster/store/services/cart/internal/service"
)

type Options struct {
	DB      *gorm.DB
	BaseURL string
	Events  events.Publisher

	// Redis is optional; without it carts are locked per process.
	Redis redis.UniversalClient
}

func Mount(e *echo.Echo, o Options) {
	var locker lock.Locker = lock.NewLocalLocker()
	if o.Redis != nil {
		locker = lock.NewRedisLocker(o.Redis)
	}

	pub := o.Events
	if pub == nil {
		pub = events.NopPublisher{}
	}

	svc := &service.CartService{Repo: &repo.GormRepo{DB: o.DB}, Locker: locker, Events: pub}
	httpserver.Register(e, &httpserver.Deps{
		CartHandler: &httpserver.CartHTTP{Svc: svc, BaseURL: o.BaseURL},
	})
}

func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	return lock.NewRedisClient(ctx, url)
}

// Migrate creates the cart tables. The products table belongs to the catalog.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.CartItem{})
}
