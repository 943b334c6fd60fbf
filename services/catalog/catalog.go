// Package catalog mounts the product catalog API.
package catalog

import (
	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/store/pkg/events"
	authmw "github.com/Skotchmaster/store/pkg/middleware/auth"
	"github.com/Skotchmaster/store/services/catalog/internal/httpserver"
	"github.com/Skotchmaster/store/services/catalog/internal/models"
	"github.com/Skotchmaster/store/services/catalog/internal/repo"
	"github.com/Skotchmaster/store/services/catalog/internal/search"
	"github.com/Skotchmaster/store/services/catalog/internal/service"
)

type Options struct {
	DB      *gorm.DB
	BaseURL string
	Events  events.Publisher

	// Elastic is optional; without it search runs against the database.
	Elastic      *elasticsearch.Client
	ElasticIndex string

	// JWTSecret enables the admin check on mutations when non-empty.
	JWTSecret []byte
}

func Mount(e *echo.Echo, o Options) {
	r := &repo.GormRepo{DB: o.DB}

	var idx search.Index = search.DBIndex{Repo: r}
	if o.Elastic != nil {
		idx = &search.ElasticIndex{ES: o.Elastic, Index: o.ElasticIndex}
	}

	pub := o.Events
	if pub == nil {
		pub = events.NopPublisher{}
	}

	svc := &service.CatalogService{Repo: r, Index: idx, Events: pub}
	httpserver.Register(e, &httpserver.Deps{
		CatalogHandler: &httpserver.CatalogHTTP{Svc: svc, BaseURL: o.BaseURL},
		RequireAdmin:   authmw.NewRoleMiddleware(o.JWTSecret).RequireAdmin,
	})
}

func NewElasticClient(url, user, password string) (*elasticsearch.Client, error) {
	return search.NewElasticClient(url, user, password)
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}
