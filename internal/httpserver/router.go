package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Skotchmaster/store/pkg/apperr"
	pkgdb "github.com/Skotchmaster/store/pkg/db"
	"github.com/Skotchmaster/store/pkg/events"
	loggingmw "github.com/Skotchmaster/store/pkg/middleware/logging"
	"github.com/Skotchmaster/store/services/cart"
	"github.com/Skotchmaster/store/services/catalog"
)

const APIVersion = "1.0"

type Deps struct {
	DB        *gorm.DB
	Logger    *slog.Logger
	PublicURL string
	JWTSecret []byte

	Events       events.Publisher
	Elastic      *elasticsearch.Client
	ElasticIndex string
	Redis        redis.UniversalClient
}

func New(d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperr.ErrorHandler(e)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(d.Logger))
	e.Use(permissiveCORS())
	e.Use(preflightCORS())

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, "API Version: "+APIVersion)
	})
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := pkgdb.Ping(ctx, d.DB); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable").SetInternal(err)
		}
		return c.NoContent(http.StatusOK)
	})

	catalog.Mount(e, catalog.Options{
		DB:           d.DB,
		BaseURL:      d.PublicURL,
		Events:       d.Events,
		Elastic:      d.Elastic,
		ElasticIndex: d.ElasticIndex,
		JWTSecret:    d.JWTSecret,
	})
	cart.Mount(e, cart.Options{
		DB:      d.DB,
		BaseURL: d.PublicURL,
		Events:  d.Events,
		Redis:   d.Redis,
	})
}

// Migrate creates every table the API needs.
func Migrate(db *gorm.DB) error {
	if err := catalog.Migrate(db); err != nil {
		return err
	}
	return cart.Migrate(db)
}
