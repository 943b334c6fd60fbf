package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/store/services/catalog/internal/models"
)

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func seed(t *testing.T, r *GormRepo, titles ...string) []models.Product {
	out := make([]models.Product, 0, len(titles))
	for i, title := range titles {
		p := models.Product{Title: title, Price: int64(100 * (i + 1))}
		require.NoError(t, r.CreateProduct(context.Background(), &p))
		out = append(out, p)
	}
	return out
}

func TestGormRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	r := &GormRepo{DB: InitTestDB(t)}

	p := models.Product{Title: "Fallout", Price: 199}
	require.NoError(t, r.CreateProduct(ctx, &p))
	require.NotZero(t, p.ID)

	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, *got)

	got.Price = 299
	require.NoError(t, r.SaveProduct(ctx, got))
	got, err = r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 299, got.Price)

	byTitle, err := r.FindByTitle(ctx, "Fallout")
	require.NoError(t, err)
	require.NotNil(t, byTitle)
	assert.Equal(t, p.ID, byTitle.ID)

	none, err := r.FindByTitle(ctx, "Doom")
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, r.DeleteProduct(ctx, p.ID))
	_, err = r.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, r.DeleteProduct(ctx, p.ID), gorm.ErrRecordNotFound)
}

func TestGormRepo_DuplicateTitle(t *testing.T) {
	ctx := context.Background()
	r := &GormRepo{DB: InitTestDB(t)}
	seed(t, r, "Fallout")

	err := r.CreateProduct(ctx, &models.Product{Title: "Fallout", Price: 1})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestGormRepo_ListAndCount(t *testing.T) {
	ctx := context.Background()
	r := &GormRepo{DB: InitTestDB(t)}
	seed(t, r, "a", "b", "c", "d", "e")

	page, err := r.ListProducts(ctx, 0, 3)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "a", page[0].Title)

	page, err = r.ListProducts(ctx, 3, 3)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "d", page[0].Title)

	page, err = r.ListProducts(ctx, 10, 3)
	require.NoError(t, err)
	assert.Empty(t, page)

	total, err := r.CountProducts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
}

func TestGormRepo_SearchProducts(t *testing.T) {
	ctx := context.Background()
	r := &GormRepo{DB: InitTestDB(t)}
	seed(t, r, "Fallout", "Fallout 2", "Baldur's Gate", "100% Orange Juice")

	total, items, err := r.SearchProducts(ctx, "FALL", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "Fallout", items[0].Title)

	total, items, err = r.SearchProducts(ctx, "fall", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Fallout 2", items[0].Title)

	total, _, err = r.SearchProducts(ctx, "100%", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	total, _, err = r.SearchProducts(ctx, "_", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}
