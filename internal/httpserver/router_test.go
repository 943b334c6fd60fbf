package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgdb "github.com/Skotchmaster/store/pkg/db"
	"github.com/Skotchmaster/store/pkg/events"
	"github.com/Skotchmaster/store/pkg/logging"
)

const publicURL = "http://localhost:8080/"

func newTestApp(t *testing.T) (*echo.Echo, *events.Recorder) {
	t.Helper()
	db, err := pkgdb.Open(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = pkgdb.Close(db) })
	require.NoError(t, Migrate(db))

	rec := &events.Recorder{}
	e := New(&Deps{
		DB:        db,
		Logger:    logging.NewWithWriter(io.Discard, "error"),
		PublicURL: publicURL,
		Events:    rec,
	})
	return e, rec
}

func call(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestIndexAndHealth(t *testing.T) {
	e, _ := newTestApp(t)

	rec := call(e, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"API Version: 1.0"`, rec.Body.String())

	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/health/live", "").Code)
	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/health/ready", "").Code)
}

func TestCORSAndRequestID(t *testing.T) {
	e, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/catalog/api/v1/products", nil)
	req.Header.Set(echo.HeaderOrigin, "http://example.com")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods), http.MethodPatch)
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowHeaders), echo.HeaderAuthorization)

	rec = call(e, http.MethodGet, "/catalog/api/v1/products", "")
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestCORSHeadersOnEveryResponse(t *testing.T) {
	e, _ := newTestApp(t)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		origin string
		code   int
	}{
		{"list without origin", http.MethodGet, "/catalog/api/v1/products", "", "", http.StatusOK},
		{"list with origin", http.MethodGet, "/catalog/api/v1/products", "", "http://example.com", http.StatusOK},
		{"not found", http.MethodGet, "/catalog/api/v1/products/9", "", "", http.StatusNotFound},
		{"not modified", http.MethodPut, "/store/api/v1/carts", `{}`, "", http.StatusNotModified},
		{"bad request", http.MethodPost, "/catalog/api/v1/products", `{"title":"x"}`, "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			if tt.origin != "" {
				req.Header.Set(echo.HeaderOrigin, tt.origin)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
			assert.Equal(t, "X-Requested-With, Content-Type, Accept, Origin, Authorization",
				rec.Header().Get(echo.HeaderAccessControlAllowHeaders))
			assert.Equal(t, "GET, POST, PUT, DELETE, PATCH, OPTIONS",
				rec.Header().Get(echo.HeaderAccessControlAllowMethods))
		})
	}
}

func TestProductLifecycle(t *testing.T) {
	e, rec := newTestApp(t)

	resp := call(e, http.MethodPost, "/catalog/api/v1/products", `{"title":"X","price":6.99}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	product := decode(t, resp)["product"].(map[string]any)
	assert.Equal(t, 6.99, product["price"])
	assert.Equal(t, publicURL+"catalog/api/v1/products/1", product["link"])

	resp = call(e, http.MethodGet, "/catalog/api/v1/products/1", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 6.99, decode(t, resp)["product"].(map[string]any)["price"])

	resp = call(e, http.MethodPost, "/catalog/api/v1/products", `{"title":"X","price":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "This title is already taken", decode(t, resp)["message"])

	resp = call(e, http.MethodDelete, "/catalog/api/v1/products/1", "")
	require.Equal(t, http.StatusOK, resp.Code)
	resp = call(e, http.MethodGet, "/catalog/api/v1/products/1", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	assert.Equal(t, []string{"product_created", "product_deleted"}, rec.Types(events.TopicProducts))
}

func TestProductListPages(t *testing.T) {
	e, _ := newTestApp(t)
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		require.Equal(t, http.StatusCreated, call(e, http.MethodPost, "/catalog/api/v1/products", `{"title":"`+title+`","price":"2,50"}`).Code)
	}

	body := decode(t, call(e, http.MethodGet, "/catalog/api/v1/products?cursor=0", ""))
	meta := body["meta"].(map[string]any)
	assert.Len(t, body["products"], 3)
	assert.Equal(t, float64(5), meta["total.count"])
	assert.Equal(t, publicURL+"catalog/api/v1/products?cursor=3", meta["cursor.next"])

	body = decode(t, call(e, http.MethodGet, "/catalog/api/v1/products?cursor=3", ""))
	assert.Len(t, body["products"], 2)
	assert.NotContains(t, body["meta"], "cursor.next")

	body = decode(t, call(e, http.MethodGet, "/catalog/api/v1/products?cursor=50", ""))
	assert.Empty(t, body["products"])
}

func TestCartLifecycle(t *testing.T) {
	e, rec := newTestApp(t)
	require.Equal(t, http.StatusCreated, call(e, http.MethodPost, "/catalog/api/v1/products", `{"title":"A","price":3.99}`).Code)
	require.Equal(t, http.StatusCreated, call(e, http.MethodPost, "/catalog/api/v1/products", `{"title":"B","price":1}`).Code)

	resp := call(e, http.MethodPut, "/store/api/v1/carts", `{"items":[{"id":1,"quantity":2}]}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	meta := decode(t, resp)["meta"].(map[string]any)
	id := meta["cart.id"].(string)
	assert.Equal(t, 7.98, meta["cart.total"])

	resp = call(e, http.MethodPut, "/store/api/v1/carts/"+id, `{"items":[{"id":1,"quantity":9}]}`)
	assert.Equal(t, http.StatusNotModified, resp.Code)
	assert.Equal(t, "Only 10 pieces of the same product is allowed", resp.Header().Get("X-Status-Reason"))

	resp = call(e, http.MethodPut, "/store/api/v1/carts/"+id, `{"items":[{"id":2,"quantity":1}]}`)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = call(e, http.MethodGet, "/store/api/v1/carts/"+id, "")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decode(t, resp)
	assert.Len(t, body["items"], 2)
	assert.Equal(t, 8.98, body["meta"].(map[string]any)["cart.total"])

	require.Equal(t, http.StatusOK, call(e, http.MethodDelete, "/catalog/api/v1/products/2", "").Code)
	body = decode(t, call(e, http.MethodGet, "/store/api/v1/carts/"+id, ""))
	assert.Len(t, body["items"], 1)
	assert.Equal(t, 7.98, body["meta"].(map[string]any)["cart.total"])

	require.Equal(t, http.StatusOK, call(e, http.MethodDelete, "/store/api/v1/carts/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, call(e, http.MethodGet, "/store/api/v1/carts/"+id, "").Code)
	assert.Equal(t, http.StatusCreated, call(e, http.MethodPut, "/store/api/v1/carts/"+id, `{"items":[{"id":1,"quantity":1}]}`).Code)

	assert.Equal(t, []string{"cart_updated", "cart_updated", "cart_deleted", "cart_updated"}, rec.Types(events.TopicCarts))
}
