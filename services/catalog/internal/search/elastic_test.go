package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/store/services/catalog/internal/models"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

func fakeCluster(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) (*ElasticIndex, *[]recordedRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handle(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return &ElasticIndex{ES: client, Index: "products"}, &reqs
}

func TestElasticIndex_IndexAndDelete(t *testing.T) {
	idx, reqs := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"result":"not_found"}`)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	})

	require.NoError(t, idx.IndexProduct(context.Background(), models.Product{ID: 7, Title: "Fallout", Price: 699}))
	require.NoError(t, idx.DeleteProduct(context.Background(), 7))

	require.Len(t, *reqs, 2)
	put := (*reqs)[0]
	assert.Equal(t, "/products/_doc/7", put.Path)
	var doc models.Product
	require.NoError(t, json.Unmarshal([]byte(put.Body), &doc))
	assert.Equal(t, "Fallout", doc.Title)

	assert.Equal(t, http.MethodDelete, (*reqs)[1].Method)
	assert.Equal(t, "/products/_doc/7", (*reqs)[1].Path)
}

func TestElasticIndex_Search(t *testing.T) {
	idx, reqs := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":4},"hits":[
			{"_source":{"id":1,"title":"Fallout","price":199}},
			{"_source":{"id":2,"title":"Fallout 2","price":299}}
		]}}`)
	})

	total, items, err := idx.Search(context.Background(), "falout", 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, items, 2)
	assert.Equal(t, models.Product{ID: 2, Title: "Fallout 2", Price: 299}, items[1])

	require.Len(t, *reqs, 1)
	assert.True(t, strings.HasSuffix((*reqs)[0].Path, "/products/_search"))
	assert.Contains(t, (*reqs)[0].Body, `"falout"`)
}

func TestElasticIndex_SearchError(t *testing.T) {
	idx, _ := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"parsing_exception"}`)
	})

	_, _, err := idx.Search(context.Background(), "x", 0, 3)
	require.ErrorContains(t, err, "parsing_exception")
}

type fakeSearcher struct{ q string }

func (f *fakeSearcher) SearchProducts(_ context.Context, q string, _, _ int) (int64, []models.Product, error) {
	f.q = q
	return 1, []models.Product{{ID: 1, Title: q}}, nil
}

func TestDBIndex(t *testing.T) {
	s := &fakeSearcher{}
	idx := DBIndex{Repo: s}

	require.NoError(t, idx.IndexProduct(context.Background(), models.Product{ID: 1}))
	require.NoError(t, idx.DeleteProduct(context.Background(), 1))

	total, items, err := idx.Search(context.Background(), "doom", 0, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "doom", s.q)
	assert.Len(t, items, 1)
}
