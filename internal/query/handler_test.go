package query

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/arxi-lab/salescope/internal/cache"
	"github.com/arxi-lab/salescope/internal/store"
)

type fakeProvider struct {
	st  *store.Store
	gen uint64

	// afterSnapshot, when set, runs once right after a snapshot is taken,
	// standing in for a reload that finishes while a request is in flight.
	afterSnapshot func(*fakeProvider)
}

func (f *fakeProvider) Snapshot() (*store.Store, uint64, bool) {
	st, gen := f.st, f.gen
	if f.afterSnapshot != nil {
		hook := f.afterSnapshot
		f.afterSnapshot = nil
		hook(f)
	}
	return st, gen, st != nil
}

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc.RegisterRoutes(r)
	return r
}

func doGet(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandlers_NotReadyReturns503(t *testing.T) {
	svc := NewService(&fakeProvider{}, nil)
	r := newTestRouter(svc)

	for _, path := range []string{"/api/most_sold_by_category", "/api/most_sold_by_country", "/api/top_client"} {
		w := doGet(t, r, path)
		require.Equal(t, http.StatusServiceUnavailable, w.Code, "path %s", path)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, "data_not_ready", body["error_type"])
	}
}

func TestHandleMostSoldByCategory_NoSalesReturns503(t *testing.T) {
	// Store published but no sale ever aggregated: same answer the service
	// gives before the first load.
	svc := NewService(&fakeProvider{st: store.New(), gen: 1}, nil)
	w := doGet(t, newTestRouter(svc), "/api/most_sold_by_category")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandleMostSoldByCategory_OK(t *testing.T) {
	svc := NewService(&fakeProvider{st: salesStore(), gen: 1}, nil)
	w := doGet(t, newTestRouter(svc), "/api/most_sold_by_category")
	require.Equal(t, http.StatusOK, w.Code)

	var body []CategoryTopProduct
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 2)
	require.Equal(t, "Food", body[0].CategoryName)
	require.Equal(t, float64(10), body[0].CategoryTotal)
}

func TestHandleMostSoldByCountry_OK(t *testing.T) {
	svc := NewService(&fakeProvider{st: salesStore(), gen: 1}, nil)
	w := doGet(t, newTestRouter(svc), "/api/most_sold_by_country")
	require.Equal(t, http.StatusOK, w.Code)

	var body []CountryTopProduct
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 2)
}

func TestHandleMostSoldByCountry_EmptyStoreReturnsEmptyList(t *testing.T) {
	svc := NewService(&fakeProvider{st: store.New(), gen: 1}, nil)
	w := doGet(t, newTestRouter(svc), "/api/most_sold_by_country")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, "[]", w.Body.String())
}

func TestHandleTopClient_OK(t *testing.T) {
	svc := NewService(&fakeProvider{st: salesStore(), gen: 1}, nil)
	w := doGet(t, newTestRouter(svc), "/api/top_client")
	require.Equal(t, http.StatusOK, w.Code)

	var body TopClient
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, store.ID(5), body.ClientID)
	require.Equal(t, 2, body.UniqueProducts)
}

func TestHandleTopClient_NoDataReturns404(t *testing.T) {
	svc := NewService(&fakeProvider{st: store.New(), gen: 1}, nil)
	w := doGet(t, newTestRouter(svc), "/api/top_client")
	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "No client data available", body["message"])
}

func TestResponseCache_GenerationScopesEntries(t *testing.T) {
	provider := &fakeProvider{st: salesStore(), gen: 1}
	svc := NewService(provider, cache.New(time.Minute))
	r := newTestRouter(svc)

	w := doGet(t, r, "/api/top_client")
	require.Equal(t, http.StatusOK, w.Code)
	first := w.Body.String()

	// Swap in a store with different data but the same generation: the
	// cached response keeps serving.
	replacement := store.New()
	replacement.AddContact(store.Contact{ID: 7, Name: "Zoe"})
	replacement.AddClientProduct(7, 1)
	provider.st = replacement

	w = doGet(t, r, "/api/top_client")
	require.Equal(t, first, w.Body.String())

	// A reload bumps the generation and the stale entry stops matching.
	provider.gen = 2
	w = doGet(t, r, "/api/top_client")
	require.NotEqual(t, first, w.Body.String())

	var body TopClient
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, store.ID(7), body.ClientID)
}

func TestResponseCache_ReloadDuringRequestKeepsNewGenerationClean(t *testing.T) {
	fresh := store.New()
	fresh.AddContact(store.Contact{ID: 7, Name: "Zoe"})
	fresh.AddClientProduct(7, 1)

	provider := &fakeProvider{st: salesStore(), gen: 1}
	provider.afterSnapshot = func(f *fakeProvider) { f.st, f.gen = fresh, 2 }

	svc := NewService(provider, cache.New(time.Minute))
	r := newTestRouter(svc)

	// The reload lands right after this request snapshots the old store.
	// Its response must be cached under the old generation, not the new one.
	w := doGet(t, r, "/api/top_client")
	require.Equal(t, http.StatusOK, w.Code)

	var first TopClient
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	require.Equal(t, store.ID(5), first.ClientID)

	w = doGet(t, r, "/api/top_client")
	require.Equal(t, http.StatusOK, w.Code)

	var second TopClient
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	require.Equal(t, store.ID(7), second.ClientID)
}
