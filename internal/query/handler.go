package query

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"

	"github.com/arxi-lab/salescope/internal/cache"
	"github.com/arxi-lab/salescope/internal/httperr"
	"github.com/arxi-lab/salescope/internal/store"
)

const msgDataNotLoaded = "Sales data not loaded"

// StoreProvider hands handlers a snapshot of the published store. The store
// and its generation come out of one call so a reload landing mid-request
// cannot pair an old store with a new generation. The generation changes on
// every successful reload; it scopes cache keys so a reload invalidates
// previous responses without explicit coordination.
type StoreProvider interface {
	Snapshot() (*store.Store, uint64, bool)
}

// Service serves the read-only analytical endpoints over the published
// store. Responses are cached per endpoint + query string + store
// generation; singleflight collapses concurrent misses so a cold key
// computes once.
type Service struct {
	stores StoreProvider
	cache  *cache.Cache // nil disables response caching
	group  singleflight.Group
}

// NewService creates the query service. responseCache may be nil to serve
// every request from the store directly.
func NewService(stores StoreProvider, responseCache *cache.Cache) *Service {
	if stores == nil {
		panic("query: store provider must not be nil")
	}
	return &Service{stores: stores, cache: responseCache}
}

// RegisterRoutes registers the query API routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api")
	api.GET("/most_sold_by_category", s.HandleMostSoldByCategory)
	api.GET("/most_sold_by_country", s.HandleMostSoldByCountry)
	api.GET("/top_client", s.HandleTopClient)
}

// HandleMostSoldByCategory handles GET /api/most_sold_by_category.
func (s *Service) HandleMostSoldByCategory(c *gin.Context) {
	st, gen, ok := s.readyStore(c)
	if !ok {
		return
	}
	if len(st.AggregatedCategories()) == 0 {
		writeNotReady(c)
		return
	}

	result, err := s.cached(c, gen, "most_sold_by_category", func() (any, error) {
		return TopProductsByCategory(st), nil
	})
	if err != nil {
		writeInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleMostSoldByCountry handles GET /api/most_sold_by_country.
func (s *Service) HandleMostSoldByCountry(c *gin.Context) {
	st, gen, ok := s.readyStore(c)
	if !ok {
		return
	}

	result, err := s.cached(c, gen, "most_sold_by_country", func() (any, error) {
		return TopProductsByCountry(st), nil
	})
	if err != nil {
		writeInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleTopClient handles GET /api/top_client.
func (s *Service) HandleTopClient(c *gin.Context) {
	st, gen, ok := s.readyStore(c)
	if !ok {
		return
	}

	result, err := s.cached(c, gen, "top_client", func() (any, error) {
		return TopClientByProducts(st)
	})
	if errors.Is(err, ErrNoClientData) {
		c.JSON(http.StatusNotFound, gin.H{"message": "No client data available"})
		return
	}
	if err != nil {
		writeInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// readyStore takes the current store snapshot, writing the 503 response
// itself when no store has been published yet. Handlers carry the returned
// generation into cached so the cache key matches the store they computed
// from even if a reload lands mid-request.
func (s *Service) readyStore(c *gin.Context) (*store.Store, uint64, bool) {
	st, gen, ok := s.stores.Snapshot()
	if !ok {
		writeNotReady(c)
		return nil, 0, false
	}
	return st, gen, true
}

// cached runs compute through the response cache. Only successful results
// are cached; "no data" answers and errors are recomputed per request.
func (s *Service) cached(c *gin.Context, gen uint64, endpoint string, compute func() (any, error)) (any, error) {
	if s.cache == nil {
		return compute()
	}

	key := fmt.Sprintf("%s?%s#g%d", endpoint, c.Request.URL.RawQuery, gen)
	if hit, ok := s.cache.Get(key); ok {
		return hit, nil
	}

	result, err, _ := s.group.Do(key, func() (any, error) {
		if hit, ok := s.cache.Get(key); ok {
			return hit, nil
		}
		value, err := compute()
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, value)
		return value, nil
	})
	return result, err
}

func writeNotReady(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, httperr.ErrorResponse{
		ErrorType: httperr.HttpNotReadyError,
		Message:   msgDataNotLoaded,
	})
}

func writeInternal(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
		ErrorType: httperr.HttpInternalError,
		Message:   "Internal server error",
		Details:   err.Error(),
	})
}
