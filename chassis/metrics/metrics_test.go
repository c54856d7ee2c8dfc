package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	t.Run("Should count requests per route and status", func(t *testing.T) {
		c := NewCollector()
		c.ObserveRequest("GET", "/blogs", 200, 5*time.Millisecond)
		c.ObserveRequest("GET", "/blogs", 200, 7*time.Millisecond)
		c.ObserveRequest("GET", "/blogs", 400, time.Millisecond)

		assert.Equal(t, 2.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/blogs", "200")))
		assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/blogs", "400")))
	})

	t.Run("Should allow independent collectors", func(t *testing.T) {
		first := NewCollector()
		second := NewCollector()
		first.CatalogSize.Set(25)
		assert.Equal(t, 25.0, testutil.ToFloat64(first.CatalogSize))
		assert.Equal(t, 0.0, testutil.ToFloat64(second.CatalogSize))
	})

	t.Run("Should expose metrics over http", func(t *testing.T) {
		c := NewCollector()
		c.CatalogSize.Set(3)
		w := httptest.NewRecorder()
		c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "blogs_catalog_records 3")
	})
}
