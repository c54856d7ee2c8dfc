package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freundallein/blogs/backend/chassis/metrics"
)

func TestRun(t *testing.T) {
	t.Run("Should serve until context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var group sync.WaitGroup
		cfg := &Config{
			Catalog:         newCatalog(t, 12),
			Metrics:         metrics.NewCollector(),
			Addr:            "127.0.0.1:0",
			MetricsAddr:     "127.0.0.1:0",
			ShutdownTimeout: time.Second,
		}
		addr, err := Run(ctx, cfg, &group)
		require.NoError(t, err)

		resp, err := http.Get(fmt.Sprintf("http://%s/blogs/12", addr))
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"id": 12, "title": "blog 12", "tags": ["go"]}`, string(body))
		assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

		cancel()
		group.Wait()

		_, err = http.Get(fmt.Sprintf("http://%s/blogs/12", addr))
		assert.Error(t, err)
	})

	t.Run("Should fail when address is taken", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		var group sync.WaitGroup
		cfg := &Config{Catalog: newCatalog(t, 1), Addr: "127.0.0.1:0"}
		addr, err := Run(ctx, cfg, &group)
		require.NoError(t, err)

		_, err = Run(ctx, &Config{Catalog: newCatalog(t, 1), Addr: addr.String()}, &group)
		assert.Error(t, err)

		cancel()
		group.Wait()
	})
}
