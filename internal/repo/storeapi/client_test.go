package storeapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nguyentranbao-ct/storefront/internal/config"
	"github.com/nguyentranbao-ct/storefront/internal/models"
	"github.com/nguyentranbao-ct/storefront/internal/server/middleware"
	"github.com/nguyentranbao-ct/storefront/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.StorefrontConfig{BaseURL: srv.URL}
	return NewClient(cfg, util.NewRestyClient(util.RestyOptions{Timeout: 5 * time.Second})), srv
}

func TestGetJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes array body", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/products", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			_, _ = w.Write([]byte(`[{"id":1,"name":"Test Product A","price":10.0,"rating":4.5}]`))
		})

		var products []models.Product
		require.NoError(t, c.GetJSON(testContext(t), "/api/v1/products", &products))
		require.Len(t, products, 1)
		assert.Equal(t, "Test Product A", products[0].Name)
	})

	t.Run("decodes object body without content type", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte(`{"name":"Maxie"}`))
		})

		var user models.UserProfile
		require.NoError(t, c.GetJSON(testContext(t), "/api/user", &user))
		assert.Equal(t, "Maxie", user.Name)
	})

	t.Run("absolute path bypasses base url", func(t *testing.T) {
		other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"items":3,"total":30}`))
		}))
		defer other.Close()

		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("base url should not be used, got %s", r.URL.Path)
		})

		var cart models.CartSummary
		require.NoError(t, c.GetJSON(testContext(t), other.URL+"/api/v1/cart/summary", &cart))
		assert.Equal(t, 3, cart.Items)
		assert.InDelta(t, 30.0, cart.Total, 1e-9)
	})

	t.Run("non success status", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":"upstream"}`))
		})

		var user models.UserProfile
		err := c.GetJSON(testContext(t), "/api/user", &user)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnexpectedStatus)

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusBadGateway, statusErr.Status)
	})

	t.Run("undecodable body", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"not":"an array"}`))
		})

		var products []models.Product
		err := c.GetJSON(testContext(t), "/api/products", &products)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnexpectedStatus)
	})

	t.Run("body without a value", func(t *testing.T) {
		tests := []struct {
			name   string
			status int
			body   string
		}{
			{name: "no content", status: http.StatusNoContent},
			{name: "empty ok", status: http.StatusOK},
			{name: "null", status: http.StatusOK, body: "null"},
			{name: "blank", status: http.StatusOK, body: " \n"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte(tt.body))
				})

				var user models.UserProfile
				err := c.GetJSON(testContext(t), "/api/user", &user)
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrEmptyBody)
				assert.Equal(t, models.UserProfile{}, user)
			})
		}
	})

	t.Run("wrong top level type", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"items":3}]`))
		})

		var cart models.CartSummary
		require.Error(t, c.GetJSON(testContext(t), "/api/cart", &cart))
	})

	t.Run("network failure", func(t *testing.T) {
		c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
		srv.Close()

		var user models.UserProfile
		require.Error(t, c.GetJSON(testContext(t), "/api/user", &user))
	})

	t.Run("propagates request id", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "req-42", r.Header.Get(middleware.XRequestID))
			_, _ = w.Write([]byte(`{}`))
		})

		ctx := middleware.ContextWithRequestID(testContext(t), "req-42")
		var user models.UserProfile
		require.NoError(t, c.GetJSON(ctx, "/api/user", &user))
	})
}

func TestHealthChecker(t *testing.T) {
	t.Parallel()

	newChecker := func() HealthChecker {
		return NewHealthChecker(util.NewRestyClient(util.RestyOptions{Timeout: 5 * time.Second}))
	}

	t.Run("healthy", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		}))
		defer srv.Close()

		require.NoError(t, newChecker().Check(testContext(t), srv.URL+"/health"))
	})

	t.Run("wrong status field", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"degraded"}`))
		}))
		defer srv.Close()

		err := newChecker().Check(testContext(t), srv.URL+"/health")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnhealthy)
	})

	t.Run("error status code", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		err := newChecker().Check(testContext(t), srv.URL+"/health")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnhealthy)
	})
}
