package app

import (
	"testing"
	"time"

	"github.com/nguyentranbao-ct/storefront/internal/config"
	"github.com/nguyentranbao-ct/storefront/internal/repo/storeapi"
	"github.com/nguyentranbao-ct/storefront/internal/server"
	"github.com/nguyentranbao-ct/storefront/internal/storefront"
	"github.com/nguyentranbao-ct/storefront/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Addr: ":0", MetricsNamespace: "apptest"},
		Storefront: config.StorefrontConfig{
			Addr:         ":0",
			Title:        "StreamlinePay Store",
			BaseURL:      "http://localhost:3001",
			UserPath:     "/api/v1/user/profile",
			CartPath:     "/api/v1/cart/summary",
			ProductsPath: "/api/v1/products",
			HealthPath:   "/health",
			RenderWait:   3 * time.Second,
		},
	}
}

func TestInvokeResolvesGraph(t *testing.T) {
	t.Parallel()

	var (
		uc        usecase.StoreUsecase
		client    storeapi.Client
		presenter *storefront.Presenter
		opts      server.StorefrontOptions
		api       server.Controller
		ui        server.StorefrontController
	)
	app := Invoke(testConfig(), func(
		u usecase.StoreUsecase,
		c storeapi.Client,
		p *storefront.Presenter,
		o server.StorefrontOptions,
		a server.Controller,
		s server.StorefrontController,
	) {
		uc, client, presenter, opts, api, ui = u, c, p, o, a, s
	})
	require.NoError(t, app.Err())

	assert.NotNil(t, uc)
	assert.NotNil(t, client)
	assert.NotNil(t, presenter)
	assert.NotNil(t, api)
	assert.NotNil(t, ui)
	assert.Equal(t, "/api/v1/products", opts.Endpoints.Products)
	assert.Equal(t, 3*time.Second, opts.RenderWait)

	products, err := uc.ListProducts(testContext(t))
	require.NoError(t, err)
	assert.Len(t, products, 4)
}

func TestEndpointsFromConfig(t *testing.T) {
	t.Parallel()

	conf := testConfig().Storefront
	conf.CartPath = "http://cart.internal/api/cart"
	assert.Equal(t, storefront.Endpoints{
		User:     "/api/v1/user/profile",
		Cart:     "http://cart.internal/api/cart",
		Products: "/api/v1/products",
	}, EndpointsFromConfig(&conf))
}
