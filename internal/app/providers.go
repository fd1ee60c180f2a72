package app

import (
	"github.com/go-resty/resty/v2"
	"github.com/nguyentranbao-ct/storefront/internal/config"
	"github.com/nguyentranbao-ct/storefront/internal/server"
	"github.com/nguyentranbao-ct/storefront/internal/storefront"
	"github.com/nguyentranbao-ct/storefront/pkg/logger"
	"github.com/nguyentranbao-ct/storefront/pkg/util"
)

// newRestyClient is the storefront's fetch transport. Per request timeouts are
// applied by the aggregator, and fetches are never retried.
func newRestyClient() *resty.Client {
	return util.NewRestyClient(util.RestyOptions{})
}

func newStorefrontConfig(conf *config.Config) *config.StorefrontConfig {
	return &conf.Storefront
}

func newPresenter(conf *config.Config) (*storefront.Presenter, error) {
	return storefront.NewPresenter(conf.Storefront.Title, logger.MustNamed("presenter"))
}

func newStorefrontOptions(conf *config.Config) server.StorefrontOptions {
	return server.StorefrontOptions{
		Endpoints:      EndpointsFromConfig(&conf.Storefront),
		RequestTimeout: conf.Storefront.RequestTimeout,
		RenderWait:     conf.Storefront.RenderWait,
	}
}

func EndpointsFromConfig(conf *config.StorefrontConfig) storefront.Endpoints {
	return storefront.Endpoints{
		User:     conf.UserPath,
		Cart:     conf.CartPath,
		Products: conf.ProductsPath,
	}
}
