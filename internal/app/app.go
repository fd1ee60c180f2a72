package app

import (
	"github.com/nguyentranbao-ct/storefront/internal/config"
	"github.com/nguyentranbao-ct/storefront/internal/repo/memory"
	"github.com/nguyentranbao-ct/storefront/internal/repo/storeapi"
	"github.com/nguyentranbao-ct/storefront/internal/server"
	"github.com/nguyentranbao-ct/storefront/internal/usecase"
	"github.com/nguyentranbao-ct/storefront/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"
)

// Invoke builds the application graph for conf and runs funcs against it.
func Invoke(conf *config.Config, funcs ...any) *fx.App {
	log := logger.MustNamed("app")
	log.Debugw("config loaded", "config", conf)
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Provide(
			newRestyClient,
			newStorefrontConfig,
			newPresenter,
			newStorefrontOptions,

			fx.Annotate(
				memory.NewDefaultStore,
				fx.As(new(memory.CatalogRepository)),
				fx.As(new(memory.ProfileRepository)),
				fx.As(new(memory.CartRepository)),
			),
			storeapi.NewClient,

			usecase.NewStoreUsecase,

			server.NewHandler,
			server.NewStorefrontController,
		),
		fx.Supply(conf),
		fx.Invoke(funcs...),
	)
}
