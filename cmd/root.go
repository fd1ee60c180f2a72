package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/nguyentranbao-ct/storefront/internal/app"
	"github.com/nguyentranbao-ct/storefront/internal/config"
	"github.com/nguyentranbao-ct/storefront/internal/repo/storeapi"
	"github.com/nguyentranbao-ct/storefront/internal/server"
	"github.com/nguyentranbao-ct/storefront/internal/storefront"
	"github.com/nguyentranbao-ct/storefront/pkg/logger"
	"github.com/nguyentranbao-ct/storefront/pkg/util"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Catalog API and storefront UI",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		conf, err := config.Load()
		if err != nil {
			return err
		}
		if err := logger.Init(logger.Config{Level: conf.Log.Level, Format: conf.Log.Format}); err != nil {
			return err
		}
		cmd.SetContext(withConfig(cmd.Context(), conf))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the catalog API",
	Run: func(cmd *cobra.Command, args []string) {
		app.Invoke(configFrom(cmd.Context()), server.StartServer).Run()
	},
}

var storefrontCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Run the storefront UI",
	Run: func(cmd *cobra.Command, args []string) {
		app.Invoke(configFrom(cmd.Context()), server.StartStorefront).Run()
	},
}

var renderFlags struct {
	final   bool
	timeout time.Duration
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the storefront once and print every frame",
	RunE: func(cmd *cobra.Command, args []string) error {
		var runErr error
		fxApp := app.Invoke(configFrom(cmd.Context()), func(client storeapi.Client, presenter *storefront.Presenter, opts server.StorefrontOptions) {
			ctx, cancel := context.WithTimeout(cmd.Context(), renderFlags.timeout)
			defer cancel()
			runErr = render(ctx, cmd.OutOrStdout(), client, presenter, opts, renderFlags.final)
		})
		if err := fxApp.Err(); err != nil {
			return err
		}
		return runErr
	},
}

var healthFlags struct {
	url     string
	retries int
	timeout time.Duration
}

var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Probe a health endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		url := healthFlags.url
		if url == "" {
			conf := configFrom(cmd.Context())
			url = strings.TrimSuffix(conf.Storefront.BaseURL, "/") + conf.Storefront.HealthPath
		}

		checker := storeapi.NewHealthChecker(util.NewRestyClient(util.RestyOptions{
			Timeout:    healthFlags.timeout,
			RetryCount: healthFlags.retries,
		}))
		if err := checker.Check(cmd.Context(), url); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

func init() {
	renderCmd.Flags().BoolVar(&renderFlags.final, "final", false, "print only the last frame")
	renderCmd.Flags().DurationVar(&renderFlags.timeout, "timeout", 30*time.Second, "give up waiting for slices after this long")

	healthcheckCmd.Flags().StringVar(&healthFlags.url, "url", "", "health URL (default STOREFRONT_BASE_URL + STOREFRONT_HEALTH_PATH)")
	healthcheckCmd.Flags().IntVar(&healthFlags.retries, "retries", 3, "extra attempts on connection errors and 5xx")
	healthcheckCmd.Flags().DurationVar(&healthFlags.timeout, "timeout", 5*time.Second, "overall probe timeout")

	rootCmd.AddCommand(serveCmd, storefrontCmd, renderCmd, healthcheckCmd)
}

// render mounts one session and writes frames to w until every slice settled
// or ctx ends.
func render(
	ctx context.Context,
	w io.Writer,
	client storeapi.Client,
	presenter *storefront.Presenter,
	opts server.StorefrontOptions,
	finalOnly bool,
) error {
	agg := storefront.NewAggregator(client, opts.Endpoints,
		storefront.WithTimeout(opts.RequestTimeout),
		storefront.WithLogger(logger.MustNamed("render")),
	)

	var writeErr error
	draw := func(f storefront.Frame) {
		if finalOnly || writeErr != nil {
			return
		}
		writeErr = writeFrame(w, f)
	}

	page := presenter.Mount(ctx, agg, draw)
	waitErr := page.Wait(ctx)
	page.Unmount()
	<-page.Done()

	if writeErr != nil {
		return writeErr
	}
	if finalOnly {
		if err := writeFrame(w, page.Last()); err != nil {
			return err
		}
	}
	if waitErr != nil {
		return fmt.Errorf("storefront did not settle: %w", waitErr)
	}
	return nil
}

func writeFrame(w io.Writer, f storefront.Frame) error {
	trigger := string(f.Trigger)
	if trigger == "" {
		trigger = "initial"
	}
	if _, err := fmt.Fprintf(w, "<!-- frame %d: %s -->\n", f.Seq, trigger); err != nil {
		return err
	}
	_, err := w.Write(f.Body)
	return err
}

type configKey struct{}

func withConfig(ctx context.Context, conf *config.Config) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, configKey{}, conf)
}

func configFrom(ctx context.Context) *config.Config {
	conf, _ := ctx.Value(configKey{}).(*config.Config)
	if conf == nil {
		return config.MustLoad()
	}
	return conf
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		logger.Sync()
		os.Exit(1)
	}
}
