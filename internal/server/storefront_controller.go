package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/storefront/internal/repo/storeapi"
	"github.com/nguyentranbao-ct/storefront/internal/storefront"
	"github.com/nguyentranbao-ct/storefront/pkg/logger"
	"go.uber.org/zap"
)

type StorefrontController interface {
	Index(c echo.Context) error
	Frames(c echo.Context) error
	Health(c echo.Context) error
}

type StorefrontOptions struct {
	Endpoints      storefront.Endpoints
	RequestTimeout time.Duration
	RenderWait     time.Duration
}

type storefrontController struct {
	client    storeapi.Client
	presenter *storefront.Presenter
	opts      StorefrontOptions
	log       *zap.SugaredLogger
}

func NewStorefrontController(
	client storeapi.Client,
	presenter *storefront.Presenter,
	opts StorefrontOptions,
) StorefrontController {
	return &storefrontController{
		client:    client,
		presenter: presenter,
		opts:      opts,
		log:       logger.MustNamed("storefront"),
	}
}

func (h *storefrontController) newAggregator(ctx context.Context) *storefront.Aggregator {
	return storefront.NewAggregator(h.client, h.opts.Endpoints,
		storefront.WithTimeout(h.opts.RequestTimeout),
		storefront.WithLogger(logger.FromContext(ctx, h.log)),
	)
}

// Index mounts a session, waits for it to settle or for RenderWait, and
// serves the latest frame. Slices still loading keep their loading text.
func (h *storefrontController) Index(c echo.Context) error {
	ctx := c.Request().Context()
	page := h.presenter.Mount(ctx, h.newAggregator(ctx), nil)
	defer page.Unmount()

	waitCtx := ctx
	if h.opts.RenderWait > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, h.opts.RenderWait)
		defer cancel()
	}
	if err := page.Wait(waitCtx); err != nil && ctx.Err() != nil {
		return ctx.Err()
	}

	return c.HTMLBlob(http.StatusOK, page.Last().Body)
}

type frameEvent struct {
	Seq     int    `json:"seq"`
	Trigger string `json:"trigger,omitempty"`
	HTML    string `json:"html"`
}

// Frames streams every frame of one session as server-sent events. The
// session is unmounted as soon as the client goes away.
func (h *storefrontController) Frames(c echo.Context) error {
	ctx := c.Request().Context()
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	log := logger.FromContext(ctx, h.log)
	var writeErr error
	draw := func(f storefront.Frame) {
		if writeErr != nil {
			return
		}
		data, err := json.Marshal(frameEvent{Seq: f.Seq, Trigger: string(f.Trigger), HTML: string(f.Body)})
		if err != nil {
			writeErr = err
			return
		}
		if _, err := fmt.Fprintf(res, "id: %d\nevent: frame\ndata: %s\n\n", f.Seq, data); err != nil {
			writeErr = err
			return
		}
		res.Flush()
	}

	page := h.presenter.Mount(ctx, h.newAggregator(ctx), draw)
	select {
	case <-page.Done():
	case <-ctx.Done():
		log.Debugw("client went away, unmounting")
	}
	page.Unmount()
	// draw runs on the page goroutine; it must be finished before the
	// response is released
	<-page.Done()

	if writeErr != nil || ctx.Err() != nil {
		return nil
	}
	if _, err := fmt.Fprint(res, "event: done\ndata: {}\n\n"); err != nil {
		return nil
	}
	res.Flush()
	return nil
}

func (h *storefrontController) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
