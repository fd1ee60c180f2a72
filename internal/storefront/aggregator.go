package storefront

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nguyentranbao-ct/storefront/internal/models"
	"github.com/nguyentranbao-ct/storefront/internal/repo/storeapi"
	"github.com/nguyentranbao-ct/storefront/pkg/logger"
	"github.com/nguyentranbao-ct/storefront/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Endpoint string

const (
	EndpointUser     Endpoint = "user"
	EndpointCart     Endpoint = "cart"
	EndpointProducts Endpoint = "products"
)

// Endpoints are the three paths the aggregator reads. They are handed to the
// fetch client untouched.
type Endpoints struct {
	User     string
	Cart     string
	Products string
}

// Event reports that one endpoint settled. A nil Err means its slice resolved.
type Event struct {
	Endpoint Endpoint
	Err      error
}

type Option func(*Aggregator)

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		a.timeout = d
	}
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.log = l
		}
	}
}

// Aggregator fetches the user, cart and product slices concurrently for one
// mount. Slices resolve independently; a failed fetch leaves its slice
// unresolved and is only logged.
type Aggregator struct {
	client    storeapi.Client
	endpoints Endpoints
	timeout   time.Duration
	log       *zap.SugaredLogger
	latency   *prometheus.HistogramVec

	state  AggregateState
	alive  atomic.Bool
	once   sync.Once
	cancel context.CancelFunc
	mu     sync.Mutex
	events chan Event
	done   chan struct{}
}

func NewAggregator(client storeapi.Client, endpoints Endpoints, opts ...Option) *Aggregator {
	a := &Aggregator{
		client:    client,
		endpoints: endpoints,
		log:       zap.NewNop().Sugar(),
		events:    make(chan Event, 3),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.alive.Store(true)

	latency, err := util.GetHistogramVec(
		"storefront_fetch_duration_seconds",
		"Time spent fetching one storefront endpoint",
		"endpoint", "status",
	)
	if err != nil {
		a.log.Warnw("fetch metrics disabled", "error", err)
	} else {
		a.latency = latency
	}
	return a
}

// Start issues the three requests and returns the event stream. The stream
// carries one event per endpoint and is closed once all of them settled or
// were dropped by Stop. Later calls return the same stream.
func (a *Aggregator) Start(ctx context.Context) <-chan Event {
	a.once.Do(func() {
		ctx, cancel := context.WithCancel(ctx)
		a.mu.Lock()
		a.cancel = cancel
		a.mu.Unlock()

		var g errgroup.Group
		g.Go(func() error {
			a.run(ctx, EndpointUser, a.endpoints.User, func(ctx context.Context, path string) error {
				user, err := fetch[models.UserProfile](ctx, a.client, path)
				if err == nil && a.alive.Load() {
					a.state.User.Resolve(user)
				}
				return err
			})
			return nil
		})
		g.Go(func() error {
			a.run(ctx, EndpointCart, a.endpoints.Cart, func(ctx context.Context, path string) error {
				cart, err := fetch[models.CartSummary](ctx, a.client, path)
				if err == nil && a.alive.Load() {
					a.state.Cart.Resolve(cart)
				}
				return err
			})
			return nil
		})
		g.Go(func() error {
			a.run(ctx, EndpointProducts, a.endpoints.Products, func(ctx context.Context, path string) error {
				catalog, err := fetch[models.Catalog](ctx, a.client, path)
				if err == nil && a.alive.Load() {
					if catalog.Skipped > 0 {
						logger.FromContext(ctx, a.log).Warnw("skipped null products",
							"path", path,
							"count", catalog.Skipped,
						)
					}
					products := catalog.Products
					if products == nil {
						products = []models.Product{}
					}
					a.state.Products.Resolve(products)
				}
				return err
			})
			return nil
		})

		go func() {
			_ = g.Wait()
			cancel()
			close(a.events)
			close(a.done)
		}()
	})
	return a.events
}

func (a *Aggregator) run(ctx context.Context, ep Endpoint, path string, load func(context.Context, string) error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	err := load(ctx, path)
	a.observe(ep, err, time.Since(start))

	if !a.alive.Load() {
		return
	}
	if err != nil {
		logger.FromContext(ctx, a.log).Warnw("fetch failed",
			"endpoint", ep,
			"path", path,
			"error", err,
		)
	}
	a.events <- Event{Endpoint: ep, Err: err}
}

func (a *Aggregator) observe(ep Endpoint, err error, d time.Duration) {
	if a.latency == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	a.latency.WithLabelValues(string(ep), status).Observe(d.Seconds())
}

// State returns the best known state. Safe to call at any time.
func (a *Aggregator) State() State {
	return a.state.Snapshot()
}

// Done is closed after every task returned.
func (a *Aggregator) Done() <-chan struct{} {
	return a.done
}

// Stop invalidates the aggregator: completions arriving afterwards neither
// update the state nor emit events. In flight requests are cancelled.
func (a *Aggregator) Stop() {
	a.alive.Store(false)
	// a Stop before Start leaves Start with a closed stream
	a.once.Do(func() {
		close(a.events)
		close(a.done)
	})

	a.mu.Lock()
	cancel := a.cancel
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func fetch[T any](ctx context.Context, client storeapi.Client, path string) (T, error) {
	var v T
	err := client.GetJSON(ctx, path, &v)
	return v, err
}
