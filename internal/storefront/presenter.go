package storefront

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/nguyentranbao-ct/storefront/internal/models"
	"github.com/nguyentranbao-ct/storefront/pkg/logger"
	"github.com/nguyentranbao-ct/storefront/pkg/tmplx"
	"go.uber.org/zap"
)

const (
	UserLoadingText = "Loading user profile…"
	CartLoadingText = "Loading cart…"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<header><h1>{{.Title}}</h1></header>
<section id="user">{{if .User}}Welcome back, {{.User.Name}}{{else}}{{.UserLoading}}{{end}}</section>
<section id="cart">{{if .Cart}}Cart: {{.Cart.Items}} items, Total {{money .Cart.Total}}{{else}}{{.CartLoading}}{{end}}</section>
<h2>Products</h2>
<section id="products" class="product-grid">
{{- range .Cards}}
<article class="product-card" data-key="{{.Key}}">
<img src="{{.Image}}" alt="{{.Name}}">
<h3>{{.Name}}</h3>
<p class="price">Price: {{.Price}}</p>
<p class="rating">Rating: {{.Rating}}</p>
<button type="button">{{.Action}}</button>
</article>
{{- end}}
</section>
</body>
</html>
`

type pageData struct {
	Title       string
	User        *models.UserProfile
	Cart        *models.CartSummary
	Cards       []Card
	UserLoading string
	CartLoading string
}

// Presenter turns a State into a page. Rendering is a pure function of the
// state: the same state always yields the same bytes.
type Presenter struct {
	title string
	tmpl  *tmplx.Template
	log   *zap.SugaredLogger
}

func NewPresenter(title string, log *zap.SugaredLogger) (*Presenter, error) {
	sample := pageData{
		Title:       title,
		User:        &models.UserProfile{Name: "sample"},
		Cart:        &models.CartSummary{Items: 1, Total: 1},
		Cards:       RenderCards([]models.Product{{ID: 1, Name: "sample"}}),
		UserLoading: UserLoadingText,
		CartLoading: CartLoadingText,
	}
	tmpl, err := tmplx.Parse("page", pageTemplate,
		tmplx.WithTemplateFunc("money", FormatMoney),
		tmplx.WithValidate(sample, func(buf *bytes.Buffer) error {
			if !bytes.Contains(buf.Bytes(), []byte("Welcome back, sample")) {
				return fmt.Errorf("user region missing from page")
			}
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Presenter{title: title, tmpl: tmpl, log: log}, nil
}

func (p *Presenter) Render(st State) ([]byte, error) {
	buf, err := p.tmpl.Render(pageData{
		Title:       p.title,
		User:        st.User,
		Cart:        st.Cart,
		Cards:       RenderCards(st.Products),
		UserLoading: UserLoadingText,
		CartLoading: CartLoadingText,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Frame is one drawn page. Seq 0 is the initial loading frame; every later
// frame was triggered by exactly one resolved slice.
type Frame struct {
	Seq     int
	Trigger Endpoint
	State   State
	Body    []byte
}

// Page is a mounted storefront view bound to one aggregator.
type Page struct {
	presenter *Presenter
	agg       *Aggregator
	draw      func(Frame)
	log       *zap.SugaredLogger

	last        atomic.Pointer[Frame]
	unmounted   chan struct{}
	unmountOnce sync.Once
	done        chan struct{}
}

// Mount draws the initial frame, starts agg and redraws once per resolved
// slice until every endpoint settled or the page is unmounted. draw is never
// called concurrently.
func (p *Presenter) Mount(ctx context.Context, agg *Aggregator, draw func(Frame)) *Page {
	if draw == nil {
		draw = func(Frame) {}
	}
	page := &Page{
		presenter: p,
		agg:       agg,
		draw:      draw,
		log:       logger.FromContext(ctx, p.log),
		unmounted: make(chan struct{}),
		done:      make(chan struct{}),
	}

	page.redraw(0, "")
	events := agg.Start(ctx)
	go page.loop(events)
	return page
}

func (pg *Page) loop(events <-chan Event) {
	defer close(pg.done)

	seq := 0
	for {
		select {
		case <-pg.unmounted:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Err != nil {
				continue
			}
			select {
			case <-pg.unmounted:
				return
			default:
			}
			seq++
			pg.redraw(seq, ev.Endpoint)
		}
	}
}

func (pg *Page) redraw(seq int, trigger Endpoint) {
	st := pg.agg.State()
	body, err := pg.presenter.Render(st)
	if err != nil {
		pg.log.Errorw("render page", "seq", seq, "trigger", trigger, "error", err)
		return
	}
	f := Frame{Seq: seq, Trigger: trigger, State: st, Body: body}
	pg.last.Store(&f)
	pg.draw(f)
}

// Last returns the most recently drawn frame.
func (pg *Page) Last() Frame {
	if f := pg.last.Load(); f != nil {
		return *f
	}
	return Frame{}
}

// Done is closed when the page stops redrawing.
func (pg *Page) Done() <-chan struct{} {
	return pg.done
}

// Wait blocks until the page stops redrawing or ctx ends.
func (pg *Page) Wait(ctx context.Context) error {
	select {
	case <-pg.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unmount stops the aggregator and discards any update still in flight.
func (pg *Page) Unmount() {
	pg.unmountOnce.Do(func() {
		close(pg.unmounted)
		pg.agg.Stop()
	})
}
