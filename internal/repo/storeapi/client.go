package storeapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/nguyentranbao-ct/storefront/internal/config"
	"github.com/nguyentranbao-ct/storefront/internal/server/middleware"
	"github.com/tidwall/gjson"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrEmptyBody        = errors.New("empty body")
)

// Client is the fetch capability handed to the storefront. GetJSON issues a
// GET for path and decodes the JSON body into out. Path is used as given:
// absolute URLs are requested directly, anything else is resolved against the
// configured base URL.
type Client interface {
	GetJSON(ctx context.Context, path string, out any) error
}

// StatusError carries the status code of a non-2xx response.
type StatusError struct {
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s %d", e.Path, ErrUnexpectedStatus, e.Status)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

type client struct {
	rc *resty.Client
}

func NewClient(cfg *config.StorefrontConfig, rc *resty.Client) Client {
	rc.SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json")
	return &client{rc: rc}
}

func (c *client) GetJSON(ctx context.Context, path string, out any) error {
	req := c.rc.R().
		SetContext(ctx).
		SetResult(out).
		ForceContentType("application/json")
	if id := middleware.GetRequestIDFromContext(ctx); id != "" {
		req.SetHeader(middleware.XRequestID, id)
	}

	resp, err := req.Get(path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return &StatusError{Path: path, Status: resp.StatusCode()}
	}
	// resty skips decoding for 204 and a null body decodes into nothing, so
	// both would leave out at its zero value
	body := gjson.ParseBytes(resp.Body())
	if body.Type == gjson.Null {
		return fmt.Errorf("GET %s: %w", path, ErrEmptyBody)
	}
	return nil
}
