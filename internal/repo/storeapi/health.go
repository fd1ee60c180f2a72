package storeapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

var ErrUnhealthy = errors.New("service unhealthy")

type HealthChecker interface {
	Check(ctx context.Context, url string) error
}

type healthChecker struct {
	rc *resty.Client
}

// NewHealthChecker probes health endpoints. Retries, if any, come from rc.
func NewHealthChecker(rc *resty.Client) HealthChecker {
	return &healthChecker{rc: rc}
}

func (h *healthChecker) Check(ctx context.Context, url string) error {
	resp, err := h.rc.R().SetContext(ctx).Get(url)
	if err != nil {
		return fmt.Errorf("probe %s: %w", url, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("probe %s: %w: status %d", url, ErrUnhealthy, resp.StatusCode())
	}

	status := gjson.GetBytes(resp.Body(), "status")
	if status.String() != "ok" {
		return fmt.Errorf("probe %s: %w: status field %q", url, ErrUnhealthy, status.String())
	}
	return nil
}
