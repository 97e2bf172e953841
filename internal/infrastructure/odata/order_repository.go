// Package odata reads orders from the remote OData order service.
package odata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/domain/entity"
	domainErrors "github.com/rpamplona/e-shop-website-with-ilb-ase/internal/domain/errors"
)

const (
	ordersEntitySet = "Orders"
	expandItems     = "$expand=OrderItems"
	acceptHeader    = "application/json;odata.metadata=minimal"
	maxErrorBody    = 512
)

type OrderRepository struct {
	baseURL *url.URL
	client  *http.Client
}

// NewOrderRepository returns a client for the service rooted at baseURL.
func NewOrderRepository(baseURL string, timeout time.Duration) (*OrderRepository, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse odata base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("odata base url %q must be absolute", baseURL)
	}

	return &OrderRepository{
		baseURL: u,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

type collection struct {
	Value []*entity.Order `json:"value"`
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]*entity.Order, error) {
	var body collection
	if err := r.get(ctx, ordersEntitySet, &body); err != nil {
		return nil, err
	}
	if body.Value == nil {
		body.Value = []*entity.Order{}
	}
	return body.Value, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*entity.Order, error) {
	var order entity.Order
	resource := ordersEntitySet + "(" + strconv.FormatInt(id, 10) + ")"
	if err := r.get(ctx, resource, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) get(ctx context.Context, resource string, out any) error {
	u := r.baseURL.JoinPath(resource)
	u.RawQuery = expandItems

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build odata request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domainErrors.ErrOrderNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: GET %s returned %d: %s", domainErrors.ErrUpstreamUnavailable, resource, resp.StatusCode, snippet)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", domainErrors.ErrUpstreamUnavailable, resource, err)
	}
	return nil
}
