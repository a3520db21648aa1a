package polymarket

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/simrat12/Prediction-Engine/internal/adapter"
)

const (
	defaultGammaBaseURL = "https://gamma-api.polymarket.com"
	defaultCLOBBaseURL  = "https://clob.polymarket.com"
	defaultWSURL        = "wss://ws-subscriptions-clob.polymarket.com/ws/market"
	catalogPageSize     = 500
)

// Driver implements adapter.Driver against Polymarket's Gamma and CLOB
// APIs.
type Driver struct {
	gamma  *resty.Client
	clob   *resty.Client
	wsURL  string
	logger *slog.Logger
}

// New constructs a Polymarket driver. Base URLs default to the public
// Polymarket endpoints; override for testing against a stub server.
func New(logger *slog.Logger, opts ...Option) *Driver {
	d := &Driver{
		gamma: resty.New().
			SetBaseURL(defaultGammaBaseURL).
			SetTimeout(15 * time.Second).
			SetRetryCount(2).
			SetRetryWaitTime(time.Second).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() >= 500
			}),
		clob: resty.New().
			SetBaseURL(defaultCLOBBaseURL).
			SetTimeout(10 * time.Second).
			SetRetryCount(3).
			SetRetryWaitTime(500 * time.Millisecond).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() >= 500
			}),
		wsURL:  defaultWSURL,
		logger: logger.With(slog.String("component", "polymarket_driver")),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Option customizes a Driver, primarily for tests.
type Option func(*Driver)

// WithGammaBaseURL overrides the Gamma catalog API base URL.
func WithGammaBaseURL(url string) Option {
	return func(d *Driver) { d.gamma.SetBaseURL(url) }
}

// WithCLOBBaseURL overrides the CLOB REST API base URL.
func WithCLOBBaseURL(url string) Option {
	return func(d *Driver) { d.clob.SetBaseURL(url) }
}

// WithWSURL overrides the CLOB websocket URL.
func WithWSURL(url string) Option {
	return func(d *Driver) { d.wsURL = url }
}

// FetchCatalog pages through the Gamma markets endpoint and returns the
// full catalog.
func (d *Driver) FetchCatalog(ctx context.Context) ([]adapter.CatalogMarket, error) {
	var out []adapter.CatalogMarket
	offset := 0

	for {
		var page []gammaMarket
		resp, err := d.gamma.R().
			SetContext(ctx).
			SetQueryParam("limit", fmt.Sprintf("%d", catalogPageSize)).
			SetQueryParam("offset", fmt.Sprintf("%d", offset)).
			SetResult(&page).
			Get("/markets")
		if err != nil {
			return nil, fmt.Errorf("polymarket: fetch catalog: %w", err)
		}
		if resp.StatusCode() != http.StatusOK {
			return nil, fmt.Errorf("polymarket: fetch catalog: status %d: %s", resp.StatusCode(), resp.String())
		}
		if len(page) == 0 {
			break
		}

		for _, m := range page {
			out = append(out, m.toCatalogMarket())
		}

		if len(page) < catalogPageSize {
			break
		}
		offset += catalogPageSize
	}

	return out, nil
}

// priceResponse is the CLOB /price endpoint response shape.
type priceResponse struct {
	Price string `json:"price"`
}

// GetPrice fetches the current top-of-book price for one token and
// side via the CLOB REST API.
func (d *Driver) GetPrice(ctx context.Context, tokenID string, side string) (float64, error) {
	var result priceResponse
	resp, err := d.clob.R().
		SetContext(ctx).
		SetQueryParam("token_id", tokenID).
		SetQueryParam("side", side).
		SetResult(&result).
		Get("/price")
	if err != nil {
		return 0, fmt.Errorf("polymarket: get price: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return 0, fmt.Errorf("polymarket: get price: status %d: %s", resp.StatusCode(), resp.String())
	}

	var price float64
	if _, err := fmt.Sscanf(result.Price, "%f", &price); err != nil {
		return 0, fmt.Errorf("polymarket: parse price %q: %w", result.Price, err)
	}
	return price, nil
}
