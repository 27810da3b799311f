package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/catalog-pricing/internal/config"
)

var tracer = otel.Tracer("internal/storage/catalog")

var _ Source = (*Client)(nil)

// Client talks to the remote catalog REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg config.Catalog) *Client {
	return NewClientWithHTTP(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout})
}

func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) FetchAll(ctx context.Context) ([]Record, error) {
	ctx, span := tracer.Start(ctx, "Client.FetchAll", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	body, status, err := c.get(ctx, "/products")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch all records")
		return nil, err
	}
	if status != http.StatusOK {
		err := fmt.Errorf("unexpected status %d fetching products", status)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var records []Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	span.SetAttributes(attribute.Int("catalog.records", len(records)))
	return records, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, 0, fmt.Errorf("read body: %w", err)
	}

	return body, resp.StatusCode, nil
}
