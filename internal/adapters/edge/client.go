package edge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/escoteiros/scout-inventory/internal/adapters/vocab"
	"github.com/escoteiros/scout-inventory/internal/core/domain"
)

const (
	InventoryPath = "/inventory"
	RequestsPath  = "/requests"
	HealthPath    = "/health"

	backendName = "edge"
)

// Config configures the functions server client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client is a backend adapter that reaches the document store through the
// functions server.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a functions server client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With(slog.String("repository", "edge")),
	}
}

// Name identifies the backend in health reports.
func (c *Client) Name() string { return backendName }

// Ping checks that the functions server answers.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "ping", http.MethodGet, HealthPath, nil, nil, nil)
}

// ListInventoryItems returns every item, newest first.
func (c *Client) ListInventoryItems(ctx context.Context) ([]domain.InventoryItem, error) {
	var wires []InventoryWire
	if err := c.do(ctx, "list inventory items", http.MethodGet, InventoryPath, nil, nil, &wires); err != nil {
		return nil, err
	}

	items := make([]domain.InventoryItem, 0, len(wires))
	for _, w := range wires {
		item, err := w.ToDomain()
		if err != nil {
			c.logger.WarnContext(ctx, "skipping unreadable inventory item",
				slog.String("id", w.ID), slog.String("error", err.Error()))
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// GetInventoryItem returns one item.
func (c *Client) GetInventoryItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	var w InventoryWire
	if err := c.do(ctx, "get inventory item", http.MethodGet, InventoryPath, byID(id), nil, &w); err != nil {
		return nil, notFoundAs(err, "inventory item", id)
	}
	item, err := w.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("inventory item %s: %w", id, err)
	}
	return &item, nil
}

// CreateInventoryItem validates item and stores it through the functions server.
func (c *Client) CreateInventoryItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	if err := item.PrepareForStorage(); err != nil {
		return nil, err
	}
	body, err := NewInventoryWire(item)
	if err != nil {
		return nil, err
	}
	body.ID, body.CreatedAt, body.UpdatedAt = "", "", ""

	var w InventoryWire
	if err := c.do(ctx, "create inventory item", http.MethodPost, InventoryPath, nil, body, &w); err != nil {
		return nil, err
	}
	created, err := w.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("created inventory item: %w", err)
	}
	return &created, nil
}

// UpdateInventoryItem sends the patch; the server merges it and recomputes the total.
func (c *Client) UpdateInventoryItem(ctx context.Context, id string, patch domain.InventoryPatch) (*domain.InventoryItem, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	body, err := NewInventoryPatchWire(patch)
	if err != nil {
		return nil, err
	}

	var w InventoryWire
	if err := c.do(ctx, "update inventory item", http.MethodPut, InventoryPath, byID(id), body, &w); err != nil {
		return nil, notFoundAs(err, "inventory item", id)
	}
	updated, err := w.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("updated inventory item %s: %w", id, err)
	}
	return &updated, nil
}

// DeleteInventoryItem removes an item.
func (c *Client) DeleteInventoryItem(ctx context.Context, id string) error {
	var out SuccessWire
	if err := c.do(ctx, "delete inventory item", http.MethodDelete, InventoryPath, byID(id), nil, &out); err != nil {
		return notFoundAs(err, "inventory item", id)
	}
	if !out.Success {
		return fmt.Errorf("delete inventory item %s: server did not confirm", id)
	}
	return nil
}

// ListItemRequests returns requests matching filter, newest first.
func (c *Client) ListItemRequests(ctx context.Context, filter domain.RequestFilter) ([]domain.ItemRequest, error) {
	query := url.Values{}
	if filter.Status != "" {
		status, err := vocab.RequestStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		query.Set("status", status)
	}

	var wires []RequestWire
	if err := c.do(ctx, "list item requests", http.MethodGet, RequestsPath, query, nil, &wires); err != nil {
		return nil, err
	}

	requests := make([]domain.ItemRequest, 0, len(wires))
	for _, w := range wires {
		req, err := w.ToDomain()
		if err != nil {
			c.logger.WarnContext(ctx, "skipping unreadable item request",
				slog.String("id", w.ID), slog.String("error", err.Error()))
			continue
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// CreateItemRequest submits a request; the server forces it to pending.
func (c *Client) CreateItemRequest(ctx context.Context, req domain.ItemRequest) (*domain.ItemRequest, error) {
	if err := req.PrepareForStorage(); err != nil {
		return nil, err
	}
	body, err := NewRequestWire(req)
	if err != nil {
		return nil, err
	}
	body.ID, body.Status, body.CreatedAt, body.UpdatedAt = "", "", "", ""

	var w RequestWire
	if err := c.do(ctx, "create item request", http.MethodPost, RequestsPath, nil, body, &w); err != nil {
		return nil, err
	}
	created, err := w.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("created item request: %w", err)
	}
	return &created, nil
}

// UpdateItemRequestStatus changes the status of a request.
func (c *Client) UpdateItemRequestStatus(ctx context.Context, id string, status domain.RequestStatus) (*domain.ItemRequest, error) {
	label, err := vocab.RequestStatus(status)
	if err != nil {
		return nil, err
	}

	var w RequestWire
	if err := c.do(ctx, "update item request status", http.MethodPut, RequestsPath, byID(id), StatusWire{Status: label}, &w); err != nil {
		return nil, notFoundAs(err, "item request", id)
	}
	updated, err := w.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("updated item request %s: %w", id, err)
	}
	return &updated, nil
}

func byID(id string) url.Values {
	return url.Values{"id": []string{id}}
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return domain.NewConnectionError(backendName, op, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "functions server call",
		slog.String("op", op),
		slog.String("method", method),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode >= http.StatusBadRequest {
		return statusError(op, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// statusError maps a failed response onto the error taxonomy.
func statusError(op string, resp *http.Response) error {
	var body ErrorWire
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(data))
	}
	if body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return domain.NewValidationError("", body.Error)
	case http.StatusNotFound:
		return domain.NewNotFoundError("", body.Error)
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return domain.NewConnectionError(backendName, op,
			fmt.Errorf("status %d: %s", resp.StatusCode, body.Error))
	default:
		return fmt.Errorf("%s: functions server returned %d: %s", op, resp.StatusCode, body.Error)
	}
}

// notFoundAs names the resource and id of a not-found response.
func notFoundAs(err error, resource, id string) error {
	var nf *domain.NotFoundError
	if errors.As(err, &nf) && nf.Resource == "" {
		return domain.NewNotFoundError(resource, id)
	}
	return err
}
