package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gsales/gsales/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Gsales/1.0"

	// The readiness value the remote collaborator answers with when it has
	// accepted a sale.
	statusReady = "ready"
)

// Client delivers individual sales to the remote collaborator. The endpoint
// is opaque: it takes the sale's fields form-encoded over POST and answers
// with a JSON body carrying a status field.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for the configured endpoint URL.
func NewClient(endpoint string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Push sends one sale. Transport failure, a non-success HTTP status, a
// malformed body and a non-ready status all classify uniformly as failure;
// the returned error carries the reason.
func (c *Client) Push(ctx context.Context, sale *domain.Sale) error {
	form := url.Values{}
	form.Set("id", sale.ID)
	form.Set("item", sale.Item)
	form.Set("qty", strconv.FormatFloat(sale.Qty, 'f', -1, 64))
	form.Set("price", strconv.FormatFloat(sale.Price, 'f', -1, 64))
	form.Set("createdAt", strconv.FormatInt(sale.CreatedAt, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("pushing sale", "sale_id", sale.ID, "url", c.endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("push request failed", "sale_id", sale.ID, "error", err)
		return fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("push rejected", "sale_id", sale.ID, "status", resp.StatusCode)
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	var ack struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &ack); err != nil {
		return fmt.Errorf("%w: unparseable response: %s", domain.ErrNotReady, compact(body))
	}
	if ack.Status != statusReady {
		return fmt.Errorf("%w: unexpected response: %s", domain.ErrNotReady, compact(body))
	}

	return nil
}

// compact trims a response body down to something loggable.
func compact(body []byte) string {
	s := strings.Join(strings.Fields(string(body)), " ")
	if len(s) > 200 {
		s = s[:200] + "…"
	}
	return s
}
