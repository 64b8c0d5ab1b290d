package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kilianp07/driverboard/infra/logger"
)

// Client reads from the spreadsheet-backed macro endpoints. It never
// writes back; every method is a plain GET or a verbatim forward.
type Client struct {
	cfg  Config
	http *http.Client
	log  logger.Logger
}

// New creates a Client with the configured request timeout.
func New(cfg Config) *Client {
	cfg.SetDefaults()
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:  logger.New("upstream"),
	}
}

// FetchBlocks retrieves the day's raw block records. The upstream shape
// is {date, blocks: [...]}; a missing blocks array yields an empty
// record set, not an error.
func (c *Client) FetchBlocks(ctx context.Context) (string, []map[string]any, error) {
	body, err := c.get(ctx, c.cfg.BlocksURL)
	if err != nil {
		return "", nil, err
	}
	var payload struct {
		Date   string           `json:"date"`
		Blocks []map[string]any `json:"blocks"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", nil, fmt.Errorf("decode blocks: %w", err)
	}
	return payload.Date, payload.Blocks, nil
}

// FetchRows retrieves the live dashboard rows. The macro endpoint has
// served both a bare array and a {data: [...]} wrapper over time; both
// shapes are accepted.
func (c *Client) FetchRows(ctx context.Context) ([]map[string]any, error) {
	body, err := c.get(ctx, c.cfg.RowsURL)
	if err != nil {
		return nil, err
	}
	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err == nil {
		return rows, nil
	}
	var wrapped struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return wrapped.Data, nil
}

// Forward relays a request body to the proxy macro endpoint and returns
// its status code and body verbatim.
func (c *Client) Forward(ctx context.Context, method string, body io.Reader) (int, []byte, error) {
	if c.cfg.ProxyURL == "" {
		return 0, nil, fmt.Errorf("proxy endpoint not configured")
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.ProxyURL, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("forward: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Errorf("close response body: %v", err)
		}
	}()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read forward response: %w", err)
	}
	return resp.StatusCode, payload, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Errorf("close response body: %v", err)
		}
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
