package upstream

import "errors"

// Config locates the spreadsheet-backed macro endpoints the facade reads
// from.
type Config struct {
	// BlocksURL serves the day's full block set as {date, blocks}.
	BlocksURL string `json:"blocks_url"`
	// RowsURL serves the live per-driver dashboard rows.
	RowsURL string `json:"rows_url"`
	// ProxyURL is the macro endpoint behind the generic proxy path.
	ProxyURL string `json:"proxy_url"`
	// TimeoutSeconds bounds every upstream request.
	TimeoutSeconds int `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
}

// Validate checks mandatory fields. Missing endpoints are configuration
// errors surfaced at startup, not at request time.
func (c Config) Validate() error {
	if c.BlocksURL == "" {
		return errors.New("upstream blocks_url is required")
	}
	if c.RowsURL == "" {
		return errors.New("upstream rows_url is required")
	}
	return nil
}
