package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Config struct {
	RevokeURL string
	APIKey    string
	Timeout   time.Duration
}

// Client talks to the external identity provider's admin API. Only
// account revocation is needed here.
type Client struct {
	revokeURL  string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		revokeURL:  strings.TrimRight(cfg.RevokeURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Revoke deletes the external account. A 404 from the provider counts as
// already revoked.
func (c *Client) Revoke(ctx context.Context, externalUID string) error {
	if c.revokeURL == "" {
		c.logger.DebugContext(ctx, "identity revocation not configured", "external_uid", externalUID)
		return nil
	}

	endpoint := c.revokeURL + "/" + url.PathEscape(externalUID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create revoke request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("revoke request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.logger.InfoContext(ctx, "external identity already gone", "external_uid", externalUID)
		return nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		c.logger.InfoContext(ctx, "external identity revoked", "external_uid", externalUID)
		return nil
	}

	var apiError struct {
		Error string `json:"error"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(body, &apiError) == nil && apiError.Error != "" {
		return fmt.Errorf("identity provider returned status %d: %s", resp.StatusCode, apiError.Error)
	}
	return fmt.Errorf("identity provider returned status %d", resp.StatusCode)
}
