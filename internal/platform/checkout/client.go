package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/articletrack/articletrack_app/internal/core/domain"
	portssvc "github.com/articletrack/articletrack_app/internal/core/ports/services"
	"github.com/articletrack/articletrack_app/internal/platform/config"
)

const requestTimeout = 30 * time.Second

// Client hands accepted packages to the external checkout service over HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Ensure Client implements portssvc.CheckoutClient
var _ portssvc.CheckoutClient = (*Client)(nil)

// NewClient creates a checkout Client from the service settings in cfg.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.CheckoutServiceURL, "/"),
		token:      cfg.CheckoutServiceToken,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// checkoutRequest is the payload the checkout service expects for a new
// processing job.
type checkoutRequest struct {
	CheckinID    string `json:"checkinID"`
	CollectionID string `json:"collectionID"`
	ArticleID    string `json:"articleID"`
	AttemptRef   string `json:"attemptRef"`
	PackageName  string `json:"packageName"`
}

// RequestCheckout asks the checkout service to start processing the accepted
// checkin's package. Any non-2xx response is treated as a failed hand-off.
func (c *Client) RequestCheckout(ctx context.Context, checkin domain.Checkin) error {
	payload, err := json.Marshal(checkoutRequest{
		CheckinID:    checkin.CheckinID,
		CollectionID: checkin.CollectionID,
		ArticleID:    checkin.ArticleID,
		AttemptRef:   checkin.AttemptRef,
		PackageName:  checkin.PackageName,
	})
	if err != nil {
		return fmt.Errorf("marshaling checkout request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkouts", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling checkout service: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("checkout service returned status %d", resp.StatusCode)
	}
	return nil
}
