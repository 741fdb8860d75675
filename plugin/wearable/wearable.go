// Package wearable connects OAuth2 wearable providers and pulls biosignal
// samples from their APIs.
package wearable

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/neuroalign/neuroalign/engine/signal"
)

// Provider endpoints for the supported wearable platforms.
var providerEndpoints = map[string]oauth2.Endpoint{
	"fitbit": {
		AuthURL:  "https://www.fitbit.com/oauth2/authorize",
		TokenURL: "https://api.fitbit.com/oauth2/token",
	},
	"whoop": {
		AuthURL:  "https://api.prod.whoop.com/oauth/oauth2/auth",
		TokenURL: "https://api.prod.whoop.com/oauth/oauth2/token",
	},
	"oura": {
		AuthURL:  "https://cloud.ouraring.com/oauth/authorize",
		TokenURL: "https://api.ouraring.com/oauth/token",
	},
}

// Config holds one provider connection's settings.
type Config struct {
	Provider     string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	DataURL      string // provider endpoint serving the latest sample
}

// Client talks to one wearable provider on behalf of one user.
type Client struct {
	oauth   *oauth2.Config
	dataURL string
	logger  *slog.Logger
}

// NewClient creates a client for a supported provider.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	endpoint, ok := providerEndpoints[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unsupported wearable provider %q", cfg.Provider)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     endpoint,
		},
		dataURL: cfg.DataURL,
		logger:  logger,
	}, nil
}

// AuthURL returns the provider consent URL for the given state token.
func (c *Client) AuthURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token.
func (c *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}
	return token, nil
}

// samplePayload is the provider-neutral shape the data endpoint returns.
type samplePayload struct {
	Timestamp          time.Time `json:"timestamp"`
	HeartRate          *float64  `json:"heart_rate,omitempty"`
	SleepDurationHours *float64  `json:"sleep_duration_hours,omitempty"`
	SleepQuality       *float64  `json:"sleep_quality,omitempty"`
	StepsCount         *int      `json:"steps_count,omitempty"`
	StressLevel        *float64  `json:"stress_level,omitempty"`
}

// FetchLatest pulls the most recent biosignal sample. The oauth2 client
// refreshes the token transparently; callers should persist the refreshed
// token from the returned source.
func (c *Client) FetchLatest(ctx context.Context, token *oauth2.Token) (signal.BiosignalSample, *oauth2.Token, error) {
	source := c.oauth.TokenSource(ctx, token)
	httpClient := oauth2.NewClient(ctx, source)

	sample, err := c.fetch(ctx, httpClient)
	if err != nil {
		return signal.BiosignalSample{}, token, err
	}

	refreshed, err := source.Token()
	if err != nil {
		refreshed = token
	}
	return sample, refreshed, nil
}

func (c *Client) fetch(ctx context.Context, httpClient *http.Client) (signal.BiosignalSample, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.dataURL, nil)
	if err != nil {
		return signal.BiosignalSample{}, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return signal.BiosignalSample{}, fmt.Errorf("wearable fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return signal.BiosignalSample{}, fmt.Errorf("wearable fetch: status %d: %s", resp.StatusCode, body)
	}

	var payload samplePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return signal.BiosignalSample{}, fmt.Errorf("wearable decode: %w", err)
	}

	return signal.NormalizeBiosignal(&signal.BiosignalPayload{
		Timestamp:          payload.Timestamp,
		HeartRate:          payload.HeartRate,
		SleepDurationHours: payload.SleepDurationHours,
		SleepQuality:       payload.SleepQuality,
		StepsCount:         payload.StepsCount,
		StressLevel:        payload.StressLevel,
	})
}
