package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/civictrack/civictrack-backend/pkg/errors"
)

const (
	defaultBaseURL        = "https://nominatim.openstreetmap.org"
	defaultUserAgent      = "CivicTrack/1.0"
	reverseZoomLevel      = "18"
	shortAddressSegments  = 4
	errorBodyReadLimit    = 1024
	defaultRequestTimeout = 10 * time.Second
)

// Client wraps the OpenStreetMap Nominatim reverse-geocoding API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the Nominatim base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithUserAgent overrides the User-Agent sent to Nominatim. The public
// instance rejects requests without an identifying agent.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(agent)
		if trimmed != "" {
			c.userAgent = trimmed
		}
	}
}

// NewClient builds a Nominatim client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}
	if client.userAgent == "" {
		client.userAgent = defaultUserAgent
	}

	return client
}

// Place holds the normalized reverse-geocoding result.
type Place struct {
	DisplayName  string
	ShortAddress string
	Address      map[string]string
}

// Reverse resolves a human-readable address for the given coordinates.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (*Place, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "nominatim client not configured")
	}

	query := url.Values{}
	query.Set("format", "json")
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	query.Set("zoom", reverseZoomLevel)
	query.Set("addressdetails", "1")

	endpoint := fmt.Sprintf("%s/reverse?%s", strings.TrimRight(c.baseURL, "/"), query.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build reverse geocode request")
	}
	httpReq.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute reverse geocode request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "reverse geocode request failed")
	}

	var apiResp struct {
		DisplayName string            `json:"display_name"`
		Address     map[string]string `json:"address"`
		Error       string            `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode reverse geocode response")
	}

	// Nominatim reports unresolvable coordinates with a 200 and an error field.
	if apiResp.Error != "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "reverse geocode failed").WithDetails(apiResp.Error)
	}
	if strings.TrimSpace(apiResp.DisplayName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "reverse geocode returned no address")
	}

	return &Place{
		DisplayName:  apiResp.DisplayName,
		ShortAddress: shortAddress(apiResp.DisplayName),
		Address:      apiResp.Address,
	}, nil
}

// shortAddress keeps the first few comma-separated segments of the full
// display name, which reads as "street, suburb, city, county".
func shortAddress(displayName string) string {
	segments := strings.Split(displayName, ",")
	if len(segments) > shortAddressSegments {
		segments = segments[:shortAddressSegments]
	}
	for i, segment := range segments {
		segments[i] = strings.TrimSpace(segment)
	}
	return strings.Join(segments, ", ")
}
