package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/fieldops/fieldtrack/internal/lib/geo"
)

// DefaultBaseURL is the public OSRM demo endpoint.
const DefaultBaseURL = "https://router.project-osrm.org"

// HTTPDoer abstracts the HTTP transport so tests can inject mock responses.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to an OSRM-compatible routing service.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// RouteRequest identifies one route computation.
type RouteRequest struct {
	Origin      geo.Point
	Destination geo.Point
	// Mode "walking" maps to the pedestrian profile; anything else is
	// routed with the driving profile.
	Mode string
}

// RouteResult is the processed outcome of a successful route computation.
// Immutable; every refresh produces a new value.
type RouteResult struct {
	Polyline        string  `json:"polyline"`
	DurationMinutes int     `json:"duration_minutes"`
	DistanceKm      float64 `json:"distance_km"`
}

// osrmResponse mirrors the service's wire format.
type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry string  `json:"geometry"`
		Duration float64 `json:"duration"`
		Distance float64 `json:"distance"`
	} `json:"routes"`
}

// NewClient creates a routing client with a 30 second request timeout.
// Callers needing tighter latency bounds pass a context with a deadline.
func NewClient(baseURL string) *Client {
	return NewClientWithHTTPDoer(baseURL, &http.Client{Timeout: 30 * time.Second})
}

// NewClientWithHTTPDoer creates a client with an injected HTTP transport.
func NewClientWithHTTPDoer(baseURL string, httpClient HTTPDoer) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// CalculateRoute requests a route for (origin, destination, profile).
// Any failure (network error, non-success status, code other than "Ok",
// or a missing route) is returned as an error; callers treat it as
// "no route available now" rather than a fatal condition. On success the
// duration is rounded up to the nearest whole minute and the distance to one
// decimal kilometer.
func (c *Client) CalculateRoute(ctx context.Context, request RouteRequest) (*RouteResult, error) {
	url := fmt.Sprintf("%s/route/v1/%s/%.6f,%.6f;%.6f,%.6f?overview=full&geometries=polyline",
		c.baseURL, profileForMode(request.Mode),
		request.Origin.Longitude, request.Origin.Latitude,
		request.Destination.Longitude, request.Destination.Latitude)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("routing service error %d: %s", resp.StatusCode, string(body))
	}

	var response osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if response.Code != "Ok" {
		return nil, fmt.Errorf("routing service returned code %q", response.Code)
	}
	if len(response.Routes) == 0 {
		return nil, fmt.Errorf("no routes found in response")
	}

	route := response.Routes[0]
	return &RouteResult{
		Polyline:        route.Geometry,
		DurationMinutes: int(math.Ceil(route.Duration / 60)),
		DistanceKm:      math.Round(route.Distance/1000*10) / 10,
	}, nil
}

// profileForMode maps a movement mode to an OSRM routing profile.
func profileForMode(mode string) string {
	if mode == "walking" {
		return "foot"
	}
	return "driving"
}
