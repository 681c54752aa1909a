package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/JBLarson/dayAndNight/internal/config"
	"golang.org/x/time/rate"
)

// ErrUnavailable covers every way the upstream provider can fail: network
// error, timeout, non-200 status, unparseable body. Callers see one condition,
// the log sees the detail.
var ErrUnavailable = errors.New("geocoding service unavailable")

// Candidate is one provider-returned place match, structured fields only.
type Candidate struct {
	DisplayName string
	Lat         float64
	Lon         float64
	BoundingBox []string
}

// UpstreamResult carries the parsed candidates alongside the provider's
// response body verbatim. The raw bytes are what gets cached and replayed.
type UpstreamResult struct {
	Candidates []Candidate
	Raw        json.RawMessage
}

type nominatimPlace struct {
	DisplayName string   `json:"display_name"`
	Lat         string   `json:"lat"`
	Lon         string   `json:"lon"`
	BoundingBox []string `json:"boundingbox"`
}

// NominatimClient queries the OpenStreetMap Nominatim search endpoint. It
// never caches; it only enforces the provider's usage policy: a descriptive
// User-Agent and an absolute request rate of one per second.
type NominatimClient struct {
	baseURL    string
	userAgent  string
	maxResults int
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewNominatimClient(cfg config.GeocoderConfig) *NominatimClient {
	return &NominatimClient{
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		maxResults: cfg.MaxResults,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), 1),
	}
}

// Resolve performs one upstream search and returns the provider's candidates
// in its own relevance order, possibly empty.
func (c *NominatimClient) Resolve(ctx context.Context, query string) (*UpstreamResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %v", ErrUnavailable, err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", strconv.Itoa(c.maxResults))
	u := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", ErrUnavailable, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: upstream returned HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	var places []nominatimPlace
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
	}

	candidates := make([]Candidate, 0, len(places))
	for _, p := range places {
		// Nominatim serializes coordinates as strings.
		lat, _ := strconv.ParseFloat(p.Lat, 64)
		lon, _ := strconv.ParseFloat(p.Lon, 64)
		candidates = append(candidates, Candidate{
			DisplayName: p.DisplayName,
			Lat:         lat,
			Lon:         lon,
			BoundingBox: p.BoundingBox,
		})
	}

	return &UpstreamResult{Candidates: candidates, Raw: body}, nil
}
