package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/parmanandojha/aiagentsearch/internal/resilience"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// Status is the request-level status reported by the Places API.
type Status string

const (
	StatusOK          Status = "OK"
	StatusZeroResults Status = "ZERO_RESULTS"
)

// Client performs Google Places API operations.
type Client interface {
	TextSearch(ctx context.Context, req TextSearchRequest) (*TextSearchResponse, error)
	Details(ctx context.Context, placeID string) (*PlaceDetails, error)
}

// TextSearchRequest is a paginated text search. PageToken is empty for the
// first page and comes from the previous response afterwards.
type TextSearchRequest struct {
	Query     string
	PageToken string
}

// TextSearchResponse is one page of text search results.
type TextSearchResponse struct {
	Results       []Place `json:"results"`
	Status        Status  `json:"status"`
	NextPageToken string  `json:"next_page_token"`
	ErrorMessage  string  `json:"error_message"`
}

// Place is a business returned by text search.
type Place struct {
	PlaceID          string `json:"place_id"`
	Name             string `json:"name"`
	FormattedAddress string `json:"formatted_address"`
}

// PlaceDetails holds the detail fields fetched per accepted place.
type PlaceDetails struct {
	Name    string `json:"name"`
	Website string `json:"website"`
	Phone   string `json:"international_phone_number"`
}

type detailsResponse struct {
	Result       PlaceDetails `json:"result"`
	Status       Status       `json:"status"`
	ErrorMessage string       `json:"error_message"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithRetryPolicy overrides the transient-failure retry policy.
func WithRetryPolicy(p resilience.Policy) Option {
	return func(c *httpClient) {
		c.retry = p
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	retry   resilience.Policy
}

// NewClient creates a Google Places API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		retry: resilience.DefaultPolicy(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) TextSearch(ctx context.Context, req TextSearchRequest) (*TextSearchResponse, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	if req.PageToken != "" {
		params.Set("pagetoken", req.PageToken)
	} else {
		params.Set("query", req.Query)
	}

	var result TextSearchResponse
	if err := c.getJSON(ctx, "/textsearch/json", params, &result); err != nil {
		return nil, err
	}

	if result.Status != StatusOK && result.Status != StatusZeroResults {
		if result.ErrorMessage != "" {
			return nil, eris.Errorf("google: text search status %s: %s", result.Status, result.ErrorMessage)
		}
		return nil, eris.Errorf("google: text search status %s", result.Status)
	}

	return &result, nil
}

func (c *httpClient) Details(ctx context.Context, placeID string) (*PlaceDetails, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("place_id", placeID)
	params.Set("fields", "name,website,formatted_address,international_phone_number")

	var result detailsResponse
	if err := c.getJSON(ctx, "/details/json", params, &result); err != nil {
		return nil, err
	}

	if result.Status != StatusOK {
		return nil, eris.Errorf("google: details status %s for %s", result.Status, placeID)
	}

	return &result.Result, nil
}

func (c *httpClient) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	return resilience.Do(ctx, c.retry, "google"+path, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
		if err != nil {
			return eris.Wrap(err, "google: create request")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return resilience.Transient(eris.Wrap(err, "google: send request"), 0)
		}
		defer resp.Body.Close() //nolint:errcheck

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return eris.Wrap(err, "google: read response")
		}

		if resp.StatusCode != http.StatusOK {
			err = eris.Errorf("google: unexpected status %d: %s", resp.StatusCode, string(body))
			if resilience.RetryableStatus(resp.StatusCode) {
				return resilience.Transient(err, resp.StatusCode)
			}
			return err
		}

		if err := json.Unmarshal(body, out); err != nil {
			return eris.Wrap(err, "google: unmarshal response")
		}

		return nil
	})
}
