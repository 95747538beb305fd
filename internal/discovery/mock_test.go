package discovery

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/parmanandojha/aiagentsearch/pkg/google"
)

// mockGoogleClient implements google.Client for testing. Pages are returned
// in order; a page with fail=true returns an error instead.
type mockGoogleClient struct {
	pages        []mockPage
	details      map[string]*google.PlaceDetails
	searchCalls  int
	detailsCalls int
	tokensSeen   []string
}

type mockPage struct {
	places    []google.Place
	nextToken string
	fail      bool
}

func (m *mockGoogleClient) TextSearch(_ context.Context, req google.TextSearchRequest) (*google.TextSearchResponse, error) {
	m.tokensSeen = append(m.tokensSeen, req.PageToken)
	idx := m.searchCalls
	m.searchCalls++

	if idx >= len(m.pages) {
		return &google.TextSearchResponse{Status: google.StatusZeroResults}, nil
	}
	page := m.pages[idx]
	if page.fail {
		return nil, eris.New("google: text search status REQUEST_DENIED")
	}
	status := google.StatusOK
	if len(page.places) == 0 {
		status = google.StatusZeroResults
	}
	return &google.TextSearchResponse{
		Results:       page.places,
		Status:        status,
		NextPageToken: page.nextToken,
	}, nil
}

func (m *mockGoogleClient) Details(_ context.Context, placeID string) (*google.PlaceDetails, error) {
	m.detailsCalls++
	if d, ok := m.details[placeID]; ok {
		return d, nil
	}
	return nil, eris.Errorf("google: details status NOT_FOUND for %s", placeID)
}

func place(id, name, addr string) google.Place {
	return google.Place{PlaceID: id, Name: name, FormattedAddress: addr}
}

func detailsFor(places map[string]string) map[string]*google.PlaceDetails {
	out := make(map[string]*google.PlaceDetails, len(places))
	for id, website := range places {
		out[id] = &google.PlaceDetails{Website: website}
	}
	return out
}
