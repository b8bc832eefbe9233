// Package geocode implements the location collaborator: a fixed device
// position (this client has no GPS of its own) plus reverse geocoding via
// an OSM Nominatim-compatible endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"cleancity/collab"
)

// Provider implements collab.LocationProvider. A nil fix means the device
// position is unavailable, which callers treat as "no location", not as an
// error.
type Provider struct {
	fix        *collab.Coordinates
	geocodeURL string
	httpClient *http.Client
}

var _ collab.LocationProvider = (*Provider)(nil)

// NewProvider builds a provider. fix may be nil; geocodeURL may be empty to
// disable reverse geocoding.
func NewProvider(fix *collab.Coordinates, geocodeURL string) *Provider {
	return &Provider{
		fix:        fix,
		geocodeURL: geocodeURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (p *Provider) Current(ctx context.Context) (*collab.Coordinates, error) {
	if p.fix == nil {
		return nil, nil
	}
	cp := *p.fix
	return &cp, nil
}

// reverseResponse is the subset of the Nominatim reverse result we use.
type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		Road    string `json:"road"`
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"address"`
}

func (p *Provider) AddressFor(ctx context.Context, lat, lon float64) (*collab.Address, error) {
	if p.geocodeURL == "" {
		return nil, nil
	}

	u := fmt.Sprintf("%s/reverse?format=jsonv2&lat=%s&lon=%s",
		p.geocodeURL,
		url.QueryEscape(fmt.Sprintf("%f", lat)),
		url.QueryEscape(fmt.Sprintf("%f", lon)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "cleancity-client")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reverse geocoding failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("reverse geocoding failed with status %s", resp.Status)
	}

	var out reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode geocoding response: %w", err)
	}

	city := out.Address.City
	if city == "" {
		city = out.Address.Town
	}
	if city == "" {
		city = out.Address.Village
	}

	street := out.Address.Road
	if street == "" {
		street = out.DisplayName
	}

	return &collab.Address{
		Street:  street,
		City:    city,
		State:   out.Address.State,
		Country: out.Address.Country,
	}, nil
}
