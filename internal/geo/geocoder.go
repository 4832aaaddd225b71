package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrGeocodeFailed indicates an address could not be resolved to a single
// location. The user is asked to repeat or rephrase.
var ErrGeocodeFailed = errors.New("geo: could not resolve address")

const defaultGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Location is a resolved address.
type Location struct {
	Lat     float64
	Lon     float64
	Address string // provider's standardized form of the input
}

// Geocoder resolves free-text addresses via the Google Maps Geocoding API.
// The provider is good at spelling correction when street names get garbled
// by the speech-to-text engine.
type Geocoder struct {
	// BaseURL may be overridden in tests.
	BaseURL string

	apiKey string
	client *http.Client
}

// NewGeocoder creates a geocoder using the given API key.
func NewGeocoder(apiKey string, timeout time.Duration) *Geocoder {
	return &Geocoder{
		BaseURL: defaultGeocodeURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Geocode resolves an address string to a location. Zero results, or
// multiple results spanning distinct localities, fail with ErrGeocodeFailed.
func (g *Geocoder) Geocode(address string) (Location, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("key", g.apiKey)

	resp, err := g.client.Get(g.BaseURL + "?" + params.Encode())
	if err != nil {
		return Location{}, fmt.Errorf("fetching geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var result geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Location{}, fmt.Errorf("parsing geocode response: %w", err)
	}

	if result.Status == "ZERO_RESULTS" || len(result.Results) == 0 {
		return Location{}, fmt.Errorf("%w: no results for %q", ErrGeocodeFailed, address)
	}
	if result.Status != "OK" {
		return Location{}, fmt.Errorf("geocoder status %s", result.Status)
	}
	if ambiguous(result.Results) {
		return Location{}, fmt.Errorf("%w: %q matches multiple localities", ErrGeocodeFailed, address)
	}

	first := result.Results[0]
	formatted := strings.TrimSuffix(first.FormattedAddress, ", USA")
	return Location{
		Lat:     first.Geometry.Location.Lat,
		Lon:     first.Geometry.Location.Lng,
		Address: formatted,
	}, nil
}

// ambiguous reports whether multiple results point at clearly different
// places. Results in the same locality (everything after the street line)
// are fine; the first one wins.
func ambiguous(results []geocodeResult) bool {
	if len(results) < 2 {
		return false
	}
	first := locality(results[0].FormattedAddress)
	for _, r := range results[1:] {
		if locality(r.FormattedAddress) != first {
			return true
		}
	}
	return false
}

func locality(formatted string) string {
	if i := strings.Index(formatted, ","); i >= 0 {
		return strings.TrimSpace(formatted[i+1:])
	}
	return formatted
}

// API response structures
type geocodeResult struct {
	FormattedAddress string `json:"formatted_address"`
	Geometry         struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

type geocodeResponse struct {
	Status  string          `json:"status"`
	Results []geocodeResult `json:"results"`
}
