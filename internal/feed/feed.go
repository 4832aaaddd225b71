// Package feed fetches the bike-share network's live station list from its
// GBFS endpoints. Every station lookup refreshes the whole list, since bike
// and dock counts are time-sensitive; only the feed-URL directory is cached.
package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"spokesperson/internal/cache"
	"spokesperson/internal/models"
)

// ErrFeedUnavailable indicates the station feed could not be fetched or
// produced no usable stations. The user is told to try again later.
var ErrFeedUnavailable = errors.New("feed: station feed unavailable")

const discoveryCacheKey = "gbfs"

// Service fetches and merges the GBFS station_information and station_status
// feeds into station snapshots.
type Service struct {
	discoveryURL string
	language     string
	client       *http.Client
	urls         *cache.Cache[map[string]string]
}

// NewService creates a feed service reading from the given GBFS discovery URL.
func NewService(discoveryURL string, timeout, discoveryTTL time.Duration) *Service {
	return &Service{
		discoveryURL: discoveryURL,
		language:     "en",
		client:       &http.Client{Timeout: timeout},
		urls:         cache.New[map[string]string](discoveryTTL),
	}
}

// Refresh fetches a fresh station snapshot. A record that cannot be parsed or
// merged is skipped rather than aborting the whole feed, but an empty result
// is ErrFeedUnavailable.
func (s *Service) Refresh() ([]models.Station, error) {
	urls, err := s.feedURLs()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}

	info, err := s.fetchInformation(urls["station_information"])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	statuses, err := s.fetchStatuses(urls["station_status"])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}

	stations := merge(info, statuses)
	if len(stations) == 0 {
		return nil, fmt.Errorf("%w: no usable station records", ErrFeedUnavailable)
	}
	return stations, nil
}

// feedURLs reads the GBFS discovery document, which maps feed names to URLs.
// The directory is cached; it names the sub-feeds but carries no live counts.
func (s *Service) feedURLs() (map[string]string, error) {
	if cached, ok := s.urls.Get(discoveryCacheKey); ok {
		return cached, nil
	}

	var result discoveryResponse
	if err := s.getJSON(s.discoveryURL, &result); err != nil {
		return nil, fmt.Errorf("fetching discovery document: %w", err)
	}

	lang, ok := result.Data[s.language]
	if !ok {
		return nil, fmt.Errorf("discovery document has no %q feeds", s.language)
	}

	urls := make(map[string]string, len(lang.Feeds))
	for _, f := range lang.Feeds {
		urls[f.Name] = f.URL
	}
	for _, name := range []string{"station_information", "station_status"} {
		if urls[name] == "" {
			return nil, fmt.Errorf("discovery document missing %s feed", name)
		}
	}

	s.urls.Set(discoveryCacheKey, urls)
	return urls, nil
}

func (s *Service) fetchInformation(url string) (map[string]stationInformation, error) {
	var result informationResponse
	if err := s.getJSON(url, &result); err != nil {
		return nil, fmt.Errorf("fetching station information: %w", err)
	}

	info := make(map[string]stationInformation, len(result.Data.Stations))
	for _, sta := range result.Data.Stations {
		if sta.StationID == "" || sta.Name == "" {
			continue
		}
		info[sta.StationID] = sta
	}
	return info, nil
}

func (s *Service) fetchStatuses(url string) ([]stationStatus, error) {
	var result statusResponse
	if err := s.getJSON(url, &result); err != nil {
		return nil, fmt.Errorf("fetching station status: %w", err)
	}
	return result.Data.Stations, nil
}

func (s *Service) getJSON(url string, v any) error {
	resp, err := s.client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("feed returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// merge joins status records with their information records by station id.
// Statuses without a matching information record, and records with negative
// counts, are dropped.
func merge(info map[string]stationInformation, statuses []stationStatus) []models.Station {
	var stations []models.Station
	for _, st := range statuses {
		inf, ok := info[st.StationID]
		if !ok {
			continue
		}
		if st.NumBikesAvailable < 0 || st.NumDocksAvailable < 0 || st.NumEbikesAvailable < 0 {
			continue
		}
		stations = append(stations, models.Station{
			ID:      st.StationID,
			Name:    inf.Name,
			Address: inf.Address,
			Lat:     inf.Lat,
			Lon:     inf.Lon,
			// Electric bikes count toward the bike total where the
			// network reports them.
			BikesAvailable: st.NumBikesAvailable + st.NumEbikesAvailable,
			DocksAvailable: st.NumDocksAvailable,
			IsInstalled:    bool(st.IsInstalled),
			IsRenting:      bool(st.IsRenting),
			IsReturning:    bool(st.IsReturning),
			LastUpdated:    time.Unix(st.LastReported, 0).UTC(),
		})
	}
	return stations
}

// API response structures
type discoveryResponse struct {
	Data map[string]struct {
		Feeds []struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"feeds"`
	} `json:"data"`
}

type stationInformation struct {
	StationID string  `json:"station_id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

type informationResponse struct {
	Data struct {
		Stations []stationInformation `json:"stations"`
	} `json:"data"`
}

type stationStatus struct {
	StationID          string   `json:"station_id"`
	NumBikesAvailable  int      `json:"num_bikes_available"`
	NumEbikesAvailable int      `json:"num_ebikes_available"`
	NumDocksAvailable  int      `json:"num_docks_available"`
	IsInstalled        gbfsBool `json:"is_installed"`
	IsRenting          gbfsBool `json:"is_renting"`
	IsReturning        gbfsBool `json:"is_returning"`
	LastReported       int64    `json:"last_reported"`
}

type statusResponse struct {
	Data struct {
		Stations []stationStatus `json:"stations"`
	} `json:"data"`
}

// gbfsBool handles flags that are booleans in GBFS 3.x but 0/1 integers in
// the 2.x feeds most networks still publish.
type gbfsBool bool

func (b *gbfsBool) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true", "1":
		*b = true
	case "false", "0", "null":
		*b = false
	default:
		return fmt.Errorf("invalid boolean value %q", data)
	}
	return nil
}
