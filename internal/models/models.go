// Package models defines shared data types
package models

import "time"

// Station is a merged snapshot of one bike-share station: identity and
// position come from the GBFS station_information feed, live counts from
// station_status. Snapshots are replaced wholesale on every feed refresh.
type Station struct {
	ID             string    `json:"station_id"`
	Name           string    `json:"name"`
	Address        string    `json:"address,omitempty"`
	Lat            float64   `json:"lat"`
	Lon            float64   `json:"lon"`
	BikesAvailable int       `json:"bikes_available"`
	DocksAvailable int       `json:"docks_available"`
	IsInstalled    bool      `json:"is_installed"`
	IsRenting      bool      `json:"is_renting"`
	IsReturning    bool      `json:"is_returning"`
	LastUpdated    time.Time `json:"last_updated"`
}

// StoredAddress is a saved address under a label such as "origin" or
// "destination". The pseudonymous storage key is not part of the record;
// only the address store knows it.
type StoredAddress struct {
	Label   string  `json:"label"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Address labels understood by the skill.
const (
	LabelOrigin      = "origin"
	LabelDestination = "destination"
)
