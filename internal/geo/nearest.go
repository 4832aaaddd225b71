package geo

import (
	"sort"

	"spokesperson/internal/models"
)

// StationDistance is a station with its distance from a reference point.
type StationDistance struct {
	models.Station
	Meters float64
}

// Nearest ranks stations by increasing great-circle distance from a point.
// Stations in the exclude set, and stations that are not installed and
// renting, are left out. Pass nil to exclude nothing.
func Nearest(lat, lon float64, stations []models.Station, exclude map[string]bool) []StationDistance {
	var ranked []StationDistance
	for _, sta := range stations {
		if exclude[sta.ID] {
			continue
		}
		if !sta.IsInstalled || !sta.IsRenting {
			continue
		}
		ranked = append(ranked, StationDistance{
			Station: sta,
			Meters:  Haversine(lat, lon, sta.Lat, sta.Lon),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].Meters < ranked[j].Meters
	})

	return ranked
}
