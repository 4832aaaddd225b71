package dialog

import (
	"context"

	"spokesperson/internal/geo"
	"spokesperson/internal/models"
)

// StationSource supplies a fresh station snapshot. Satisfied by
// *feed.Service.
type StationSource interface {
	Refresh() ([]models.Station, error)
}

// Geocoder resolves a free-text address. Satisfied by *geo.Geocoder.
type Geocoder interface {
	Geocode(address string) (geo.Location, error)
}

// AddressBook is the stored-address contract. Satisfied by
// *store.AddressStore.
type AddressBook interface {
	Put(ctx context.Context, platformID, label, address string, lat, lon float64) error
	Get(ctx context.Context, platformID, label string) (models.StoredAddress, bool, error)
	GetAll(ctx context.Context, platformID string) (map[string]models.StoredAddress, error)
	DeleteAll(ctx context.Context, platformID string) error
}
