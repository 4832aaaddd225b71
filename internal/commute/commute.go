// Package commute answers "how's my commute": it ranks stations around the
// stored origin and destination and applies the one-hop fallback policy when
// the nearest station has nothing to offer.
package commute

import (
	"fmt"

	"spokesperson/internal/feed"
	"spokesperson/internal/geo"
	"spokesperson/internal/models"
)

// lowAvailability is the count below which the next-nearest station is
// mentioned as an advisory even though the nearest is not empty.
const lowAvailability = 3

// Quantity names what a commute leg cares about: bikes to pick up at the
// origin, docks to drop into at the destination.
type Quantity string

const (
	QuantityBikes Quantity = "bikes"
	QuantityDocks Quantity = "docks"
)

// Alternative is the next-nearest station's status, reported alongside the
// nearest when it is empty (fallback) or nearly so (advisory).
type Alternative struct {
	Station models.Station
	Count   int
}

// Leg is the evaluated status for one end of the commute.
type Leg struct {
	Label    string
	Quantity Quantity
	Station  models.Station
	Count    int

	// Next is set when the nearest station warranted a second opinion.
	Next *Alternative

	// FallbackUsed is true when the nearest station's count was zero and
	// Next carries the next-nearest station instead. Only one fallback hop
	// is performed; if the second station is also empty it is still
	// reported as-is.
	FallbackUsed bool
}

// Result is the read-only outcome of a commute evaluation. Legs are nil when
// the corresponding address is not stored; evaluation is graceful about a
// user who has only saved one end of the commute.
type Result struct {
	Origin       *Leg
	Destination  *Leg
	FallbackUsed bool
}

// Empty reports whether no leg could be evaluated because no address
// was stored.
func (r Result) Empty() bool {
	return r.Origin == nil && r.Destination == nil
}

// Evaluate computes both commute legs from whichever addresses are stored.
// The stations slice must be a fresh feed snapshot.
func Evaluate(stations []models.Station, origin, destination *models.StoredAddress) (Result, error) {
	var res Result

	if origin != nil {
		leg, err := evaluateLeg(stations, *origin, QuantityBikes)
		if err != nil {
			return Result{}, err
		}
		res.Origin = leg
		res.FallbackUsed = res.FallbackUsed || leg.FallbackUsed
	}
	if destination != nil {
		leg, err := evaluateLeg(stations, *destination, QuantityDocks)
		if err != nil {
			return Result{}, err
		}
		res.Destination = leg
		res.FallbackUsed = res.FallbackUsed || leg.FallbackUsed
	}
	return res, nil
}

func evaluateLeg(stations []models.Station, addr models.StoredAddress, q Quantity) (*Leg, error) {
	ranked := geo.Nearest(addr.Lat, addr.Lon, stations, nil)
	if len(ranked) == 0 {
		return nil, fmt.Errorf("%w: no stations in service near %s", feed.ErrFeedUnavailable, addr.Label)
	}

	nearest := ranked[0]
	leg := &Leg{
		Label:    addr.Label,
		Quantity: q,
		Station:  nearest.Station,
		Count:    count(nearest.Station, q),
	}

	if len(ranked) < 2 {
		return leg, nil
	}

	if leg.Count == 0 {
		// One fallback hop: re-rank excluding the empty station and report
		// both. No further retries even if the second is also empty.
		next := geo.Nearest(addr.Lat, addr.Lon, stations, map[string]bool{nearest.ID: true})
		if len(next) > 0 {
			leg.Next = &Alternative{
				Station: next[0].Station,
				Count:   count(next[0].Station, q),
			}
			leg.FallbackUsed = true
		}
	} else if leg.Count < lowAvailability {
		second := ranked[1]
		leg.Next = &Alternative{
			Station: second.Station,
			Count:   count(second.Station, q),
		}
	}

	return leg, nil
}

func count(sta models.Station, q Quantity) int {
	if q == QuantityDocks {
		return sta.DocksAvailable
	}
	return sta.BikesAvailable
}
