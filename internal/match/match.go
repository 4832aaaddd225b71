// Package match resolves spoken station and street names against the live
// station list. Station names are conventionally cross streets ("Ashland Ave
// & Grand Ave"), while transcribed speech arrives fully spelled out
// ("ashland avenue and grand avenue"), so matching normalizes both sides.
package match

import (
	"errors"
	"fmt"
	"strings"

	"spokesperson/internal/models"
)

// ErrNoMatch indicates nothing in the feed resembles the query.
// The user is offered a retry prompt.
var ErrNoMatch = errors.New("match: no station matches query")

// ErrAmbiguousMatch indicates multiple stations match equally well.
// The dialog layer must disambiguate with the user.
var ErrAmbiguousMatch = errors.New("match: multiple stations match query")

// AmbiguousMatchError carries the tied candidates so the dialog layer can
// read them back to the user. It matches ErrAmbiguousMatch under errors.Is.
type AmbiguousMatchError struct {
	Candidates []models.Station
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("match: %d stations match query", len(e.Candidates))
}

func (e *AmbiguousMatchError) Is(target error) bool {
	return target == ErrAmbiguousMatch
}

// Result is the outcome of matching one query against the feed.
type Result struct {
	// Exact is set when the query names a full station name verbatim
	// (ignoring case, punctuation, and abbreviations).
	Exact *models.Station

	// Candidates are stations whose names contain every significant token
	// of the query, in feed order. More than one means the query is
	// ambiguous and the caller must ask the user which one they meant.
	Candidates []models.Station

	// StreetMatches are all stations on the named street, in feed order.
	// Populated only when the query reduces to a single street name;
	// used for the "what stations are on X" listing.
	StreetMatches []models.Station
}

// Single reduces a Result to one station: the exact match, or the only
// candidate. Multiple candidates produce an AmbiguousMatchError.
func (r Result) Single() (models.Station, error) {
	if r.Exact != nil {
		return *r.Exact, nil
	}
	switch len(r.Candidates) {
	case 1:
		return r.Candidates[0], nil
	case 0:
		return models.Station{}, ErrNoMatch
	default:
		return models.Station{}, &AmbiguousMatchError{Candidates: r.Candidates}
	}
}

// Match resolves a spoken query against the station list. It fails with
// ErrNoMatch when nothing qualifies.
func Match(query string, stations []models.Station) (Result, error) {
	var res Result

	qn := normalize(query)
	if qn == "" {
		return res, ErrNoMatch
	}

	// Exact full-name match first.
	for i := range stations {
		if normalize(stations[i].Name) == qn {
			res.Exact = &stations[i]
			return res, nil
		}
	}

	qtokens := significantTokens(qn)
	if len(qtokens) == 0 {
		return res, ErrNoMatch
	}

	// Cross-street match: a station qualifies when every significant query
	// token appears in its name. Feed order is preserved; ties are the
	// caller's problem.
	for _, sta := range stations {
		if containsAll(tokenSet(normalize(sta.Name)), qtokens) {
			res.Candidates = append(res.Candidates, sta)
		}
	}

	// A single street token also produces the street listing.
	if len(qtokens) == 1 {
		street := qtokens[0]
		for _, sta := range stations {
			if tokenSet(normalize(sta.Name))[street] {
				res.StreetMatches = append(res.StreetMatches, sta)
			}
		}
	}

	if len(res.Candidates) == 0 && len(res.StreetMatches) == 0 {
		return res, ErrNoMatch
	}
	return res, nil
}

// abbrev maps the abbreviations used in station names to the full words the
// speech platform transcribes.
var abbrev = map[string]string{
	"st":   "street",
	"pl":   "place",
	"ave":  "avenue",
	"blvd": "boulevard",
	"dr":   "drive",
	"rd":   "road",
	"ln":   "lane",
	"pkwy": "parkway",
	"ter":  "terrace",
	"ct":   "court",
	"mt":   "mount",
}

var directions = map[string]string{
	"n": "north",
	"w": "west",
	"s": "south",
	"e": "east",
}

// Words that carry no station identity: connectives, street types, and
// compass directions. "ashland avenue" and "north ashland" both reduce to
// the single street token "ashland".
var insignificant = map[string]bool{
	"and": true, "the": true, "at": true, "station": true,
	"street": true, "place": true, "avenue": true, "boulevard": true,
	"drive": true, "road": true, "lane": true, "parkway": true,
	"terrace": true, "court": true, "mount": true,
	"north": true, "west": true, "south": true, "east": true,
}

// normalize lowercases, strips punctuation, and expands abbreviations so that
// feed names and transcribed speech compare equal.
func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "/", " ")
	s = strings.ReplaceAll(s, "-", " ")

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		}
	}

	fields := strings.Fields(b.String())
	for i, f := range fields {
		if full, ok := abbrev[f]; ok {
			fields[i] = full
		} else if full, ok := directions[f]; ok {
			fields[i] = full
		}
	}
	return strings.Join(fields, " ")
}

// significantTokens returns the identity-bearing tokens of a normalized query.
func significantTokens(normalized string) []string {
	var tokens []string
	for _, f := range strings.Fields(normalized) {
		if !insignificant[f] {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// tokenSet returns the set of all tokens in a normalized name.
func tokenSet(normalized string) map[string]bool {
	set := make(map[string]bool)
	for _, f := range strings.Fields(normalized) {
		set[f] = true
	}
	return set
}

func containsAll(set map[string]bool, tokens []string) bool {
	for _, t := range tokens {
		if !set[t] {
			return false
		}
	}
	return true
}

// Spoken expands a station name into a form the voice platform can read
// aloud naturally: "Ashland Ave & Grand Ave" becomes
// "ashland avenue and grand avenue".
func Spoken(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, "&", "and")
	s = strings.ReplaceAll(s, "(*)", "")

	fields := strings.Fields(s)
	for i, f := range fields {
		trimmed := strings.Trim(f, ".,")
		if full, ok := abbrev[trimmed]; ok {
			fields[i] = full
		} else if full, ok := directions[trimmed]; ok {
			fields[i] = full
		}
	}
	return strings.Join(fields, " ")
}
