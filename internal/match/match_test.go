package match_test

import (
	"errors"
	"testing"

	"spokesperson/internal/match"
	"spokesperson/internal/models"
)

func testFeed() []models.Station {
	return []models.Station{
		{ID: "1", Name: "Ashland Ave & Grand Ave", BikesAvailable: 3, DocksAvailable: 12},
		{ID: "2", Name: "Damen Ave & Grand Ave", BikesAvailable: 0, DocksAvailable: 15},
		{ID: "3", Name: "Wood St & Milwaukee Ave", BikesAvailable: 7, DocksAvailable: 8},
		{ID: "4", Name: "Grand Ave & State St", BikesAvailable: 2, DocksAvailable: 20},
		{ID: "5", Name: "N Damen Ave & Augusta Blvd", BikesAvailable: 4, DocksAvailable: 11},
	}
}

func TestExactSelfMatch(t *testing.T) {
	feed := testFeed()
	for _, sta := range feed {
		res, err := match.Match(sta.Name, feed)
		if err != nil {
			t.Fatalf("Match(%q): %v", sta.Name, err)
		}
		if res.Exact == nil || res.Exact.ID != sta.ID {
			t.Errorf("Match(%q).Exact = %+v, want station %s", sta.Name, res.Exact, sta.ID)
		}
	}
}

func TestExactMatchFromSpeech(t *testing.T) {
	// Speech arrives fully spelled out, the feed abbreviates.
	res, err := match.Match("ashland avenue and grand avenue", testFeed())
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if res.Exact == nil || res.Exact.ID != "1" {
		t.Fatalf("Exact = %+v, want station 1", res.Exact)
	}
}

func TestCrossStreetTokensAnyOrder(t *testing.T) {
	res, err := match.Match("grand avenue and damen avenue", testFeed())
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	sta, err := res.Single()
	if err != nil {
		t.Fatalf("Single: %v", err)
	}
	if sta.ID != "2" {
		t.Errorf("got station %s, want 2", sta.ID)
	}
}

func TestStreetListingInFeedOrder(t *testing.T) {
	res, err := match.Match("Grand", testFeed())
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	want := []string{"1", "2", "4"}
	if len(res.StreetMatches) != len(want) {
		t.Fatalf("got %d street matches, want %d", len(res.StreetMatches), len(want))
	}
	for i, id := range want {
		if res.StreetMatches[i].ID != id {
			t.Errorf("StreetMatches[%d] = %s, want %s (feed order)", i, res.StreetMatches[i].ID, id)
		}
	}
}

func TestDirectionPrefixIgnored(t *testing.T) {
	res, err := match.Match("damen avenue and augusta boulevard", testFeed())
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	sta, err := res.Single()
	if err != nil {
		t.Fatalf("Single: %v", err)
	}
	if sta.ID != "5" {
		t.Errorf("got station %s, want 5", sta.ID)
	}
}

func TestAmbiguousCandidates(t *testing.T) {
	res, err := match.Match("Damen", testFeed())
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(res.Candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(res.Candidates))
	}

	_, err = res.Single()
	if !errors.Is(err, match.ErrAmbiguousMatch) {
		t.Fatalf("expected ErrAmbiguousMatch, got %v", err)
	}
	var ambErr *match.AmbiguousMatchError
	if !errors.As(err, &ambErr) || len(ambErr.Candidates) != 2 {
		t.Fatalf("expected AmbiguousMatchError with 2 candidates, got %v", err)
	}
}

func TestNoMatch(t *testing.T) {
	for _, query := range []string{"california avenue", "zzz", "", "the and at"} {
		_, err := match.Match(query, testFeed())
		if !errors.Is(err, match.ErrNoMatch) {
			t.Errorf("Match(%q): expected ErrNoMatch, got %v", query, err)
		}
	}
}

func TestSpoken(t *testing.T) {
	cases := map[string]string{
		"Ashland Ave & Grand Ave":   "ashland avenue and grand avenue",
		"N Damen Ave & Augusta Blvd": "north damen avenue and augusta boulevard",
		"Wood St & Milwaukee Ave (*)": "wood street and milwaukee avenue",
	}
	for in, want := range cases {
		if got := match.Spoken(in); got != want {
			t.Errorf("Spoken(%q) = %q, want %q", in, got, want)
		}
	}
}
