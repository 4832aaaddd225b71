package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"spokesperson/internal/alexa"
	"spokesperson/internal/api"
	"spokesperson/internal/api/handlers"
	"spokesperson/internal/config"
	"spokesperson/internal/dialog"
	"spokesperson/internal/feed"
	"spokesperson/internal/geo"
	"spokesperson/internal/kv"
	"spokesperson/internal/store"
)

const (
	testAppID  = "amzn1.ask.skill.test-app"
	testUserID = "amzn1.ask.account.TESTUSER"
)

// ---------------------------------------------------------------------------
// Upstream fixtures
// ---------------------------------------------------------------------------

// newGBFSServer serves a minimal GBFS tree: three stations on Grand Avenue,
// the first with 3 bikes and 12 docks.
func newGBFSServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("/gbfs.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"data": {"en": {"feeds": [
			{"name": "station_information", "url": "%s/station_information.json"},
			{"name": "station_status", "url": "%s/station_status.json"}
		]}}}`, srv.URL, srv.URL)
	})
	mux.HandleFunc("/station_information.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"stations": [
			{"station_id": "1", "name": "Ashland Ave & Grand Ave", "lat": 41.891, "lon": -87.666},
			{"station_id": "2", "name": "Damen Ave & Grand Ave", "lat": 41.8915, "lon": -87.677},
			{"station_id": "3", "name": "Wood St & Grand Ave", "lat": 41.8912, "lon": -87.672}
		]}}`)
	})
	mux.HandleFunc("/station_status.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"stations": [
			{"station_id": "1", "num_bikes_available": 3, "num_docks_available": 12, "is_installed": 1, "is_renting": 1, "is_returning": 1, "last_reported": 1700000000},
			{"station_id": "2", "num_bikes_available": 5, "num_docks_available": 10, "is_installed": 1, "is_renting": 1, "is_returning": 1, "last_reported": 1700000000},
			{"station_id": "3", "num_bikes_available": 2, "num_docks_available": 9, "is_installed": 1, "is_renting": 1, "is_returning": 1, "last_reported": 1700000000}
		]}}`)
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// newGeocodeServer resolves every query to one fixed street address.
func newGeocodeServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "OK", "results": [{
			"formatted_address": "1601 W Grand Ave, Chicago, IL 60622, USA",
			"geometry": {"location": {"lat": 41.8912, "lng": -87.667}}
		}]}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		AppID:         testAppID,
		NetworkName:   "Divvy",
		SampleStation: "Ashland Avenue and Grand Avenue",
		DefaultCity:   "Chicago",
		DefaultState:  "IL",
		TimeZone:      "America/Chicago",
	}

	feedSvc := feed.NewService(newGBFSServer(t).URL+"/gbfs.json", 5*time.Second, time.Hour)

	geocoder := geo.NewGeocoder("test-key", 5*time.Second)
	geocoder.BaseURL = newGeocodeServer(t).URL

	addressStore := store.New(kv.NewMemory())

	dlg := dialog.New(feedSvc, geocoder, addressStore, cfg)
	router := api.NewRouter(handlers.NewSkillHandler(dlg, cfg.AppID))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func intentEnvelope(appID, intentName string, slots map[string]string, attributes json.RawMessage) alexa.RequestEnvelope {
	intent := alexa.Intent{Name: intentName, Slots: map[string]alexa.Slot{}}
	for name, value := range slots {
		intent.Slots[name] = alexa.Slot{Name: name, Value: value}
	}
	return alexa.RequestEnvelope{
		Version: "1.0",
		Session: alexa.Session{
			SessionID:   "session-1",
			Application: alexa.Application{ApplicationID: appID},
			User:        alexa.User{UserID: testUserID},
			Attributes:  attributes,
		},
		Request: alexa.Request{Type: alexa.TypeIntentRequest, Intent: intent},
	}
}

func postSkill(t *testing.T, srv *httptest.Server, env alexa.RequestEnvelope) *http.Response {
	t.Helper()
	body, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	resp, err := http.Post(srv.URL+"/skill", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /skill: %v", err)
	}
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) alexa.ResponseEnvelope {
	t.Helper()
	defer resp.Body.Close()
	var env alexa.ResponseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response envelope: %v", err)
	}
	return env
}

func speech(t *testing.T, env alexa.ResponseEnvelope) string {
	t.Helper()
	if env.Response.OutputSpeech == nil {
		t.Fatal("response has no output speech")
	}
	return env.Response.OutputSpeech.SSML
}

func assertStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Errorf("status = %d, want %d", resp.StatusCode, want)
	}
}

// turn posts one intent and fails the test on a non-200 response.
func turn(t *testing.T, srv *httptest.Server, intentName string, slots map[string]string, attributes json.RawMessage) alexa.ResponseEnvelope {
	t.Helper()
	resp := postSkill(t, srv, intentEnvelope(testAppID, intentName, slots, attributes))
	assertStatus(t, resp, http.StatusOK)
	return decodeEnvelope(t, resp)
}

// ---------------------------------------------------------------------------
// Health & root
// ---------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)

	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "OK" {
		t.Errorf("status = %v, want OK", body["status"])
	}
	if body["uptime"] == nil {
		t.Error("missing uptime field")
	}
}

func TestAPIRoot(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)

	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["endpoints"] == nil {
		t.Error("missing endpoints field")
	}
}

// ---------------------------------------------------------------------------
// Webhook envelope handling
// ---------------------------------------------------------------------------

func TestSkillRejectsUnknownApplication(t *testing.T) {
	srv := newTestServer(t)

	env := intentEnvelope("amzn1.ask.skill.someone-else", "CheckStatusIntent", nil, nil)
	resp := postSkill(t, srv, env)
	defer resp.Body.Close()
	assertStatus(t, resp, http.StatusForbidden)
}

func TestSkillRejectsMalformedBody(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/skill", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("POST /skill: %v", err)
	}
	defer resp.Body.Close()
	assertStatus(t, resp, http.StatusBadRequest)
}

func TestSkillLaunch(t *testing.T) {
	srv := newTestServer(t)

	env := alexa.RequestEnvelope{
		Version: "1.0",
		Session: alexa.Session{
			Application: alexa.Application{ApplicationID: testAppID},
			User:        alexa.User{UserID: testUserID},
		},
		Request: alexa.Request{Type: alexa.TypeLaunchRequest},
	}
	resp := postSkill(t, srv, env)
	assertStatus(t, resp, http.StatusOK)

	out := decodeEnvelope(t, resp)
	if !strings.Contains(speech(t, out), "Divvy station") {
		t.Errorf("speech = %q", speech(t, out))
	}
}

// ---------------------------------------------------------------------------
// End-to-end voice flows against the fixture feed
// ---------------------------------------------------------------------------

func TestStationStatusEndToEnd(t *testing.T) {
	srv := newTestServer(t)

	out := turn(t, srv, "CheckStatusIntent", map[string]string{
		"station_name": "ashland avenue and grand avenue",
	}, nil)

	got := speech(t, out)
	if !strings.Contains(got, "3 bikes") || !strings.Contains(got, "12 docks") {
		t.Errorf("speech = %q, want 3 bikes and 12 docks", got)
	}
	if !out.Response.ShouldEndSession {
		t.Error("status check should end the session")
	}
}

func TestStreetListingEndToEnd(t *testing.T) {
	srv := newTestServer(t)

	out := turn(t, srv, "ListStationIntent", map[string]string{"street_name": "grand"}, nil)

	got := speech(t, out)
	if !strings.Contains(got, "3 stations on grand") {
		t.Fatalf("speech = %q, want 3 stations on grand", got)
	}

	// Stations must be listed in feed order.
	ashland := strings.Index(got, "ashland")
	damen := strings.Index(got, "damen")
	wood := strings.Index(got, "wood")
	if ashland < 0 || damen < 0 || wood < 0 || ashland > damen || damen > wood {
		t.Errorf("speech = %q, stations out of feed order", got)
	}
}

func TestAddAddressThenCommuteEndToEnd(t *testing.T) {
	srv := newTestServer(t)

	out := turn(t, srv, "AddAddressIntent", map[string]string{"which_address": "home"}, nil)
	if !strings.Contains(speech(t, out), "street number and name") {
		t.Fatalf("speech = %q, want street prompt", speech(t, out))
	}

	out = turn(t, srv, "AddAddressIntent", map[string]string{
		"address_number": "1601",
		"direction":      "west",
		"address_street": "grand avenue",
	}, out.SessionAttributes)
	if !strings.Contains(speech(t, out), "zip code") {
		t.Fatalf("speech = %q, want zip prompt", speech(t, out))
	}

	out = turn(t, srv, "AMAZON.NextIntent", nil, out.SessionAttributes)
	if !strings.Contains(speech(t, out), "Do you want to set your origin address") {
		t.Fatalf("speech = %q, want confirmation question", speech(t, out))
	}

	out = turn(t, srv, "AMAZON.YesIntent", nil, out.SessionAttributes)
	if !strings.Contains(speech(t, out), "saved your origin address") {
		t.Fatalf("speech = %q, want save confirmation", speech(t, out))
	}

	// A later session can now check the commute from the stored address.
	out = turn(t, srv, "CheckCommuteIntent", nil, nil)
	got := speech(t, out)
	if !strings.Contains(got, "near your origin") {
		t.Errorf("speech = %q, want the origin leg reported", got)
	}
	// Nearest station to the geocoded address is Ashland & Grand.
	if !strings.Contains(got, "3 bikes") {
		t.Errorf("speech = %q, want the nearest station's bike count", got)
	}
}
