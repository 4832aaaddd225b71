package alexa_test

import (
	"encoding/json"
	"strings"
	"testing"

	"spokesperson/internal/alexa"
)

func TestEnvelopeSpeechAndReprompt(t *testing.T) {
	env := alexa.Reply{
		Speech:   "There are 3 bikes.",
		Reprompt: "What station?",
	}.Envelope()

	if env.Version != "1.0" {
		t.Errorf("Version = %q", env.Version)
	}
	if env.Response.OutputSpeech.SSML != "<speak>There are 3 bikes.</speak>" {
		t.Errorf("SSML = %q", env.Response.OutputSpeech.SSML)
	}
	if env.Response.Reprompt == nil || !strings.Contains(env.Response.Reprompt.OutputSpeech.SSML, "What station?") {
		t.Errorf("Reprompt = %+v", env.Response.Reprompt)
	}
	if env.Response.ShouldEndSession {
		t.Error("session should stay open by default")
	}
}

func TestEnvelopeOmitsEmptyParts(t *testing.T) {
	env := alexa.Reply{Speech: "Okay, exiting.", EndSession: true}.Envelope()

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, field := range []string{"card", "reprompt", "sessionAttributes"} {
		if strings.Contains(string(data), field) {
			t.Errorf("envelope should omit %q: %s", field, data)
		}
	}
}

func TestEnvelopeRoundTripsAttributes(t *testing.T) {
	type state struct {
		Flow string `json:"flow"`
	}
	env := alexa.Reply{Speech: "ok", Attributes: state{Flow: "add_address"}}.Envelope()

	var got state
	if err := json.Unmarshal(env.SessionAttributes, &got); err != nil {
		t.Fatalf("unmarshal attributes: %v", err)
	}
	if got.Flow != "add_address" {
		t.Errorf("Flow = %q", got.Flow)
	}
}
