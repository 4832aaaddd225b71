// Package alexa defines the voice platform's request and response envelopes.
// The platform delivers an intent name plus slot values and round-trips an
// opaque attributes object between turns; that object is the only place
// multi-turn dialog state lives.
package alexa

import "encoding/json"

// Request types delivered by the platform.
const (
	TypeLaunchRequest       = "LaunchRequest"
	TypeIntentRequest       = "IntentRequest"
	TypeSessionEndedRequest = "SessionEndedRequest"
)

// RequestEnvelope is the JSON body of one voice turn.
type RequestEnvelope struct {
	Version string  `json:"version"`
	Session Session `json:"session"`
	Request Request `json:"request"`
}

// Session carries the platform's session identity and the attributes
// round-tripped from our previous response, if any.
type Session struct {
	New         bool            `json:"new"`
	SessionID   string          `json:"sessionId"`
	Application Application     `json:"application"`
	Attributes  json.RawMessage `json:"attributes,omitempty"`
	User        User            `json:"user"`
}

type Application struct {
	ApplicationID string `json:"applicationId"`
}

type User struct {
	UserID      string `json:"userId"`
	AccessToken string `json:"accessToken,omitempty"`
}

// Request is the turn payload: a launch, an intent with slots, or a session
// end notification.
type Request struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp"`
	Intent    Intent `json:"intent,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Intent is a recognized user intention with its filled slots.
type Intent struct {
	Name  string          `json:"name"`
	Slots map[string]Slot `json:"slots,omitempty"`
}

// Slot returns the spoken value of a named slot, or "" when the platform
// did not fill it.
func (i Intent) Slot(name string) string {
	return i.Slots[name].Value
}

type Slot struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// ResponseEnvelope is the JSON body we return for one voice turn.
type ResponseEnvelope struct {
	Version           string          `json:"version"`
	SessionAttributes json.RawMessage `json:"sessionAttributes,omitempty"`
	Response          Response        `json:"response"`
}

type Response struct {
	OutputSpeech     *OutputSpeech `json:"outputSpeech,omitempty"`
	Card             *Card         `json:"card,omitempty"`
	Reprompt         *Reprompt     `json:"reprompt,omitempty"`
	ShouldEndSession bool          `json:"shouldEndSession"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	SSML string `json:"ssml,omitempty"`
	Text string `json:"text,omitempty"`
}

type Card struct {
	Type    string `json:"type"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

type Reprompt struct {
	OutputSpeech OutputSpeech `json:"outputSpeech"`
}
