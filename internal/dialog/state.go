// Package dialog coordinates multi-turn voice conversations. The service
// keeps no session storage of its own: all dialog state is serialized into
// the session attributes the platform round-trips on every turn, so each
// call is otherwise stateless.
package dialog

import "encoding/json"

// Flow names the multi-turn operation in progress, if any.
type Flow string

const (
	FlowNone          Flow = ""
	FlowAddAddress    Flow = "add_address"
	FlowRemoveAddress Flow = "remove_address"
)

// Phase is the state machine position within a flow. A session with no flow
// is idle; committed and aborted are terminal and therefore never serialized
// — ending the session with no attributes is how a flow terminates.
type Phase string

const (
	PhaseCollecting Phase = "collecting_slots"
	PhaseConfirming Phase = "awaiting_confirmation"
)

// Step is the slot the add-address flow expects next while collecting.
type Step string

const (
	StepLabel  Step = "label"
	StepStreet Step = "street"
	StepZip    Step = "zip"
)

// State is the ephemeral dialog state for one conversation. It is never
// persisted server-side; it lives only in the round-tripped attributes and
// is destroyed when the session ends or the user declines.
type State struct {
	Flow  Flow  `json:"flow,omitempty"`
	Phase Phase `json:"phase,omitempty"`
	Step  Step  `json:"step,omitempty"`

	// Collected add-address slots.
	Label         string `json:"label,omitempty"`
	SpokenAddress string `json:"spoken_address,omitempty"`
	ZipCode       string `json:"zip_code,omitempty"`

	// Geocoded result awaiting the user's confirmation.
	Address string  `json:"address,omitempty"`
	Lat     float64 `json:"lat,omitempty"`
	Lon     float64 `json:"lon,omitempty"`
}

// Active reports whether a multi-turn flow is in progress.
func (s State) Active() bool {
	return s.Flow != FlowNone
}

// decodeState reconstitutes dialog state from the platform's round-tripped
// attributes. Anything unreadable just starts the turn idle; a broken
// attribute blob must not fail the whole turn.
func decodeState(raw json.RawMessage) State {
	var s State
	if len(raw) == 0 {
		return s
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return State{}
	}
	return s
}
