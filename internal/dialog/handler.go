package dialog

import (
	"context"
	"fmt"
	"log/slog"

	"spokesperson/internal/alexa"
	"spokesperson/internal/config"
)

// Intent names from the skill's interaction model.
const (
	intentCheckBike     = "CheckBikeIntent"
	intentCheckStatus   = "CheckStatusIntent"
	intentListStations  = "ListStationIntent"
	intentCheckCommute  = "CheckCommuteIntent"
	intentAddAddress    = "AddAddressIntent"
	intentCheckAddress  = "CheckAddressIntent"
	intentRemoveAddress = "RemoveAddressIntent"
	intentYes           = "AMAZON.YesIntent"
	intentNo            = "AMAZON.NoIntent"
	intentNext          = "AMAZON.NextIntent"
	intentStop          = "AMAZON.StopIntent"
	intentCancel        = "AMAZON.CancelIntent"
	intentHelp          = "AMAZON.HelpIntent"
)

// Intents that may legitimately arrive mid-flow. Anything else during a flow
// is a misrecognition to recover from, not a new operation.
var addAddressIntents = map[string]bool{
	intentAddAddress: true,
	intentNext:       true,
	intentYes:        true,
	intentNo:         true,
	intentStop:       true,
	intentCancel:     true,
}

var removeAddressIntents = map[string]bool{
	intentRemoveAddress: true,
	intentYes:           true,
	intentNo:            true,
	intentStop:          true,
	intentCancel:        true,
}

// Handler routes one voice turn to the matching intent handler. Each turn is
// a single synchronous unit; concurrency across turns is the platform's
// business, not ours.
type Handler struct {
	feed     StationSource
	geocoder Geocoder
	store    AddressBook
	cfg      *config.Config
}

// New creates a dialog handler over the given collaborators.
func New(feed StationSource, geocoder Geocoder, store AddressBook, cfg *config.Config) *Handler {
	return &Handler{feed: feed, geocoder: geocoder, store: store, cfg: cfg}
}

// Handle processes one request envelope and returns the response envelope.
// Every error is recovered into a spoken message; a turn never fails.
func (h *Handler) Handle(ctx context.Context, env alexa.RequestEnvelope) alexa.ResponseEnvelope {
	switch env.Request.Type {
	case alexa.TypeLaunchRequest:
		return alexa.Reply{
			Speech:   fmt.Sprintf("Ask me a question about a %s station.", h.cfg.NetworkName),
			Reprompt: "Which station should I check?",
		}.Envelope()

	case alexa.TypeSessionEndedRequest:
		// Nothing to clean up: dialog state lived only in the session
		// attributes that just died with the session.
		return alexa.ResponseEnvelope{Version: "1.0"}

	case alexa.TypeIntentRequest:
		state := decodeState(env.Session.Attributes)
		return h.routeIntent(ctx, env.Session.User.UserID, env.Request.Intent, state).Envelope()

	default:
		slog.Warn("unknown request type", "type", env.Request.Type)
		return alexa.Reply{
			Speech:     "Sorry, I don't know what you mean.",
			EndSession: true,
		}.Envelope()
	}
}

func (h *Handler) routeIntent(ctx context.Context, userID string, intent alexa.Intent, state State) alexa.Reply {
	// Recover from misrecognitions while a flow is open.
	if state.Flow == FlowAddAddress && !addAddressIntents[intent.Name] {
		if intent.Name == intentCheckStatus && intent.Slot("station_name") != "" {
			// The platform heard an address as a station name; reinterpret.
			intent = alexa.Intent{
				Name: intentAddAddress,
				Slots: map[string]alexa.Slot{
					"address_street": {Name: "address_street", Value: intent.Slot("station_name")},
				},
			}
		} else {
			return alexa.Reply{
				Speech: "I didn't understand that as an address. Please provide " +
					"an address, such as \"123 north State Street\".",
				Reprompt:   "What's the street number and name?",
				Attributes: state,
			}
		}
	} else if state.Flow == FlowRemoveAddress && !removeAddressIntents[intent.Name] {
		// An unintelligible answer to "really delete everything?" is a no.
		intent = alexa.Intent{Name: intentNo}
	}

	switch intent.Name {
	case intentCheckBike:
		if intent.Slot("bikes_or_docks") == "" {
			// Fall back on the full status check when the slot was lost.
			return h.checkStatus(intent, state)
		}
		return h.checkBikes(intent, state)
	case intentCheckStatus:
		return h.checkStatus(intent, state)
	case intentListStations:
		return h.listStations(intent, state)
	case intentCheckCommute:
		return h.checkCommute(ctx, userID)
	case intentAddAddress:
		return h.addAddress(intent, state)
	case intentCheckAddress:
		return h.checkAddress(ctx, userID, intent)
	case intentRemoveAddress:
		return h.removeAddress(ctx, userID, intent, state)
	case intentYes:
		return h.yes(ctx, userID, intent, state)
	case intentNo:
		return h.no(ctx, userID, intent, state)
	case intentNext:
		return h.next(intent, state)
	case intentStop, intentCancel:
		return alexa.Reply{Speech: "Okay, exiting.", EndSession: true}
	case intentHelp:
		return h.help(state)
	default:
		return alexa.Reply{
			Speech:     "I didn't understand that. Try again?",
			Reprompt:   "What should I do?",
			Attributes: state,
		}
	}
}

func (h *Handler) help(state State) alexa.Reply {
	return alexa.Reply{
		Speech: fmt.Sprintf("You can ask me how many bikes or docks are "+
			"at a specific station, or else just ask the status of a "+
			"station. Use the %s station name, such as \"%s\". "+
			"If you only remember one cross-street, you can ask me to "+
			"list all stations on a particular street. If you've told me "+
			"to \"add an address\", I can remember that and use it when "+
			"you ask me to \"check my commute\". What should I do?",
			h.cfg.NetworkName, h.cfg.SampleStation),
		Reprompt:   "What should I do?",
		Attributes: state,
	}
}
