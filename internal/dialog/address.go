package dialog

import (
	"context"
	"fmt"
	"strings"

	"spokesperson/internal/alexa"
	"spokesperson/internal/match"
	"spokesperson/internal/models"
)

// Spoken words users reach for when naming each label.
var originNames = []string{"here", "home", "origin"}
var destinationNames = []string{"there", "work", "school", "destination"}

// resolveLabel maps a spoken which-address value to a storage label,
// or "" when it matches neither.
func resolveLabel(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, name := range originNames {
		if value == name {
			return models.LabelOrigin
		}
	}
	for _, name := range destinationNames {
		if value == name {
			return models.LabelDestination
		}
	}
	return ""
}

// addAddress drives the store-address flow: collect the label, the street
// address, and an optional zip code, geocode the result, then hold it for
// explicit confirmation. Nothing is written until the user says yes.
func (h *Handler) addAddress(intent alexa.Intent, state State) alexa.Reply {
	if state.Flow != FlowAddAddress {
		state = State{Flow: FlowAddAddress, Phase: PhaseCollecting, Step: StepLabel}
	}

	if state.Phase == PhaseConfirming {
		// The user said something other than yes or no while we were
		// waiting on the confirmation.
		return h.askConfirmation("Sorry, I didn't understand that. ", state)
	}

	switch state.Step {
	case StepLabel:
		label := resolveLabel(intent.Slot("which_address"))
		if label == "" {
			return alexa.Reply{
				Speech:     "Would you like to set the address here or at your destination?",
				Reprompt:   "You can say \"here\" or \"destination\".",
				Attributes: state,
			}
		}
		state.Label = label
		state.Step = StepStreet
		return alexa.Reply{
			Speech:     fmt.Sprintf("Okay, storing your %s address. What's the street number and name?", label),
			Reprompt:   "What's the street number and name?",
			Attributes: state,
		}

	case StepStreet:
		street := intent.Slot("address_street")
		if street == "" {
			return alexa.Reply{
				Speech:     "Please say a street number and street name.",
				Reprompt:   "What's the street number and name?",
				Attributes: state,
			}
		}
		parts := []string{intent.Slot("address_number"), intent.Slot("direction"), street}
		state.SpokenAddress = strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
		state.Step = StepZip
		return alexa.Reply{
			Speech:     "Got it. Now what's the zip code? You can tell me to skip it if you don't know.",
			Reprompt:   "What's the zip code?",
			Attributes: state,
		}

	case StepZip:
		zip := intent.Slot("address_number")
		if zip == "" {
			return alexa.Reply{
				Speech:     "I need the zip code now.",
				Reprompt:   "What's the zip code?",
				Attributes: state,
			}
		}
		state.ZipCode = zip
		return h.resolveAddress(state)

	default:
		return alexa.Reply{
			Speech:     "I'm sorry, I got confused. What do you mean?",
			Attributes: state,
		}
	}
}

// resolveAddress geocodes the collected slots and moves the flow to
// AWAITING_CONFIRMATION, reading the standardized address back to the user.
func (h *Handler) resolveAddress(state State) alexa.Reply {
	// Subscribers are assumed to be in-state; without a zip code, assume
	// the network's home city for specificity.
	var query string
	if state.ZipCode != "" {
		query = fmt.Sprintf("%s, %s, %s", state.SpokenAddress, h.cfg.DefaultState, state.ZipCode)
	} else {
		query = fmt.Sprintf("%s, %s, %s", state.SpokenAddress, h.cfg.DefaultCity, h.cfg.DefaultState)
	}

	loc, err := h.geocoder.Geocode(query)
	if err != nil {
		return h.retryStreet(state, query)
	}
	// A geocode that only finds the city centroid means the street address
	// itself wasn't located.
	cityPrefix := strings.ToLower(fmt.Sprintf("%s, %s", h.cfg.DefaultCity, h.cfg.DefaultState))
	if strings.HasPrefix(strings.ToLower(loc.Address), cityPrefix) {
		return h.retryStreet(state, query)
	}

	state.Address = loc.Address
	state.Lat = loc.Lat
	state.Lon = loc.Lon
	state.Phase = PhaseConfirming
	state.Step = ""
	return h.askConfirmation("Thanks! ", state)
}

func (h *Handler) askConfirmation(preamble string, state State) alexa.Reply {
	return alexa.Reply{
		Speech: fmt.Sprintf("%sDo you want to set your %s address to %s?",
			preamble, state.Label, match.Spoken(state.Address)),
		Reprompt:   "Is that the correct address?",
		Attributes: state,
	}
}

func (h *Handler) retryStreet(state State, heard string) alexa.Reply {
	state.Step = StepStreet
	state.SpokenAddress = ""
	state.ZipCode = ""
	return alexa.Reply{
		Speech: fmt.Sprintf("I'm sorry, I heard the address \"%s\", but I "+
			"can't figure out where that is. Try a different address, "+
			"something I can look up on the map.", heard),
		Reprompt:   "What's the street number and name?",
		Attributes: state,
	}
}

// yes commits whichever confirmation is pending: storing an address or
// erasing all of them.
func (h *Handler) yes(ctx context.Context, userID string, intent alexa.Intent, state State) alexa.Reply {
	switch {
	case state.Flow == FlowAddAddress && state.Phase == PhaseConfirming:
		if err := h.store.Put(ctx, userID, state.Label, state.Address, state.Lat, state.Lon); err != nil {
			return alexa.Reply{
				Speech:     "I'm sorry, something went wrong and I couldn't store the address.",
				EndSession: true,
			}
		}
		return alexa.Reply{
			Speech:     fmt.Sprintf("Okay, I've saved your %s address.", state.Label),
			EndSession: true,
		}

	case state.Flow == FlowRemoveAddress && state.Phase == PhaseConfirming:
		if err := h.store.DeleteAll(ctx, userID); err != nil {
			return h.errorReply(err, State{})
		}
		return alexa.Reply{
			Speech:     "Okay, I've forgotten all the addresses you told me.",
			EndSession: true,
		}

	default:
		return alexa.Reply{
			Speech:     "Sorry, I don't know what you mean. Try again?",
			Attributes: attrs(state),
		}
	}
}

// no declines whichever confirmation is pending. A declined add-address flow
// aborts with no write; the unconfirmed address is simply dropped.
func (h *Handler) no(ctx context.Context, userID string, intent alexa.Intent, state State) alexa.Reply {
	switch {
	case state.Flow == FlowAddAddress && state.Phase == PhaseConfirming:
		return alexa.Reply{
			Speech:     "Okay, I won't save that address.",
			EndSession: true,
		}

	case state.Flow == FlowRemoveAddress:
		return alexa.Reply{
			Speech:     "Okay, keeping your stored addresses.",
			EndSession: true,
		}

	default:
		return alexa.Reply{
			Speech:     "Sorry, I don't know what you mean. Try again?",
			Attributes: attrs(state),
		}
	}
}

// next lets the user skip the optional zip code.
func (h *Handler) next(intent alexa.Intent, state State) alexa.Reply {
	if state.Flow == FlowAddAddress && state.Step == StepZip {
		state.ZipCode = ""
		return h.resolveAddress(state)
	}
	return alexa.Reply{
		Speech:     "Sorry, I don't know what you mean. Try again?",
		Attributes: attrs(state),
	}
}

// checkAddress reads back one or both stored addresses.
func (h *Handler) checkAddress(ctx context.Context, userID string, intent alexa.Intent) alexa.Reply {
	saved, err := h.store.GetAll(ctx, userID)
	if err != nil {
		return h.errorReply(err, State{})
	}
	if len(saved) == 0 {
		return alexa.Reply{
			Speech:     "I don't remember any of your addresses.",
			EndSession: true,
		}
	}

	if label := resolveLabel(intent.Slot("which_address")); label != "" {
		return alexa.Reply{Speech: speakAddress(label, saved), EndSession: true}
	}

	// No usable slot value: give the user everything we have.
	var both []string
	for _, label := range []string{models.LabelOrigin, models.LabelDestination} {
		if _, ok := saved[label]; ok {
			both = append(both, speakAddress(label, saved))
		}
	}
	return alexa.Reply{Speech: strings.Join(both, " "), EndSession: true}
}

func speakAddress(label string, saved map[string]models.StoredAddress) string {
	addr, ok := saved[label]
	if !ok {
		return fmt.Sprintf("I don't know your %s address.", label)
	}
	return fmt.Sprintf("Your %s address is set to %s.", label, match.Spoken(addr.Address))
}

// removeAddress asks for confirmation before the bulk erase. Partial
// deletion of a single label is deliberately unsupported; only full erasure
// is offered.
func (h *Handler) removeAddress(ctx context.Context, userID string, intent alexa.Intent, state State) alexa.Reply {
	saved, err := h.store.GetAll(ctx, userID)
	if err != nil {
		return h.errorReply(err, State{})
	}
	if len(saved) == 0 {
		return alexa.Reply{
			Speech:     "I already don't remember any addresses for you.",
			EndSession: true,
		}
	}

	state = State{Flow: FlowRemoveAddress, Phase: PhaseConfirming}
	return alexa.Reply{
		Speech:     "Do you really want me to forget the addresses you gave me?",
		Reprompt:   "Say \"yes\" to delete all stored addresses or \"no\" to not change anything.",
		Attributes: state,
	}
}
