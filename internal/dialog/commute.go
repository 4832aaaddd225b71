package dialog

import (
	"context"
	"fmt"
	"strings"

	"spokesperson/internal/alexa"
	"spokesperson/internal/commute"
	"spokesperson/internal/match"
	"spokesperson/internal/models"
)

// checkCommute reports nearest-station status for the stored origin and
// destination. A user who has stored only one of the two gets a partial
// report rather than an error.
func (h *Handler) checkCommute(ctx context.Context, userID string) alexa.Reply {
	saved, err := h.store.GetAll(ctx, userID)
	if err != nil {
		return h.errorReply(err, State{})
	}
	if len(saved) == 0 {
		return alexa.Reply{
			Speech: "I don't remember any of your addresses. You can ask me " +
				"to \"save an address\" if you want me to be able to check " +
				"on your daily commute.",
			EndSession: true,
		}
	}

	stations, err := h.feed.Refresh()
	if err != nil {
		return h.errorReply(err, State{})
	}

	result, err := commute.Evaluate(stations, addrPtr(saved, models.LabelOrigin), addrPtr(saved, models.LabelDestination))
	if err != nil {
		return h.errorReply(err, State{})
	}

	var phrases []string
	cardLines := []string{fmt.Sprintf("Checked at %s", h.timeString())}
	for _, leg := range []*commute.Leg{result.Origin, result.Destination} {
		if leg == nil {
			continue
		}
		phrases = append(phrases, legSpeech(leg))
		cardLines = append(cardLines, legCard(leg)...)
	}

	return alexa.Reply{
		Speech:     strings.Join(phrases, " "),
		CardTitle:  fmt.Sprintf("Your %s Commute Status", h.cfg.NetworkName),
		CardText:   strings.Join(cardLines, "\n"),
		EndSession: true,
	}
}

func addrPtr(saved map[string]models.StoredAddress, label string) *models.StoredAddress {
	if addr, ok := saved[label]; ok {
		return &addr
	}
	return nil
}

func legSpeech(leg *commute.Leg) string {
	thing := strings.TrimSuffix(string(leg.Quantity), "s")
	speech := fmt.Sprintf("There %s %s at the %s station near your %s.",
		verb(leg.Count), plural(leg.Count, thing),
		match.Spoken(leg.Station.Name), leg.Label)

	if leg.Next != nil {
		if leg.FallbackUsed {
			speech += fmt.Sprintf(" The next nearest station, %s, has %s.",
				match.Spoken(leg.Next.Station.Name), plural(leg.Next.Count, thing))
		} else {
			speech += fmt.Sprintf(" If that's not enough, the next nearest station, %s, has %s.",
				match.Spoken(leg.Next.Station.Name), plural(leg.Next.Count, thing))
		}
	}
	return speech
}

func legCard(leg *commute.Leg) []string {
	thing := strings.TrimSuffix(string(leg.Quantity), "s")
	label := strings.ToUpper(leg.Label[:1]) + leg.Label[1:]
	lines := []string{fmt.Sprintf("%s: %s at %s", label, plural(leg.Count, thing), leg.Station.Name)}
	if leg.Next != nil {
		lines = append(lines, fmt.Sprintf("Next Best %s: %s at %s",
			label, plural(leg.Next.Count, thing), leg.Next.Station.Name))
	}
	return lines
}
