package dialog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"spokesperson/internal/alexa"
	"spokesperson/internal/feed"
	"spokesperson/internal/match"
	"spokesperson/internal/models"
	"spokesperson/internal/store"
)

// attrs returns the attributes to round-trip: the state while a flow is
// open, nothing once the session is idle.
func attrs(s State) any {
	if s.Active() {
		return s
	}
	return nil
}

// plural renders "1 bike" / "3 bikes".
func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// verb picks the copula matching a count.
func verb(n int) string {
	if n == 1 {
		return "is"
	}
	return "are"
}

// joinSpoken renders station names as a spoken list: "a, b, or c".
func joinSpoken(stations []models.Station, conj string) string {
	names := make([]string, len(stations))
	for i, sta := range stations {
		names[i] = match.Spoken(sta.Name)
	}
	if len(names) == 1 {
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", " + conj + " " + names[len(names)-1]
}

// timeString renders the network's local time for cards.
func (h *Handler) timeString() string {
	loc, err := time.LoadLocation(h.cfg.TimeZone)
	if err != nil {
		loc = time.UTC
	}
	return time.Now().In(loc).Format("Mon Jan 2 15:04")
}

// errorReply converts a component error into a spoken apology. Every failure
// taxonomy lands here; none crashes the turn.
func (h *Handler) errorReply(err error, state State) alexa.Reply {
	var ambErr *match.AmbiguousMatchError
	switch {
	case errors.As(err, &ambErr):
		candidates := ambErr.Candidates
		if len(candidates) > 4 {
			candidates = candidates[:4]
		}
		return alexa.Reply{
			Speech:     fmt.Sprintf("I don't know if you mean %s.", joinSpoken(candidates, "or")),
			Reprompt:   "Which station did you mean?",
			Attributes: attrs(state),
		}
	case errors.Is(err, match.ErrNoMatch):
		return alexa.Reply{
			Speech:     "I couldn't find a station by that name. Try again?",
			Reprompt:   "Which station should I check?",
			Attributes: attrs(state),
		}
	case errors.Is(err, feed.ErrFeedUnavailable):
		return alexa.Reply{
			Speech:     "I couldn't reach the station feed right now. Please try again later.",
			EndSession: true,
		}
	case errors.Is(err, store.ErrStoreUnavailable):
		return alexa.Reply{
			Speech:     "I'm sorry, something went wrong. Please try again.",
			EndSession: true,
		}
	default:
		return alexa.Reply{
			Speech:     "I'm sorry, something went wrong.",
			EndSession: true,
		}
	}
}
