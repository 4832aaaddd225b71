package dialog

import (
	"fmt"
	"strings"

	"spokesperson/internal/alexa"
	"spokesperson/internal/match"
	"spokesperson/internal/models"
)

// stationFromIntent refreshes the feed and resolves the spoken station name
// to a single station. Queries may arrive as one combined station_name slot
// or as separate cross-street slots.
func (h *Handler) stationFromIntent(intent alexa.Intent) (models.Station, error) {
	stations, err := h.feed.Refresh()
	if err != nil {
		return models.Station{}, err
	}

	query := intent.Slot("station_name")
	if query == "" {
		query = intent.Slot("first_street")
		if second := intent.Slot("second_street"); second != "" {
			query += " and " + second
		}
	}

	res, err := match.Match(query, stations)
	if err != nil {
		return models.Station{}, err
	}
	return res.Single()
}

// checkBikes reports the count the user asked for: bikes or docks.
func (h *Handler) checkBikes(intent alexa.Intent, state State) alexa.Reply {
	sta, err := h.stationFromIntent(intent)
	if err != nil {
		return h.errorReply(err, state)
	}

	postamble := "."
	if !sta.IsRenting {
		postamble = ", but the station isn't renting right now."
	}

	thing := "bike"
	n := sta.BikesAvailable
	if strings.Contains(strings.ToLower(intent.Slot("bikes_or_docks")), "dock") {
		thing = "dock"
		n = sta.DocksAvailable
	}

	return alexa.Reply{
		Speech: fmt.Sprintf("There %s %s available at the %s station%s",
			verb(n), plural(n, thing), match.Spoken(sta.Name), postamble),
		EndSession: true,
	}
}

// checkStatus reports both counts plus any out-of-service condition.
func (h *Handler) checkStatus(intent alexa.Intent, state State) alexa.Reply {
	sta, err := h.stationFromIntent(intent)
	if err != nil {
		return h.errorReply(err, state)
	}

	spoken := match.Spoken(sta.Name)
	cardTitle := fmt.Sprintf("%s Status", sta.Name)

	if !sta.IsInstalled {
		return alexa.Reply{
			Speech:     fmt.Sprintf("The %s station isn't installed at this time.", spoken),
			CardTitle:  cardTitle,
			CardText:   fmt.Sprintf("%s\nNot installed", h.timeString()),
			EndSession: true,
		}
	}
	if !sta.IsRenting {
		return alexa.Reply{
			Speech:     fmt.Sprintf("The %s station isn't renting right now.", spoken),
			CardTitle:  cardTitle,
			CardText:   fmt.Sprintf("%s\nNot renting", h.timeString()),
			EndSession: true,
		}
	}
	if !sta.IsReturning {
		return alexa.Reply{
			Speech:     fmt.Sprintf("The %s station isn't accepting returned bikes right now.", spoken),
			CardTitle:  cardTitle,
			CardText:   fmt.Sprintf("%s\nNot returning", h.timeString()),
			EndSession: true,
		}
	}

	return alexa.Reply{
		Speech: fmt.Sprintf("There %s %s and %s at the %s station.",
			verb(sta.BikesAvailable),
			plural(sta.BikesAvailable, "bike"),
			plural(sta.DocksAvailable, "dock"),
			spoken),
		CardTitle: cardTitle,
		CardText: fmt.Sprintf("At %s:\n%s and %s",
			h.timeString(),
			plural(sta.BikesAvailable, "bike"),
			plural(sta.DocksAvailable, "dock")),
		EndSession: true,
	}
}

// listStations answers "what stations are on X street".
func (h *Handler) listStations(intent alexa.Intent, state State) alexa.Reply {
	street := intent.Slot("street_name")

	stations, err := h.feed.Refresh()
	if err != nil {
		return h.errorReply(err, state)
	}

	res, err := match.Match(street, stations)
	if err != nil || len(res.StreetMatches) == 0 {
		return alexa.Reply{
			Speech:     fmt.Sprintf("I didn't find any stations on %s.", street),
			EndSession: true,
		}
	}

	matches := res.StreetMatches
	cardTitle := fmt.Sprintf("%s Stations on %s", h.cfg.NetworkName, street)

	if len(matches) == 1 {
		return alexa.Reply{
			Speech:     fmt.Sprintf("There's only one: the %s station.", match.Spoken(matches[0].Name)),
			CardTitle:  cardTitle,
			CardText:   fmt.Sprintf("One station on %s: %s", street, matches[0].Name),
			EndSession: true,
		}
	}

	cardNames := make([]string, len(matches))
	for i, sta := range matches {
		cardNames[i] = sta.Name
	}
	return alexa.Reply{
		Speech: fmt.Sprintf("There are %d stations on %s: %s.",
			len(matches), street, joinSpoken(matches, "and")),
		CardTitle: cardTitle,
		CardText: fmt.Sprintf("The following %d stations are on %s:\n%s",
			len(matches), street, strings.Join(cardNames, "\n")),
		EndSession: true,
	}
}
