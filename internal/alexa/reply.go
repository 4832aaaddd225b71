package alexa

import (
	"encoding/json"
	"fmt"
)

// Reply describes one spoken response. Zero-value fields are omitted from
// the envelope; all speech is rendered as SSML.
type Reply struct {
	Speech    string
	Reprompt  string
	CardTitle string
	CardText  string

	// EndSession closes the skill after speaking. Leave false to wait for
	// the user's next utterance.
	EndSession bool

	// Attributes is serialized into sessionAttributes and handed back to
	// us by the platform on the next turn of the same session.
	Attributes any
}

// Envelope renders the reply into the platform's response schema.
func (r Reply) Envelope() ResponseEnvelope {
	env := ResponseEnvelope{
		Version: "1.0",
		Response: Response{
			OutputSpeech: &OutputSpeech{
				Type: "SSML",
				SSML: ssml(r.Speech),
			},
			ShouldEndSession: r.EndSession,
		},
	}

	if r.Reprompt != "" {
		env.Response.Reprompt = &Reprompt{
			OutputSpeech: OutputSpeech{Type: "SSML", SSML: ssml(r.Reprompt)},
		}
	}
	if r.CardText != "" {
		env.Response.Card = &Card{
			Type:    "Simple",
			Title:   r.CardTitle,
			Content: r.CardText,
		}
	}
	if r.Attributes != nil {
		// Attributes are our own serializable state; a marshal failure here
		// is a programming error and we'd rather drop state than the reply.
		if data, err := json.Marshal(r.Attributes); err == nil {
			env.SessionAttributes = data
		}
	}
	return env
}

func ssml(speech string) string {
	return fmt.Sprintf("<speak>%s</speak>", speech)
}
