package handlers

import (
	"context"

	"spokesperson/internal/alexa"
)

// SkillService abstracts the dialog engine for testability.
type SkillService interface {
	Handle(ctx context.Context, env alexa.RequestEnvelope) alexa.ResponseEnvelope
}
