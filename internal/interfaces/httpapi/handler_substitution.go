package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/matchdayhq/fixture-engine/internal/usecase"
)

func (h *Handler) ApplySubstitution(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplySubstitution")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	fixtureID := strings.TrimSpace(r.PathValue("fixtureID"))
	var req applySubstitutionRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	batch, err := h.substitutionService.Apply(ctx, usecase.ApplySubstitutionInput{
		FixtureID:    fixtureID,
		TeamID:       principal.TeamID,
		Position:     req.Position,
		NewPlayerID:  req.PlayerID,
		PenaltyGoals: req.PenaltyGoals,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "apply substitution failed", "fixture_id", fixtureID, "team_id", principal.TeamID, "position", req.Position, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, batchToDTO(ctx, batch))
}

type applySubstitutionRequest struct {
	Position     int    `json:"position" validate:"required,min=1"`
	PlayerID     string `json:"playerId" validate:"required"`
	PenaltyGoals int    `json:"penaltyGoals" validate:"min=0"`
}
