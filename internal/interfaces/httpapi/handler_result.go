package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/matchdayhq/fixture-engine/internal/usecase"
)

func (h *Handler) EnterResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EnterResult")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	fixtureID := strings.TrimSpace(r.PathValue("fixtureID"))
	var req enterResultRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	scores := make([]usecase.PairingScore, 0, len(req.Scores))
	for _, sc := range req.Scores {
		scores = append(scores, usecase.PairingScore{
			Position:  sc.Position,
			HomeGoals: sc.HomeGoals,
			AwayGoals: sc.AwayGoals,
		})
	}

	fx, err := h.resultService.Enter(ctx, usecase.EnterResultInput{
		FixtureID:     fixtureID,
		TeamID:        principal.TeamID,
		Scores:        scores,
		MOTMPlayerID:  req.MOTMPlayerID,
		HomeFineGoals: req.HomeFineGoals,
		AwayFineGoals: req.AwayFineGoals,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "enter result failed", "fixture_id", fixtureID, "team_id", principal.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureToDTO(ctx, fx))
}

type pairingScoreDTO struct {
	Position  int `json:"position" validate:"required,min=1"`
	HomeGoals int `json:"homeGoals" validate:"min=0"`
	AwayGoals int `json:"awayGoals" validate:"min=0"`
}

type enterResultRequest struct {
	Scores        []pairingScoreDTO `json:"scores" validate:"required,min=1,dive"`
	MOTMPlayerID  string            `json:"motmPlayerId" validate:"required"`
	HomeFineGoals int               `json:"homeFineGoals" validate:"min=0"`
	AwayFineGoals int               `json:"awayFineGoals" validate:"min=0"`
}
