package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/matchdayhq/fixture-engine/internal/domain/lineup"
	"github.com/matchdayhq/fixture-engine/internal/usecase"
)

func (h *Handler) GetLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLineup")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	fixtureID := strings.TrimSpace(r.PathValue("fixtureID"))
	teamID := strings.TrimSpace(r.PathValue("teamID"))
	item, exists, err := h.lineupService.Get(ctx, fixtureID, teamID, principal.TeamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get lineup failed", "fixture_id", fixtureID, "team_id", teamID, "viewer_team_id", principal.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !exists {
		writeSuccess(ctx, w, http.StatusOK, nil)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupToDTO(ctx, item))
}

func (h *Handler) SubmitLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitLineup")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	fixtureID := strings.TrimSpace(r.PathValue("fixtureID"))
	var req submitLineupRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.lineupService.Submit(ctx, usecase.SubmitLineupInput{
		FixtureID: fixtureID,
		TeamID:    principal.TeamID,
		Starters:  playersFromDTO(req.Starters),
		Reserves:  playersFromDTO(req.Reserves),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit lineup failed", "fixture_id", fixtureID, "team_id", principal.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupToDTO(ctx, item))
}

type playerDTO struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name"`
}

type submitLineupRequest struct {
	Starters []playerDTO `json:"starters" validate:"required,min=1,dive"`
	Reserves []playerDTO `json:"reserves" validate:"dive"`
}

type lineupDTO struct {
	FixtureID   string      `json:"fixtureId"`
	TeamID      string      `json:"teamId"`
	Starters    []playerDTO `json:"starters"`
	Reserves    []playerDTO `json:"reserves"`
	SubmittedBy string      `json:"submittedBy,omitempty"`
	SubmittedAt string      `json:"submittedAt"`
}

func playersFromDTO(items []playerDTO) []lineup.Player {
	players := make([]lineup.Player, 0, len(items))
	for _, item := range items {
		players = append(players, lineup.Player{ID: item.ID, Name: item.Name})
	}
	return players
}

func playersToDTO(players []lineup.Player) []playerDTO {
	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerDTO{ID: p.ID, Name: p.Name})
	}
	return items
}

func lineupToDTO(ctx context.Context, item lineup.Lineup) lineupDTO {
	ctx, span := startSpan(ctx, "httpapi.lineupToDTO")
	defer span.End()

	return lineupDTO{
		FixtureID:   item.FixtureID,
		TeamID:      item.TeamID,
		Starters:    playersToDTO(item.Starters),
		Reserves:    playersToDTO(item.Reserves),
		SubmittedBy: item.SubmittedBy,
		SubmittedAt: item.SubmittedAt.UTC().Format(time.RFC3339),
	}
}
