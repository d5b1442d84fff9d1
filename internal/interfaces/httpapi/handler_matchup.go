package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/matchdayhq/fixture-engine/internal/domain/matchup"
	"github.com/matchdayhq/fixture-engine/internal/domain/result"
	"github.com/matchdayhq/fixture-engine/internal/usecase"
)

func (h *Handler) GetMatchups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchups")
	defer span.End()

	fixtureID := strings.TrimSpace(r.PathValue("fixtureID"))
	batch, exists, err := h.matchupService.Get(ctx, fixtureID)
	if err != nil {
		h.logger.WarnContext(ctx, "get matchups failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !exists {
		writeSuccess(ctx, w, http.StatusOK, nil)
		return
	}

	dto := batchToDTO(ctx, batch)
	if fx, fxErr := h.fixtureService.Get(ctx, fixtureID); fxErr == nil {
		home, away := result.Totals(batch, fx)
		dto.Totals = &liveTotalsDTO{
			Home: breakdownToDTO(home),
			Away: breakdownToDTO(away),
		}
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}

func (h *Handler) CreateMatchups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatchups")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	fixtureID := strings.TrimSpace(r.PathValue("fixtureID"))
	var req createMatchupsRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	assignments := make([]usecase.PairingAssignment, 0, len(req.Pairings))
	for _, p := range req.Pairings {
		assignments = append(assignments, usecase.PairingAssignment{
			Position:        p.Position,
			HomePlayerID:    p.HomePlayerID,
			AwayPlayerID:    p.AwayPlayerID,
			DurationMinutes: p.DurationMinutes,
		})
	}

	batch, err := h.matchupService.Create(ctx, usecase.CreateMatchupsInput{
		FixtureID:   fixtureID,
		TeamID:      principal.TeamID,
		Assignments: assignments,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create matchups failed", "fixture_id", fixtureID, "team_id", principal.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, batchToDTO(ctx, batch))
}

func (h *Handler) EditMatchups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EditMatchups")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	fixtureID := strings.TrimSpace(r.PathValue("fixtureID"))
	var req editMatchupsRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	changes := make([]usecase.PairingChange, 0, len(req.Changes))
	for _, c := range req.Changes {
		changes = append(changes, usecase.PairingChange{
			Position:        c.Position,
			AwayPlayerID:    c.AwayPlayerID,
			DurationMinutes: c.DurationMinutes,
		})
	}

	batch, err := h.matchupService.Edit(ctx, usecase.EditMatchupsInput{
		FixtureID: fixtureID,
		TeamID:    principal.TeamID,
		Changes:   changes,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "edit matchups failed", "fixture_id", fixtureID, "team_id", principal.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, batchToDTO(ctx, batch))
}

func (h *Handler) SwapMatchups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SwapMatchups")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	fixtureID := strings.TrimSpace(r.PathValue("fixtureID"))
	var req swapMatchupsRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	batch, err := h.matchupService.Swap(ctx, usecase.SwapMatchupsInput{
		FixtureID: fixtureID,
		TeamID:    principal.TeamID,
		PositionA: req.PositionA,
		PositionB: req.PositionB,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "swap matchups failed", "fixture_id", fixtureID, "team_id", principal.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, batchToDTO(ctx, batch))
}

func (h *Handler) ResetMatchups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetMatchups")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	fixtureID := strings.TrimSpace(r.PathValue("fixtureID"))
	if err := h.matchupService.Reset(ctx, fixtureID, principal.TeamID); err != nil {
		h.logger.WarnContext(ctx, "reset matchups failed", "fixture_id", fixtureID, "team_id", principal.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "reset"})
}

type pairingAssignmentDTO struct {
	Position        int    `json:"position" validate:"required,min=1"`
	HomePlayerID    string `json:"homePlayerId" validate:"required"`
	AwayPlayerID    string `json:"awayPlayerId" validate:"required"`
	DurationMinutes int    `json:"durationMinutes" validate:"omitempty,min=1"`
}

type createMatchupsRequest struct {
	Pairings []pairingAssignmentDTO `json:"pairings" validate:"required,min=1,dive"`
}

type pairingChangeDTO struct {
	Position        int    `json:"position" validate:"required,min=1"`
	AwayPlayerID    string `json:"awayPlayerId"`
	DurationMinutes int    `json:"durationMinutes" validate:"omitempty,min=1"`
}

type editMatchupsRequest struct {
	Changes []pairingChangeDTO `json:"changes" validate:"required,min=1,dive"`
}

type swapMatchupsRequest struct {
	PositionA int `json:"positionA" validate:"required,min=1"`
	PositionB int `json:"positionB" validate:"required,min=1"`
}

type substitutionDTO struct {
	OriginalPlayer playerDTO `json:"originalPlayer"`
	PenaltyGoals   int       `json:"penaltyGoals"`
	MadeAt         string    `json:"madeAt"`
}

type pairingDTO struct {
	Position        int       `json:"position"`
	HomePlayer      playerDTO `json:"homePlayer"`
	AwayPlayer      playerDTO `json:"awayPlayer"`
	DurationMinutes int       `json:"durationMinutes"`

	HomeGoals *int `json:"homeGoals,omitempty"`
	AwayGoals *int `json:"awayGoals,omitempty"`

	HomeSubstitution *substitutionDTO `json:"homeSubstitution,omitempty"`
	AwaySubstitution *substitutionDTO `json:"awaySubstitution,omitempty"`
}

type breakdownDTO struct {
	PlayerGoals           int `json:"playerGoals"`
	SubstitutionPenalties int `json:"substitutionPenalties"`
	FineGoals             int `json:"fineGoals"`
	Total                 int `json:"total"`
}

// liveTotalsDTO projects the running score from whatever goals have been
// entered so far.
type liveTotalsDTO struct {
	Home breakdownDTO `json:"home"`
	Away breakdownDTO `json:"away"`
}

type batchDTO struct {
	FixtureID string         `json:"fixtureId"`
	CreatedBy string         `json:"createdBy"`
	CreatedAt string         `json:"createdAt"`
	Version   int64          `json:"version"`
	Pairings  []pairingDTO   `json:"pairings"`
	Totals    *liveTotalsDTO `json:"totals,omitempty"`
}

func breakdownToDTO(b result.Breakdown) breakdownDTO {
	return breakdownDTO{
		PlayerGoals:           b.PlayerGoals,
		SubstitutionPenalties: b.SubstitutionPenalties,
		FineGoals:             b.FineGoals,
		Total:                 b.Total,
	}
}

func batchToDTO(ctx context.Context, batch matchup.Batch) batchDTO {
	ctx, span := startSpan(ctx, "httpapi.batchToDTO")
	defer span.End()

	pairings := make([]pairingDTO, 0, len(batch.Pairings))
	for _, p := range batch.Pairings {
		dto := pairingDTO{
			Position:        p.Position,
			HomePlayer:      playerDTO{ID: p.HomePlayer.ID, Name: p.HomePlayer.Name},
			AwayPlayer:      playerDTO{ID: p.AwayPlayer.ID, Name: p.AwayPlayer.Name},
			DurationMinutes: p.DurationMinutes,
			HomeGoals:       p.HomeGoals,
			AwayGoals:       p.AwayGoals,
		}
		if p.HomeSubstitution != nil {
			dto.HomeSubstitution = substitutionToDTO(*p.HomeSubstitution)
		}
		if p.AwaySubstitution != nil {
			dto.AwaySubstitution = substitutionToDTO(*p.AwaySubstitution)
		}
		pairings = append(pairings, dto)
	}

	return batchDTO{
		FixtureID: batch.FixtureID,
		CreatedBy: batch.CreatedBy,
		CreatedAt: batch.CreatedAt.UTC().Format(time.RFC3339),
		Version:   batch.Version,
		Pairings:  pairings,
	}
}

func substitutionToDTO(sub matchup.Substitution) *substitutionDTO {
	return &substitutionDTO{
		OriginalPlayer: playerDTO{ID: sub.OriginalPlayer.ID, Name: sub.OriginalPlayer.Name},
		PenaltyGoals:   sub.PenaltyGoals,
		MadeAt:         sub.MadeAt.UTC().Format(time.RFC3339),
	}
}
