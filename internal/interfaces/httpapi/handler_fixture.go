package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/matchdayhq/fixture-engine/internal/domain/fixture"
	"github.com/matchdayhq/fixture-engine/internal/usecase"
)

func (h *Handler) ListFixturesByRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixturesByRound")
	defer span.End()

	roundID := strings.TrimSpace(r.PathValue("roundID"))
	fixtures, err := h.fixtureService.ListByRound(ctx, roundID)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]fixtureDTO, 0, len(fixtures))
	for _, f := range fixtures {
		items = append(items, fixtureToDTO(ctx, f))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFixture")
	defer span.End()

	fixtureID := strings.TrimSpace(r.PathValue("fixtureID"))
	fx, err := h.fixtureService.Get(ctx, fixtureID)
	if err != nil {
		h.logger.WarnContext(ctx, "get fixture failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureToDTO(ctx, fx))
}

func (h *Handler) CreateFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateFixture")
	defer span.End()

	var req createFixtureRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	fx, err := h.fixtureService.Create(ctx, usecase.CreateFixtureInput{
		SeasonID:     req.SeasonID,
		RoundID:      req.RoundID,
		MatchNumber:  req.MatchNumber,
		HomeTeamID:   req.HomeTeamID,
		HomeTeamName: req.HomeTeamName,
		AwayTeamID:   req.AwayTeamID,
		AwayTeamName: req.AwayTeamName,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create fixture failed", "round_id", req.RoundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, fixtureToDTO(ctx, fx))
}

type createFixtureRequest struct {
	SeasonID     string `json:"seasonId" validate:"required"`
	RoundID      string `json:"roundId" validate:"required"`
	MatchNumber  int    `json:"matchNumber" validate:"required,min=1"`
	HomeTeamID   string `json:"homeTeamId" validate:"required"`
	HomeTeamName string `json:"homeTeamName"`
	AwayTeamID   string `json:"awayTeamId" validate:"required"`
	AwayTeamName string `json:"awayTeamName"`
}

type fixtureDTO struct {
	ID            string `json:"id"`
	SeasonID      string `json:"seasonId"`
	RoundID       string `json:"roundId"`
	MatchNumber   int    `json:"matchNumber"`
	HomeTeamID    string `json:"homeTeamId"`
	AwayTeamID    string `json:"awayTeamId"`
	HomeTeamName  string `json:"homeTeamName"`
	AwayTeamName  string `json:"awayTeamName"`
	Status        string `json:"status"`
	HomeScore     *int   `json:"homeScore,omitempty"`
	AwayScore     *int   `json:"awayScore,omitempty"`
	Outcome       string `json:"outcome,omitempty"`
	HomeFineGoals int    `json:"homeFineGoals"`
	AwayFineGoals int    `json:"awayFineGoals"`
	MOTMPlayerID  string `json:"motmPlayerId,omitempty"`
	MOTMPlayer    string `json:"motmPlayerName,omitempty"`
	CompletedAt   string `json:"completedAt,omitempty"`
	UpdatedAt     string `json:"updatedAt"`
}

func fixtureToDTO(ctx context.Context, v fixture.Fixture) fixtureDTO {
	ctx, span := startSpan(ctx, "httpapi.fixtureToDTO")
	defer span.End()

	dto := fixtureDTO{
		ID:            v.ID,
		SeasonID:      v.SeasonID,
		RoundID:       v.RoundID,
		MatchNumber:   v.MatchNumber,
		HomeTeamID:    v.HomeTeamID,
		AwayTeamID:    v.AwayTeamID,
		HomeTeamName:  v.HomeTeamName,
		AwayTeamName:  v.AwayTeamName,
		Status:        fixture.NormalizeStatus(v.Status),
		HomeScore:     v.HomeScore,
		AwayScore:     v.AwayScore,
		Outcome:       v.Outcome,
		HomeFineGoals: v.HomeFineGoals,
		AwayFineGoals: v.AwayFineGoals,
		MOTMPlayerID:  v.MOTMPlayerID,
		MOTMPlayer:    v.MOTMPlayerName,
		UpdatedAt:     v.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if v.CompletedAt != nil {
		dto.CompletedAt = v.CompletedAt.UTC().Format(time.RFC3339)
	}
	return dto
}
