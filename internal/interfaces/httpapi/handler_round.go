package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/matchdayhq/fixture-engine/internal/domain/round"
	"github.com/matchdayhq/fixture-engine/internal/usecase"
)

func (h *Handler) ListRoundsBySeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRoundsBySeason")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	views, err := h.roundService.ListBySeason(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list rounds failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]roundDTO, 0, len(views))
	for _, view := range views {
		items = append(items, roundToDTO(ctx, view))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRound")
	defer span.End()

	roundID := strings.TrimSpace(r.PathValue("roundID"))
	view, err := h.roundService.Get(ctx, roundID)
	if err != nil {
		h.logger.WarnContext(ctx, "get round failed", "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundToDTO(ctx, view))
}

func (h *Handler) UpsertRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertRound")
	defer span.End()

	var req upsertRoundRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.UpsertRoundInput{
		ID:            req.ID,
		SeasonID:      req.SeasonID,
		Number:        req.Number,
		Leg:           req.Leg,
		ScheduledDate: req.ScheduledDate,
	}
	if req.Deadlines != nil {
		cfg := round.DeadlineConfig{
			HomeLineupTime:   req.Deadlines.HomeLineupTime,
			AwayLineupTime:   req.Deadlines.AwayLineupTime,
			HomeSubDayOffset: req.Deadlines.HomeSubDayOffset,
			HomeSubTime:      req.Deadlines.HomeSubTime,
			AwaySubDayOffset: req.Deadlines.AwaySubDayOffset,
			AwaySubTime:      req.Deadlines.AwaySubTime,
			ResultDayOffset:  req.Deadlines.ResultDayOffset,
			ResultTime:       req.Deadlines.ResultTime,
		}
		input.Deadlines = &cfg
	}

	view, err := h.roundService.Upsert(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "upsert round failed", "season_id", req.SeasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundToDTO(ctx, view))
}

func (h *Handler) ActivateRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ActivateRound")
	defer span.End()

	roundID := strings.TrimSpace(r.PathValue("roundID"))
	view, err := h.roundService.Activate(ctx, roundID)
	if err != nil {
		h.logger.WarnContext(ctx, "activate round failed", "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundToDTO(ctx, view))
}

func (h *Handler) PauseRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PauseRound")
	defer span.End()

	roundID := strings.TrimSpace(r.PathValue("roundID"))
	view, err := h.roundService.Pause(ctx, roundID)
	if err != nil {
		h.logger.WarnContext(ctx, "pause round failed", "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundToDTO(ctx, view))
}

func (h *Handler) CompleteRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CompleteRound")
	defer span.End()

	roundID := strings.TrimSpace(r.PathValue("roundID"))
	view, err := h.roundService.Complete(ctx, roundID)
	if err != nil {
		h.logger.WarnContext(ctx, "complete round failed", "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundToDTO(ctx, view))
}

type deadlineConfigDTO struct {
	HomeLineupTime   string `json:"homeLineupTime"`
	AwayLineupTime   string `json:"awayLineupTime"`
	HomeSubDayOffset *int   `json:"homeSubDayOffset,omitempty"`
	HomeSubTime      string `json:"homeSubTime,omitempty"`
	AwaySubDayOffset *int   `json:"awaySubDayOffset,omitempty"`
	AwaySubTime      string `json:"awaySubTime,omitempty"`
	ResultDayOffset  int    `json:"resultDayOffset"`
	ResultTime       string `json:"resultTime"`
}

type upsertRoundRequest struct {
	ID            string             `json:"id"`
	SeasonID      string             `json:"seasonId" validate:"required"`
	Number        int                `json:"number" validate:"required,min=1"`
	Leg           string             `json:"leg" validate:"omitempty,oneof=first second"`
	ScheduledDate string             `json:"scheduledDate" validate:"omitempty,datetime=2006-01-02"`
	Deadlines     *deadlineConfigDTO `json:"deadlines"`
}

type scheduleDTO struct {
	HomeLineup       string `json:"homeLineup"`
	AwayLineup       string `json:"awayLineup"`
	HomeSubstitution string `json:"homeSubstitution"`
	AwaySubstitution string `json:"awaySubstitution"`
	ResultEntry      string `json:"resultEntry"`
}

type roundDTO struct {
	ID            string            `json:"id"`
	SeasonID      string            `json:"seasonId"`
	Number        int               `json:"number"`
	Leg           string            `json:"leg"`
	Status        string            `json:"status"`
	Phase         string            `json:"phase"`
	ScheduledDate string            `json:"scheduledDate,omitempty"`
	Deadlines     deadlineConfigDTO `json:"deadlines"`
	Schedule      *scheduleDTO      `json:"schedule,omitempty"`
	UpdatedAt     string            `json:"updatedAt"`
}

func roundToDTO(ctx context.Context, view usecase.RoundView) roundDTO {
	ctx, span := startSpan(ctx, "httpapi.roundToDTO")
	defer span.End()

	rnd := view.Round
	dto := roundDTO{
		ID:            rnd.ID,
		SeasonID:      rnd.SeasonID,
		Number:        rnd.Number,
		Leg:           rnd.Leg,
		Status:        round.NormalizeStatus(rnd.Status),
		Phase:         string(view.Phase),
		ScheduledDate: rnd.ScheduledDate,
		Deadlines: deadlineConfigDTO{
			HomeLineupTime:   rnd.Deadlines.HomeLineupTime,
			AwayLineupTime:   rnd.Deadlines.AwayLineupTime,
			HomeSubDayOffset: rnd.Deadlines.HomeSubDayOffset,
			HomeSubTime:      rnd.Deadlines.HomeSubTime,
			AwaySubDayOffset: rnd.Deadlines.AwaySubDayOffset,
			AwaySubTime:      rnd.Deadlines.AwaySubTime,
			ResultDayOffset:  rnd.Deadlines.ResultDayOffset,
			ResultTime:       rnd.Deadlines.ResultTime,
		},
		UpdatedAt: rnd.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if view.Scheduled {
		dto.Schedule = &scheduleDTO{
			HomeLineup:       view.Schedule.HomeLineup.Format(time.RFC3339),
			AwayLineup:       view.Schedule.AwayLineup.Format(time.RFC3339),
			HomeSubstitution: view.Schedule.HomeSubstitution.Format(time.RFC3339),
			AwaySubstitution: view.Schedule.AwaySubstitution.Format(time.RFC3339),
			ResultEntry:      view.Schedule.ResultEntry.Format(time.RFC3339),
		}
	}
	return dto
}
