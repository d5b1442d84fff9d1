package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/matchdayhq/fixture-engine/internal/platform/logging"
	"github.com/matchdayhq/fixture-engine/internal/usecase"
)

type Handler struct {
	roundService        *usecase.RoundService
	fixtureService      *usecase.FixtureService
	lineupService       *usecase.LineupService
	matchupService      *usecase.MatchupService
	substitutionService *usecase.SubstitutionService
	resultService       *usecase.ResultService
	logger              *logging.Logger
	validator           *validator.Validate
}

func NewHandler(
	roundService *usecase.RoundService,
	fixtureService *usecase.FixtureService,
	lineupService *usecase.LineupService,
	matchupService *usecase.MatchupService,
	substitutionService *usecase.SubstitutionService,
	resultService *usecase.ResultService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		roundService:        roundService,
		fixtureService:      fixtureService,
		lineupService:       lineupService,
		matchupService:      matchupService,
		substitutionService: substitutionService,
		resultService:       resultService,
		logger:              logger,
		validator:           validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, target any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, target)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
