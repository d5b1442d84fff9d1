package httpapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/matchdayhq/fixture-engine/internal/domain/round"
	"github.com/matchdayhq/fixture-engine/internal/usecase"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) googleResponseEnvelope {
	t.Helper()
	var envelope googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return envelope
}

func TestMapError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
		wantCode   string
	}{
		{"invalid input", usecase.ErrInvalidInput, http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"},
		{"validation", usecase.ErrValidation, http.StatusBadRequest, "validationFailed", "INVALID_ARGUMENT"},
		{"not found", usecase.ErrNotFound, http.StatusNotFound, "notFound", "NOT_FOUND"},
		{"unauthenticated", usecase.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"},
		{"forbidden", usecase.ErrNotAuthorized, http.StatusForbidden, "notAuthorized", "PERMISSION_DENIED"},
		{"phase violation", usecase.ErrPhaseViolation, http.StatusForbidden, "phaseViolation", "FAILED_PRECONDITION"},
		{"conflict", usecase.ErrConflict, http.StatusConflict, "alreadyCreated", "ABORTED"},
		{"dependency down", usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "internalError", "INTERNAL"},
		{"wrapped sentinel", fmt.Errorf("save: %w", usecase.ErrNotFound), http.StatusNotFound, "notFound", "NOT_FOUND"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := mapError(t.Context(), tc.err)
			if mapped.HTTPStatus != tc.wantStatus {
				t.Fatalf("status: want %d, got %d", tc.wantStatus, mapped.HTTPStatus)
			}
			if mapped.Reason != tc.wantReason {
				t.Fatalf("reason: want %s, got %s", tc.wantReason, mapped.Reason)
			}
			if mapped.Status != tc.wantCode {
				t.Fatalf("google status: want %s, got %s", tc.wantCode, mapped.Status)
			}
		})
	}
}

func TestWriteError_EnvelopeShape(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(t.Context(), rec, fmt.Errorf("%w: fixture=fx-1", usecase.ErrNotFound))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected json content type, got %s", got)
	}

	envelope := decodeEnvelope(t, rec)
	if envelope.APIVersion != googleAPIVersion {
		t.Fatalf("unexpected apiVersion %s", envelope.APIVersion)
	}
	if envelope.Error == nil || len(envelope.Error.Errors) != 1 {
		t.Fatalf("expected one error item, got %+v", envelope.Error)
	}
	item := envelope.Error.Errors[0]
	if item.Domain != errorDomain || item.Reason != "notFound" {
		t.Fatalf("unexpected error item %+v", item)
	}
}

func TestWriteError_DeadlineDetail(t *testing.T) {
	deadline := time.Date(2026, 9, 5, 11, 30, 0, 0, time.UTC)
	err := &usecase.DeadlineError{Op: "lineup submission", Phase: round.PhaseClosed, Deadline: deadline}

	rec := httptest.NewRecorder()
	writeError(t.Context(), rec, err)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	item := envelope.Error.Errors[0]
	if item.Reason != "phaseViolation" {
		t.Fatalf("unexpected reason %s", item.Reason)
	}
	if item.Deadline != deadline.Format(time.RFC3339) {
		t.Fatalf("expected deadline detail, got %q", item.Deadline)
	}
}

func TestWriteError_ConflictCarriesWinner(t *testing.T) {
	err := &usecase.ConflictError{FixtureID: "fx-1", CreatedBy: "team-home"}

	rec := httptest.NewRecorder()
	writeError(t.Context(), rec, err)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if got := envelope.Error.Errors[0].WonBy; got != "team-home" {
		t.Fatalf("expected winning team in error detail, got %q", got)
	}
}

func TestWriteSuccess_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(t.Context(), rec, http.StatusCreated, map[string]string{"id": "fx-1"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.APIVersion != googleAPIVersion || envelope.Error != nil {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok || data["id"] != "fx-1" {
		t.Fatalf("unexpected data %+v", envelope.Data)
	}
}
