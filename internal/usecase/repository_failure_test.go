package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/matchdayhq/fixture-engine/internal/domain/round"
)

// mockRoundRepository exercises the repository-failure paths that the
// in-memory implementations cannot produce.
type mockRoundRepository struct {
	mock.Mock
}

func (m *mockRoundRepository) GetByID(ctx context.Context, roundID string) (round.Round, bool, error) {
	args := m.Called(ctx, roundID)
	return args.Get(0).(round.Round), args.Bool(1), args.Error(2)
}

func (m *mockRoundRepository) ListBySeason(ctx context.Context, seasonID string) ([]round.Round, error) {
	args := m.Called(ctx, seasonID)
	rounds, _ := args.Get(0).([]round.Round)
	return rounds, args.Error(1)
}

func (m *mockRoundRepository) Upsert(ctx context.Context, item round.Round) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func TestRoundService_Get_RepositoryFailure(t *testing.T) {
	repo := &mockRoundRepository{}
	repo.
		On("GetByID", mock.Anything, testRoundID).
		Return(round.Round{}, false, errors.New("connection refused")).
		Once()

	service := NewRoundService(repo, staticIDGenerator{id: "unused"}, DefaultSettings(), testLogger())

	_, err := service.Get(t.Context(), testRoundID)
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("storage failure must not read as absence, got %v", err)
	}
	repo.AssertExpectations(t)
}

func TestRoundService_Activate_SiblingListFailure(t *testing.T) {
	rnd := testActiveRound()
	rnd.Status = round.StatusScheduled

	repo := &mockRoundRepository{}
	repo.
		On("GetByID", mock.Anything, testRoundID).
		Return(rnd, true, nil).
		Once()
	repo.
		On("ListBySeason", mock.Anything, testSeasonID).
		Return(nil, errors.New("connection refused")).
		Once()

	service := NewRoundService(repo, staticIDGenerator{id: "unused"}, DefaultSettings(), testLogger())

	if _, err := service.Activate(t.Context(), testRoundID); err == nil {
		t.Fatal("expected sibling scan failure to propagate")
	}
	repo.AssertExpectations(t)
}

func TestRoundService_Upsert_WriteFailure(t *testing.T) {
	repo := &mockRoundRepository{}
	repo.
		On("Upsert", mock.Anything, mock.AnythingOfType("round.Round")).
		Return(errors.New("connection refused")).
		Once()

	service := NewRoundService(repo, staticIDGenerator{id: "rnd-new"}, DefaultSettings(), testLogger())
	service.SetClock(homeFixtureClock())

	_, err := service.Upsert(t.Context(), UpsertRoundInput{
		SeasonID:      testSeasonID,
		Number:        1,
		ScheduledDate: "2026-09-12",
	})
	if err == nil {
		t.Fatal("expected write failure to propagate")
	}
	repo.AssertExpectations(t)
}
