package memory

import (
	"errors"
	"sync"
	"testing"

	"github.com/matchdayhq/fixture-engine/internal/domain/lineup"
	"github.com/matchdayhq/fixture-engine/internal/domain/matchup"
)

func testBatch(createdBy string) matchup.Batch {
	return matchup.Batch{
		FixtureID: "fx-1",
		CreatedBy: createdBy,
		Pairings: []matchup.Pairing{
			{
				Position:        1,
				HomePlayer:      lineup.Player{ID: "h-1", Name: "Home One"},
				AwayPlayer:      lineup.Player{ID: "a-1", Name: "Away One"},
				DurationMinutes: 6,
			},
		},
	}
}

func TestMatchupStore_CreateIfAbsent_SingleWinner(t *testing.T) {
	store := NewMatchupStore()

	if err := store.CreateIfAbsent(t.Context(), testBatch("team-home")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if err := store.CreateIfAbsent(t.Context(), testBatch("team-away")); !errors.Is(err, matchup.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	stored, exists, err := store.Get(t.Context(), "fx-1")
	if err != nil || !exists {
		t.Fatalf("expected stored batch, exists=%v err=%v", exists, err)
	}
	if stored.CreatedBy != "team-home" {
		t.Fatalf("first writer must win, got %s", stored.CreatedBy)
	}
	if stored.Version != 1 {
		t.Fatalf("expected initial version 1, got %d", stored.Version)
	}
}

func TestMatchupStore_CreateIfAbsent_ConcurrentWriters(t *testing.T) {
	store := NewMatchupStore()

	const writers = 32
	errs := make([]error, writers)
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			creator := "team-home"
			if i%2 == 1 {
				creator = "team-away"
			}
			errs[i] = store.CreateIfAbsent(t.Context(), testBatch(creator))
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, matchup.ErrAlreadyExists):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}
}

func TestMatchupStore_Update_VersionSemantics(t *testing.T) {
	store := NewMatchupStore()
	if err := store.CreateIfAbsent(t.Context(), testBatch("team-home")); err != nil {
		t.Fatalf("create: %v", err)
	}

	current, _, err := store.Get(t.Context(), "fx-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	current.Pairings[0].DurationMinutes = 8
	if err := store.Update(t.Context(), current); err != nil {
		t.Fatalf("update: %v", err)
	}

	stored, _, err := store.Get(t.Context(), "fx-1")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if stored.Version != 2 {
		t.Fatalf("update must advance the version, got %d", stored.Version)
	}
	if stored.Pairings[0].DurationMinutes != 8 {
		t.Fatalf("update must persist the change, got %d", stored.Pairings[0].DurationMinutes)
	}

	// current still carries version 1 and must now lose the swap.
	if err := store.Update(t.Context(), current); !errors.Is(err, matchup.ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch for stale version, got %v", err)
	}
}

func TestMatchupStore_Update_UnknownFixture(t *testing.T) {
	store := NewMatchupStore()

	if err := store.Update(t.Context(), testBatch("team-home")); !errors.Is(err, matchup.ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}
}

func TestMatchupStore_Delete(t *testing.T) {
	store := NewMatchupStore()
	if err := store.CreateIfAbsent(t.Context(), testBatch("team-home")); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.Delete(t.Context(), "fx-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, exists, _ := store.Get(t.Context(), "fx-1"); exists {
		t.Fatal("expected batch gone")
	}

	// Deleting an absent batch stays a no-op.
	if err := store.Delete(t.Context(), "fx-1"); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
}

func TestMatchupStore_Get_ReturnsIsolatedCopy(t *testing.T) {
	store := NewMatchupStore()
	batch := testBatch("team-home")
	goals := 3
	batch.Pairings[0].HomeGoals = &goals
	if err := store.CreateIfAbsent(t.Context(), batch); err != nil {
		t.Fatalf("create: %v", err)
	}

	first, _, err := store.Get(t.Context(), "fx-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	first.Pairings[0].HomePlayer.ID = "tampered"
	*first.Pairings[0].HomeGoals = 99

	second, _, err := store.Get(t.Context(), "fx-1")
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if second.Pairings[0].HomePlayer.ID != "h-1" {
		t.Fatalf("stored pairing mutated through a read copy: %s", second.Pairings[0].HomePlayer.ID)
	}
	if *second.Pairings[0].HomeGoals != 3 {
		t.Fatalf("stored goals mutated through a read copy: %d", *second.Pairings[0].HomeGoals)
	}
}
