package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walkrisk/internal/model"
)

func newPuzzleFixture(puzzle *model.Puzzle) (*PuzzleService, *memAttemptRepo) {
	attempts := newMemAttemptRepo()
	return NewPuzzleService(newMemPuzzleRepo(puzzle), attempts), attempts
}

func TestGetPuzzleDetailsHidesUnrevealedContent(t *testing.T) {
	svc, _ := newPuzzleFixture(investigationPuzzle())

	details, err := svc.GetPuzzleDetails(context.Background(), "p1", "puzzle-1")
	require.NoError(t, err)
	require.Len(t, details.Clues, 5)

	for _, clue := range details.Clues {
		assert.False(t, clue.Revealed)
		assert.Empty(t, clue.Content)
		assert.NotEmpty(t, clue.ID)
	}
}

func TestGetPuzzleDetailsShowsRevealedContent(t *testing.T) {
	svc, attempts := newPuzzleFixture(investigationPuzzle())
	ctx := context.Background()

	attempt := model.NewAttempt("p1", "puzzle-1", time.Now())
	attempt.Reveal("c2", 10)
	require.NoError(t, attempts.Save(ctx, attempt))

	details, err := svc.GetPuzzleDetails(ctx, "p1", "puzzle-1")
	require.NoError(t, err)

	byID := make(map[string]ClueView)
	for _, c := range details.Clues {
		byID[c.ID] = c
	}
	assert.Equal(t, "financial content", byID["c2"].Content)
	assert.True(t, byID["c2"].Revealed)
	assert.Empty(t, byID["c3"].Content)
	assert.Equal(t, 1, details.RevealedCount)
	assert.Equal(t, 10, details.EnergySpent)
}

func TestGetPuzzleDetailsIsPerPlayer(t *testing.T) {
	svc, attempts := newPuzzleFixture(investigationPuzzle())
	ctx := context.Background()

	attempt := model.NewAttempt("p1", "puzzle-1", time.Now())
	attempt.Reveal("c1", 0)
	require.NoError(t, attempts.Save(ctx, attempt))

	other, err := svc.GetPuzzleDetails(ctx, "p2", "puzzle-1")
	require.NoError(t, err)
	assert.Equal(t, 0, other.RevealedCount)
	for _, clue := range other.Clues {
		assert.False(t, clue.Revealed)
	}
}

func TestGetPuzzleDetailsUnknownPuzzle(t *testing.T) {
	svc, _ := newPuzzleFixture(investigationPuzzle())

	_, err := svc.GetPuzzleDetails(context.Background(), "p1", "missing")
	assert.ErrorIs(t, err, ErrPuzzleNotFound)
}

func TestListPuzzlesMarksSolved(t *testing.T) {
	svc, attempts := newPuzzleFixture(investigationPuzzle())
	ctx := context.Background()

	attempt := model.NewAttempt("p1", "puzzle-1", time.Now())
	attempt.Phase = model.PhaseEvaluated
	attempt.Evaluation = &model.Evaluation{Accuracy: 75, IsCorrect: true}
	require.NoError(t, attempts.Save(ctx, attempt))

	summaries, total, err := svc.ListPuzzles(ctx, "p1", model.PuzzleFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.True(t, summaries[0].Solved)
	assert.Equal(t, 5, summaries[0].ClueCount)

	// an incorrect evaluation is not a solve
	otherSummaries, _, err := svc.ListPuzzles(ctx, "p2", model.PuzzleFilter{})
	require.NoError(t, err)
	assert.False(t, otherSummaries[0].Solved)
}

func TestListPuzzlesMarksExpired(t *testing.T) {
	puzzle := investigationPuzzle()
	expired := time.Now().Add(-time.Hour)
	puzzle.ExpiresAt = &expired
	svc, _ := newPuzzleFixture(puzzle)

	summaries, _, err := svc.ListPuzzles(context.Background(), "p1", model.PuzzleFilter{})
	require.NoError(t, err)
	assert.True(t, summaries[0].Expired)
}

func TestCreatePuzzleValidation(t *testing.T) {
	svc, _ := newPuzzleFixture(investigationPuzzle())
	ctx := context.Background()

	_, err := svc.CreatePuzzle(ctx, &model.Puzzle{ReferenceExplanation: "x"})
	assert.Error(t, err)

	_, err = svc.CreatePuzzle(ctx, &model.Puzzle{
		Clues: []model.Clue{{ID: "c1", Cost: 5, Reliability: 0.5}},
	})
	assert.Error(t, err)

	_, err = svc.CreatePuzzle(ctx, &model.Puzzle{
		ReferenceExplanation: "x",
		Clues:                []model.Clue{{ID: "c1", Cost: -1, Reliability: 0.5}},
	})
	assert.Error(t, err)

	_, err = svc.CreatePuzzle(ctx, &model.Puzzle{
		ReferenceExplanation: "x",
		Clues:                []model.Clue{{ID: "c1", Cost: 5, Reliability: 1.5}},
	})
	assert.Error(t, err)

	id, err := svc.CreatePuzzle(ctx, &model.Puzzle{
		ReferenceExplanation: "x",
		Clues:                []model.Clue{{ID: "c1", Cost: 5, Reliability: 0.5}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}
