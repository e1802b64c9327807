package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walkrisk/internal/model"
)

func newStatsFixture() (*StatsService, *memStatsRepo, *memLeaderboard) {
	stats := newMemStatsRepo()
	board := newMemLeaderboard()
	return NewStatsService(stats, board), stats, board
}

func solvedEval(accuracy float64, xp int) *model.Evaluation {
	return &model.Evaluation{Accuracy: accuracy, IsCorrect: true, RewardXP: xp}
}

func missedEval(accuracy float64) *model.Evaluation {
	return &model.Evaluation{Accuracy: accuracy, IsCorrect: false}
}

func TestRecordCompletionFirstSolve(t *testing.T) {
	svc, _, board := newStatsFixture()

	stats, err := svc.RecordCompletion(context.Background(), "p1", model.DifficultyBeginner, solvedEval(80, 120))
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TotalAttempts)
	assert.Equal(t, 1, stats.TotalSolved)
	assert.Equal(t, 1.0, stats.SuccessRate)
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 1, stats.BestStreak)
	assert.Equal(t, 80.0, stats.AvgAccuracy)
	assert.Equal(t, 120, stats.TotalXP)
	assert.Equal(t, 120, board.xp["p1"])
	assert.Equal(t, model.DifficultyCount{Attempted: 1, Solved: 1}, stats.ByDifficulty["beginner"])
}

func TestRecordCompletionStreakResetsOnMiss(t *testing.T) {
	svc, _, _ := newStatsFixture()
	ctx := context.Background()

	svc.RecordCompletion(ctx, "p1", model.DifficultyBeginner, solvedEval(80, 100))
	svc.RecordCompletion(ctx, "p1", model.DifficultyBeginner, solvedEval(90, 100))
	stats, err := svc.RecordCompletion(ctx, "p1", model.DifficultyBeginner, missedEval(30))
	require.NoError(t, err)

	assert.Equal(t, 0, stats.CurrentStreak)
	assert.Equal(t, 2, stats.BestStreak)
	assert.Equal(t, 3, stats.TotalAttempts)
	assert.Equal(t, 2, stats.TotalSolved)
	assert.InDelta(t, 2.0/3.0, stats.SuccessRate, 0.001)
}

func TestRecordCompletionRunningAverage(t *testing.T) {
	svc, _, _ := newStatsFixture()
	ctx := context.Background()

	svc.RecordCompletion(ctx, "p1", model.DifficultyBeginner, solvedEval(60, 0))
	stats, err := svc.RecordCompletion(ctx, "p1", model.DifficultyBeginner, missedEval(30))
	require.NoError(t, err)

	assert.InDelta(t, 45.0, stats.AvgAccuracy, 0.001)
}

func TestRecordCompletionTracksDifficultySeparately(t *testing.T) {
	svc, _, _ := newStatsFixture()
	ctx := context.Background()

	svc.RecordCompletion(ctx, "p1", model.DifficultyBeginner, solvedEval(80, 100))
	stats, err := svc.RecordCompletion(ctx, "p1", model.DifficultyMaster, missedEval(20))
	require.NoError(t, err)

	assert.Equal(t, model.DifficultyCount{Attempted: 1, Solved: 1}, stats.ByDifficulty["beginner"])
	assert.Equal(t, model.DifficultyCount{Attempted: 1, Solved: 0}, stats.ByDifficulty["master"])
}

func TestRecordCompletionNoXPSkipsLeaderboard(t *testing.T) {
	svc, _, board := newStatsFixture()

	_, err := svc.RecordCompletion(context.Background(), "p1", model.DifficultyBeginner, missedEval(10))
	require.NoError(t, err)

	_, tracked := board.xp["p1"]
	assert.False(t, tracked)
}

func TestRecordCompletionBroadcastsStats(t *testing.T) {
	svc, _, _ := newStatsFixture()
	bc := &captureBroadcaster{}
	svc.SetBroadcaster(bc)

	_, err := svc.RecordCompletion(context.Background(), "p1", model.DifficultyBeginner, solvedEval(80, 100))
	require.NoError(t, err)

	assert.Equal(t, []string{"stats_update"}, bc.typesFor("p1"))
}

func TestGetStatsZeroValuedForNewPlayer(t *testing.T) {
	svc, _, _ := newStatsFixture()

	stats, err := svc.GetStats(context.Background(), "newbie")
	require.NoError(t, err)
	require.NotNil(t, stats)

	assert.Equal(t, "newbie", stats.PlayerID)
	assert.Equal(t, 0, stats.TotalAttempts)
	assert.Equal(t, 1, stats.Level())
}

func TestSetMentor(t *testing.T) {
	svc, repo, _ := newStatsFixture()
	ctx := context.Background()

	require.NoError(t, svc.SetMentor(ctx, "p1", "lynch"))
	assert.Equal(t, "lynch", repo.stats["p1"].MentorID)

	// preference survives later stat folds
	svc.RecordCompletion(ctx, "p1", model.DifficultyBeginner, solvedEval(80, 100))
	assert.Equal(t, "lynch", repo.stats["p1"].MentorID)
}

func TestGetLeaderboardClampsLimit(t *testing.T) {
	svc, _, board := newStatsFixture()
	ctx := context.Background()

	svc.GetLeaderboard(ctx, 0)
	assert.Equal(t, 10, board.lastLimit)

	svc.GetLeaderboard(ctx, 500)
	assert.Equal(t, 10, board.lastLimit)

	svc.GetLeaderboard(ctx, 25)
	assert.Equal(t, 25, board.lastLimit)
}

func TestPlayerLevelFromXP(t *testing.T) {
	stats := &model.PlayerStats{TotalXP: 250}
	assert.Equal(t, 3, stats.Level())
}
