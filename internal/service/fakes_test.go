package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"walkrisk/internal/cache"
	"walkrisk/internal/model"
)

// In-memory doubles for the repository and cache interfaces. Service tests
// run against these instead of mongo/redis.

type memPuzzleRepo struct {
	puzzles map[string]*model.Puzzle
}

func newMemPuzzleRepo(puzzles ...*model.Puzzle) *memPuzzleRepo {
	r := &memPuzzleRepo{puzzles: make(map[string]*model.Puzzle)}
	for _, p := range puzzles {
		r.puzzles[p.ID] = p
	}
	return r
}

func (r *memPuzzleRepo) Create(_ context.Context, puzzle *model.Puzzle) error {
	if puzzle.ID == "" {
		puzzle.ID = fmt.Sprintf("puzzle-%d", len(r.puzzles)+1)
	}
	r.puzzles[puzzle.ID] = puzzle
	return nil
}

func (r *memPuzzleRepo) GetByID(_ context.Context, id string) (*model.Puzzle, error) {
	return r.puzzles[id], nil
}

func (r *memPuzzleRepo) List(_ context.Context, filter model.PuzzleFilter) ([]*model.Puzzle, int64, error) {
	var out []*model.Puzzle
	for _, p := range r.puzzles {
		if filter.Difficulty != "" && p.Difficulty != filter.Difficulty {
			continue
		}
		if filter.Type != "" && p.Type != filter.Type {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

type memAttemptRepo struct {
	attempts map[string]*model.Attempt
	failSave bool
	saves    int
}

func newMemAttemptRepo() *memAttemptRepo {
	return &memAttemptRepo{attempts: make(map[string]*model.Attempt)}
}

func attemptKey(playerID, puzzleID string) string {
	return playerID + "|" + puzzleID
}

func (r *memAttemptRepo) Get(_ context.Context, playerID, puzzleID string) (*model.Attempt, error) {
	return r.attempts[attemptKey(playerID, puzzleID)], nil
}

func (r *memAttemptRepo) Save(_ context.Context, attempt *model.Attempt) error {
	if r.failSave {
		return errors.New("save failed")
	}
	r.saves++
	r.attempts[attemptKey(attempt.PlayerID, attempt.PuzzleID)] = attempt
	return nil
}

type memStatsRepo struct {
	stats    map[string]*model.PlayerStats
	failSave bool
}

func newMemStatsRepo() *memStatsRepo {
	return &memStatsRepo{stats: make(map[string]*model.PlayerStats)}
}

func (r *memStatsRepo) Get(_ context.Context, playerID string) (*model.PlayerStats, error) {
	return r.stats[playerID], nil
}

func (r *memStatsRepo) Save(_ context.Context, stats *model.PlayerStats) error {
	if r.failSave {
		return errors.New("save failed")
	}
	r.stats[stats.PlayerID] = stats
	return nil
}

// memEnergy mirrors the redis ledger's debit-or-fail semantics
type memEnergy struct {
	balances map[string]int
}

func newMemEnergy() *memEnergy {
	return &memEnergy{balances: make(map[string]int)}
}

func (c *memEnergy) balance(playerID string) int {
	if b, ok := c.balances[playerID]; ok {
		return b
	}
	c.balances[playerID] = cache.DefaultMaxEnergy
	return cache.DefaultMaxEnergy
}

func (c *memEnergy) Debit(_ context.Context, playerID string, amount int) (int, error) {
	b := c.balance(playerID)
	if amount > b {
		return b, &cache.ErrInsufficientEnergy{Balance: b, Required: amount}
	}
	c.balances[playerID] = b - amount
	return b - amount, nil
}

func (c *memEnergy) Credit(_ context.Context, playerID string, amount int) (int, error) {
	b := c.balance(playerID) + amount
	c.balances[playerID] = b
	return b, nil
}

func (c *memEnergy) Balance(_ context.Context, playerID string) (int, error) {
	return c.balance(playerID), nil
}

func (c *memEnergy) Restore(_ context.Context, playerID string) (int, error) {
	c.balances[playerID] = cache.DefaultMaxEnergy
	return cache.DefaultMaxEnergy, nil
}

type memLeaderboard struct {
	xp        map[string]int
	lastLimit int
}

func newMemLeaderboard() *memLeaderboard {
	return &memLeaderboard{xp: make(map[string]int)}
}

func (l *memLeaderboard) AddXP(_ context.Context, playerID string, xp int) error {
	l.xp[playerID] += xp
	return nil
}

func (l *memLeaderboard) GetTop(_ context.Context, limit int) ([]cache.LeaderboardEntry, error) {
	l.lastLimit = limit
	return nil, nil
}

func (l *memLeaderboard) GetRank(_ context.Context, playerID string) (int64, error) {
	return -1, nil
}

type broadcastEvent struct {
	playerID string
	msgType  string
	payload  interface{}
}

type captureBroadcaster struct {
	events []broadcastEvent
}

func (b *captureBroadcaster) BroadcastToPlayer(playerID string, msgType string, payload interface{}) {
	b.events = append(b.events, broadcastEvent{playerID, msgType, payload})
}

func (b *captureBroadcaster) typesFor(playerID string) []string {
	var types []string
	for _, e := range b.events {
		if e.playerID == playerID {
			types = append(types, e.msgType)
		}
	}
	return types
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
