package service

import (
	"context"
	"fmt"
	"time"

	"walkrisk/internal/cache"
	"walkrisk/internal/model"
	"walkrisk/internal/repository"
)

// StatsService folds completed attempts into per-player counters and
// applies the granted reward. Append-only: a past evaluation's
// contribution is never revised.
type StatsService struct {
	statsRepo   repository.StatsRepo
	leaderboard cache.LeaderboardCache
	broadcaster Broadcaster
	now         func() time.Time
}

// NewStatsService creates a new stats service
func NewStatsService(statsRepo repository.StatsRepo, leaderboard cache.LeaderboardCache) *StatsService {
	return &StatsService{
		statsRepo:   statsRepo,
		leaderboard: leaderboard,
		now:         time.Now,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *StatsService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// RecordCompletion folds one evaluation into the player's summary and
// grants the reward XP
func (s *StatsService) RecordCompletion(ctx context.Context, playerID string, difficulty model.Difficulty, eval *model.Evaluation) (*model.PlayerStats, error) {
	stats, err := s.statsRepo.Get(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	if stats == nil {
		stats = &model.PlayerStats{PlayerID: playerID}
	}

	stats.RecordCompletion(difficulty, eval, s.now())

	if err := s.statsRepo.Save(ctx, stats); err != nil {
		return nil, fmt.Errorf("save stats: %w", err)
	}

	if eval.RewardXP > 0 {
		if err := s.leaderboard.AddXP(ctx, playerID, eval.RewardXP); err != nil {
			return stats, fmt.Errorf("leaderboard update: %w", err)
		}
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToPlayer(playerID, "stats_update", stats)
	}

	return stats, nil
}

// GetStats returns the player's summary, zero-valued if nothing completed
func (s *StatsService) GetStats(ctx context.Context, playerID string) (*model.PlayerStats, error) {
	stats, err := s.statsRepo.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = &model.PlayerStats{PlayerID: playerID}
	}
	return stats, nil
}

// SetMentor stores the player's mentor preference
func (s *StatsService) SetMentor(ctx context.Context, playerID, mentorID string) error {
	stats, err := s.statsRepo.Get(ctx, playerID)
	if err != nil {
		return err
	}
	if stats == nil {
		stats = &model.PlayerStats{PlayerID: playerID}
	}
	stats.MentorID = mentorID
	stats.UpdatedAt = s.now()
	return s.statsRepo.Save(ctx, stats)
}

// GetLeaderboard returns the top players by XP
func (s *StatsService) GetLeaderboard(ctx context.Context, limit int) ([]cache.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.leaderboard.GetTop(ctx, limit)
}
