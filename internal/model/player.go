package model

import "time"

// DifficultyCount tracks attempted/solved per difficulty tag
type DifficultyCount struct {
	Attempted int `json:"attempted" bson:"attempted"`
	Solved    int `json:"solved" bson:"solved"`
}

// PlayerStats is the append-only fold of a player's completed attempts.
// Past evaluations never have their contribution revised.
type PlayerStats struct {
	PlayerID      string                     `json:"playerId" bson:"_id"`
	Nickname      string                     `json:"nickname" bson:"nickname"`
	MentorID      string                     `json:"mentorId" bson:"mentorId"`
	TotalAttempts int                        `json:"totalAttempts" bson:"totalAttempts"`
	TotalSolved   int                        `json:"totalSolved" bson:"totalSolved"`
	SuccessRate   float64                    `json:"successRate" bson:"successRate"`
	CurrentStreak int                        `json:"currentStreak" bson:"currentStreak"`
	BestStreak    int                        `json:"bestStreak" bson:"bestStreak"`
	AvgAccuracy   float64                    `json:"avgAccuracy" bson:"avgAccuracy"`
	TotalXP       int                        `json:"totalXp" bson:"totalXp"`
	ByDifficulty  map[string]DifficultyCount `json:"byDifficulty" bson:"byDifficulty"`
	UpdatedAt     time.Time                  `json:"updatedAt" bson:"updatedAt"`
}

// Level derives the player level from accumulated XP
func (s *PlayerStats) Level() int {
	return 1 + s.TotalXP/100
}

// RecordCompletion folds one evaluation into the counters
func (s *PlayerStats) RecordCompletion(difficulty Difficulty, eval *Evaluation, now time.Time) {
	if s.ByDifficulty == nil {
		s.ByDifficulty = make(map[string]DifficultyCount)
	}

	// Running average over all completed attempts, not just solved ones
	s.AvgAccuracy = (s.AvgAccuracy*float64(s.TotalAttempts) + eval.Accuracy) / float64(s.TotalAttempts+1)
	s.TotalAttempts++

	dc := s.ByDifficulty[string(difficulty)]
	dc.Attempted++

	if eval.IsCorrect {
		s.TotalSolved++
		s.CurrentStreak++
		if s.CurrentStreak > s.BestStreak {
			s.BestStreak = s.CurrentStreak
		}
		dc.Solved++
	} else {
		s.CurrentStreak = 0
	}

	s.ByDifficulty[string(difficulty)] = dc
	s.SuccessRate = float64(s.TotalSolved) / float64(s.TotalAttempts)
	s.TotalXP += eval.RewardXP
	s.UpdatedAt = now
}
