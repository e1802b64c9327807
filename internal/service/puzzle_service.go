package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"walkrisk/internal/model"
	"walkrisk/internal/repository"
)

// ClueView is the player-facing shape of a clue: content only appears
// once the clue has been revealed.
type ClueView struct {
	ID          string           `json:"id"`
	Source      model.ClueSource `json:"source"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Cost        int              `json:"cost"`
	Reliability float64          `json:"reliability"`
	Revealed    bool             `json:"revealed"`
	Content     string           `json:"content,omitempty"`
}

// PuzzleDetails is the per-player puzzle view
type PuzzleDetails struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Type          model.PuzzleType   `json:"type"`
	Difficulty    model.Difficulty   `json:"difficulty"`
	TargetSymbol  string             `json:"targetSymbol"`
	BaseRewardXP  int                `json:"baseRewardXp"`
	Expired       bool               `json:"expired"`
	Clues         []ClueView         `json:"clues"`
	Phase         model.AttemptPhase `json:"phase,omitempty"`
	RevealedCount int                `json:"revealedCount"`
	EnergySpent   int                `json:"energySpent"`
	Evaluation    *model.Evaluation  `json:"evaluation,omitempty"`
}

// PuzzleService is the read side of the clue store plus puzzle intake
// from the external generator
type PuzzleService struct {
	puzzleRepo  repository.PuzzleRepo
	attemptRepo repository.AttemptRepo
	now         func() time.Time
}

// NewPuzzleService creates a new puzzle service
func NewPuzzleService(puzzleRepo repository.PuzzleRepo, attemptRepo repository.AttemptRepo) *PuzzleService {
	return &PuzzleService{
		puzzleRepo:  puzzleRepo,
		attemptRepo: attemptRepo,
		now:         time.Now,
	}
}

// CreatePuzzle validates and stores a generated puzzle
func (s *PuzzleService) CreatePuzzle(ctx context.Context, puzzle *model.Puzzle) (string, error) {
	if len(puzzle.Clues) == 0 {
		return "", errors.New("puzzle must have at least one clue")
	}
	if puzzle.ReferenceExplanation == "" {
		return "", errors.New("puzzle must have a reference explanation")
	}
	for i := range puzzle.Clues {
		c := &puzzle.Clues[i]
		if c.Cost < 0 {
			return "", fmt.Errorf("clue %s: cost must be >= 0", c.ID)
		}
		if c.Reliability < 0 || c.Reliability > 1 {
			return "", fmt.Errorf("clue %s: reliability must be in [0,1]", c.ID)
		}
	}

	if err := s.puzzleRepo.Create(ctx, puzzle); err != nil {
		return "", err
	}
	return puzzle.ID, nil
}

// ListPuzzles returns metadata-only summaries, flagging puzzles the
// player has already solved
func (s *PuzzleService) ListPuzzles(ctx context.Context, playerID string, filter model.PuzzleFilter) ([]model.PuzzleSummary, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 50 {
		filter.Limit = 10
	}

	puzzles, total, err := s.puzzleRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	summaries := make([]model.PuzzleSummary, 0, len(puzzles))
	for _, p := range puzzles {
		solved := false
		if attempt, err := s.attemptRepo.Get(ctx, playerID, p.ID); err == nil && attempt != nil && attempt.Evaluation != nil {
			solved = attempt.Evaluation.IsCorrect
		}
		summaries = append(summaries, model.PuzzleSummary{
			ID:           p.ID,
			Title:        p.Title,
			Description:  p.Description,
			Type:         p.Type,
			Difficulty:   p.Difficulty,
			TargetSymbol: p.TargetSymbol,
			ClueCount:    len(p.Clues),
			BaseRewardXP: p.BaseRewardXP,
			Expired:      p.Expired(now),
			Solved:       solved,
		})
	}

	return summaries, total, nil
}

// GetPuzzleDetails returns the puzzle with only the player's revealed
// clue contents. The reference explanation and evidence tokens are never
// included.
func (s *PuzzleService) GetPuzzleDetails(ctx context.Context, playerID, puzzleID string) (*PuzzleDetails, error) {
	puzzle, err := s.puzzleRepo.GetByID(ctx, puzzleID)
	if err != nil {
		return nil, fmt.Errorf("load puzzle: %w", err)
	}
	if puzzle == nil {
		return nil, ErrPuzzleNotFound
	}

	attempt, err := s.attemptRepo.Get(ctx, playerID, puzzleID)
	if err != nil {
		return nil, fmt.Errorf("load attempt: %w", err)
	}

	details := &PuzzleDetails{
		ID:           puzzle.ID,
		Title:        puzzle.Title,
		Description:  puzzle.Description,
		Type:         puzzle.Type,
		Difficulty:   puzzle.Difficulty,
		TargetSymbol: puzzle.TargetSymbol,
		BaseRewardXP: puzzle.BaseRewardXP,
		Expired:      puzzle.Expired(s.now()),
		Clues:        make([]ClueView, 0, len(puzzle.Clues)),
	}

	for i := range puzzle.Clues {
		c := &puzzle.Clues[i]
		view := ClueView{
			ID:          c.ID,
			Source:      c.Source,
			Title:       c.Title,
			Description: c.Description,
			Cost:        c.Cost,
			Reliability: c.Reliability,
		}
		if attempt != nil && attempt.Revealed(c.ID) {
			view.Revealed = true
			view.Content = c.Content
		}
		details.Clues = append(details.Clues, view)
	}

	if attempt != nil {
		details.Phase = attempt.Phase
		details.RevealedCount = attempt.RevealedCount()
		details.EnergySpent = attempt.EnergySpent
		details.Evaluation = attempt.Evaluation
	}

	return details, nil
}
