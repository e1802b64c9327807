package service

import (
	"context"
	"fmt"
	"time"

	"walkrisk/internal/cache"
	"walkrisk/internal/model"
	"walkrisk/internal/repository"
)

// RevealResult is returned from a clue reveal
type RevealResult struct {
	Clue          *model.Clue `json:"clue"`
	Insight       string      `json:"insight"`
	EnergyBalance int         `json:"energyBalance"`
	EnergySpent   int         `json:"energySpent"`
	RevealedCount int         `json:"revealedCount"`
	AlreadyKnown  bool        `json:"alreadyKnown"`
}

// InvestigationService handles clue reveals: cost enforcement, idempotency
// and the debit-then-reveal atomicity the energy ledger requires.
type InvestigationService struct {
	puzzleRepo  repository.PuzzleRepo
	attemptRepo repository.AttemptRepo
	energy      cache.EnergyCache
	locker      *attemptLocker
	broadcaster Broadcaster
	now         func() time.Time
}

// NewInvestigationService creates a new investigation service
func NewInvestigationService(
	puzzleRepo repository.PuzzleRepo,
	attemptRepo repository.AttemptRepo,
	energy cache.EnergyCache,
) *InvestigationService {
	return &InvestigationService{
		puzzleRepo:  puzzleRepo,
		attemptRepo: attemptRepo,
		energy:      energy,
		locker:      newAttemptLocker(),
		now:         time.Now,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *InvestigationService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// RevealClue reveals a clue for the player's attempt, creating the attempt
// lazily on first interaction. Re-revealing an already known clue returns
// the same content at zero additional cost.
func (s *InvestigationService) RevealClue(ctx context.Context, playerID, puzzleID, clueID string) (*RevealResult, error) {
	unlock := s.locker.lock(playerID, puzzleID)
	defer unlock()

	puzzle, err := s.puzzleRepo.GetByID(ctx, puzzleID)
	if err != nil {
		return nil, fmt.Errorf("load puzzle: %w", err)
	}
	if puzzle == nil {
		return nil, ErrPuzzleNotFound
	}

	clue := puzzle.FindClue(clueID)
	if clue == nil {
		return nil, ErrClueNotFound
	}

	attempt, err := s.attemptRepo.Get(ctx, playerID, puzzleID)
	if err != nil {
		return nil, fmt.Errorf("load attempt: %w", err)
	}
	if attempt == nil {
		attempt = model.NewAttempt(playerID, puzzleID, s.now())
	}

	if attempt.Closed() {
		return nil, ErrAttemptClosed
	}
	if puzzle.Expired(s.now()) {
		return nil, ErrPuzzleExpired
	}

	if attempt.Revealed(clueID) {
		balance, err := s.energy.Balance(ctx, playerID)
		if err != nil {
			return nil, fmt.Errorf("energy balance: %w", err)
		}
		return &RevealResult{
			Clue:          clue,
			Insight:       clue.ReliabilityInsight(),
			EnergyBalance: balance,
			EnergySpent:   attempt.EnergySpent,
			RevealedCount: attempt.RevealedCount(),
			AlreadyKnown:  true,
		}, nil
	}

	balance, err := s.energy.Debit(ctx, playerID, clue.Cost)
	if err != nil {
		return nil, err
	}

	attempt.Reveal(clueID, clue.Cost)
	if err := s.attemptRepo.Save(ctx, attempt); err != nil {
		// The player must not pay for content they never receive.
		if _, creditErr := s.energy.Credit(ctx, playerID, clue.Cost); creditErr != nil {
			return nil, fmt.Errorf("save attempt: %v (energy refund also failed: %w)", err, creditErr)
		}
		return nil, fmt.Errorf("save attempt: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToPlayer(playerID, "clue_revealed", map[string]interface{}{
			"puzzleId":      puzzleID,
			"clueId":        clueID,
			"source":        clue.Source,
			"revealedCount": attempt.RevealedCount(),
		})
		s.broadcaster.BroadcastToPlayer(playerID, "energy_update", map[string]interface{}{
			"balance": balance,
		})
	}

	return &RevealResult{
		Clue:          clue,
		Insight:       clue.ReliabilityInsight(),
		EnergyBalance: balance,
		EnergySpent:   attempt.EnergySpent,
		RevealedCount: attempt.RevealedCount(),
	}, nil
}

// SaveDraft stores a work-in-progress hypothesis on the attempt. Drafts
// feed the hint advisor's progress summary.
func (s *InvestigationService) SaveDraft(ctx context.Context, playerID, puzzleID, text string, confidence int) error {
	unlock := s.locker.lock(playerID, puzzleID)
	defer unlock()

	puzzle, err := s.puzzleRepo.GetByID(ctx, puzzleID)
	if err != nil {
		return fmt.Errorf("load puzzle: %w", err)
	}
	if puzzle == nil {
		return ErrPuzzleNotFound
	}

	attempt, err := s.attemptRepo.Get(ctx, playerID, puzzleID)
	if err != nil {
		return fmt.Errorf("load attempt: %w", err)
	}
	if attempt == nil {
		attempt = model.NewAttempt(playerID, puzzleID, s.now())
	}
	if attempt.Closed() {
		return ErrAttemptClosed
	}

	attempt.Draft = &model.DraftHypothesis{
		Text:       text,
		Confidence: confidence,
		UpdatedAt:  s.now(),
	}
	return s.attemptRepo.Save(ctx, attempt)
}
