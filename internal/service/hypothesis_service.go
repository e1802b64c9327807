package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"walkrisk/internal/model"
	"walkrisk/internal/repository"
)

// SubmitHypothesisRequest is the submission payload
type SubmitHypothesisRequest struct {
	Text             string   `json:"text"`
	Confidence       int      `json:"confidence"`
	EvidenceLabels   []string `json:"evidenceLabels"`
	PredictedOutcome string   `json:"predictedOutcome"`
}

// HypothesisService closes attempts: it runs the evaluator exactly once
// per attempt and hands the result to the statistics aggregator.
type HypothesisService struct {
	puzzleRepo  repository.PuzzleRepo
	attemptRepo repository.AttemptRepo
	evaluator   *EvaluatorService
	statsSvc    *StatsService
	locker      *attemptLocker
	broadcaster Broadcaster
	now         func() time.Time
}

// NewHypothesisService creates a new hypothesis service. It shares the
// investigation service's per-attempt lock so reveals and submissions
// against the same attempt are serialized.
func NewHypothesisService(
	puzzleRepo repository.PuzzleRepo,
	attemptRepo repository.AttemptRepo,
	evaluator *EvaluatorService,
	statsSvc *StatsService,
	investigationSvc *InvestigationService,
) *HypothesisService {
	return &HypothesisService{
		puzzleRepo:  puzzleRepo,
		attemptRepo: attemptRepo,
		evaluator:   evaluator,
		statsSvc:    statsSvc,
		locker:      investigationSvc.locker,
		now:         time.Now,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *HypothesisService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SubmitHypothesis evaluates the explanation, transitions the attempt to
// its terminal phase and emits the reward. Submission is final; a second
// call fails with ErrAttemptClosed and the stored evaluation is untouched.
func (s *HypothesisService) SubmitHypothesis(ctx context.Context, playerID, puzzleID string, req *SubmitHypothesisRequest) (*model.Evaluation, error) {
	unlock := s.locker.lock(playerID, puzzleID)
	defer unlock()

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
	if attempt == nil {
		attempt = model.NewAttempt(playerID, puzzleID, s.now())
	}

	if attempt.Closed() {
		return nil, ErrAttemptClosed
	}
	if puzzle.Expired(s.now()) {
		return nil, ErrPuzzleExpired
	}
	if err := s.evaluator.Validate(req.Text, req.Confidence); err != nil {
		return nil, err
	}

	eval := s.evaluator.Evaluate(puzzle, req.Text, req.Confidence)
	eval.RewardXP = s.evaluator.ComputeReward(puzzle, eval, s.now().Sub(attempt.CreatedAt))

	outlook := InferOutlook(req.Text, req.PredictedOutcome)
	eval.Feedback += fmt.Sprintf(" Your thesis reads as %s.", outlook)

	submittedAt := s.now()
	attempt.Hypothesis = &model.Hypothesis{
		ID:               uuid.New().String(),
		Text:             req.Text,
		Confidence:       req.Confidence,
		EvidenceLabels:   req.EvidenceLabels,
		PredictedOutcome: req.PredictedOutcome,
		SubmittedAt:      submittedAt,
	}
	attempt.Evaluation = eval
	attempt.Phase = model.PhaseEvaluated
	attempt.EvaluatedAt = &submittedAt

	if err := s.attemptRepo.Save(ctx, attempt); err != nil {
		return nil, fmt.Errorf("save attempt: %w", err)
	}

	// The attempt is closed either way; stats are best-effort downstream.
	if _, err := s.statsSvc.RecordCompletion(ctx, playerID, puzzle.Difficulty, eval); err != nil {
		log.Printf("Warning: stats update failed for player %s: %v", playerID, err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToPlayer(playerID, "evaluation_result", eval)
	}

	return eval, nil
}
