package service

import (
	"context"
	"fmt"
	"log"
	"sort"

	"walkrisk/internal/model"
	"walkrisk/internal/repository"
)

// MentorHintProvider supplies persona-voiced hint text for a progress
// summary. Implemented by MentorService.
type MentorHintProvider interface {
	FetchHint(ctx context.Context, mentorID string, summary *model.ProgressSummary) (string, error)
}

type tierDef struct {
	threshold int
	focus     string
	fallback  string
}

// Hint ladders are static per difficulty. Thresholds count distinct
// revealed clues; tiers grow more specific as the player digs deeper.
var hintLadders = map[model.Difficulty][]tierDef{
	model.DifficultyBeginner: {
		{0, "where to start", "Start with the news. Recent headlines usually frame the event."},
		{1, "broadening evidence", "Check the financials next. Numbers confirm or deny the headlines."},
		{2, "forming a thesis", "Consider the whole market context before you commit to a cause."},
	},
	model.DifficultyIntermediate: {
		{0, "where to start", "Begin with the cheapest clues and map the obvious suspects."},
		{1, "source reliability", "Weigh each clue by its reliability before trusting it."},
		{2, "cross-checking", "Cross-check the chart against the news timeline."},
		{4, "forming a thesis", "The clues that agree with each other point at the cause."},
	},
	model.DifficultyAdvanced: {
		{0, "where to start", "Advanced puzzles hide contradictions. Expect some clues to mislead."},
		{1, "source reliability", "A high-cost clue is not automatically a truthful one."},
		{3, "contradictions", "Find the two clues that cannot both be true, and ask why."},
		{5, "narrowing down", "Eliminate explanations the financials rule out."},
		{6, "forming a thesis", "The remaining consistent story is usually the reference one."},
	},
	model.DifficultyMaster: {
		{1, "where to start", "Nothing is free here. Choose your first reveals deliberately."},
		{2, "source reliability", "Insider-style clues carry weight, and risk. Corroborate them."},
		{4, "contradictions", "Master puzzles bury the truth under a plausible decoy narrative."},
		{6, "narrowing down", "Ask which single factor explains every clue you hold."},
		{7, "forming a thesis", "State the causal chain end to end before submitting."},
	},
}

// HintService selects the unlocked hint tiers for an attempt and decorates
// them with mentor text. Provider failures fall back to the tier's static
// hint; hint unavailability never blocks investigation.
type HintService struct {
	puzzleRepo  repository.PuzzleRepo
	attemptRepo repository.AttemptRepo
	statsRepo   repository.StatsRepo
	provider    MentorHintProvider
}

// NewHintService creates a new hint service
func NewHintService(
	puzzleRepo repository.PuzzleRepo,
	attemptRepo repository.AttemptRepo,
	statsRepo repository.StatsRepo,
	provider MentorHintProvider,
) *HintService {
	return &HintService{
		puzzleRepo:  puzzleRepo,
		attemptRepo: attemptRepo,
		statsRepo:   statsRepo,
		provider:    provider,
	}
}

// GetHints returns the puzzle's hint ladder with unlock state. Unlock is
// monotonic in the number of distinct revealed clues.
func (s *HintService) GetHints(ctx context.Context, playerID, puzzleID string) ([]model.HintTier, error) {
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

	revealed := 0
	var sources []string
	var draftConfidence *int
	if attempt != nil {
		revealed = attempt.RevealedCount()
		sources = revealedSources(puzzle, attempt)
		if attempt.Draft != nil {
			c := attempt.Draft.Confidence
			draftConfidence = &c
		}
	}

	mentorID := DefaultMentorID
	if stats, err := s.statsRepo.Get(ctx, playerID); err == nil && stats != nil && stats.MentorID != "" {
		mentorID = stats.MentorID
	}

	ladder := hintLadders[puzzle.Difficulty]
	tiers := make([]model.HintTier, 0, len(ladder))
	for i, def := range ladder {
		tier := model.HintTier{
			Tier:      i + 1,
			Threshold: def.threshold,
			Focus:     def.focus,
			Unlocked:  revealed >= def.threshold,
		}
		if tier.Unlocked {
			tier.Text = s.hintText(ctx, mentorID, puzzle, def, tier.Tier, revealed, sources, draftConfidence)
		}
		tiers = append(tiers, tier)
	}

	return tiers, nil
}

func (s *HintService) hintText(ctx context.Context, mentorID string, puzzle *model.Puzzle, def tierDef, tier, revealed int, sources []string, draftConfidence *int) string {
	summary := &model.ProgressSummary{
		PuzzleTitle:     puzzle.Title,
		Difficulty:      string(puzzle.Difficulty),
		RevealedCount:   revealed,
		TotalClues:      len(puzzle.Clues),
		RevealedSources: sources,
		DraftConfidence: draftConfidence,
		TierFocus:       def.focus,
		Tier:            tier,
	}

	text, err := s.provider.FetchHint(ctx, mentorID, summary)
	if err != nil {
		// Recovered locally: the static ladder hint stands in.
		log.Printf("Warning: mentor provider failed, using fallback hint: %v", err)
		return def.fallback
	}
	return text
}

// revealedSources lists the distinct source categories of revealed clues
func revealedSources(puzzle *model.Puzzle, attempt *model.Attempt) []string {
	seen := make(map[string]bool)
	for clueID := range attempt.RevealedClueIDs {
		if clue := puzzle.FindClue(clueID); clue != nil {
			seen[string(clue.Source)] = true
		}
	}
	sources := make([]string, 0, len(seen))
	for s := range seen {
		sources = append(sources, s)
	}
	sort.Strings(sources)
	return sources
}
