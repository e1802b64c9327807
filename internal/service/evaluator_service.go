package service

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"walkrisk/internal/model"
)

// ScoringWeights are the tunable parameters of the hypothesis score.
// Coverage must stay dominant: CoverageMax is at least twice any other term.
type ScoringWeights struct {
	CoverageMax      float64 // points from keyword coverage
	LengthMax        float64 // capped length-adequacy bonus
	CalibrationMax   float64 // maximum overconfidence penalty
	CalibrationSlack float64 // confidence-coverage gap tolerated before penalizing
	CorrectThreshold float64 // accuracy at or above this is a solve
	MinTextLen       int     // runes; shorter submissions are rejected
	IdealMinWords    int
	IdealMaxWords    int
}

// DefaultScoringWeights returns the production weight set
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		CoverageMax:      70,
		LengthMax:        25,
		CalibrationMax:   15,
		CalibrationSlack: 0.25,
		CorrectThreshold: 60,
		MinTextLen:       20,
		IdealMinWords:    20,
		IdealMaxWords:    120,
	}
}

// EvaluatorService scores a hypothesis against a puzzle's reference
// evidence tokens. Scoring is a pure computation: the same inputs always
// produce the same accuracy and matched-evidence set.
type EvaluatorService struct {
	weights ScoringWeights
}

// NewEvaluatorService creates an evaluator with the default weights
func NewEvaluatorService() *EvaluatorService {
	return &EvaluatorService{weights: DefaultScoringWeights()}
}

// NewEvaluatorServiceWithWeights creates an evaluator with custom weights
func NewEvaluatorServiceWithWeights(w ScoringWeights) *EvaluatorService {
	return &EvaluatorService{weights: w}
}

// Validate checks a submission before any state is touched
func (s *EvaluatorService) Validate(text string, confidence int) error {
	if len([]rune(strings.TrimSpace(text))) < s.weights.MinTextLen {
		return ErrHypothesisTooShort
	}
	if confidence < 0 || confidence > 100 {
		return ErrInvalidConfidence
	}
	return nil
}

// Evaluate scores the hypothesis. The reward is filled in separately by
// the submit flow, which owns difficulty and timing context.
func (s *EvaluatorService) Evaluate(puzzle *model.Puzzle, text string, confidence int) *model.Evaluation {
	normalized := normalizeText(text)
	words := strings.Fields(normalized)
	wordSet := make(map[string]bool, len(words))
	for _, w := range words {
		wordSet[w] = true
	}

	matched := matchTokens(puzzle.EvidenceTokens, normalized, wordSet)

	coverage := 0.0
	if len(puzzle.EvidenceTokens) > 0 {
		coverage = float64(len(matched)) / float64(len(puzzle.EvidenceTokens))
	}

	coverageScore := coverage * s.weights.CoverageMax
	lengthScore := s.lengthScore(len(words))
	calibrationGap := float64(confidence)/100 - coverage
	penalty := s.calibrationPenalty(calibrationGap)

	accuracy := clamp(coverageScore+lengthScore-penalty, 0, 100)
	isCorrect := accuracy >= s.weights.CorrectThreshold

	return &model.Evaluation{
		Accuracy:        accuracy,
		IsCorrect:       isCorrect,
		MatchedEvidence: matched,
		CoverageScore:   coverageScore,
		LengthScore:     lengthScore,
		CalibrationGap:  calibrationGap,
		Feedback:        s.buildFeedback(puzzle, accuracy, coverage, calibrationGap, matched),
	}
}

// ComputeReward scales the base reward by accuracy and difficulty, with
// the time bonus brackets applied on a solve
func (s *EvaluatorService) ComputeReward(puzzle *model.Puzzle, eval *model.Evaluation, timeTaken time.Duration) int {
	xp := float64(puzzle.BaseRewardXP) * (eval.Accuracy / 100) * puzzle.Difficulty.RewardMultiplier()

	if eval.IsCorrect {
		switch {
		case timeTaken < 10*time.Minute:
			xp += float64(puzzle.BaseRewardXP) * 0.5
		case timeTaken < 20*time.Minute:
			xp += float64(puzzle.BaseRewardXP) * 0.2
		}
	}

	return int(xp)
}

func (s *EvaluatorService) lengthScore(wordCount int) float64 {
	w := s.weights
	switch {
	case wordCount >= w.IdealMinWords && wordCount <= w.IdealMaxWords:
		return w.LengthMax
	case wordCount < w.IdealMinWords:
		return w.LengthMax * float64(wordCount) / float64(w.IdealMinWords)
	default:
		// Diminishing returns past the band, never negative
		return w.LengthMax * float64(w.IdealMaxWords) / float64(wordCount)
	}
}

func (s *EvaluatorService) calibrationPenalty(gap float64) float64 {
	if gap <= s.weights.CalibrationSlack {
		return 0
	}
	penalty := (gap - s.weights.CalibrationSlack) * 40
	if penalty > s.weights.CalibrationMax {
		penalty = s.weights.CalibrationMax
	}
	return penalty
}

func (s *EvaluatorService) buildFeedback(puzzle *model.Puzzle, accuracy, coverage, gap float64, matched []string) string {
	var sb strings.Builder

	switch {
	case accuracy >= 80:
		sb.WriteString("Excellent analysis. You read the market correctly.")
	case accuracy >= s.weights.CorrectThreshold:
		sb.WriteString("Good analysis. You identified the right direction.")
	case accuracy >= 40:
		sb.WriteString("Partially correct. Some key factors were missed.")
	default:
		sb.WriteString("This one got away, but it was a useful exercise.")
	}

	if len(matched) > 0 {
		sb.WriteString(fmt.Sprintf(" Your explanation covered %d of %d key factors (%s).",
			len(matched), len(puzzle.EvidenceTokens), strings.Join(matched, ", ")))
	} else {
		sb.WriteString(" Your explanation did not touch any of the key factors.")
	}

	// Surface calibration explicitly so learners see over/under-confidence
	switch {
	case gap > s.weights.CalibrationSlack:
		sb.WriteString(" Beware of overconfidence: your confidence was well above what the evidence supported.")
	case gap < -0.3:
		sb.WriteString(" You were more right than you believed. Trust strong evidence.")
	}

	if coverage < 0.5 {
		sb.WriteString(" Collecting more clues before committing usually improves accuracy.")
	}

	return sb.String()
}

// normalizeText case-folds and strips punctuation, leaving space-separated
// word tokens
func normalizeText(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// matchTokens returns the reference tokens found in the hypothesis, in
// reference order. Single-word tokens match against the word set;
// multi-word tokens match as a phrase on the normalized text.
func matchTokens(tokens []string, normalized string, wordSet map[string]bool) []string {
	matched := make([]string, 0, len(tokens))
	padded := " " + normalized + " "
	for _, token := range tokens {
		norm := normalizeText(token)
		if norm == "" {
			continue
		}
		if !strings.Contains(norm, " ") {
			if wordSet[norm] {
				matched = append(matched, token)
			}
			continue
		}
		if strings.Contains(padded, " "+norm+" ") {
			matched = append(matched, token)
		}
	}
	return matched
}

// InferOutlook classifies the hypothesis stance from its wording. Used in
// feedback only; it never affects the score.
func InferOutlook(text, predictedOutcome string) string {
	combined := strings.ToLower(text + " " + predictedOutcome)

	for _, kw := range []string{"contrarian", "short squeeze", "against the crowd"} {
		if strings.Contains(combined, kw) {
			return "contrarian"
		}
	}
	for _, kw := range []string{"fall", "drop", "decline", "sell", "bear", "downside"} {
		if strings.Contains(combined, kw) {
			return "bearish"
		}
	}
	for _, kw := range []string{"rise", "rally", "rebound", "buy", "bull", "recover", "upside"} {
		if strings.Contains(combined, kw) {
			return "bullish"
		}
	}
	return "neutral"
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
