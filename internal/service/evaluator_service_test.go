package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walkrisk/internal/model"
)

func evalPuzzle() *model.Puzzle {
	return &model.Puzzle{
		ID:           "puzzle-1",
		Title:        "Samsung Electronics -6.2% Mystery",
		Difficulty:   model.DifficultyBeginner,
		BaseRewardXP: 100,
		EvidenceTokens: []string{
			"oversold", "foreign", "memory price",
		},
	}
}

// 27 words, covers oversold and foreign but not the memory price phrase
const twoOfThreeText = "The stock looks heavily oversold after foreign funds rotated out of the " +
	"chip sector, while the fundamentals stayed intact, so I expect a rebound once " +
	"the selling pressure fades"

func TestEvaluateDeterministic(t *testing.T) {
	svc := NewEvaluatorService()
	puzzle := evalPuzzle()

	first := svc.Evaluate(puzzle, twoOfThreeText, 60)
	second := svc.Evaluate(puzzle, twoOfThreeText, 60)

	assert.Equal(t, first.Accuracy, second.Accuracy)
	assert.Equal(t, first.MatchedEvidence, second.MatchedEvidence)
	assert.Equal(t, first.Feedback, second.Feedback)
}

func TestEvaluateCoverageTwoOfThree(t *testing.T) {
	svc := NewEvaluatorService()
	eval := svc.Evaluate(evalPuzzle(), twoOfThreeText, 60)

	require.Equal(t, []string{"oversold", "foreign"}, eval.MatchedEvidence)
	assert.InDelta(t, 70.0*2/3, eval.CoverageScore, 0.01)
	assert.Equal(t, 25.0, eval.LengthScore)
	// confidence 0.60 vs coverage 0.67: within slack, no penalty
	assert.InDelta(t, 70.0*2/3+25, eval.Accuracy, 0.01)
	assert.True(t, eval.IsCorrect)
}

func TestEvaluatePhraseTokenRequiresAdjacency(t *testing.T) {
	svc := NewEvaluatorService()
	puzzle := evalPuzzle()

	// "memory" and "price" appear, but never adjacent
	split := "The memory chip demand collapsed while the share price kept drifting " +
		"lower through the whole afternoon session on unusually heavy institutional volume"
	eval := svc.Evaluate(puzzle, split, 50)
	assert.NotContains(t, eval.MatchedEvidence, "memory price")

	adjacent := "A sharp memory price decline spooked holders into selling even though " +
		"the long term demand outlook for the whole sector remained completely unchanged"
	eval = svc.Evaluate(puzzle, adjacent, 50)
	assert.Contains(t, eval.MatchedEvidence, "memory price")
}

func TestEvaluateMatchIgnoresCaseAndPunctuation(t *testing.T) {
	svc := NewEvaluatorService()
	text := "OVERSOLD! Foreign, funds... sold; everything fast and the panic created " +
		"a rare entry point for anyone patient enough to wait out the storm"

	eval := svc.Evaluate(evalPuzzle(), text, 50)
	assert.Contains(t, eval.MatchedEvidence, "oversold")
	assert.Contains(t, eval.MatchedEvidence, "foreign")
}

func TestEvaluateOverconfidencePenalized(t *testing.T) {
	svc := NewEvaluatorService()
	puzzle := evalPuzzle()
	// 24 words, zero token coverage
	text := "The company simply had a bad day and nothing else matters because " +
		"markets always wobble randomly without any deeper cause behind the daily move"

	confident := svc.Evaluate(puzzle, text, 95)
	humble := svc.Evaluate(puzzle, text, 30)

	// gap 0.95 exceeds the cap region, gap 0.30 is barely over slack
	assert.Greater(t, humble.Accuracy, confident.Accuracy)
	assert.InDelta(t, 25.0-15.0, confident.Accuracy, 0.01)
	assert.False(t, confident.IsCorrect)
}

func TestEvaluateNoPenaltyWithinSlack(t *testing.T) {
	svc := NewEvaluatorService()
	eval := svc.Evaluate(evalPuzzle(), twoOfThreeText, 80)

	// gap 0.80 - 0.67 = 0.13, inside the slack band
	assert.InDelta(t, 70.0*2/3+25, eval.Accuracy, 0.01)
}

func TestEvaluateAccuracyBounds(t *testing.T) {
	svc := NewEvaluatorService()
	puzzle := evalPuzzle()

	short := svc.Evaluate(puzzle, "oversold oversold oversold", 100)
	assert.GreaterOrEqual(t, short.Accuracy, 0.0)
	assert.LessOrEqual(t, short.Accuracy, 100.0)

	full := svc.Evaluate(puzzle, twoOfThreeText+" with a clear memory price driver behind it", 70)
	assert.LessOrEqual(t, full.Accuracy, 100.0)
	assert.Len(t, full.MatchedEvidence, 3)
}

func TestLengthScoreBands(t *testing.T) {
	svc := NewEvaluatorService()

	assert.InDelta(t, 12.5, svc.lengthScore(10), 0.01)
	assert.Equal(t, 25.0, svc.lengthScore(20))
	assert.Equal(t, 25.0, svc.lengthScore(120))
	assert.InDelta(t, 12.5, svc.lengthScore(240), 0.01)
}

func TestValidate(t *testing.T) {
	svc := NewEvaluatorService()

	assert.ErrorIs(t, svc.Validate("too short", 50), ErrHypothesisTooShort)
	assert.ErrorIs(t, svc.Validate("   padded but still short   ", 101), ErrInvalidConfidence)
	assert.ErrorIs(t, svc.Validate(strings.Repeat("analysis ", 5), -1), ErrInvalidConfidence)
	assert.NoError(t, svc.Validate(strings.Repeat("analysis ", 5), 50))
}

func TestComputeReward(t *testing.T) {
	svc := NewEvaluatorService()
	puzzle := evalPuzzle()
	puzzle.Difficulty = model.DifficultyAdvanced // 2.0x

	eval := &model.Evaluation{Accuracy: 80, IsCorrect: true}

	// fast solve: 100 * 0.8 * 2.0 + 100 * 0.5
	assert.Equal(t, 210, svc.ComputeReward(puzzle, eval, 5*time.Minute))
	// medium solve: +0.2 bracket
	assert.Equal(t, 180, svc.ComputeReward(puzzle, eval, 15*time.Minute))
	// slow solve: no bonus
	assert.Equal(t, 160, svc.ComputeReward(puzzle, eval, time.Hour))
}

func TestComputeRewardNoTimeBonusWhenIncorrect(t *testing.T) {
	svc := NewEvaluatorService()
	eval := &model.Evaluation{Accuracy: 50, IsCorrect: false}

	assert.Equal(t, 50, svc.ComputeReward(evalPuzzle(), eval, time.Minute))
}

func TestInferOutlook(t *testing.T) {
	assert.Equal(t, "contrarian", InferOutlook("classic short squeeze setup", "rise"))
	assert.Equal(t, "bearish", InferOutlook("the price will drop further", ""))
	assert.Equal(t, "bullish", InferOutlook("expect a rebound next week", ""))
	assert.Equal(t, "neutral", InferOutlook("hard to read either way", ""))
}

func TestFeedbackMentionsOverconfidence(t *testing.T) {
	svc := NewEvaluatorService()
	text := "The company simply had a bad day and nothing else matters because " +
		"markets always wobble randomly without any deeper cause behind the daily move"

	eval := svc.Evaluate(evalPuzzle(), text, 95)
	assert.Contains(t, eval.Feedback, "overconfidence")
}
