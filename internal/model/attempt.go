package model

import "time"

// AttemptPhase is the attempt state machine. An attempt is created
// directly in the investigating phase and becomes terminal once evaluated.
type AttemptPhase string

const (
	PhaseInvestigating AttemptPhase = "investigating"
	PhaseEvaluated     AttemptPhase = "evaluated"
)

// Hypothesis is the player's submitted causal explanation
type Hypothesis struct {
	ID               string    `json:"id" bson:"id"`
	Text             string    `json:"text" bson:"text"`
	Confidence       int       `json:"confidence" bson:"confidence"` // 0-100
	EvidenceLabels   []string  `json:"evidenceLabels" bson:"evidenceLabels"`
	PredictedOutcome string    `json:"predictedOutcome" bson:"predictedOutcome"`
	SubmittedAt      time.Time `json:"submittedAt" bson:"submittedAt"`
}

// DraftHypothesis is a work-in-progress hypothesis saved before submission
type DraftHypothesis struct {
	Text       string    `json:"text" bson:"text"`
	Confidence int       `json:"confidence" bson:"confidence"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Evaluation is the scoring result, produced exactly once per attempt
// and immutable thereafter.
type Evaluation struct {
	Accuracy        float64  `json:"accuracy" bson:"accuracy"` // 0-100
	IsCorrect       bool     `json:"isCorrect" bson:"isCorrect"`
	MatchedEvidence []string `json:"matchedEvidence" bson:"matchedEvidence"`
	CoverageScore   float64  `json:"coverageScore" bson:"coverageScore"`
	LengthScore     float64  `json:"lengthScore" bson:"lengthScore"`
	CalibrationGap  float64  `json:"calibrationGap" bson:"calibrationGap"`
	Feedback        string   `json:"feedback" bson:"feedback"`
	RewardXP        int      `json:"rewardXp" bson:"rewardXp"`
}

// Attempt is one player's mutable progress on one puzzle. The revealed
// clue set is the single idempotency authority: a clue id present here is
// never charged again.
type Attempt struct {
	ID              string           `json:"id" bson:"_id,omitempty"`
	PlayerID        string           `json:"playerId" bson:"playerId"`
	PuzzleID        string           `json:"puzzleId" bson:"puzzleId"`
	Phase           AttemptPhase     `json:"phase" bson:"phase"`
	RevealedClueIDs map[string]bool  `json:"revealedClueIds" bson:"revealedClueIds"`
	EnergySpent     int              `json:"energySpent" bson:"energySpent"`
	Draft           *DraftHypothesis `json:"draft,omitempty" bson:"draft,omitempty"`
	Hypothesis      *Hypothesis      `json:"hypothesis,omitempty" bson:"hypothesis,omitempty"`
	Evaluation      *Evaluation      `json:"evaluation,omitempty" bson:"evaluation,omitempty"`
	CreatedAt       time.Time        `json:"createdAt" bson:"createdAt"`
	EvaluatedAt     *time.Time       `json:"evaluatedAt,omitempty" bson:"evaluatedAt,omitempty"`
}

// NewAttempt creates an attempt in the investigating phase
func NewAttempt(playerID, puzzleID string, now time.Time) *Attempt {
	return &Attempt{
		PlayerID:        playerID,
		PuzzleID:        puzzleID,
		Phase:           PhaseInvestigating,
		RevealedClueIDs: make(map[string]bool),
		CreatedAt:       now,
	}
}

// Revealed reports whether the clue has already been revealed
func (a *Attempt) Revealed(clueID string) bool {
	return a.RevealedClueIDs[clueID]
}

// Reveal adds a clue to the revealed set and records its cost. It is the
// only write path into the set; callers must check Revealed first.
func (a *Attempt) Reveal(clueID string, cost int) {
	if a.RevealedClueIDs == nil {
		a.RevealedClueIDs = make(map[string]bool)
	}
	a.RevealedClueIDs[clueID] = true
	a.EnergySpent += cost
}

// RevealedCount is the number of distinct clues revealed
func (a *Attempt) RevealedCount() int {
	return len(a.RevealedClueIDs)
}

// Closed reports whether the attempt is terminal
func (a *Attempt) Closed() bool {
	return a.Phase == PhaseEvaluated
}
