package model

import "time"

// Difficulty orders puzzles from beginner to master
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyMaster       Difficulty = "master"
)

// RewardMultiplier scales XP rewards by difficulty
func (d Difficulty) RewardMultiplier() float64 {
	switch d {
	case DifficultyIntermediate:
		return 1.5
	case DifficultyAdvanced:
		return 2.0
	case DifficultyMaster:
		return 3.0
	default:
		return 1.0
	}
}

// Valid reports whether d is one of the known difficulty tags
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyMaster:
		return true
	}
	return false
}

// PuzzleType categorizes the market event behind a puzzle
type PuzzleType string

const (
	PuzzlePriceDrop  PuzzleType = "price_drop"
	PuzzlePriceSurge PuzzleType = "price_surge"
	PuzzleVolatility PuzzleType = "volatility"
	PuzzleDivergence PuzzleType = "divergence"
	PuzzleMystery    PuzzleType = "mystery"
)

// ClueSource is the fixed set of evidence categories
type ClueSource string

const (
	ClueNews      ClueSource = "news"
	ClueFinancial ClueSource = "financial"
	ClueChart     ClueSource = "chart"
	ClueAnalyst   ClueSource = "analyst"
	ClueInsider   ClueSource = "insider"
)

// Clue is a unit of revealable evidence. Reliability and cost are fixed
// at creation and never mutate.
type Clue struct {
	ID          string     `json:"id" bson:"id"`
	Source      ClueSource `json:"source" bson:"source"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description" bson:"description"`
	Content     string     `json:"content" bson:"content"`
	Reliability float64    `json:"reliability" bson:"reliability"` // 0-1
	Cost        int        `json:"cost" bson:"cost"`               // energy units, >= 0
}

// ReliabilityInsight is the guidance band attached to a revealed clue
func (c *Clue) ReliabilityInsight() string {
	switch {
	case c.Reliability > 0.8:
		return "This information is highly reliable."
	case c.Reliability > 0.6:
		return "This information is fairly reliable."
	case c.Reliability > 0.4:
		return "This information needs further confirmation."
	default:
		return "Treat this information with caution."
	}
}

// Puzzle is an immutable market-event mystery created by an external
// generator. ReferenceExplanation and EvidenceTokens are hidden from
// players until evaluation.
type Puzzle struct {
	ID                   string     `json:"id" bson:"_id,omitempty"`
	Title                string     `json:"title" bson:"title"`
	Description          string     `json:"description" bson:"description"`
	Type                 PuzzleType `json:"type" bson:"type"`
	Difficulty           Difficulty `json:"difficulty" bson:"difficulty"`
	TargetSymbol         string     `json:"targetSymbol" bson:"targetSymbol"`
	Clues                []Clue     `json:"clues" bson:"clues"`
	ReferenceExplanation string     `json:"-" bson:"referenceExplanation"`
	EvidenceTokens       []string   `json:"-" bson:"evidenceTokens"`
	BaseRewardXP         int        `json:"baseRewardXp" bson:"baseRewardXp"`
	ExpiresAt            *time.Time `json:"expiresAt,omitempty" bson:"expiresAt,omitempty"`
	CreatedAt            time.Time  `json:"createdAt" bson:"createdAt"`
}

// FindClue returns the clue with the given id, or nil
func (p *Puzzle) FindClue(clueID string) *Clue {
	for i := range p.Clues {
		if p.Clues[i].ID == clueID {
			return &p.Clues[i]
		}
	}
	return nil
}

// Expired reports whether the puzzle is past its expiry at the given time
func (p *Puzzle) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && now.After(*p.ExpiresAt)
}

// PuzzleSummary is the listing view: no reference explanation, no
// evidence tokens, no clue contents.
type PuzzleSummary struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Type         PuzzleType `json:"type"`
	Difficulty   Difficulty `json:"difficulty"`
	TargetSymbol string     `json:"targetSymbol"`
	ClueCount    int        `json:"clueCount"`
	BaseRewardXP int        `json:"baseRewardXp"`
	Expired      bool       `json:"expired"`
	Solved       bool       `json:"solved"`
}

// PuzzleFilter narrows a puzzle listing
type PuzzleFilter struct {
	Difficulty Difficulty
	Type       PuzzleType
	Limit      int
	Offset     int
}
