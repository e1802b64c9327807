package model

// HintTier is one progressively more specific guidance level. A tier is
// unlocked once the attempt has revealed at least Threshold distinct clues.
type HintTier struct {
	Tier      int    `json:"tier"`
	Threshold int    `json:"threshold"`
	Focus     string `json:"focus"`
	Unlocked  bool   `json:"unlocked"`
	Text      string `json:"text,omitempty"` // empty while locked
}

// ProgressSummary is the structured request forwarded to a mentor
// provider when hint text is needed. The provider's output is opaque.
type ProgressSummary struct {
	PuzzleTitle     string   `json:"puzzleTitle"`
	Difficulty      string   `json:"difficulty"`
	RevealedCount   int      `json:"revealedCount"`
	TotalClues      int      `json:"totalClues"`
	RevealedSources []string `json:"revealedSources"`
	DraftConfidence *int     `json:"draftConfidence,omitempty"`
	TierFocus       string   `json:"tierFocus"`
	Tier            int      `json:"tier"`
}
