package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"walkrisk/internal/config"
	"walkrisk/internal/model"
)

// ErrProviderUnavailable means the external mentor-text provider could not
// answer. Callers recover locally; this never reaches a user.
var ErrProviderUnavailable = errors.New("mentor provider unavailable")

// Mentor is one investing persona the player can pick as their guide
type Mentor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Specialty   string `json:"specialty"`
	Description string `json:"description"`
	voice       string
	mockHint    string
}

// DefaultMentorID is used when a player has not picked a mentor
const DefaultMentorID = "buffett"

var mentors = []Mentor{
	{
		ID: "buffett", Name: "Warren Buffett", Specialty: "Value investing",
		Description: "Looks for durable businesses behind the noise.",
		voice:       "patient value investor who cares about business fundamentals and margin of safety",
		mockHint:    "Ask what the business is actually worth. Price moves fast, value moves slowly.",
	},
	{
		ID: "lynch", Name: "Peter Lynch", Specialty: "Growth at a reasonable price",
		Description: "Finds stories the market has not priced in yet.",
		voice:       "energetic stock picker who connects everyday observations to earnings",
		mockHint:    "Know what you own and why you own it. What story do the clues tell together?",
	},
	{
		ID: "graham", Name: "Benjamin Graham", Specialty: "Security analysis",
		Description: "Demands evidence before conviction.",
		voice:       "rigorous analyst who separates investment from speculation",
		mockHint:    "Mr. Market is moody. Weigh the evidence, not the mood.",
	},
	{
		ID: "dalio", Name: "Ray Dalio", Specialty: "Macro cycles",
		Description: "Reads individual moves against the machine of the economy.",
		voice:       "systems thinker who frames events inside economic cycles",
		mockHint:    "Zoom out. Is this the company, the sector, or the cycle talking?",
	},
	{
		ID: "wood", Name: "Cathie Wood", Specialty: "Disruptive innovation",
		Description: "Hunts for technology shifts hiding inside volatility.",
		voice:       "conviction-driven innovation investor with a long horizon",
		mockHint:    "Volatility is the price of being early. Is the underlying shift intact?",
	},
}

// MentorService renders hint text in a persona's voice via the external
// provider. The engine treats the output as an opaque string.
type MentorService struct {
	cfg    *config.MentorConfig
	client *http.Client
	byID   map[string]*Mentor
}

// NewMentorService creates a new mentor service
func NewMentorService() *MentorService {
	cfg := config.DefaultMentorConfig()
	byID := make(map[string]*Mentor, len(mentors))
	for i := range mentors {
		byID[mentors[i].ID] = &mentors[i]
	}
	return &MentorService{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond},
		byID:   byID,
	}
}

// ListMentors returns the available personas
func (s *MentorService) ListMentors() []Mentor {
	return mentors
}

// ValidMentor reports whether the id names a known persona
func (s *MentorService) ValidMentor(mentorID string) bool {
	_, ok := s.byID[mentorID]
	return ok
}

// FetchHint asks the configured provider for persona-voiced hint text.
// Returns ErrProviderUnavailable when the provider cannot answer, so the
// hint advisor can substitute the tier's static fallback.
func (s *MentorService) FetchHint(ctx context.Context, mentorID string, summary *model.ProgressSummary) (string, error) {
	mentor, ok := s.byID[mentorID]
	if !ok {
		mentor = s.byID[DefaultMentorID]
	}

	if !s.cfg.IsEnabled() {
		// Deterministic persona line when no provider is configured
		return mentor.mockHint, nil
	}

	text, err := s.callProvider(ctx, s.buildHintPrompt(mentor, summary))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return text, nil
}

func (s *MentorService) buildHintPrompt(mentor *Mentor, summary *model.ProgressSummary) string {
	confidence := "no draft hypothesis yet"
	if summary.DraftConfidence != nil {
		confidence = fmt.Sprintf("draft hypothesis at %d%% confidence", *summary.DraftConfidence)
	}

	return fmt.Sprintf(`You are %s, a %s, mentoring an investment learner through a market mystery.
Give ONE short hint (max 2 sentences) in your own voice. Do not reveal the answer.

Puzzle: %s (difficulty: %s)
Progress: revealed %d of %d clues (categories: %s), %s
Hint focus for this tier: %s`,
		mentor.Name, mentor.voice,
		summary.PuzzleTitle, summary.Difficulty,
		summary.RevealedCount, summary.TotalClues,
		strings.Join(summary.RevealedSources, ", "), confidence,
		summary.TierFocus)
}

// callProvider makes a request to the generateContent API
func (s *MentorService) callProvider(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", s.cfg.Endpoint(), s.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var providerResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &providerResp); err != nil {
		return "", err
	}

	if len(providerResp.Candidates) > 0 && len(providerResp.Candidates[0].Content.Parts) > 0 {
		return strings.TrimSpace(providerResp.Candidates[0].Content.Parts[0].Text), nil
	}

	return "", fmt.Errorf("empty response from provider")
}
