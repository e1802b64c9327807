package config

import "os"

// MentorConfig holds configuration for the external mentor-text provider.
// When the API key is unset every persona falls back to its static hints.
type MentorConfig struct {
	APIKey    string `json:"-"` // Never serialize
	BaseURL   string `json:"baseUrl"`
	Model     string `json:"model"`
	TimeoutMS int    `json:"timeoutMs"`
}

// DefaultMentorConfig returns the default mentor provider configuration
func DefaultMentorConfig() *MentorConfig {
	return &MentorConfig{
		APIKey:    os.Getenv("MENTOR_API_KEY"),
		BaseURL:   getEnvOrDefault("MENTOR_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models"),
		Model:     getEnvOrDefault("MENTOR_MODEL", "gemini-2.0-flash"),
		TimeoutMS: 10000, // 10 second default timeout
	}
}

// IsEnabled returns true if the mentor API is configured
func (c *MentorConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// Endpoint returns the full generateContent endpoint for the configured model
func (c *MentorConfig) Endpoint() string {
	return c.BaseURL + "/" + c.Model + ":generateContent"
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
