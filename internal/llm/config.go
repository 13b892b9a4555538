// Package llm provides the Gemini client and the evaluation calls built on
// top of it: fit evaluation, job analysis, and resume generation.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierStandard is for structured extraction and scoring
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long-form generation (resumes)
	TierAdvanced ModelTier = "advanced"
)

// Config holds the model configuration for the application
type Config struct {
	Models map[ModelTier]string
}

// DefaultConfig returns the default Gemini model configuration
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback to standard when a tier is unconfigured
	return c.Models[TierStandard]
}
