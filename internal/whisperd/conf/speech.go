package conf

import (
	"strings"

	"github.com/sjzar/whisperd/internal/speech"
)

// Speech providers selectable via config.
const (
	ProviderWhisperCPP = "whispercpp"
	ProviderOpenAI     = "openai"
)

// SpeechConfig controls the speech-to-text backend.
type SpeechConfig struct {
	Provider              string   `mapstructure:"provider" json:"provider"`
	Model                 string   `mapstructure:"model" json:"model"`
	Threads               int      `mapstructure:"threads" json:"threads"`
	Language              string   `mapstructure:"language" json:"language"`
	Translate             *bool    `mapstructure:"translate" json:"translate"`
	InitialPrompt         string   `mapstructure:"initial_prompt" json:"initial_prompt"`
	Temperature           *float64 `mapstructure:"temperature" json:"temperature"`
	TemperatureFallback   *float64 `mapstructure:"temperature_fallback" json:"temperature_fallback"`
	APIKey                string   `mapstructure:"api_key" json:"api_key"`
	BaseURL               string   `mapstructure:"base_url" json:"base_url"`
	Organization          string   `mapstructure:"organization" json:"organization"`
	RequestTimeoutSeconds int      `mapstructure:"request_timeout_seconds" json:"request_timeout_seconds"`
}

// Normalize fills defaults and trims user-supplied values in place.
func (c *SpeechConfig) Normalize() {
	if c == nil {
		return
	}
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = ProviderWhisperCPP
	}
	c.Model = strings.TrimSpace(c.Model)
	c.Language = strings.TrimSpace(c.Language)
}

// ToOptions converts the speech config into runtime options for a transcription backend.
func (c *SpeechConfig) ToOptions() speech.Options {
	var opts speech.Options

	if c == nil {
		return opts
	}

	if c.Language != "" {
		opts.Language = c.Language
		opts.LanguageSet = true
	}
	if c.Translate != nil {
		opts.Translate = *c.Translate
		opts.TranslateSet = true
	}
	if c.Threads > 0 {
		opts.Threads = c.Threads
		opts.ThreadsSet = true
	}
	if c.InitialPrompt != "" {
		opts.InitialPrompt = c.InitialPrompt
		opts.InitialPromptSet = true
	}
	if c.Temperature != nil {
		opts.Temperature = float32(*c.Temperature)
		opts.TemperatureSet = true
	}
	if c.TemperatureFallback != nil {
		opts.TemperatureFloor = float32(*c.TemperatureFallback)
		opts.TemperatureFloorSet = true
	}

	return opts
}
