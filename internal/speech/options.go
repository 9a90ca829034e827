package speech

import (
	"math"
	"strings"
	"time"
)

// Merge layers override on top of base. A field moves only when its
// Set flag is raised, so zero values can still be forced explicitly.
func Merge(base, override Options) Options {
	result := base

	if override.LanguageSet {
		result.Language = override.Language
		result.LanguageSet = true
	}
	if override.TranslateSet {
		result.Translate = override.Translate
		result.TranslateSet = true
	}
	if override.ThreadsSet {
		result.Threads = override.Threads
		result.ThreadsSet = true
	}
	if override.InitialPromptSet {
		result.InitialPrompt = override.InitialPrompt
		result.InitialPromptSet = true
	}
	if override.TemperatureSet {
		result.Temperature = override.Temperature
		result.TemperatureSet = true
	}
	if override.TemperatureFloorSet {
		result.TemperatureFloor = override.TemperatureFloor
		result.TemperatureFloorSet = true
	}

	return result
}

// NormalizeDefaults raises Set flags for fields given as plain values,
// so backend defaults loaded from config behave like explicit options.
func NormalizeDefaults(o Options) Options {
	if strings.TrimSpace(o.Language) != "" {
		o.Language = strings.TrimSpace(o.Language)
		o.LanguageSet = true
	}
	if o.Translate {
		o.TranslateSet = true
	}
	if o.Threads > 0 {
		o.ThreadsSet = true
	}
	if strings.TrimSpace(o.InitialPrompt) != "" {
		o.InitialPrompt = strings.TrimSpace(o.InitialPrompt)
		o.InitialPromptSet = true
	}
	return o
}

// PCMDuration reports the play time of a sample sequence.
func PCMDuration(sampleCount, sampleRate int) time.Duration {
	if sampleRate <= 0 || sampleCount <= 0 {
		return 0
	}
	seconds := float64(sampleCount) / float64(sampleRate)
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}
