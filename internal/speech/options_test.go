package speech

import (
	"testing"
	"time"
)

func TestMergeOverridesOnlySetFields(t *testing.T) {
	base := Options{
		Language:    "zh",
		LanguageSet: true,
		Threads:     4,
		ThreadsSet:  true,
	}
	override := Options{
		Language:    "en",
		LanguageSet: true,
	}

	got := Merge(base, override)
	if got.Language != "en" {
		t.Fatalf("expected override language, got %q", got.Language)
	}
	if got.Threads != 4 || !got.ThreadsSet {
		t.Fatal("unset override fields must keep base values")
	}
}

func TestMergeCanForceZeroValues(t *testing.T) {
	base := Options{Translate: true, TranslateSet: true}
	override := Options{Translate: false, TranslateSet: true}

	if got := Merge(base, override); got.Translate {
		t.Fatal("an explicitly set false must win over base true")
	}
}

func TestNormalizeDefaults(t *testing.T) {
	got := NormalizeDefaults(Options{
		Language:      "  zh  ",
		Threads:       8,
		InitialPrompt: " hello ",
	})
	if !got.LanguageSet || got.Language != "zh" {
		t.Fatalf("expected trimmed language with Set flag, got %+v", got)
	}
	if !got.ThreadsSet {
		t.Fatal("expected ThreadsSet for positive thread count")
	}
	if !got.InitialPromptSet || got.InitialPrompt != "hello" {
		t.Fatalf("expected trimmed prompt with Set flag, got %+v", got)
	}

	empty := NormalizeDefaults(Options{})
	if empty.LanguageSet || empty.ThreadsSet || empty.TranslateSet {
		t.Fatal("zero options must not raise Set flags")
	}
}

func TestPCMDuration(t *testing.T) {
	if d := PCMDuration(16000, 16000); d != time.Second {
		t.Fatalf("expected 1s, got %v", d)
	}
	if d := PCMDuration(0, 16000); d != 0 {
		t.Fatalf("expected 0 for empty audio, got %v", d)
	}
	if d := PCMDuration(100, 0); d != 0 {
		t.Fatalf("expected 0 for invalid rate, got %v", d)
	}
}
