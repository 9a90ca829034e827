package ingest

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/sjzar/whisperd/internal/errors"
	"github.com/sjzar/whisperd/internal/ffmpeg"
	"github.com/sjzar/whisperd/pkg/util/wave"
)

// unavailableLocator simulates a host without any external decoder.
func unavailableLocator() *ffmpeg.Locator {
	return ffmpeg.NewLocatorWithResolver(func() (string, error) {
		return "", errors.New("not_found")
	})
}

func writeFixture(t *testing.T, name string, samples []int16, rate int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := wave.WritePCM16File(path, samples, rate); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func toneSamples(rate, n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(6000 * math.Sin(2*math.Pi*220*float64(i)/float64(rate)))
	}
	return out
}

func TestIngestValidWAVWithoutExternalDecoder(t *testing.T) {
	p := New(unavailableLocator())
	path := writeFixture(t, "mono16k.wav", toneSamples(16000, 16000), 16000)

	samples, err := p.Ingest(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}
	if len(samples) == 0 {
		t.Fatal("expected non-empty waveform")
	}
}

func TestIngestResamplesToModelRate(t *testing.T) {
	p := New(unavailableLocator())
	path := writeFixture(t, "mono8k.wav", toneSamples(8000, 8000), 8000)

	samples, err := p.Ingest(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}
	if len(samples) < 15900 || len(samples) > 16100 {
		t.Fatalf("expected ~1s at %d Hz, got %d samples", p.SampleRate(), len(samples))
	}
}

func TestIngestInvalidWAVReturnsStructuredError(t *testing.T) {
	p := New(unavailableLocator())
	path := filepath.Join(t.TempDir(), "invalid.wav")
	if err := os.WriteFile(path, []byte("ID3\x04definitely not a wav"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := p.Ingest(context.Background(), path, Options{})
	if err == nil {
		t.Fatal("expected structured error for invalid wav")
	}

	e, ok := apperrors.AsError(err)
	if !ok {
		t.Fatalf("expected structured error, got %T: %v", err, err)
	}
	if e.Code != CodeWAVFormatUnsupported {
		t.Fatalf("expected code %q, got %q", CodeWAVFormatUnsupported, e.Code)
	}
	if e.Status != 422 {
		t.Fatalf("expected status 422, got %d", e.Status)
	}
	if !strings.Contains(e.Message, "未找到可用 ffmpeg") {
		t.Fatalf("expected human message to mention the missing external decoder, got %q", e.Message)
	}
}

func TestIngestZeroAmplitudeWAVSucceeds(t *testing.T) {
	p := New(unavailableLocator())
	path := writeFixture(t, "silence.wav", make([]int16, 200), 8000)

	samples, err := p.Ingest(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("silent but well-formed WAV must decode, got: %v", err)
	}
	if len(samples) == 0 {
		t.Fatal("expected non-empty waveform for silent WAV")
	}
}

func TestIngestExternalFailureFallsBackToWAV(t *testing.T) {
	// The capability points at a binary that does not exist, so the
	// external tier fails at spawn time and the built-in tier decodes.
	broken := ffmpeg.NewLocatorWithResolver(func() (string, error) {
		return filepath.Join(os.TempDir(), "whisperd-no-such-ffmpeg"), nil
	})
	p := New(broken)
	path := writeFixture(t, "mono16k.wav", toneSamples(16000, 4000), 16000)

	samples, err := p.Ingest(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("expected fallback to built-in decoder, got: %v", err)
	}
	if len(samples) != 4000 {
		t.Fatalf("expected 4000 samples from fallback decode, got %d", len(samples))
	}
}

func TestIngestEnhanceNormalizesPeak(t *testing.T) {
	quiet := make([]int16, 1000)
	for i := range quiet {
		quiet[i] = int16(1000 * math.Sin(2*math.Pi*220*float64(i)/16000))
	}
	p := New(unavailableLocator())
	path := writeFixture(t, "quiet.wav", quiet, 16000)

	samples, err := p.Ingest(context.Background(), path, Options{Enhance: true})
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}

	var peak float64
	for _, s := range samples {
		if a := math.Abs(float64(s)); a > peak {
			peak = a
		}
	}
	if peak < 0.9 {
		t.Fatalf("expected peak near 0.95 after enhancement, got %f", peak)
	}
}

func TestIngestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	broken := ffmpeg.NewLocatorWithResolver(func() (string, error) {
		return filepath.Join(os.TempDir(), "whisperd-no-such-ffmpeg"), nil
	})
	p := New(broken)
	path := writeFixture(t, "mono16k.wav", toneSamples(16000, 100), 16000)

	_, err := p.Ingest(ctx, path, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
