package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestAsErrorUnwrapsChains(t *testing.T) {
	base := Request("asr_wav_format_unsupported", "decode failed")
	wrapped := fmt.Errorf("ingest: %w", base)

	e, ok := AsError(wrapped)
	if !ok {
		t.Fatal("expected structured error through the wrap chain")
	}
	if e.Code != "asr_wav_format_unsupported" {
		t.Fatalf("unexpected code %q", e.Code)
	}
}

func TestWithCauseKeepsCodeAndMessage(t *testing.T) {
	base := Request("asr_wav_format_unsupported", "decode failed")
	cause := stderrors.New("unsupported_format")
	e := base.WithCause(cause)

	if e.Code != base.Code || e.Message != base.Message {
		t.Fatal("WithCause must not alter code or message")
	}
	if !stderrors.Is(e, cause) {
		t.Fatal("expected cause in the chain")
	}
	if base.Unwrap() != nil {
		t.Fatal("WithCause must not mutate the original error")
	}
}

func TestErrWritesStructuredResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/asr/transcribe", nil)

	Err(c, Request("asr_wav_format_unsupported", "未找到可用 ffmpeg"))

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["error_code"] != "asr_wav_format_unsupported" {
		t.Fatalf("unexpected error_code %q", body["error_code"])
	}
	if body["human_message"] == "" {
		t.Fatal("expected human_message in the body")
	}
}

func TestErrMapsUnknownErrorsTo500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/asr/transcribe", nil)

	Err(c, stderrors.New("model exploded"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestInvalidArg(t *testing.T) {
	e := InvalidArg("audio_path")
	if e.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", e.Status)
	}
	if e.Code != "invalid_argument" {
		t.Fatalf("unexpected code %q", e.Code)
	}
}
