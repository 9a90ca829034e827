package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sjzar/whisperd/internal/errors"
	"github.com/sjzar/whisperd/internal/speech"
)

func (s *Service) initRouter() {
	s.router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	asr := s.router.Group("/asr")
	{
		asr.POST("/transcribe", s.handleTranscribe)
		asr.GET("/status", s.handleStatus)
		asr.POST("/decoder/refresh", s.handleDecoderRefresh)
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
}

// POST /asr/transcribe
func (s *Service) handleTranscribe(c *gin.Context) {
	var req struct {
		AudioPath               string `json:"audio_path"`
		Language                string `json:"language"`
		AudioEnhancementEnabled bool   `json:"audio_enhancement_enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
		return
	}

	path := strings.TrimSpace(req.AudioPath)
	if path == "" {
		errors.Err(c, errors.InvalidArg("audio_path"))
		return
	}

	var opts speech.Options
	if lang := strings.TrimSpace(req.Language); lang != "" {
		opts.Language = lang
		opts.LanguageSet = true
	}

	result, err := s.rt.TranscribeFile(c.Request.Context(), path, opts, req.AudioEnhancementEnabled)
	if err != nil {
		errors.Err(c, err)
		return
	}

	response := gin.H{"text": result.Text}
	if result.Language != "" {
		response["language"] = result.Language
	}
	if result.Duration > 0 {
		response["duration"] = result.Duration.Seconds()
	}
	if len(result.Segments) > 0 {
		segments := make([]gin.H, 0, len(result.Segments))
		for _, seg := range result.Segments {
			segments = append(segments, gin.H{
				"id":    seg.ID,
				"start": seg.Start.Seconds(),
				"end":   seg.End.Seconds(),
				"text":  seg.Text,
			})
		}
		response["segments"] = segments
	}

	c.JSON(http.StatusOK, response)
}

// GET /asr/status
func (s *Service) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"provider": s.rt.Provider(),
		"model":    s.rt.Model(),
		"decoder":  s.rt.DecoderCapability(),
	})
}

// POST /asr/decoder/refresh
func (s *Service) handleDecoderRefresh(c *gin.Context) {
	capability := s.rt.RefreshDecoder()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "decoder": capability})
}
