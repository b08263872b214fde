package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Artin0123/API-backend/internal/domain"
	"github.com/Artin0123/API-backend/internal/logger"
	"github.com/Artin0123/API-backend/pkg/response"
)

type CollectResponse struct {
	Success   bool   `json:"success"`
	VisitorID int    `json:"visitor_id"`
	Message   string `json:"message"`
}

type CollectHandler struct {
	service VisitRecorder
}

func NewCollectHandler(service VisitRecorder) *CollectHandler {
	return &CollectHandler{service: service}
}

// Collect records a script-submitted visit. Every payload key is
// optional and a malformed body degrades to an empty payload; only a
// storage failure surfaces as an error to the caller.
func (h *CollectHandler) Collect(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		logger.FromContext(c.Request.Context()).Warn("Unparseable collect payload", "error", err)
		payload = nil
	}

	// Page context is logged for correlation only; it is never stored.
	pageURL, _ := payload["page_url"].(string)
	pageTitle, _ := payload["page_title"].(string)
	if pageURL != "" || pageTitle != "" {
		logger.FromContext(c.Request.Context()).Debug("Collect page context",
			"page_url", truncate(pageURL, 2048),
			"page_title", truncate(pageTitle, 2048),
		)
	}

	req := domain.VisitRequest{
		RemoteAddr: c.Request.RemoteAddr,
		Header:     c.Request.Header,
		Payload:    payload,
		Source:     domain.SourcePOST,
	}

	result, err := h.service.RecordVisit(c.Request.Context(), req)
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("Failed to record collected visit", "error", err)
		response.InternalServerError(c, "failed to record visit")
		return
	}

	message := fmt.Sprintf("Visit recorded for visitor #%d", result.VisitorNumber)
	if result.NewVisitor {
		message = fmt.Sprintf("New visitor #%d recorded", result.VisitorNumber)
	}

	c.JSON(http.StatusOK, CollectResponse{
		Success:   true,
		VisitorID: result.VisitorNumber,
		Message:   message,
	})
}

func truncate(s string, max int) string {
	if runes := []rune(s); len(runes) > max {
		return string(runes[:max])
	}
	return s
}
