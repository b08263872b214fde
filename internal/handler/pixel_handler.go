package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Artin0123/API-backend/internal/domain"
	"github.com/Artin0123/API-backend/internal/logger"
)

// pixelPNG is a 1x1 transparent PNG, served on every beacon hit.
var pixelPNG = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4,
	0x89, 0x00, 0x00, 0x00, 0x0B, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9C, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4E, 0x44, 0xAE,
	0x42, 0x60, 0x82,
}

// VisitRecorder records one inbound hit.
type VisitRecorder interface {
	RecordVisit(ctx context.Context, req domain.VisitRequest) (*domain.VisitResult, error)
}

type PixelHandler struct {
	service VisitRecorder
}

func NewPixelHandler(service VisitRecorder) *PixelHandler {
	return &PixelHandler{service: service}
}

// Pixel serves the beacon image. The image always renders: storage
// failures are logged and swallowed so a broken database never shows up
// as a broken image on the embedding page.
func (h *PixelHandler) Pixel(c *gin.Context) {
	req := domain.VisitRequest{
		RemoteAddr: c.Request.RemoteAddr,
		Header:     c.Request.Header,
		Payload:    queryPayload(c),
		Source:     domain.SourceGET,
	}

	if _, err := h.service.RecordVisit(c.Request.Context(), req); err != nil {
		logger.FromContext(c.Request.Context()).Error("Failed to record beacon visit", "error", err)
	}

	c.Data(http.StatusOK, "image/png", pixelPNG)
}

// queryPayload exposes query parameters as the visit payload. The
// resolver ignores them for every script-dependent field; they only feed
// attributes a beacon may legitimately carry.
func queryPayload(c *gin.Context) map[string]any {
	values := c.Request.URL.Query()
	if len(values) == 0 {
		return nil
	}
	payload := make(map[string]any, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			payload[key] = vals[0]
		}
	}
	return payload
}
