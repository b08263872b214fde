package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Artin0123/API-backend/internal/domain"
	"github.com/Artin0123/API-backend/pkg/response"
	"github.com/Artin0123/API-backend/pkg/validator"
)

type VisitorLister interface {
	ListVisitors(ctx context.Context, limit, offset int) ([]domain.VisitorRecord, error)
}

type VisitorsHandler struct {
	service VisitorLister
	token   string
}

func NewVisitorsHandler(service VisitorLister, token string) *VisitorsHandler {
	return &VisitorsHandler{service: service, token: token}
}

// List returns visitor rows, newest visit first. The token must match the
// configured admin secret; a mismatch returns before any storage access.
func (h *VisitorsHandler) List(c *gin.Context) {
	if c.Query("token") != h.token {
		response.Unauthorized(c, "unauthorized")
		return
	}

	req := domain.ListVisitorsRequest{Limit: 50, Offset: 0}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.Offset = n
		}
	}

	if errs := validator.Validate(req); len(errs) > 0 {
		response.ValidationErrors(c, errs)
		return
	}

	visitors, err := h.service.ListVisitors(c.Request.Context(), req.Limit, req.Offset)
	if err != nil {
		response.InternalServerError(c, "failed to list visitors")
		return
	}

	if visitors == nil {
		visitors = []domain.VisitorRecord{}
	}
	response.OK(c, "Visitors retrieved successfully", visitors)
}
