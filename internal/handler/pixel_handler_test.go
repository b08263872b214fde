package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Artin0123/API-backend/internal/domain"
	"github.com/Artin0123/API-backend/tests/mocks"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestPixel_RecordsBeaconVisit(t *testing.T) {
	mockService := new(mocks.MockCollectorService)
	handler := NewPixelHandler(mockService)
	router := setupTestRouter()
	router.GET("/assets/pixel.png", handler.Pixel)

	req := httptest.NewRequest("GET", "/assets/pixel.png", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4")
	w := httptest.NewRecorder()

	mockService.On("RecordVisit", mock.Anything, mock.MatchedBy(func(r domain.VisitRequest) bool {
		return r.Source == domain.SourceGET
	})).Return(&domain.VisitResult{VisitorNumber: 1, NewVisitor: true}, nil).Once()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, pixelPNG, w.Body.Bytes())
	mockService.AssertExpectations(t)
}

func TestPixel_RendersDespiteStorageFailure(t *testing.T) {
	mockService := new(mocks.MockCollectorService)
	handler := NewPixelHandler(mockService)
	router := setupTestRouter()
	router.GET("/assets/pixel.png", handler.Pixel)

	req := httptest.NewRequest("GET", "/assets/pixel.png", nil)
	w := httptest.NewRecorder()

	mockService.On("RecordVisit", mock.Anything, mock.Anything).
		Return(nil, errors.New("database down")).Once()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pixelPNG, w.Body.Bytes())
}

func TestPixel_QueryParamsForwardedAsPayload(t *testing.T) {
	mockService := new(mocks.MockCollectorService)
	handler := NewPixelHandler(mockService)
	router := setupTestRouter()
	router.GET("/assets/pixel.png", handler.Pixel)

	req := httptest.NewRequest("GET", "/assets/pixel.png?screen_width=1920&ref=abc", nil)
	w := httptest.NewRecorder()

	mockService.On("RecordVisit", mock.Anything, mock.MatchedBy(func(r domain.VisitRequest) bool {
		return r.Payload["screen_width"] == "1920" && r.Payload["ref"] == "abc"
	})).Return(&domain.VisitResult{VisitorNumber: 1}, nil).Once()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}
