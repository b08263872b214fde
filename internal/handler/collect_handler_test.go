package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Artin0123/API-backend/internal/domain"
	"github.com/Artin0123/API-backend/tests/mocks"
)

func TestCollect_Success(t *testing.T) {
	mockService := new(mocks.MockCollectorService)
	handler := NewCollectHandler(mockService)
	router := setupTestRouter()
	router.POST("/api/collect", handler.Collect)

	reqBody := `{"navigator_language":"en-US","screen_width":1920,"screen_height":1080}`
	req := httptest.NewRequest("POST", "/api/collect", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	mockService.On("RecordVisit", mock.Anything, mock.MatchedBy(func(r domain.VisitRequest) bool {
		return r.Source == domain.SourcePOST &&
			r.Payload["navigator_language"] == "en-US" &&
			r.Payload["screen_width"] == float64(1920)
	})).Return(&domain.VisitResult{VisitorNumber: 2, NewVisitor: true}, nil).Once()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp CollectResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.VisitorID)
	assert.Contains(t, resp.Message, "#2")

	mockService.AssertExpectations(t)
}

func TestCollect_MalformedBodyStillRecords(t *testing.T) {
	mockService := new(mocks.MockCollectorService)
	handler := NewCollectHandler(mockService)
	router := setupTestRouter()
	router.POST("/api/collect", handler.Collect)

	req := httptest.NewRequest("POST", "/api/collect", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	mockService.On("RecordVisit", mock.Anything, mock.MatchedBy(func(r domain.VisitRequest) bool {
		return r.Source == domain.SourcePOST && r.Payload == nil
	})).Return(&domain.VisitResult{VisitorNumber: 3}, nil).Once()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestCollect_StorageFailure(t *testing.T) {
	mockService := new(mocks.MockCollectorService)
	handler := NewCollectHandler(mockService)
	router := setupTestRouter()
	router.POST("/api/collect", handler.Collect)

	req := httptest.NewRequest("POST", "/api/collect", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	mockService.On("RecordVisit", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused")).Once()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, false, resp["success"])
	assert.NotEmpty(t, resp["error"])
}
