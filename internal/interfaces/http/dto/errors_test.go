package dto

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/memoriascard/backend/internal/application/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeNotAuthenticated, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeStorageQuota, http.StatusInsufficientStorage},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{"CARD_NOT_FOUND", http.StatusNotFound},
		{"CARD_FORBIDDEN", http.StatusForbidden},
		{"INVALID_SPOTIFY_LINK", http.StatusBadRequest},
		{"CARD_ALREADY_PAID", http.StatusConflict},
		{"PAYMENT_RETURN_IN_PROGRESS", http.StatusConflict},
		{"PAYMENT_SESSION_FORBIDDEN", http.StatusForbidden},
		{"EMAIL_TAKEN", http.StatusConflict},
		{"INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"INVALID_INPUT", ErrCodeInvalidInput},
		{"INVALID_STATE", ErrCodeInvalidState},
		{"UNAUTHORIZED", ErrCodeUnauthorized},
		{"FORBIDDEN", ErrCodeForbidden},
		{"INTERNAL_ERROR", ErrCodeInternal},
		// Domain specific codes pass through unchanged
		{"NOT_AUTHENTICATED", "NOT_AUTHENTICATED"},
		{"CARD_NOT_FOUND", "CARD_NOT_FOUND"},
		{ErrCodeNotFound, ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestNormalizedCodesHaveStatus(t *testing.T) {
	for legacy, code := range LegacyErrorCodeMapping {
		_, ok := ErrorCodeHTTPStatus[code]
		assert.True(t, ok, "%s normalizes to %s which has no status", legacy, code)
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("NOT_FOUND", "Resource not found")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Resource not found", resp.Error.Message)
	assert.NotZero(t, resp.Error.Timestamp)
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Resource not found", "req-123-456")

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "req-123-456", resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "eventName", Message: "This field is required"},
		{Field: "spotifyLink", Message: "Must be a Spotify link"},
	}

	resp := NewValidationErrorResponse("Validation failed", "req-789", details)

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-789", resp.Error.RequestID)
	require.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "eventName", resp.Error.Details[0].Field)
}

func TestNewErrorResponseWithHelp(t *testing.T) {
	resp := NewErrorResponseWithHelp(ErrCodeNotAuthenticated, "Not authenticated", "req-001", "/login")

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotAuthenticated, resp.Error.Code)
	assert.Equal(t, "/login", resp.Error.Help)
}

func TestErrorResponseTimestamp(t *testing.T) {
	before := time.Now()
	resp := NewErrorResponse(ErrCodeInternal, "Server error")
	after := time.Now()

	assert.False(t, resp.Error.Timestamp.Before(before))
	assert.False(t, resp.Error.Timestamp.After(after))
}

func TestResponseJSON(t *testing.T) {
	resp := NewSuccessResponse(map[string]string{"id": "card-1"})
	resp.Notifications = []notification.Notification{notification.Success("Cartão salvo", "")}

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, true, decoded["success"])
	assert.NotContains(t, decoded, "error")

	notes := decoded["notifications"].([]interface{})
	require.Len(t, notes, 1)
	note := notes[0].(map[string]interface{})
	assert.Equal(t, "success", note["level"])
	assert.Equal(t, "Cartão salvo", note["title"])
	assert.NotContains(t, note, "message")
}

func TestNewSuccessResponseWithMetaPagination(t *testing.T) {
	tests := []struct {
		total         int64
		page          int
		pageSize      int
		expectedPages int
		expectedSize  int
	}{
		{100, 1, 10, 10, 10},
		{101, 1, 10, 11, 10},
		{0, 1, 10, 0, 10},
		{9, 1, 10, 1, 10},
		{11, 1, 10, 2, 10},
		{100, 1, 0, 5, 20},
		{100, 1, -1, 5, 20},
	}

	for _, tt := range tests {
		resp := NewSuccessResponseWithMeta(nil, tt.total, tt.page, tt.pageSize)
		assert.True(t, resp.Success)
		assert.Equal(t, tt.expectedPages, resp.Meta.TotalPages)
		assert.Equal(t, tt.expectedSize, resp.Meta.PageSize)
	}
}
