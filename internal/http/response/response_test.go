package response

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/listenupapp/inkmark/internal/errors"
	"github.com/listenupapp/inkmark/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var result Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	return result
}

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"message": "test"}, discardLogger())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	result := decode(t, w)
	assert.Equal(t, Version, result.Version)
	assert.True(t, result.Success)
	assert.NotNil(t, result.Data)
	assert.Empty(t, result.Error)
}

func TestJSON_NilLogger(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"message": "test"}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode(t, w).Success)
}

func TestSuccessAndCreated(t *testing.T) {
	w := httptest.NewRecorder()
	Success(w, map[string]any{"id": "123", "name": "test"}, discardLogger())

	assert.Equal(t, http.StatusOK, w.Code)
	result := decode(t, w)
	dataMap, ok := result.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "123", dataMap["id"])

	w = httptest.NewRecorder()
	Created(w, map[string]string{"id": "new-id"}, discardLogger())

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decode(t, w).Success)
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()

	NoContent(w)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name     string
		write    func(http.ResponseWriter, string, *slog.Logger)
		status   int
		wantCode string
	}{
		{"bad request", BadRequest, http.StatusBadRequest, "VALIDATION"},
		{"not found", NotFound, http.StatusNotFound, "NOT_FOUND"},
		{"method not allowed", MethodNotAllowed, http.StatusMethodNotAllowed, ""},
		{"conflict", Conflict, http.StatusConflict, "CONFLICT"},
		{"too many requests", TooManyRequests, http.StatusTooManyRequests, ""},
		{"internal", InternalError, http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			tt.write(w, "something went wrong", discardLogger())

			assert.Equal(t, tt.status, w.Code)
			result := decode(t, w)
			assert.Equal(t, Version, result.Version)
			assert.False(t, result.Success)
			assert.Nil(t, result.Data)
			assert.Equal(t, "something went wrong", result.Error)
			assert.Equal(t, tt.wantCode, result.Code)
		})
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
		wantCode    string
	}{
		{
			name:        "user input",
			err:         domainerrors.UserInput("Upload a document first"),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Upload a document first",
			wantCode:    "USER_INPUT",
		},
		{
			name:        "wrapped document error",
			err:         fmt.Errorf("load: %w", domainerrors.Document("Failed to load document")),
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: "Failed to load document",
			wantCode:    "DOCUMENT",
		},
		{
			name:        "store not found",
			err:         store.ErrAnnotationNotFound,
			wantStatus:  http.StatusNotFound,
			wantMessage: "annotation not found",
			wantCode:    "NOT_FOUND",
		},
		{
			name:        "invariant is hidden",
			err:         domainerrors.Invariant("page 9 outside [1, 3]"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "internal server error",
			wantCode:    "INTERNAL",
		},
		{
			name:        "unknown error",
			err:         io.ErrUnexpectedEOF,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "internal server error",
			wantCode:    "INTERNAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			HandleError(w, tt.err, discardLogger())

			assert.Equal(t, tt.wantStatus, w.Code)
			result := decode(t, w)
			assert.False(t, result.Success)
			assert.Equal(t, tt.wantMessage, result.Error)
			assert.Equal(t, tt.wantCode, result.Code)
		})
	}
}

func TestStatusCodeBoundary(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		expectedSuccess bool
	}{
		{"200 OK", 200, true},
		{"201 Created", 201, true},
		{"399 Custom Success", 399, true},
		{"400 Bad Request", 400, false},
		{"404 Not Found", 404, false},
		{"500 Internal Server Error", 500, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			JSON(w, tt.status, nil, discardLogger())

			assert.Equal(t, tt.expectedSuccess, decode(t, w).Success)
		})
	}
}

func TestEnvelope_OmitEmpty(t *testing.T) {
	tests := []struct {
		name        string
		envelope    Envelope
		contains    []string
		notContains []string
	}{
		{
			name:        "success with data",
			envelope:    Envelope{Version: Version, Success: true, Data: "test"},
			contains:    []string{`"v":1`, `"success":true`, `"data":"test"`},
			notContains: []string{`"error":`, `"code":`},
		},
		{
			name:        "error without data",
			envelope:    Envelope{Version: Version, Error: "something failed"},
			contains:    []string{`"v":1`, `"success":false`, `"error":"something failed"`},
			notContains: []string{`"data":`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.envelope)
			require.NoError(t, err)

			jsonStr := string(data)
			for _, s := range tt.contains {
				assert.Contains(t, jsonStr, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, jsonStr, s)
			}
		})
	}
}
