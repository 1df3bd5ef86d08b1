package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredLogger(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  string
	}{
		{"success logs info", http.StatusOK, "INFO"},
		{"client error logs warn", http.StatusBadRequest, "WARN"},
		{"server error logs error", http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			handler := middleware.RequestID(StructuredLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte("{}"))
			})))

			req := httptest.NewRequest(http.MethodPost, "/loans/projection?asOf=2024-01-01", nil)
			handler.ServeHTTP(httptest.NewRecorder(), req)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, "/loans/projection", entry["path"])
			assert.Equal(t, "asOf=2024-01-01", entry["query"])
			assert.Equal(t, float64(tt.status), entry["status"])
			assert.Equal(t, float64(2), entry["bytes_written"])
			assert.NotEmpty(t, entry["request_id"])
		})
	}
}
