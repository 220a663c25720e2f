// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fctrlabs/fstake/log"
)

// mockLogger records the context of Info and Warn calls.
type mockLogger struct {
	loggedData []any
}

func (m *mockLogger) With(_ ...any) log.Logger { return m }

func (m *mockLogger) Trace(_ string, _ ...any) {}

func (m *mockLogger) Debug(_ string, _ ...any) {}

func (m *mockLogger) Error(_ string, _ ...any) {}

func (m *mockLogger) Crit(_ string, _ ...any) {}

func (m *mockLogger) Enabled(_ slog.Level) bool { return true }

func (m *mockLogger) Info(_ string, ctx ...any) {
	m.loggedData = append(m.loggedData, ctx...)
}

func (m *mockLogger) Warn(_ string, ctx ...any) {
	m.loggedData = append(m.loggedData, ctx...)
}

func TestRequestLoggerHandler(t *testing.T) {
	ok := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
	failing := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}

	tests := []struct {
		name                 string
		handler              http.HandlerFunc
		enabled              bool
		slowQueriesThreshold time.Duration
		log5xxErrors         bool
		expectedStatusCode   int
		shouldLog            bool
	}{
		{"enabled", ok, true, 0, false, http.StatusOK, true},
		{"disabled", ok, false, 0, false, http.StatusOK, false},
		{
			name: "slow request over threshold",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(15 * time.Millisecond)
				ok(w, r)
			},
			slowQueriesThreshold: 5 * time.Millisecond,
			expectedStatusCode:   http.StatusOK,
			shouldLog:            true,
		},
		{"fast request under threshold", ok, false, time.Second, false, http.StatusOK, false},
		{"5xx logged", failing, false, 0, true, http.StatusInternalServerError, true},
		{"5xx not logged", failing, false, 0, false, http.StatusInternalServerError, false},
		{
			name: "4xx never logged as failure",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
			},
			log5xxErrors:       true,
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name: "implicit 200",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte("OK"))
			},
			log5xxErrors:       true,
			expectedStatusCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockLog := &mockLogger{}
			enabled := atomic.Bool{}
			enabled.Store(tt.enabled)

			var seenBody string
			handler := RequestLoggerMiddleware(mockLog, &enabled, tt.slowQueriesThreshold, tt.log5xxErrors)(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					b, _ := io.ReadAll(r.Body)
					seenBody = string(b)
					tt.handler(w, r)
				}))

			reqBody := "test body"
			req := httptest.NewRequest(http.MethodPost, "http://example.com/foo", strings.NewReader(reqBody))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatusCode, rr.Code)
			assert.Equal(t, reqBody, seenBody, "body must reach the wrapped handler")
			assert.NotEmpty(t, rr.Header().Get(RequestIDHeader))

			if tt.shouldLog {
				assert.Contains(t, mockLog.loggedData, "http://example.com/foo")
				assert.Contains(t, mockLog.loggedData, http.MethodPost)
				assert.Contains(t, mockLog.loggedData, reqBody)
				assert.Contains(t, mockLog.loggedData, rr.Header().Get(RequestIDHeader))
				assert.Contains(t, mockLog.loggedData, tt.expectedStatusCode)
			} else {
				assert.Empty(t, mockLog.loggedData)
			}
		})
	}
}

func TestRequestIDPreserved(t *testing.T) {
	enabled := atomic.Bool{}
	handler := RequestLoggerMiddleware(&mockLogger{}, &enabled, 0, false)(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "given")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, "given", rr.Header().Get(RequestIDHeader))
}
