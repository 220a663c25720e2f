// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package loglevel

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevelHandler(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           any
		expectedStatus int
		expectedLevel  string
		expectedError  string
	}{
		{
			name:           "set level to debug",
			method:         http.MethodPost,
			body:           Request{Level: "debug"},
			expectedStatus: http.StatusOK,
			expectedLevel:  "DEBUG",
		},
		{
			name:           "set level to crit",
			method:         http.MethodPost,
			body:           Request{Level: "crit"},
			expectedStatus: http.StatusOK,
			expectedLevel:  slog.Level(12).String(),
		},
		{
			name:           "invalid level",
			method:         http.MethodPost,
			body:           Request{Level: "loud"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid verbosity level",
		},
		{
			name:           "unknown field",
			method:         http.MethodPost,
			body:           map[string]string{"verbosity": "debug"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "get current level",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedLevel:  "INFO",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logLevel slog.LevelVar
			logLevel.Set(slog.LevelInfo)

			var body []byte
			if tt.body != nil {
				var err error
				body, err = json.Marshal(tt.body)
				require.NoError(t, err)
			}
			req := httptest.NewRequest(tt.method, "/admin/loglevel", bytes.NewReader(body))

			rr := httptest.NewRecorder()
			router := mux.NewRouter()
			New(&logLevel).Mount(router, "/admin/loglevel")
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedLevel != "" {
				var resp Response
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.expectedLevel, resp.CurrentLevel)
				assert.Equal(t, tt.expectedLevel, logLevel.Level().String())
			} else if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, strings.TrimSpace(rr.Body.String()))
			}
		})
	}
}
