// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/fctrlabs/fstake/api/admin/apilogs"
	"github.com/fctrlabs/fstake/api/admin/loglevel"
	"github.com/fctrlabs/fstake/health"

	healthAPI "github.com/fctrlabs/fstake/api/admin/health"
)

// New returns the admin router, serving everything under /admin.
func New(logLevel *slog.LevelVar, apiLogs *atomic.Bool, health *health.Health) http.HandlerFunc {
	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()

	loglevel.New(logLevel).Mount(sub, "/loglevel")
	apilogs.New(apiLogs).Mount(sub, "/apilogs")
	healthAPI.New(health).Mount(sub, "/health")

	handler := handlers.CompressHandler(router)

	return handler.ServeHTTP
}
