// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/fctrlabs/fstake/api/balances"
	"github.com/fctrlabs/fstake/api/events"
	"github.com/fctrlabs/fstake/api/middleware"
	"github.com/fctrlabs/fstake/api/protocol"
	"github.com/fctrlabs/fstake/api/stakers"
	"github.com/fctrlabs/fstake/api/subscriptions"
	"github.com/fctrlabs/fstake/api/transitions"
	"github.com/fctrlabs/fstake/clock"
	"github.com/fctrlabs/fstake/log"
	"github.com/fctrlabs/fstake/processor"
	"github.com/fctrlabs/fstake/proof"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins     []string
	EnableReqLogger    *atomic.Bool
	SlowQueryThreshold time.Duration
	Log5xxErrors       bool
	EnableMetrics      bool
	EventsLimit        uint64
}

// New returns the api router and a function closing its long lived connections.
func New(
	proc *processor.Processor,
	eventDB events.Filterer,
	verifier proof.Verifier,
	clk clock.Clock,
	opts Options,
) (http.HandlerFunc, func()) {
	origins := make([]string, 0, len(opts.AllowedOrigins))
	for _, o := range opts.AllowedOrigins {
		if o = strings.ToLower(strings.TrimSpace(o)); o != "" {
			origins = append(origins, o)
		}
	}

	router := mux.NewRouter()

	protocol.New(proc).
		Mount(router, "/protocol")
	stakers.New(proc).
		Mount(router, "/stakers")
	balances.New(proc).
		Mount(router, "/balances")
	if eventDB != nil {
		events.New(eventDB, opts.EventsLimit).
			Mount(router, "/events")
	}
	transitions.New(proc, verifier, clk).
		Mount(router, "/transitions")
	subs := subscriptions.New(proc, origins)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", strings.ToLower(transitions.SignatureHeader)}),
		handlers.ExposedHeaders([]string{strings.ToLower(middleware.RequestIDHeader)}),
	)(handler)

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = &atomic.Bool{}
	}
	handler = middleware.RequestLoggerMiddleware(logger, enabled, opts.SlowQueryThreshold, opts.Log5xxErrors)(handler)

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
