// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/fctrlabs/fstake/metrics"
)

// server is a started http server bound to a listener.
type server struct {
	srv  *http.Server
	url  string
	done errgroup.Group
}

func startServer(addr string, handler http.Handler, path string) (*server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen addr [%v]", addr)
	}
	s := &server{
		srv: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: time.Second,
			ReadTimeout:       5 * time.Second,
		},
		url: "http://" + listener.Addr().String() + path,
	}
	s.done.Go(func() error {
		if err := s.srv.Serve(listener); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	return s, nil
}

func startAPIServer(addr string, handler http.Handler) (*server, error) {
	return startServer(addr, handler, "/")
}

func startMetricsServer(addr string) (*server, error) {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	return startServer(addr, handlers.CompressHandler(router), "/metrics")
}

func startAdminServer(addr string, handler http.Handler) (*server, error) {
	return startServer(addr, handler, "/admin")
}

// Shutdown stops accepting requests and waits for the served ones.
func (s *server) Shutdown(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return err
	}
	return s.done.Wait()
}
