// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/fctrlabs/fstake/api/events"
	"github.com/fctrlabs/fstake/api/utils"
	"github.com/fctrlabs/fstake/eventdb"
	"github.com/fctrlabs/fstake/ledger"
	"github.com/fctrlabs/fstake/log"
	"github.com/fctrlabs/fstake/metrics"
)

var (
	logger = log.WithContext("pkg", "subscriptions")

	metricActiveSubscriptions = metrics.LazyLoadGauge("api_active_subscriptions")
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 7 / 10
	listenerBuffer = 64
	feedBuffer     = 256
)

// Publisher publishes the events of committed transitions.
type Publisher interface {
	SubscribeEvents(ch chan *eventdb.Event) event.Subscription
}

// Subscriptions streams committed events to websocket clients.
type Subscriptions struct {
	upgrader  *websocket.Upgrader
	sub       event.Subscription
	listeners map[chan *eventdb.Event]struct{}
	mu        sync.RWMutex
	done      chan struct{}
	wg        sync.WaitGroup
}

// New subscribes to pub and starts dispatching. allowedOrigins may contain "*".
func New(pub Publisher, allowedOrigins []string) *Subscriptions {
	s := &Subscriptions{
		listeners: make(map[chan *eventdb.Event]struct{}),
		done:      make(chan struct{}),
	}
	s.upgrader = &websocket.Upgrader{
		EnableCompression: true,
		CheckOrigin: func(r *http.Request) bool {
			return checkOrigin(r, allowedOrigins)
		},
	}

	feed := make(chan *eventdb.Event, feedBuffer)
	s.sub = pub.SubscribeEvents(feed)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.dispatchLoop(feed)
	}()
	return s
}

func checkOrigin(r *http.Request, allowedOrigins []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	origin = strings.ToLower(origin)
	if slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin) {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// dispatchLoop drains the feed quickly so transitions never wait on slow clients.
func (s *Subscriptions) dispatchLoop(feed chan *eventdb.Event) {
	for {
		select {
		case ev := <-feed:
			s.mu.RLock()
			for lsn := range s.listeners {
				select {
				case lsn <- ev:
				default: // a lagging listener misses the event
				}
			}
			s.mu.RUnlock()
		case <-s.sub.Err():
			return
		case <-s.done:
			return
		}
	}
}

func (s *Subscriptions) subscribe(ch chan *eventdb.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners[ch] = struct{}{}
}

func (s *Subscriptions) unsubscribe(ch chan *eventdb.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.listeners, ch)
}

// eventFilter selects events by staker and op, both optional.
type eventFilter struct {
	staker *ledger.Address
	ops    []string
}

func parseEventFilter(query url.Values) (*eventFilter, error) {
	f := &eventFilter{ops: query["op"]}
	if s := query.Get("staker"); s != "" {
		addr, err := ledger.ParseAddress(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "staker"))
		}
		f.staker = &addr
	}
	return f, nil
}

func (f *eventFilter) match(ev *eventdb.Event) bool {
	if len(f.ops) > 0 && !slices.Contains(f.ops, ev.Op) {
		return false
	}
	if f.staker != nil {
		return ev.Caller == *f.staker || (ev.Counterparty != nil && *ev.Counterparty == *f.staker)
	}
	return true
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	filter, err := parseEventFilter(req.URL.Query())
	if err != nil {
		return err
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has already replied
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	s.wg.Add(1)
	defer s.wg.Done()
	defer conn.Close()

	metricActiveSubscriptions().Add(1)
	defer metricActiveSubscriptions().Add(-1)

	ch := make(chan *eventdb.Event, listenerBuffer)
	s.subscribe(ch)
	defer s.unsubscribe(ch)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case ev := <-ch:
			if !filter.match(ev) {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(events.ConvertEvent(ev)); err != nil {
				logger.Debug("write failed", "err", err)
				return nil
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		case <-closed:
			return nil
		case <-s.done:
			conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait),
			)
			return nil
		}
	}
}

// Close stops dispatching and closes every open connection.
func (s *Subscriptions) Close() {
	close(s.done)
	s.sub.Unsubscribe()
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("WS /subscriptions/events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
