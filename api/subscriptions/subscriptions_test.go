// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fctrlabs/fstake/api/events"
	"github.com/fctrlabs/fstake/eventdb"
	"github.com/fctrlabs/fstake/ledger"
	"github.com/fctrlabs/fstake/processor"
	"github.com/fctrlabs/fstake/test/datagen"
	"github.com/fctrlabs/fstake/test/testnet"
)

func newServer(t *testing.T, net *testnet.Net, origins ...string) (*Subscriptions, string) {
	subs := New(net.Proc, origins)
	router := mux.NewRouter()
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	t.Cleanup(subs.Close)
	return subs, "ws" + strings.TrimPrefix(ts.URL, "http") + "/subscriptions/events"
}

func dial(t *testing.T, url string) *websocket.Conn {
	conn, res, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	res.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) *events.FilteredEvent {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ev events.FilteredEvent
	require.NoError(t, conn.ReadJSON(&ev))
	return &ev
}

// waitListeners blocks until n connections are registered, so no event is published before.
func waitListeners(t *testing.T, subs *Subscriptions, n int) {
	require.Eventually(t, func() bool {
		subs.mu.RLock()
		defer subs.mu.RUnlock()
		return len(subs.listeners) == n
	}, 5*time.Second, 10*time.Millisecond)
}

func TestSubscribeEvents(t *testing.T) {
	net := testnet.New(t)
	subs, url := newServer(t, net)

	staker := datagen.RandKey().Address()
	all := dial(t, url)
	filtered := dial(t, url+"?staker="+staker.String()+"&op=airdrop")
	waitListeners(t, subs, 2)

	other := datagen.RandKey().Address()
	net.Exec(&processor.Transition{Op: processor.OpAirdrop, Caller: other, Amount: uint256.NewInt(7)})
	net.Exec(&processor.Transition{Op: processor.OpAirdrop, Caller: staker, Amount: uint256.NewInt(9)})

	ev := read(t, all)
	assert.Equal(t, "airdrop", ev.Op)
	assert.Equal(t, other.String(), ev.Caller)
	require.NotNil(t, ev.Native)
	assert.Equal(t, "7", *ev.Native)
	assert.Equal(t, staker.String(), read(t, all).Caller)

	ev = read(t, filtered)
	assert.Equal(t, staker.String(), ev.Caller, "events of other callers are filtered out")
	assert.NotZero(t, ev.ID)
}

func TestSubscribeBadRequest(t *testing.T) {
	net := testnet.New(t)
	_, url := newServer(t, net)

	_, res, err := websocket.DefaultDialer.Dial(url+"?staker=0OIl", nil)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestCheckOrigin(t *testing.T) {
	tests := []struct {
		origin  string
		allowed []string
		ok      bool
	}{
		{"", nil, true},
		{"https://app.example", []string{"https://app.example"}, true},
		{"https://APP.example", []string{"https://app.example"}, true},
		{"https://evil.example", []string{"https://app.example"}, false},
		{"https://evil.example", []string{"*"}, true},
		{"http://node.local:8669", nil, true},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "http://node.local:8669/subscriptions/events", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		assert.Equal(t, tt.ok, checkOrigin(req, tt.allowed), tt.origin)
	}
}

func TestCloseEndsConnections(t *testing.T) {
	net := testnet.New(t)
	subs := New(net.Proc, nil)
	router := mux.NewRouter()
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	defer ts.Close()

	conn := dial(t, "ws"+strings.TrimPrefix(ts.URL, "http")+"/subscriptions/events")
	waitListeners(t, subs, 1)

	subs.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "%v", err)

	// transitions keep committing once nobody listens
	net.Exec(&processor.Transition{Op: processor.OpAirdrop, Caller: ledger.BytesToAddress([]byte("x")), Amount: uint256.NewInt(1)})
}

func TestEventFilter(t *testing.T) {
	a, b := datagen.RandAddress(), datagen.RandAddress()
	f := &eventFilter{staker: &a, ops: []string{"entrust"}}
	assert.True(t, f.match(&eventdb.Event{Op: "entrust", Caller: b, Counterparty: &a}))
	assert.False(t, f.match(&eventdb.Event{Op: "entrust", Caller: b}))
	assert.False(t, f.match(&eventdb.Event{Op: "stake", Caller: a}))
	assert.True(t, (&eventFilter{}).match(&eventdb.Event{Op: "stake", Caller: b}))
}
