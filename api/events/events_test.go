// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fctrlabs/fstake/api/events"
	"github.com/fctrlabs/fstake/eventdb"
	"github.com/fctrlabs/fstake/ledger"
)

const limit = 20

var (
	alice = ledger.BytesToAddress([]byte("alice"))
	bob   = ledger.BytesToAddress([]byte("bob"))
)

func initEventServer(t *testing.T) *httptest.Server {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var evs []*eventdb.Event
	for i := 0; i < 50; i++ {
		caller := alice
		if i%2 == 1 {
			caller = bob
		}
		evs = append(evs, &eventdb.Event{
			Op:     "buy",
			Caller: caller,
			Kind:   "primary",
			Amount: uint256.NewInt(uint64(1000 + i)),
			Native: uint256.NewInt(uint64(i)),
			Time:   uint64(i),
		})
	}
	evs = append(evs, &eventdb.Event{Op: "entrust", Caller: bob, Counterparty: &alice, Time: 100})
	require.NoError(t, db.Insert(context.Background(), evs...))

	router := mux.NewRouter()
	events.New(db, limit).Mount(router, "/events")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func httpGet(t *testing.T, url string) (int, []byte) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, body
}

func TestEvents(t *testing.T) {
	ts := initEventServer(t)

	tests := []struct {
		name  string
		query string
		count int
		first uint64
	}{
		{"default limit", "", limit, 1},
		{"explicit limit", "?limit=5", 5, 1},
		{"paged desc", "?order=desc&offset=1&limit=3", 3, 50},
		{"staker matches counterparty", "?staker=" + alice.String() + "&op=entrust", 1, 51},
		{"several ops", "?op=entrust&op=buy&from=49", 2, 50},
		{"closed range", "?from=10&to=14", 5, 11},
		{"open ended range", "?to=2", 3, 1},
		{"no match", "?op=stake", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := httpGet(t, ts.URL+"/events"+tt.query)
			require.Equal(t, http.StatusOK, code, string(body))

			var fes []*events.FilteredEvent
			require.NoError(t, json.Unmarshal(body, &fes))
			require.Len(t, fes, tt.count)
			if tt.count > 0 {
				assert.Equal(t, tt.first, fes[0].ID)
			}
		})
	}
}

func TestEventFields(t *testing.T) {
	ts := initEventServer(t)

	code, body := httpGet(t, ts.URL+"/events?op=entrust")
	require.Equal(t, http.StatusOK, code)
	var fes []*events.FilteredEvent
	require.NoError(t, json.Unmarshal(body, &fes))
	require.Len(t, fes, 1)
	assert.Equal(t, bob.String(), fes[0].Caller)
	require.NotNil(t, fes[0].Counterparty)
	assert.Equal(t, alice.String(), *fes[0].Counterparty)
	assert.Nil(t, fes[0].Amount)
	assert.Empty(t, fes[0].Kind)

	code, body = httpGet(t, ts.URL+"/events?limit=1")
	require.Equal(t, http.StatusOK, code)
	var buys []*events.FilteredEvent
	require.NoError(t, json.Unmarshal(body, &buys))
	require.Len(t, buys, 1)
	assert.Equal(t, "primary", buys[0].Kind)
	assert.Equal(t, "1000", *buys[0].Amount)
	assert.Equal(t, "0", *buys[0].Native)
	assert.Nil(t, buys[0].Reward)
}

func TestEventsBadQuery(t *testing.T) {
	ts := initEventServer(t)

	tests := []struct {
		query string
		code  int
	}{
		{"?limit=21", http.StatusForbidden},
		{"?limit=x", http.StatusBadRequest},
		{"?from=5&to=4", http.StatusBadRequest},
		{"?offset=18446744073709551615", http.StatusBadRequest},
		{"?order=sideways", http.StatusBadRequest},
		{"?staker=0", http.StatusBadRequest},
	}
	for _, tt := range tests {
		code, _ := httpGet(t, ts.URL+"/events"+tt.query)
		assert.Equal(t, tt.code, code, tt.query)
	}
}
