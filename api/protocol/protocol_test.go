// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package protocol_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fctrlabs/fstake/api/protocol"
	"github.com/fctrlabs/fstake/builtin"
	"github.com/fctrlabs/fstake/builtin/staking/pricing"
	"github.com/fctrlabs/fstake/clock"
	"github.com/fctrlabs/fstake/kv"
	"github.com/fctrlabs/fstake/ledger"
	"github.com/fctrlabs/fstake/processor"
	"github.com/fctrlabs/fstake/proof"
	"github.com/fctrlabs/fstake/state"
	"github.com/fctrlabs/fstake/test/testnet"
)

func httpGet(t *testing.T, url string) (int, []byte) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, body
}

func newServer(proc *processor.Processor) *httptest.Server {
	router := mux.NewRouter()
	protocol.New(proc).Mount(router, "/protocol")
	return httptest.NewServer(router)
}

func TestGetProtocol(t *testing.T) {
	net := testnet.New(t)
	net.Fund(5_000_000_000)
	alice := net.NewStaker(1_000_000_000)
	net.Exec(&processor.Transition{
		Op:     processor.OpBuy,
		Caller: alice.Address(),
		Kind:   pricing.Primary,
		Amount: ledger.WholeUnits(109, ledger.PrimaryDecimals),
	})

	ts := newServer(net.Proc)
	defer ts.Close()

	code, body := httpGet(t, ts.URL+"/protocol")
	require.Equal(t, http.StatusOK, code, string(body))

	var info protocol.Info
	require.NoError(t, json.Unmarshal(body, &info))
	assert.Equal(t, builtin.Staking.Address.String(), info.Program)
	assert.Equal(t, net.Owner.Address().String(), info.Owner)
	assert.Equal(t, net.Signer.Address().String(), info.ProofSigner)
	assert.Equal(t, testnet.RoundTime, info.RoundTime)
	assert.Equal(t, uint64(1000), info.RewardRateBps)
	assert.Equal(t, "6000000000", info.Treasury.Native)
	assert.Equal(t, "0", info.Treasury.Secondary)
	assert.Equal(t, ledger.WholeUnits(109, ledger.PrimaryDecimals).Dec(), info.Totals.PrimaryBought)
	assert.Equal(t, "0", info.Totals.RewardsIssued)
}

func TestGetProtocolNotInitialized(t *testing.T) {
	proc := processor.New(state.NewStater(kv.NewMem(), 16), proof.Ed25519{}, clock.NewMock(0), nil, processor.Options{})
	ts := newServer(proc)
	defer ts.Close()

	code, body := httpGet(t, ts.URL+"/protocol")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not initialized\n", string(body))
}

func TestGetRound(t *testing.T) {
	net := testnet.New(t)
	ts := newServer(net.Proc)
	defer ts.Close()

	code, body := httpGet(t, ts.URL+"/protocol/rounds/0")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "round not found\n", string(body))

	now := net.Clock.Now()
	net.Exec(&processor.Transition{Op: processor.OpStartRound, Caller: net.Owner.Address(), Final: true})

	code, body = httpGet(t, ts.URL+"/protocol/rounds/0")
	require.Equal(t, http.StatusOK, code, string(body))
	var round protocol.Round
	require.NoError(t, json.Unmarshal(body, &round))
	assert.Equal(t, protocol.Round{Index: 0, StartTime: now, Deadline: now + testnet.RoundTime, Final: true}, round)

	code, body = httpGet(t, ts.URL+"/protocol")
	require.Equal(t, http.StatusOK, code, string(body))
	var info protocol.Info
	require.NoError(t, json.Unmarshal(body, &info))
	assert.Equal(t, protocol.Rounds{Count: 1, LastDeadline: now + testnet.RoundTime, Finished: true}, info.Rounds)

	code, _ = httpGet(t, ts.URL+"/protocol/rounds/x")
	assert.Equal(t, http.StatusBadRequest, code)
}
