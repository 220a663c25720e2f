// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstate

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fctrlabs/fstake/builtin/staking/reverts"
	"github.com/fctrlabs/fstake/builtin/storage"
	"github.com/fctrlabs/fstake/kv"
	"github.com/fctrlabs/fstake/ledger"
	"github.com/fctrlabs/fstake/state"
)

func TestService(t *testing.T) {
	st := state.NewStater(kv.NewMem(), 16).NewState()
	svc := New(storage.NewContext(ledger.BytesToAddress([]byte("Staking")), st))

	p, err := svc.Get()
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = svc.GetInitialized()
	assert.ErrorIs(t, err, reverts.NotInitialized)

	owner := ledger.BytesToAddress([]byte("owner"))
	require.NoError(t, svc.Initialize(&Protocol{Owner: owner, RoundTime: 86400, RewardRateBps: 1000}))
	assert.ErrorIs(t, svc.Initialize(&Protocol{Owner: ledger.BytesToAddress([]byte("other"))}), reverts.AlreadyInitialized)

	p, err = svc.GetInitialized()
	require.NoError(t, err)
	assert.Equal(t, owner, p.Owner)
	assert.Equal(t, uint64(86400), p.RoundTime)
	assert.True(t, p.TotalRewardsIssued.IsZero())

	p.TotalPrimaryBought = AddTotal(p.TotalPrimaryBought, uint256.NewInt(7))
	require.NoError(t, svc.Update(p))
	p, _ = svc.Get()
	assert.Equal(t, uint64(7), p.TotalPrimaryBought.Uint64())
}

func TestAddTotalSaturates(t *testing.T) {
	max := new(uint256.Int).SetAllOne()
	assert.Equal(t, max, AddTotal(max, uint256.NewInt(1)))
	assert.Equal(t, uint64(3), AddTotal(uint256.NewInt(1), uint256.NewInt(2)).Uint64())
}

func TestRounds(t *testing.T) {
	st := state.NewStater(kv.NewMem(), 16).NewState()
	svc := New(storage.NewContext(ledger.BytesToAddress([]byte("Staking")), st))
	require.NoError(t, svc.Initialize(&Protocol{RoundTime: 60}))

	r, err := svc.GetRound(0)
	require.NoError(t, err)
	assert.Nil(t, r)

	p, _ := svc.GetInitialized()
	require.NoError(t, svc.AddRound(p, &Round{StartTime: 100, Deadline: 160}))
	require.NoError(t, svc.AddRound(p, &Round{StartTime: 160, Deadline: 220, IsFinal: true}))

	p, _ = svc.GetInitialized()
	assert.Equal(t, uint64(2), p.RoundsNum)
	assert.Equal(t, uint64(220), p.LastRoundDeadline)
	assert.True(t, p.FinalRoundStarted)

	r, err = svc.GetRound(1)
	require.NoError(t, err)
	assert.Equal(t, &Round{Index: 1, StartTime: 160, Deadline: 220, IsFinal: true}, r)
}
