// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fctrlabs/fstake/builtin/staking/pricing"
	"github.com/fctrlabs/fstake/builtin/staking/reverts"
	"github.com/fctrlabs/fstake/builtin/token"
	"github.com/fctrlabs/fstake/clock"
	"github.com/fctrlabs/fstake/kv"
	"github.com/fctrlabs/fstake/ledger"
	"github.com/fctrlabs/fstake/proof"
	"github.com/fctrlabs/fstake/state"
)

func TestInitialize(t *testing.T) {
	f := newFixture(t)

	p, err := f.staking.Protocol()
	require.NoError(t, err)
	assert.Equal(t, f.owner, p.Owner)
	assert.Equal(t, uint64(roundTime), p.RoundTime)
	assert.Equal(t, DefaultRewardRateBps, p.RewardRateBps)
	assert.Equal(t, token.AccountAddress(primaryMint, programAddr), p.TreasuryPrimaryAccount)

	err = f.staking.Initialize(ledger.BytesToAddress([]byte("mallory")), InitParams{
		RoundTime:     1,
		PrimaryMint:   primaryMint,
		SecondaryMint: secondaryMint,
	})
	assert.ErrorIs(t, err, reverts.AlreadyInitialized)
	p, _ = f.staking.Protocol()
	assert.Equal(t, f.owner, p.Owner)
}

func TestInitializeInvalidMint(t *testing.T) {
	st := state.NewStater(kv.NewMem(), 16).NewState()
	tk := token.New(tokenAddr, st)
	foreign := ledger.BytesToAddress([]byte("foreign"))
	require.NoError(t, tk.InitializeMint(primaryMint, ledger.PrimaryDecimals, programAddr))
	require.NoError(t, tk.InitializeMint(secondaryMint, ledger.PrimaryDecimals, programAddr))
	require.NoError(t, tk.InitializeMint(foreign, ledger.SecondaryDecimals, foreign))
	s := New(programAddr, st, tk, proof.Ed25519{}, clock.NewMock(0))
	owner := ledger.BytesToAddress([]byte("owner"))

	tests := []struct {
		name      string
		primary   ledger.Address
		secondary ledger.Address
	}{
		{"same mint", primaryMint, primaryMint},
		{"wrong decimals", primaryMint, secondaryMint},
		{"foreign authority", primaryMint, foreign},
		{"missing mint", primaryMint, ledger.BytesToAddress([]byte("missing"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Initialize(owner, InitParams{RoundTime: 1, PrimaryMint: tt.primary, SecondaryMint: tt.secondary})
			assert.ErrorIs(t, err, reverts.InvalidMint)
		})
	}
	p, err := s.Protocol()
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestNotInitialized(t *testing.T) {
	st := state.NewStater(kv.NewMem(), 16).NewState()
	s := New(programAddr, st, token.New(tokenAddr, st), proof.Ed25519{}, clock.NewMock(0))
	alice := ledger.BytesToAddress([]byte("alice"))

	assert.ErrorIs(t, s.Register(alice, nil), reverts.NotInitialized)
	assert.ErrorIs(t, s.Fund(alice, uint256.NewInt(1)), reverts.NotInitialized)
	_, err := s.Stake(alice)
	assert.ErrorIs(t, err, reverts.NotInitialized)
	assert.ErrorIs(t, s.Entrust(alice, programAddr), reverts.NotInitialized)
	_, err = s.StartRound(alice, false)
	assert.ErrorIs(t, err, reverts.NotInitialized)
}

func TestFund(t *testing.T) {
	f := newFixture(t)
	alice := f.newStaker("alice", coin)

	assert.ErrorIs(t, f.staking.Fund(alice, uint256.NewInt(1)), reverts.Unauthorized)
	assert.ErrorIs(t, f.staking.Fund(f.owner, uint256.NewInt(1)), reverts.InsufficientFunds)

	f.fundTreasury(5 * coin)
	treasury, err := f.staking.TreasuryBalance()
	require.NoError(t, err)
	assert.Equal(t, uint64(5*coin), treasury.Uint64())
	assert.True(t, f.nativeOf(f.owner).IsZero())
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	alice := ledger.BytesToAddress([]byte("alice"))

	// signed by someone other than the proof signer
	forged := seedKey(2).SignRegistration(programAddr, alice)
	assert.ErrorIs(t, f.staking.Register(alice, forged), reverts.Unauthorized)
	// signed for a different staker
	assert.ErrorIs(t, f.staking.Register(alice, f.signer.SignRegistration(programAddr, f.owner)), reverts.Unauthorized)
	st, err := f.staking.Staker(alice)
	require.NoError(t, err)
	assert.Nil(t, st)

	sig := f.signer.SignRegistration(programAddr, alice)
	require.NoError(t, f.staking.Register(alice, sig))

	require.NoError(t, f.state.SetBalance(alice, uint256.NewInt(richNative)))
	f.buyPrimary(alice, 10)
	before, _ := f.staking.Staker(alice)

	assert.ErrorIs(t, f.staking.Register(alice, sig), reverts.AlreadyRegistered)
	after, err := f.staking.Staker(alice)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.True(t, after.Registered)
}

func TestNotRegistered(t *testing.T) {
	f := newFixture(t)
	stranger := ledger.BytesToAddress([]byte("stranger"))
	alice := f.newStaker("alice", coin)

	_, err := f.staking.Buy(stranger, pricing.Primary, uint256.NewInt(1000))
	assert.ErrorIs(t, err, reverts.NotRegistered)
	_, err = f.staking.Sell(stranger, pricing.Primary, uint256.NewInt(1000))
	assert.ErrorIs(t, err, reverts.NotRegistered)
	_, err = f.staking.Stake(stranger)
	assert.ErrorIs(t, err, reverts.NotRegistered)
	_, _, err = f.staking.Unstake(stranger)
	assert.ErrorIs(t, err, reverts.NotRegistered)
	assert.ErrorIs(t, f.staking.Entrust(stranger, alice), reverts.NotRegistered)
	assert.ErrorIs(t, f.staking.Entrust(alice, stranger), reverts.NotRegistered)
	assert.ErrorIs(t, f.staking.DemandBack(stranger, alice), reverts.NotRegistered)
}
