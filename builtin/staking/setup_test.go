// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"bytes"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/fctrlabs/fstake/builtin/staking/pricing"
	"github.com/fctrlabs/fstake/builtin/token"
	"github.com/fctrlabs/fstake/clock"
	"github.com/fctrlabs/fstake/kv"
	"github.com/fctrlabs/fstake/ledger"
	"github.com/fctrlabs/fstake/proof"
	"github.com/fctrlabs/fstake/state"
)

const (
	roundTime  = 86400
	startTime  = 1_700_000_000
	coin       = 1_000_000_000
	richNative = 1_000 * coin
)

var (
	programAddr   = ledger.BytesToAddress([]byte("Staking"))
	tokenAddr     = ledger.BytesToAddress([]byte("Token"))
	primaryMint   = ledger.BytesToAddress([]byte("primary-mint"))
	secondaryMint = ledger.BytesToAddress([]byte("secondary-mint"))
)

func seedKey(b byte) *proof.PrivateKey {
	k, err := proof.KeyFromSeed(bytes.Repeat([]byte{b}, 32))
	if err != nil {
		panic(err)
	}
	return k
}

type fixture struct {
	t       *testing.T
	state   *state.State
	token   *token.Token
	clock   *clock.Mock
	staking *Staking

	owner  ledger.Address
	signer *proof.PrivateKey
}

// newFixture returns an initialized protocol with an empty treasury.
func newFixture(t *testing.T) *fixture {
	st := state.NewStater(kv.NewMem(), 64).NewState()
	tk := token.New(tokenAddr, st)
	require.NoError(t, tk.InitializeMint(primaryMint, ledger.PrimaryDecimals, programAddr))
	require.NoError(t, tk.InitializeMint(secondaryMint, ledger.SecondaryDecimals, programAddr))

	clk := clock.NewMock(startTime)
	f := &fixture{
		t:       t,
		state:   st,
		token:   tk,
		clock:   clk,
		staking: New(programAddr, st, tk, proof.Ed25519{}, clk),
		owner:   ledger.BytesToAddress([]byte("owner")),
		signer:  seedKey(1),
	}
	require.NoError(t, f.staking.Initialize(f.owner, InitParams{
		RoundTime:     roundTime,
		PrimaryMint:   primaryMint,
		SecondaryMint: secondaryMint,
		ProofSigner:   f.signer.Address(),
	}))
	return f
}

// newStaker credits native units and registers a fresh staker.
func (f *fixture) newStaker(name string, native uint64) ledger.Address {
	addr := ledger.BytesToAddress([]byte(name))
	require.NoError(f.t, f.state.SetBalance(addr, uint256.NewInt(native)))
	require.NoError(f.t, f.staking.Register(addr, f.signer.SignRegistration(programAddr, addr)))
	return addr
}

func (f *fixture) fundTreasury(native uint64) {
	require.NoError(f.t, f.state.AddBalance(f.owner, uint256.NewInt(native)))
	require.NoError(f.t, f.staking.Fund(f.owner, uint256.NewInt(native)))
}

func (f *fixture) nativeOf(addr ledger.Address) *uint256.Int {
	bal, err := f.state.GetBalance(addr)
	require.NoError(f.t, err)
	return bal
}

func (f *fixture) tokensOf(kind pricing.Kind, addr ledger.Address) *uint256.Int {
	bal, err := f.staking.TokenBalance(kind, addr)
	require.NoError(f.t, err)
	return bal
}

func (f *fixture) buyPrimary(addr ledger.Address, whole uint64) {
	_, err := f.staking.Buy(addr, pricing.Primary, ledger.WholeUnits(whole, ledger.PrimaryDecimals))
	require.NoError(f.t, err)
}
