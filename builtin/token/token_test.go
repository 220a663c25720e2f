// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fctrlabs/fstake/kv"
	"github.com/fctrlabs/fstake/ledger"
	"github.com/fctrlabs/fstake/state"
)

var (
	mintAddr  = ledger.BytesToAddress([]byte("mint"))
	authority = ledger.BytesToAddress([]byte("authority"))
	alice     = ledger.BytesToAddress([]byte("alice"))
	bob       = ledger.BytesToAddress([]byte("bob"))
)

func newToken(t *testing.T) *Token {
	st := state.NewStater(kv.NewMem(), 16).NewState()
	tk := New(ledger.BytesToAddress([]byte("Token")), st)
	require.NoError(t, tk.InitializeMint(mintAddr, 12, authority))
	return tk
}

func TestInitializeMint(t *testing.T) {
	tk := newToken(t)

	assert.ErrorIs(t, tk.InitializeMint(mintAddr, 12, authority), ErrMintExists)

	m, err := tk.GetMint(mintAddr)
	require.NoError(t, err)
	assert.Equal(t, uint8(12), m.Decimals)
	assert.Equal(t, authority, m.Authority)
	assert.True(t, m.Supply.IsZero())

	m, err = tk.GetMint(alice)
	require.NoError(t, err)
	assert.Nil(t, m)

	_, err = tk.Supply(alice)
	assert.ErrorIs(t, err, ErrMintNotFound)
}

func TestMintAndBurn(t *testing.T) {
	tk := newToken(t)

	assert.ErrorIs(t, tk.MintTo(mintAddr, alice, alice, uint256.NewInt(1)), ErrMintAuthority)
	require.NoError(t, tk.MintTo(mintAddr, authority, alice, uint256.NewInt(500)))

	bal, err := tk.BalanceOf(mintAddr, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), bal.Uint64())

	ok, err := tk.Burn(mintAddr, alice, uint256.NewInt(501))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = tk.Burn(mintAddr, alice, uint256.NewInt(200))
	require.NoError(t, err)
	assert.True(t, ok)

	supply, _ := tk.Supply(mintAddr)
	assert.Equal(t, uint64(300), supply.Uint64())

	max := new(uint256.Int).SetAllOne()
	assert.ErrorIs(t, tk.MintTo(mintAddr, authority, bob, max), ErrSupplyOverflow)
}

func TestTransfer(t *testing.T) {
	tk := newToken(t)
	require.NoError(t, tk.MintTo(mintAddr, authority, alice, uint256.NewInt(100)))

	ok, err := tk.Transfer(mintAddr, alice, bob, uint256.NewInt(101))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = tk.Transfer(mintAddr, alice, bob, uint256.NewInt(30))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tk.Transfer(mintAddr, alice, alice, uint256.NewInt(70))
	require.NoError(t, err)
	assert.True(t, ok)

	a, _ := tk.BalanceOf(mintAddr, alice)
	b, _ := tk.BalanceOf(mintAddr, bob)
	assert.Equal(t, uint64(70), a.Uint64())
	assert.Equal(t, uint64(30), b.Uint64())

	_, err = tk.Transfer(alice, alice, bob, uint256.NewInt(1))
	assert.ErrorIs(t, err, ErrMintNotFound)
}

func TestAccountAddress(t *testing.T) {
	assert.Equal(t, AccountAddress(mintAddr, alice), AccountAddress(mintAddr, alice))
	assert.NotEqual(t, AccountAddress(mintAddr, alice), AccountAddress(mintAddr, bob))
}
