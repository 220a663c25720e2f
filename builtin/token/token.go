// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/fctrlabs/fstake/builtin/storage"
	"github.com/fctrlabs/fstake/ledger"
	"github.com/fctrlabs/fstake/state"
)

var (
	ErrMintExists     = errors.New("token: mint already initialized")
	ErrMintNotFound   = errors.New("token: mint not found")
	ErrMintAuthority  = errors.New("token: signer is not the mint authority")
	ErrSupplyOverflow = errors.New("token: supply overflow")

	slotMints    = ledger.BytesToBytes32([]byte("mints"))
	slotBalances = ledger.BytesToBytes32([]byte("balances"))
)

// Token implements the fungible token ledger: mints and per owner balances.
type Token struct {
	mints    *storage.Mapping[ledger.Address, *Mint]
	balances *storage.Mapping[accountKey, *uint256.Int]
}

// New create a token ledger bound to the program address.
func New(addr ledger.Address, state *state.State) *Token {
	sctx := storage.NewContext(addr, state)
	return &Token{
		mints:    storage.NewMapping[ledger.Address, *Mint](sctx, slotMints),
		balances: storage.NewMapping[accountKey, *uint256.Int](sctx, slotBalances),
	}
}

// InitializeMint registers a new token type.
func (t *Token) InitializeMint(mint ledger.Address, decimals uint8, authority ledger.Address) error {
	err := t.mints.Insert(mint, &Mint{
		Decimals:  decimals,
		Supply:    new(uint256.Int),
		Authority: authority,
	})
	if errors.Is(err, storage.ErrSlotTaken) {
		return ErrMintExists
	}
	return err
}

// GetMint returns the mint, or nil if it does not exist.
func (t *Token) GetMint(mint ledger.Address) (*Mint, error) {
	return t.mints.Get(mint)
}

func (t *Token) getExistingMint(mint ledger.Address) (*Mint, error) {
	m, err := t.mints.Get(mint)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMintNotFound
	}
	return m, nil
}

// Supply returns the total issued units of mint.
func (t *Token) Supply(mint ledger.Address) (*uint256.Int, error) {
	m, err := t.getExistingMint(mint)
	if err != nil {
		return nil, err
	}
	return m.Supply, nil
}

// BalanceOf returns the units of mint held by owner.
func (t *Token) BalanceOf(mint, owner ledger.Address) (*uint256.Int, error) {
	bal, err := t.balances.Get(accountKey{mint, owner})
	if err != nil {
		return nil, err
	}
	if bal == nil {
		return new(uint256.Int), nil
	}
	return bal, nil
}

func (t *Token) setBalance(mint, owner ledger.Address, bal *uint256.Int) error {
	return t.balances.Set(accountKey{mint, owner}, bal)
}

// MintTo issues new units of mint to the owner. Only the mint authority may mint.
func (t *Token) MintTo(mint, authority, to ledger.Address, amount *uint256.Int) error {
	m, err := t.getExistingMint(mint)
	if err != nil {
		return err
	}
	if m.Authority != authority {
		return ErrMintAuthority
	}
	supply, overflow := new(uint256.Int).AddOverflow(m.Supply, amount)
	if overflow {
		return ErrSupplyOverflow
	}
	bal, err := t.BalanceOf(mint, to)
	if err != nil {
		return err
	}
	m.Supply = supply
	if err := t.mints.Set(mint, m); err != nil {
		return err
	}
	// balance never exceeds supply, so it cannot overflow here
	return t.setBalance(mint, to, new(uint256.Int).Add(bal, amount))
}

// Burn destroys units held by from.
// It returns false without change if from holds less than amount.
func (t *Token) Burn(mint, from ledger.Address, amount *uint256.Int) (bool, error) {
	m, err := t.getExistingMint(mint)
	if err != nil {
		return false, err
	}
	bal, err := t.BalanceOf(mint, from)
	if err != nil {
		return false, err
	}
	if bal.Lt(amount) {
		return false, nil
	}
	m.Supply = new(uint256.Int).Sub(m.Supply, amount)
	if err := t.mints.Set(mint, m); err != nil {
		return false, err
	}
	return true, t.setBalance(mint, from, new(uint256.Int).Sub(bal, amount))
}

// Transfer moves units of mint between owners.
// It returns false without change if from holds less than amount.
func (t *Token) Transfer(mint, from, to ledger.Address, amount *uint256.Int) (bool, error) {
	if _, err := t.getExistingMint(mint); err != nil {
		return false, err
	}
	fromBal, err := t.BalanceOf(mint, from)
	if err != nil {
		return false, err
	}
	if fromBal.Lt(amount) {
		return false, nil
	}
	if from == to {
		return true, nil
	}
	toBal, err := t.BalanceOf(mint, to)
	if err != nil {
		return false, err
	}
	if err := t.setBalance(mint, from, new(uint256.Int).Sub(fromBal, amount)); err != nil {
		return false, err
	}
	return true, t.setBalance(mint, to, new(uint256.Int).Add(toBal, amount))
}
