// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/fctrlabs/fstake/builtin/staking"
	"github.com/fctrlabs/fstake/builtin/token"
	"github.com/fctrlabs/fstake/clock"
	"github.com/fctrlabs/fstake/ledger"
	"github.com/fctrlabs/fstake/proof"
	"github.com/fctrlabs/fstake/state"
)

// Builtin programs binding.
var (
	Token   = &tokenContract{newContract("Token")}
	Staking = &stakingContract{newContract("Staking")}
)

type (
	tokenContract   struct{ *contract }
	stakingContract struct{ *contract }
)

func (t *tokenContract) WithState(state *state.State) *token.Token {
	return token.New(t.Address, state)
}

func (s *stakingContract) WithState(state *state.State, verifier proof.Verifier, clk clock.Clock) *staking.Staking {
	return staking.New(s.Address, state, Token.WithState(state), verifier, clk)
}

// PrimaryMint is the address the primary token mint is created at.
func (s *stakingContract) PrimaryMint() ledger.Address {
	return ledger.DeriveAddress([]byte("primary-mint"), s.Address.Bytes())
}

// SecondaryMint is the address the secondary token mint is created at.
func (s *stakingContract) SecondaryMint() ledger.Address {
	return ledger.DeriveAddress([]byte("secondary-mint"), s.Address.Bytes())
}
