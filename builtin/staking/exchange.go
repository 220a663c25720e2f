// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/fctrlabs/fstake/builtin/staking/globalstate"
	"github.com/fctrlabs/fstake/builtin/staking/pricing"
	"github.com/fctrlabs/fstake/builtin/staking/reverts"
	"github.com/fctrlabs/fstake/ledger"
)

// quote returns the native leg of a trade of amount units of kind.
func quote(kind pricing.Kind, amount *uint256.Int) (*uint256.Int, error) {
	if amount.Cmp(MinTradeAmount) <= 0 {
		return nil, reverts.TooFewAmount
	}
	native, err := pricing.ToNative(amount, kind)
	if err != nil {
		return nil, err
	}
	if native.IsZero() {
		return nil, reverts.TooFewAmount
	}
	return native, nil
}

// Buy sells amount units of the kind token to caller for native units.
// It returns the native units paid.
func (s *Staking) Buy(caller ledger.Address, kind pricing.Kind, amount *uint256.Int) (*uint256.Int, error) {
	p, err := s.globalStateService.GetInitialized()
	if err != nil {
		return nil, err
	}
	mint, err := mintOf(p, kind)
	if err != nil {
		return nil, err
	}
	staker, err := s.stakerService.GetRegistered(caller)
	if err != nil {
		return nil, err
	}
	native, err := quote(kind, amount)
	if err != nil {
		return nil, err
	}
	balance, err := s.state.GetBalance(caller)
	if err != nil {
		return nil, err
	}
	if balance.Lt(native) {
		return nil, reverts.InsufficientFunds
	}

	if _, err := s.state.Transfer(caller, s.addr, native); err != nil {
		return nil, err
	}
	if err := s.deliver(mint, caller, amount); err != nil {
		return nil, err
	}

	if kind == pricing.Primary {
		staker.DepositAmount = globalstate.AddTotal(staker.DepositAmount, amount)
		if err := s.stakerService.Update(staker); err != nil {
			return nil, err
		}
		p.TotalPrimaryBought = globalstate.AddTotal(p.TotalPrimaryBought, amount)
		if err := s.globalStateService.Update(p); err != nil {
			return nil, err
		}
	}
	logger.Debug("bought", "staker", caller, "kind", kind, "amount", amount, "native", native)
	return native, nil
}

// Sell buys back amount units of the kind token from caller, paying from the treasury.
// It returns the native units paid out.
func (s *Staking) Sell(caller ledger.Address, kind pricing.Kind, amount *uint256.Int) (*uint256.Int, error) {
	p, err := s.globalStateService.GetInitialized()
	if err != nil {
		return nil, err
	}
	mint, err := mintOf(p, kind)
	if err != nil {
		return nil, err
	}
	staker, err := s.stakerService.GetRegistered(caller)
	if err != nil {
		return nil, err
	}
	native, err := quote(kind, amount)
	if err != nil {
		return nil, err
	}
	held, err := s.token.BalanceOf(mint, caller)
	if err != nil {
		return nil, err
	}
	if held.Lt(amount) {
		return nil, reverts.InsufficientFunds
	}
	treasury, err := s.state.GetBalance(s.addr)
	if err != nil {
		return nil, err
	}
	if treasury.Lt(native) {
		return nil, reverts.InsufficientTreasury
	}

	if _, err := s.token.Transfer(mint, caller, s.addr, amount); err != nil {
		return nil, err
	}
	if _, err := s.state.Transfer(s.addr, caller, native); err != nil {
		return nil, err
	}

	if kind == pricing.Primary {
		if staker.DepositAmount.Lt(amount) {
			staker.DepositAmount = new(uint256.Int)
		} else {
			staker.DepositAmount = new(uint256.Int).Sub(staker.DepositAmount, amount)
		}
		if err := s.stakerService.Update(staker); err != nil {
			return nil, err
		}
		p.TotalPrimarySold = globalstate.AddTotal(p.TotalPrimarySold, amount)
	} else {
		p.TotalSecondarySold = globalstate.AddTotal(p.TotalSecondarySold, amount)
	}
	if err := s.globalStateService.Update(p); err != nil {
		return nil, err
	}
	logger.Debug("sold", "staker", caller, "kind", kind, "amount", amount, "native", native)
	return native, nil
}
