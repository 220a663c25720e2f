// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/fctrlabs/fstake/builtin/staking/reverts"
	"github.com/fctrlabs/fstake/ledger"
)

// WithinDepositBand reports whether confidant lies in [principal/2, 2*principal],
// evaluated without division.
func WithinDepositBand(principal, confidant *uint256.Int) bool {
	twoC, overflowC := new(uint256.Int).MulOverflow(confidant, uint256.NewInt(2))
	twoP, overflowP := new(uint256.Int).MulOverflow(principal, uint256.NewInt(2))
	lower := overflowC || twoC.Cmp(principal) >= 0
	upper := overflowP || confidant.Cmp(twoP) <= 0
	return lower && upper
}

// Entrust grants confidant authority on behalf of caller.
func (s *Staking) Entrust(caller, confidant ledger.Address) error {
	if _, err := s.globalStateService.GetInitialized(); err != nil {
		return err
	}
	if caller == confidant {
		return reverts.InvalidCounterparty
	}
	principal, err := s.stakerService.GetRegistered(caller)
	if err != nil {
		return err
	}
	target, err := s.stakerService.GetRegistered(confidant)
	if err != nil {
		return err
	}
	if principal.DelegatedTo != nil || target.DelegatedFrom != nil || target.IsEntrustedTo(caller) {
		return reverts.AlreadyEntrusted
	}
	if !WithinDepositBand(principal.DepositAmount, target.DepositAmount) {
		return reverts.InvalidDepositDiff
	}

	principal.DelegatedTo = &confidant
	target.DelegatedFrom = &caller
	if err := s.stakerService.Update(principal); err != nil {
		return err
	}
	if err := s.stakerService.Update(target); err != nil {
		return err
	}
	logger.Debug("entrusted", "principal", caller, "confidant", confidant)
	return nil
}

// DemandBack revokes the authority caller granted to confidant.
func (s *Staking) DemandBack(caller, confidant ledger.Address) error {
	if _, err := s.globalStateService.GetInitialized(); err != nil {
		return err
	}
	principal, err := s.stakerService.GetRegistered(caller)
	if err != nil {
		return err
	}
	if !principal.IsEntrustedTo(confidant) {
		return reverts.NotEntrusted
	}
	target, err := s.stakerService.GetRegistered(confidant)
	if err != nil {
		return err
	}

	principal.DelegatedTo = nil
	if target.DelegatedFrom != nil && *target.DelegatedFrom == caller {
		target.DelegatedFrom = nil
	}
	if err := s.stakerService.Update(principal); err != nil {
		return err
	}
	if err := s.stakerService.Update(target); err != nil {
		return err
	}
	logger.Debug("demanded back", "principal", caller, "confidant", confidant)
	return nil
}
