// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/fctrlabs/fstake/builtin/staking/globalstate"
	"github.com/fctrlabs/fstake/builtin/staking/reverts"
	"github.com/fctrlabs/fstake/ledger"
)

// Stake locks the whole primary balance of caller for a round.
// It returns the staked amount.
func (s *Staking) Stake(caller ledger.Address) (*uint256.Int, error) {
	p, err := s.globalStateService.GetInitialized()
	if err != nil {
		return nil, err
	}
	staker, err := s.stakerService.GetRegistered(caller)
	if err != nil {
		return nil, err
	}
	if staker.IsStaked() {
		return nil, reverts.AlreadyStaked
	}
	balance, err := s.token.BalanceOf(p.PrimaryMint, caller)
	if err != nil {
		return nil, err
	}
	if balance.IsZero() {
		return nil, reverts.NothingToStake
	}

	if _, err := s.token.Transfer(p.PrimaryMint, caller, s.addr, balance); err != nil {
		return nil, err
	}
	staker.StakedAmount = balance
	staker.StakeStartedAt = s.clock.Now()
	if err := s.stakerService.Update(staker); err != nil {
		return nil, err
	}
	logger.Debug("staked", "staker", caller, "amount", balance, "at", staker.StakeStartedAt)
	return balance, nil
}

// Unstake releases the stake of caller once the round has elapsed, returning
// the principal and minting the reward. It returns both amounts.
func (s *Staking) Unstake(caller ledger.Address) (principal, reward *uint256.Int, err error) {
	p, err := s.globalStateService.GetInitialized()
	if err != nil {
		return nil, nil, err
	}
	staker, err := s.stakerService.GetRegistered(caller)
	if err != nil {
		return nil, nil, err
	}
	if !staker.IsStaked() {
		return nil, nil, reverts.NotStaked
	}
	now := s.clock.Now()
	if now < staker.StakeStartedAt || now-staker.StakeStartedAt < p.RoundTime {
		return nil, nil, reverts.RoundNotElapsed
	}

	principal = staker.StakedAmount
	reward = Reward(principal, staker.Elapsed(now), p.RewardRateBps)

	if err := s.deliver(p.PrimaryMint, caller, principal); err != nil {
		return nil, nil, err
	}
	if err := s.token.MintTo(p.SecondaryMint, s.addr, caller, reward); err != nil {
		return nil, nil, err
	}

	staker.StakedAmount = new(uint256.Int)
	staker.StakeStartedAt = 0
	if err := s.stakerService.Update(staker); err != nil {
		return nil, nil, err
	}
	p.TotalRewardsIssued = globalstate.AddTotal(p.TotalRewardsIssued, reward)
	if err := s.globalStateService.Update(p); err != nil {
		return nil, nil, err
	}
	logger.Debug("unstaked", "staker", caller, "principal", principal, "reward", reward)
	return principal, reward, nil
}
