// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/fctrlabs/fstake/builtin/staking/globalstate"
	"github.com/fctrlabs/fstake/builtin/staking/reverts"
	"github.com/fctrlabs/fstake/ledger"
)

// Round returns round index of the schedule, or nil if it was never started.
func (s *Staking) Round(index uint64) (*globalstate.Round, error) {
	return s.globalStateService.GetRound(index)
}

// StartRound opens the next round of the schedule, lasting RoundTime.
// Only the owner may call it, once the previous round has reached its deadline.
// No round can follow a final one.
func (s *Staking) StartRound(caller ledger.Address, isFinal bool) (*globalstate.Round, error) {
	p, err := s.globalStateService.GetInitialized()
	if err != nil {
		return nil, err
	}
	if caller != p.Owner {
		return nil, reverts.Unauthorized
	}
	if p.FinalRoundStarted {
		return nil, reverts.ScheduleFinished
	}
	now := s.clock.Now()
	if now < p.LastRoundDeadline {
		return nil, reverts.PrevRoundNotFinished
	}

	r := &globalstate.Round{
		StartTime: now,
		Deadline:  now + p.RoundTime,
		IsFinal:   isFinal,
	}
	if err := s.globalStateService.AddRound(p, r); err != nil {
		return nil, err
	}
	logger.Info("round started", "index", r.Index, "deadline", r.Deadline, "final", isFinal)
	return r, nil
}
