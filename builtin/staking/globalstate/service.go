// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstate

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/fctrlabs/fstake/builtin/staking/reverts"
	"github.com/fctrlabs/fstake/builtin/storage"
	"github.com/fctrlabs/fstake/ledger"
)

var (
	slotProtocol = ledger.BytesToBytes32([]byte("staking"))
	slotRounds   = ledger.BytesToBytes32([]byte("round"))
)

// Service manages the protocol singleton and the round schedule.
type Service struct {
	protocol *storage.Raw[*Protocol]
	rounds   *storage.Mapping[RoundIndex, *Round]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		protocol: storage.NewRaw[*Protocol](sctx, slotProtocol),
		rounds:   storage.NewMapping[RoundIndex, *Round](sctx, slotRounds),
	}
}

// Get returns the protocol record, or nil before initialization.
func (s *Service) Get() (*Protocol, error) {
	p, err := s.protocol.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get protocol")
	}
	if p != nil {
		p.normalize()
	}
	return p, nil
}

// GetInitialized returns the protocol record, failing with NotInitialized before initialization.
func (s *Service) GetInitialized() (*Protocol, error) {
	p, err := s.Get()
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, reverts.NotInitialized
	}
	return p, nil
}

// Initialize stores the protocol record once.
func (s *Service) Initialize(p *Protocol) error {
	exists, err := s.protocol.Exists()
	if err != nil {
		return errors.Wrap(err, "failed to check protocol")
	}
	if exists {
		return reverts.AlreadyInitialized
	}
	p.normalize()
	return s.Update(p)
}

func (s *Service) Update(p *Protocol) error {
	if err := s.protocol.Upsert(p); err != nil {
		return errors.Wrap(err, "failed to update protocol")
	}
	return nil
}

// GetRound returns round index, or nil if it was never started.
func (s *Service) GetRound(index uint64) (*Round, error) {
	r, err := s.rounds.Get(RoundIndex(index))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get round")
	}
	return r, nil
}

// AddRound appends r to the schedule of p and stores both.
// r.Index is assigned from the number of rounds started so far.
func (s *Service) AddRound(p *Protocol, r *Round) error {
	r.Index = p.RoundsNum
	if err := s.rounds.Insert(RoundIndex(r.Index), r); err != nil {
		return errors.Wrap(err, "failed to add round")
	}
	p.RoundsNum++
	p.LastRoundDeadline = r.Deadline
	if r.IsFinal {
		p.FinalRoundStarted = true
	}
	return s.Update(p)
}

// AddTotal adds amount to one of the running totals. Totals saturate at the
// 256-bit maximum since they never gate a transition.
func AddTotal(total *uint256.Int, amount *uint256.Int) *uint256.Int {
	sum, overflow := new(uint256.Int).AddOverflow(total, amount)
	if overflow {
		return new(uint256.Int).SetAllOne()
	}
	return sum
}
