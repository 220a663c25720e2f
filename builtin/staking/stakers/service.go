// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakers

import (
	"github.com/pkg/errors"

	"github.com/fctrlabs/fstake/builtin/staking/reverts"
	"github.com/fctrlabs/fstake/builtin/storage"
	"github.com/fctrlabs/fstake/ledger"
)

var slotStakers = ledger.BytesToBytes32([]byte("staker-info"))

type Service struct {
	stakers *storage.Mapping[ledger.Address, *Staker]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		stakers: storage.NewMapping[ledger.Address, *Staker](sctx, slotStakers),
	}
}

// Get returns the record of addr, or nil if addr never registered.
func (s *Service) Get(addr ledger.Address) (*Staker, error) {
	st, err := s.stakers.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get staker")
	}
	return st, nil
}

// GetRegistered returns the record of addr, failing with NotRegistered if it does not exist.
func (s *Service) GetRegistered(addr ledger.Address) (*Staker, error) {
	st, err := s.Get(addr)
	if err != nil {
		return nil, err
	}
	if st == nil || !st.Registered {
		return nil, reverts.NotRegistered
	}
	return st, nil
}

// Register creates the record of addr.
func (s *Service) Register(addr ledger.Address) (*Staker, error) {
	st := newStaker(addr)
	if err := s.stakers.Insert(addr, st); err != nil {
		if errors.Is(err, storage.ErrSlotTaken) {
			return nil, reverts.AlreadyRegistered
		}
		return nil, errors.Wrap(err, "failed to set staker")
	}
	return st, nil
}

func (s *Service) Update(st *Staker) error {
	if err := s.stakers.Set(st.Staker, st); err != nil {
		return errors.Wrap(err, "failed to update staker")
	}
	return nil
}
