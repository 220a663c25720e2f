// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakers

import (
	"github.com/holiman/uint256"

	"github.com/fctrlabs/fstake/ledger"
)

// Staker is the per staker record.
type Staker struct {
	Staker         ledger.Address
	Registered     bool
	StakedAmount   *uint256.Int
	StakeStartedAt uint64 // unix seconds, meaningful only while staked
	DepositAmount  *uint256.Int
	DelegatedTo    *ledger.Address `rlp:"nil"` // the confidant this staker entrusted
	DelegatedFrom  *ledger.Address `rlp:"nil"` // the principal that entrusted this staker
}

func newStaker(addr ledger.Address) *Staker {
	return &Staker{
		Staker:        addr,
		Registered:    true,
		StakedAmount:  new(uint256.Int),
		DepositAmount: new(uint256.Int),
	}
}

// IsStaked returns whether primary tokens are locked for the current round.
func (s *Staker) IsStaked() bool {
	return s.StakedAmount != nil && !s.StakedAmount.IsZero()
}

// Elapsed returns the seconds since staking began, zero if now is earlier.
func (s *Staker) Elapsed(now uint64) uint64 {
	if now < s.StakeStartedAt {
		return 0
	}
	return now - s.StakeStartedAt
}

// IsEntrustedTo returns whether this staker has an entrust edge to confidant.
func (s *Staker) IsEntrustedTo(confidant ledger.Address) bool {
	return s.DelegatedTo != nil && *s.DelegatedTo == confidant
}
