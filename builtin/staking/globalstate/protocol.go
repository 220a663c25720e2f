// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstate

import (
	"encoding/binary"

	"github.com/holiman/uint256"

	"github.com/fctrlabs/fstake/ledger"
)

// Protocol is the singleton protocol configuration and its running totals.
// The treasury native balance is the native balance of the program address
// and is not duplicated here.
type Protocol struct {
	Owner         ledger.Address
	RoundTime     uint64
	RewardRateBps uint64
	PrimaryMint   ledger.Address
	SecondaryMint ledger.Address
	ProofSigner   ledger.Address

	TreasuryPrimaryAccount   ledger.Address
	TreasurySecondaryAccount ledger.Address

	TotalPrimaryBought *uint256.Int
	TotalPrimarySold   *uint256.Int
	TotalSecondarySold *uint256.Int
	TotalRewardsIssued *uint256.Int

	// round schedule
	RoundsNum         uint64 `rlp:"optional"`
	LastRoundDeadline uint64 `rlp:"optional"`
	FinalRoundStarted bool   `rlp:"optional"`
}

// Round is one entry of the owner driven round schedule.
type Round struct {
	Index     uint64
	StartTime uint64
	Deadline  uint64
	IsFinal   bool
}

// RoundIndex keys round records.
type RoundIndex uint64

func (i RoundIndex) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(i))
}

func zeroIfNil(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v
}

func (p *Protocol) normalize() {
	p.TotalPrimaryBought = zeroIfNil(p.TotalPrimaryBought)
	p.TotalPrimarySold = zeroIfNil(p.TotalPrimarySold)
	p.TotalSecondarySold = zeroIfNil(p.TotalSecondarySold)
	p.TotalRewardsIssued = zeroIfNil(p.TotalRewardsIssued)
}
