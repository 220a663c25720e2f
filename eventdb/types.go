// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"github.com/holiman/uint256"

	"github.com/fctrlabs/fstake/ledger"
)

// Event records one committed transition.
type Event struct {
	ID           uint64
	Op           string
	Caller       ledger.Address
	Counterparty *ledger.Address // entrust edges only
	Kind         string          // token kind of trades, empty otherwise
	Amount       *uint256.Int    // token units moved, nil when not applicable
	Native       *uint256.Int    // native units moved, nil when not applicable
	Reward       *uint256.Int    // secondary units minted by unstake
	Time         uint64
}

type OrderType string

const (
	ASC  OrderType = "asc"
	DESC OrderType = "desc"
)

// Range bounds event time, inclusive. A To below From leaves the range open ended.
type Range struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects events. Staker matches either side of an event.
type Filter struct {
	Staker  *ledger.Address `json:"staker"`
	Ops     []string        `json:"ops"`
	Range   *Range          `json:"range"`
	Options *Options        `json:"options"`
	Order   OrderType       `json:"order"` // default asc
}
