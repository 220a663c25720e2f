// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package processor

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/fctrlabs/fstake/builtin/staking/globalstate"
	"github.com/fctrlabs/fstake/builtin/staking/pricing"
	"github.com/fctrlabs/fstake/eventdb"
	"github.com/fctrlabs/fstake/ledger"
)

// Op names a state transition.
type Op string

const (
	OpInitialize Op = "initialize"
	OpFund       Op = "fund"
	OpRegister   Op = "register"
	OpBuy        Op = "buy"
	OpSell       Op = "sell"
	OpStake      Op = "stake"
	OpUnstake    Op = "unstake"
	OpEntrust    Op = "entrust"
	OpDemandBack Op = "demandBack"
	OpAirdrop    Op = "airdrop"
	OpStartRound Op = "startRound"
)

var ErrUnknownOp = errors.New("unknown op")

// Transition is a request to apply one operation on behalf of Caller.
// Only the fields the op reads need to be set.
type Transition struct {
	Op           Op
	Caller       ledger.Address
	Counterparty ledger.Address // entrust, demandBack
	Kind         pricing.Kind   // buy, sell
	Amount       *uint256.Int   // fund, buy, sell, airdrop
	Proof        []byte         // register
	Final        bool           // startRound

	// initialize
	RoundTime     uint64
	ProofSigner   ledger.Address
	RewardRateBps uint64

	// RequestID, when set, makes the transition execute at most once until Expiry.
	RequestID ledger.Bytes32
	Expiry    uint64
}

// Validate checks the request is well formed for its op.
func (t *Transition) Validate() error {
	switch t.Op {
	case OpInitialize, OpStake, OpUnstake, OpStartRound:
	case OpRegister:
		if len(t.Proof) == 0 {
			return errors.New("missing proof")
		}
	case OpEntrust, OpDemandBack:
		if t.Counterparty.IsZero() {
			return errors.New("missing counterparty")
		}
	case OpBuy, OpSell:
		if !t.Kind.Valid() {
			return errors.New("invalid token kind")
		}
		fallthrough
	case OpFund, OpAirdrop:
		if t.Amount == nil {
			return errors.New("missing amount")
		}
	default:
		return errors.Wrapf(ErrUnknownOp, "%q", t.Op)
	}
	return nil
}

// Receipt describes a committed transition.
type Receipt struct {
	Op           Op
	Caller       ledger.Address
	Counterparty *ledger.Address
	Kind         pricing.Kind
	Amount       *uint256.Int
	Native       *uint256.Int
	Reward       *uint256.Int
	Round        *globalstate.Round // startRound
	Time         uint64
}

func (r *Receipt) event() *eventdb.Event {
	ev := &eventdb.Event{
		Op:           string(r.Op),
		Caller:       r.Caller,
		Counterparty: r.Counterparty,
		Amount:       r.Amount,
		Native:       r.Native,
		Reward:       r.Reward,
		Time:         r.Time,
	}
	if r.Kind.Valid() {
		ev.Kind = r.Kind.String()
	}
	return ev
}
