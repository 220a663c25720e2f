// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transitions

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/fctrlabs/fstake/builtin/staking/pricing"
	"github.com/fctrlabs/fstake/ledger"
	"github.com/fctrlabs/fstake/processor"
)

// Request is a transition submitted by Caller. The raw request body is
// signed by the caller key and the signature sent in the SignatureHeader.
// Amounts are decimal strings of base units.
type Request struct {
	Op           string `json:"op"`
	Caller       string `json:"caller"`
	Expiry       uint64 `json:"expiry"` // unix seconds after which the request is rejected
	Counterparty string `json:"counterparty,omitempty"`
	Kind         string `json:"kind,omitempty"`
	Amount       string `json:"amount,omitempty"`
	Proof        string `json:"proof,omitempty"` // hex registration proof
	RoundTime    uint64 `json:"roundTime,omitempty"`
	ProofSigner  string `json:"proofSigner,omitempty"`
	RewardRate   uint64 `json:"rewardRateBps,omitempty"`
	Final        bool   `json:"final,omitempty"` // startRound
}

func (r *Request) transition() (*processor.Transition, error) {
	caller, err := ledger.ParseAddress(r.Caller)
	if err != nil {
		return nil, errors.WithMessage(err, "caller")
	}
	tr := &processor.Transition{
		Op:            processor.Op(r.Op),
		Caller:        caller,
		RoundTime:     r.RoundTime,
		RewardRateBps: r.RewardRate,
		Final:         r.Final,
	}
	if r.Counterparty != "" {
		if tr.Counterparty, err = ledger.ParseAddress(r.Counterparty); err != nil {
			return nil, errors.WithMessage(err, "counterparty")
		}
	}
	if r.ProofSigner != "" {
		if tr.ProofSigner, err = ledger.ParseAddress(r.ProofSigner); err != nil {
			return nil, errors.WithMessage(err, "proofSigner")
		}
	}
	if r.Kind != "" {
		if tr.Kind, err = pricing.ParseKind(r.Kind); err != nil {
			return nil, errors.WithMessage(err, "kind")
		}
	}
	if r.Amount != "" {
		if tr.Amount, err = uint256.FromDecimal(r.Amount); err != nil {
			return nil, errors.WithMessage(err, "amount")
		}
	}
	if r.Proof != "" {
		if tr.Proof, err = hexutil.Decode(r.Proof); err != nil {
			return nil, errors.WithMessage(err, "proof")
		}
	}
	return tr, nil
}

// Receipt describes the applied transition.
type Receipt struct {
	Op           string  `json:"op"`
	Caller       string  `json:"caller"`
	Counterparty *string `json:"counterparty,omitempty"`
	Kind         string  `json:"kind,omitempty"`
	Amount       *string `json:"amount,omitempty"`
	Native       *string `json:"native,omitempty"`
	Reward       *string `json:"reward,omitempty"`
	Round        *Round  `json:"round,omitempty"`
	Time         uint64  `json:"time"`
}

// Round is the round opened by a startRound transition.
type Round struct {
	Index     uint64 `json:"index"`
	StartTime uint64 `json:"startTime"`
	Deadline  uint64 `json:"deadline"`
	Final     bool   `json:"final"`
}

func optAmount(v *uint256.Int) *string {
	if v == nil {
		return nil
	}
	s := v.Dec()
	return &s
}

func convertReceipt(r *processor.Receipt) *Receipt {
	out := &Receipt{
		Op:     string(r.Op),
		Caller: r.Caller.String(),
		Amount: optAmount(r.Amount),
		Native: optAmount(r.Native),
		Reward: optAmount(r.Reward),
		Time:   r.Time,
	}
	if r.Kind.Valid() {
		out.Kind = r.Kind.String()
	}
	if r.Counterparty != nil {
		cp := r.Counterparty.String()
		out.Counterparty = &cp
	}
	if r.Round != nil {
		out.Round = &Round{
			Index:     r.Round.Index,
			StartTime: r.Round.StartTime,
			Deadline:  r.Round.Deadline,
			Final:     r.Round.IsFinal,
		}
	}
	return out
}
