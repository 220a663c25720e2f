// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/holiman/uint256"

	"github.com/fctrlabs/fstake/eventdb"
)

// FilteredEvent is a recorded transition. Amounts are decimal strings of base units.
type FilteredEvent struct {
	ID           uint64  `json:"id"`
	Op           string  `json:"op"`
	Caller       string  `json:"caller"`
	Counterparty *string `json:"counterparty,omitempty"`
	Kind         string  `json:"kind,omitempty"`
	Amount       *string `json:"amount,omitempty"`
	Native       *string `json:"native,omitempty"`
	Reward       *string `json:"reward,omitempty"`
	Time         uint64  `json:"time"`
}

func optAmount(v *uint256.Int) *string {
	if v == nil {
		return nil
	}
	s := v.Dec()
	return &s
}

// ConvertEvent renders a recorded event for responses.
func ConvertEvent(ev *eventdb.Event) *FilteredEvent {
	fe := &FilteredEvent{
		ID:     ev.ID,
		Op:     ev.Op,
		Caller: ev.Caller.String(),
		Kind:   ev.Kind,
		Amount: optAmount(ev.Amount),
		Native: optAmount(ev.Native),
		Reward: optAmount(ev.Reward),
		Time:   ev.Time,
	}
	if ev.Counterparty != nil {
		cp := ev.Counterparty.String()
		fe.Counterparty = &cp
	}
	return fe
}
