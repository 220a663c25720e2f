// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakers

// Staker is the staker record. Amounts are decimal strings of primary base units.
type Staker struct {
	Address        string  `json:"address"`
	Registered     bool    `json:"registered"`
	Staked         bool    `json:"staked"`
	StakedAmount   string  `json:"stakedAmount"`
	StakeStartedAt uint64  `json:"stakeStartedAt,omitempty"`
	UnlocksAt      uint64  `json:"unlocksAt,omitempty"` // earliest unstake time
	PendingReward  string  `json:"pendingReward"`       // secondary base units
	DepositAmount  string  `json:"depositAmount"`
	DelegatedTo    *string `json:"delegatedTo"`
	DelegatedFrom  *string `json:"delegatedFrom"`
}
