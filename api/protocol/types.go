// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package protocol

// Treasury holds the program balances. Amounts are decimal strings of base units.
type Treasury struct {
	Native    string `json:"native"`
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

type Totals struct {
	PrimaryBought string `json:"primaryBought"`
	PrimarySold   string `json:"primarySold"`
	SecondarySold string `json:"secondarySold"`
	RewardsIssued string `json:"rewardsIssued"`
}

type Info struct {
	Program       string   `json:"program"`
	Owner         string   `json:"owner"`
	RoundTime     uint64   `json:"roundTime"`
	RewardRateBps uint64   `json:"rewardRateBps"`
	PrimaryMint   string   `json:"primaryMint"`
	SecondaryMint string   `json:"secondaryMint"`
	ProofSigner   string   `json:"proofSigner"`
	Treasury      Treasury `json:"treasury"`
	Totals        Totals   `json:"totals"`
	Rounds        Rounds   `json:"rounds"`
}

// Rounds summarizes the round schedule.
type Rounds struct {
	Count        uint64 `json:"count"`
	LastDeadline uint64 `json:"lastDeadline"`
	Finished     bool   `json:"finished"` // a final round was started
}

type Round struct {
	Index     uint64 `json:"index"`
	StartTime uint64 `json:"startTime"`
	Deadline  uint64 `json:"deadline"`
	Final     bool   `json:"final"`
}
