// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/fctrlabs/fstake/ledger"
)

// Reward returns the secondary token units earned by staking staked primary
// units for elapsed seconds at rateBps a year:
//
//	max(1, staked * 10^(18-12) * elapsed * rateBps / (10000 * YearSeconds))
//
// The result saturates at the 256-bit maximum.
func Reward(staked *uint256.Int, elapsed uint64, rateBps uint64) *uint256.Int {
	// 10^6 * elapsed * rateBps stays below 2^148
	factor := ledger.Pow10(ledger.SecondaryDecimals - ledger.PrimaryDecimals)
	factor.Mul(factor, uint256.NewInt(elapsed))
	factor.Mul(factor, uint256.NewInt(rateBps))

	denom := new(uint256.Int).Mul(uint256.NewInt(10_000), uint256.NewInt(ledger.YearSeconds))

	reward, overflow := new(uint256.Int).MulDivOverflow(staked, factor, denom)
	if overflow {
		return new(uint256.Int).SetAllOne()
	}
	if reward.IsZero() {
		return uint256.NewInt(1)
	}
	return reward
}
