// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import "github.com/holiman/uint256"

// Constants of the native currency and the two protocol tokens.
const (
	NativeDecimals    = 9
	PrimaryDecimals   = 12
	SecondaryDecimals = 18

	// YearSeconds is the length of a reward year.
	YearSeconds uint64 = 365 * 24 * 3600
)

var (
	// NativeScale is the number of native base units in one whole native coin.
	NativeScale = uint256.NewInt(1e9)
)

// Pow10 returns 10^n as a 256-bit integer.
func Pow10(n uint8) *uint256.Int {
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(n)))
}

// WholeUnits converts a count of whole tokens into base units of a token with the given decimals.
func WholeUnits(count uint64, decimals uint8) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(count), Pow10(decimals))
}
