// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package processor

import (
	"math"

	"github.com/holiman/uint256"

	"github.com/fctrlabs/fstake/metrics"
)

var (
	metricTransitions        = metrics.LazyLoadCounterVec("transitions_total", []string{"op", "result"})
	metricTransitionDuration = metrics.LazyLoadHistogramVec("transition_duration_ms", []string{"op"}, metrics.BucketDurationMs)
	metricTreasuryBalance    = metrics.LazyLoadGauge("treasury_balance")
)

func setTreasuryGauge(balance *uint256.Int) {
	if balance.IsUint64() && balance.Uint64() <= math.MaxInt64 {
		metricTreasuryBalance().Set(int64(balance.Uint64()))
		return
	}
	metricTreasuryBalance().Set(math.MaxInt64)
}
