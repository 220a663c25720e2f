// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pricing

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fctrlabs/fstake/ledger"
)

const coin = 1_000_000_000

func TestToNative(t *testing.T) {
	tests := []struct {
		name   string
		amount *uint256.Int
		kind   Kind
		want   uint64
	}{
		{"zero", uint256.NewInt(0), Primary, 0},
		{"ten whole primary", ledger.WholeUnits(10, ledger.PrimaryDecimals), Primary, 10 * coin / 109},
		{"one whole primary", ledger.WholeUnits(1, ledger.PrimaryDecimals), Primary, coin / 109},
		{"109 whole primary", ledger.WholeUnits(109, ledger.PrimaryDecimals), Primary, 1e9},
		{"one whole secondary", ledger.WholeUnits(1, ledger.SecondaryDecimals), Secondary, coin / 11},
		{"eleven whole secondary", ledger.WholeUnits(11, ledger.SecondaryDecimals), Secondary, 1e9},
		{"below one native unit", uint256.NewInt(109_000 - 1), Primary, 0},
		{"exactly one native unit", uint256.NewInt(109_000), Primary, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToNative(tt.amount, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Uint64())
		})
	}
}

func TestFromNative(t *testing.T) {
	got, err := FromNative(uint256.NewInt(1e9), Primary)
	require.NoError(t, err)
	assert.Equal(t, ledger.WholeUnits(109, ledger.PrimaryDecimals), got)

	got, err = FromNative(uint256.NewInt(1), Secondary)
	require.NoError(t, err)
	assert.Equal(t, uint64(11e9), got.Uint64())

	max := new(uint256.Int).SetAllOne()
	_, err = FromNative(max, Secondary)
	assert.ErrorIs(t, err, ErrOverflow)

	// a*scale/units never exceeds a, so ToNative cannot overflow
	_, err = ToNative(max, Primary)
	assert.NoError(t, err)
}

func TestKind(t *testing.T) {
	k, err := ParseKind("primary")
	require.NoError(t, err)
	assert.Equal(t, Primary, k)
	k, err = ParseKind("secondary")
	require.NoError(t, err)
	assert.Equal(t, Secondary, k)
	_, err = ParseKind("native")
	assert.Error(t, err)

	assert.True(t, Primary.Valid())
	assert.False(t, Kind(0).Valid())
	assert.Equal(t, "kind(7)", Kind(7).String())
	assert.Equal(t, uint8(12), Primary.Decimals())
	assert.Equal(t, uint8(18), Secondary.Decimals())
}

func TestPricingProperties(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for _, kind := range []Kind{Primary, Secondary} {
		// base units a single native unit is worth
		unit := kind.unitsPerCoin()
		unit.Div(unit, ledger.NativeScale)

		for i := 0; i < 2000; i++ {
			var a, b uint64
			f.Fuzz(&a)
			f.Fuzz(&b)
			if a > b {
				a, b = b, a
			}
			x, y := uint256.NewInt(a), uint256.NewInt(b)

			nx, err := ToNative(x, kind)
			require.NoError(t, err)
			ny, err := ToNative(y, kind)
			require.NoError(t, err)
			assert.True(t, nx.Cmp(ny) <= 0, "ToNative must be monotonic")

			back, err := FromNative(nx, kind)
			require.NoError(t, err)
			assert.True(t, back.Cmp(x) <= 0, "round trip must not create units")
			diff := new(uint256.Int).Sub(x, back)
			assert.True(t, diff.Lt(unit), "round trip loses less than one native unit's worth")

			// tokens bought with a native units never sell for more than a
			units, err := FromNative(uint256.NewInt(a), kind)
			require.NoError(t, err)
			native, _ := ToNative(units, kind)
			assert.True(t, native.Cmp(uint256.NewInt(a)) <= 0)
		}
	}
}
