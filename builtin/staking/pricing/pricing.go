// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pricing converts between token base units and native base units at
// fixed per-token rates. All conversions truncate toward zero.
package pricing

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/fctrlabs/fstake/ledger"
)

// Kind selects one of the two protocol tokens.
type Kind uint8

const (
	Primary Kind = iota + 1
	Secondary
)

const (
	// PrimaryRate is the number of whole primary tokens one whole native coin buys.
	PrimaryRate = 109
	// SecondaryRate is the number of whole secondary tokens one whole native coin buys.
	SecondaryRate = 11
)

var ErrOverflow = errors.New("pricing: result overflows 256 bits")

// ParseKind parses the textual kind name.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "primary":
		return Primary, nil
	case "secondary":
		return Secondary, nil
	}
	return 0, fmt.Errorf("unknown token kind %q", s)
}

func (k Kind) String() string {
	switch k {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func (k Kind) Valid() bool {
	return k == Primary || k == Secondary
}

// Decimals returns the decimals of the token.
func (k Kind) Decimals() uint8 {
	if k == Primary {
		return ledger.PrimaryDecimals
	}
	return ledger.SecondaryDecimals
}

// Rate returns whole tokens per whole native coin.
func (k Kind) Rate() uint64 {
	if k == Primary {
		return PrimaryRate
	}
	return SecondaryRate
}

// unitsPerCoin is 10^decimals * rate, the base units one whole native coin buys.
func (k Kind) unitsPerCoin() *uint256.Int {
	return new(uint256.Int).Mul(ledger.Pow10(k.Decimals()), uint256.NewInt(k.Rate()))
}

// ToNative returns the native units amount base units of token kind are worth.
func ToNative(amount *uint256.Int, kind Kind) (*uint256.Int, error) {
	v, overflow := new(uint256.Int).MulDivOverflow(amount, ledger.NativeScale, kind.unitsPerCoin())
	if overflow {
		return nil, ErrOverflow
	}
	return v, nil
}

// FromNative returns the base units of token kind native units buy.
func FromNative(native *uint256.Int, kind Kind) (*uint256.Int, error) {
	v, overflow := new(uint256.Int).MulDivOverflow(native, kind.unitsPerCoin(), ledger.NativeScale)
	if overflow {
		return nil, ErrOverflow
	}
	return v, nil
}
