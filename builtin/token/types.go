// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/holiman/uint256"

	"github.com/fctrlabs/fstake/ledger"
)

type (
	// Mint describes a fungible token type.
	Mint struct {
		Decimals  uint8
		Supply    *uint256.Int
		Authority ledger.Address // the only address allowed to mint
	}

	// accountKey identifies the holding of owner in mint.
	accountKey struct {
		mint  ledger.Address
		owner ledger.Address
	}
)

func (k accountKey) Bytes() []byte {
	b := make([]byte, 0, 2*ledger.AddressLength)
	b = append(b, k.mint[:]...)
	return append(b, k.owner[:]...)
}

// AccountAddress returns the deterministic address of the token account of owner in mint.
func AccountAddress(mint, owner ledger.Address) ledger.Address {
	return ledger.DeriveAddress([]byte("token-account"), mint.Bytes(), owner.Bytes())
}
