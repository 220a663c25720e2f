// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package datagen produces random values for tests.
package datagen

import (
	"crypto/rand"
	mathrand "math/rand/v2"

	"github.com/fctrlabs/fstake/ledger"
	"github.com/fctrlabs/fstake/proof"
)

func RandAddress() (addr ledger.Address) {
	rand.Read(addr[:])
	return
}

func RandHash() (h ledger.Bytes32) {
	rand.Read(h[:])
	return
}

// RandKey returns a fresh signing key.
func RandKey() *proof.PrivateKey {
	k, err := proof.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}
	return k
}

func RandInt() int {
	return mathrand.Int() //#nosec G404
}

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}
