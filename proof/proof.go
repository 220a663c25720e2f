// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package proof signs and verifies the Ed25519 proofs used to register stakers
// and to authenticate transition requests.
package proof

import (
	"github.com/cloudflare/circl/sign/ed25519"

	"github.com/fctrlabs/fstake/ledger"
)

var (
	registerDomain   = []byte("fstake/register")
	transitionDomain = []byte("fstake/transition")
)

// Verifier checks that sig is a signature of msg by signer.
type Verifier interface {
	Verify(signer ledger.Address, msg, sig []byte) bool
}

// Ed25519 verifies Ed25519 signatures; the signer address is the public key.
type Ed25519 struct{}

func (Ed25519) Verify(signer ledger.Address, msg, sig []byte) bool {
	if len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(signer.Bytes()), msg, sig)
}

// RegistrationMessage returns the message a proof signer signs to admit staker to program.
func RegistrationMessage(program, staker ledger.Address) []byte {
	return ledger.Blake2b(registerDomain, program.Bytes(), staker.Bytes()).Bytes()
}

// TransitionMessage returns the message a caller signs to submit a transition request body.
func TransitionMessage(body []byte) []byte {
	return ledger.Blake2b(transitionDomain, body).Bytes()
}
