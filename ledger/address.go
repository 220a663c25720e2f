// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"bytes"
	"encoding/json"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// AddressLength length of address in bytes.
const AddressLength = 32

// Address identifies an account. For signers it is the raw ed25519 public key,
// for program owned records it is derived from seeds, see DeriveAddress.
type Address [AddressLength]byte

var (
	_ json.Marshaler   = (*Address)(nil)
	_ json.Unmarshaler = (*Address)(nil)
)

// String implements the stringer interface. Addresses are presented in base58.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// Bytes returns byte slice form of address.
func (a Address) Bytes() []byte {
	return a[:]
}

// IsZero returns if address has all zero bytes.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Compare orders addresses bytewise.
func (a Address) Compare(other Address) int {
	return bytes.Compare(a[:], other[:])
}

// MarshalJSON implements json.Marshaler.
func (a *Address) MarshalJSON() ([]byte, error) {
	if a == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(a.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress converts base58 presented address into Address type.
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return Address{}, errors.New("empty address")
	}
	b, err := base58.Decode(s)
	if err != nil {
		return Address{}, errors.Wrap(err, "decode address")
	}
	if len(b) != AddressLength {
		return Address{}, errors.New("invalid length")
	}
	var addr Address
	copy(addr[:], b)
	return addr, nil
}

// MustParseAddress convert string presented address into Address type, panic on error.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// BytesToAddress converts bytes slice into address.
// If b is larger than address length, b will be cropped (from the left).
// If b is smaller than address length, b will be extended (from the left).
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// DeriveAddress computes a deterministic record address from the given seeds.
// The same seeds always map to the same address.
func DeriveAddress(seeds ...[]byte) Address {
	data := make([][]byte, 0, len(seeds)+1)
	data = append(data, deriveDomain)
	data = append(data, seeds...)
	return Address(Blake2b(data...))
}

var deriveDomain = []byte("fstake/derive")
