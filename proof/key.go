// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package proof

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/fctrlabs/fstake/ledger"
)

// PrivateKey is an Ed25519 signing key.
type PrivateKey struct {
	key ed25519.PrivateKey
}

// GenerateKey creates a key from the given entropy source.
func GenerateKey(rand io.Reader) (*PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, errors.Wrap(err, "generate key")
	}
	return &PrivateKey{priv}, nil
}

// KeyFromSeed derives a key from a 32 byte seed.
func KeyFromSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Errorf("invalid seed length %d", len(seed))
	}
	return &PrivateKey{ed25519.NewKeyFromSeed(seed)}, nil
}

// Address returns the address controlled by the key.
func (k *PrivateKey) Address() ledger.Address {
	return ledger.BytesToAddress(k.key.Public().(ed25519.PublicKey))
}

func (k *PrivateKey) Seed() []byte {
	return k.key.Seed()
}

func (k *PrivateKey) Sign(msg []byte) []byte {
	return ed25519.Sign(k.key, msg)
}

// SignRegistration signs the registration proof of staker for program.
func (k *PrivateKey) SignRegistration(program, staker ledger.Address) []byte {
	return k.Sign(RegistrationMessage(program, staker))
}

// SaveKey writes the hex encoded seed of k to path.
func SaveKey(path string, k *PrivateKey) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "create key dir")
	}
	return os.WriteFile(path, []byte(hexutil.Encode(k.Seed())), 0o600)
}

// LoadKey reads a key written by SaveKey.
func LoadKey(path string) (*PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	seed, err := hexutil.Decode(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, errors.Wrapf(err, "decode key file %v", path)
	}
	return KeyFromSeed(seed)
}

// LoadOrGenerateKey loads the key at path, creating it on first use.
func LoadOrGenerateKey(path string, rand io.Reader) (*PrivateKey, error) {
	key, err := LoadKey(path)
	if err == nil {
		return key, nil
	}
	if !os.IsNotExist(errors.Cause(err)) {
		return nil, err
	}
	if key, err = GenerateKey(rand); err != nil {
		return nil, err
	}
	if err := SaveKey(path, key); err != nil {
		return nil, err
	}
	return key, nil
}
