// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/fctrlabs/fstake/ledger"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction for programs. Every key owns a
// slot derived from the key and the mapping's base position, so the record of
// a key lives at a deterministic address.
type Mapping[K Key, V any] struct {
	context *Context
	basePos ledger.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos ledger.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

// Position returns the slot holding the value of key.
func (m *Mapping[K, V]) Position(key K) ledger.Bytes32 {
	return ledger.Blake2b(key.Bytes(), m.basePos.Bytes())
}

// Get returns the value of key, or the zero value if the slot is empty.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.context.address, m.Position(key), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Exists returns whether a value was ever stored for key.
func (m *Mapping[K, V]) Exists(key K) (bool, error) {
	raw, err := m.context.state.GetRawStorage(m.context.address, m.Position(key))
	if err != nil {
		return false, err
	}
	return len(raw) > 0, nil
}

// Set stores value under key.
func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.context.state.EncodeStorage(m.context.address, m.Position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Insert stores value under key, failing if key already holds a value.
func (m *Mapping[K, V]) Insert(key K, value V) error {
	exists, err := m.Exists(key)
	if err != nil {
		return err
	}
	if exists {
		return ErrSlotTaken
	}
	return m.Set(key, value)
}
