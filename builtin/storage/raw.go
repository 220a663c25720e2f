// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/fctrlabs/fstake/ledger"
)

// ErrSlotTaken is returned when inserting into an occupied slot.
var ErrSlotTaken = errors.New("storage: slot already taken")

// Raw is a single rlp encoded value stored at a fixed position.
type Raw[V any] struct {
	context *Context
	pos     ledger.Bytes32
}

func NewRaw[V any](context *Context, pos ledger.Bytes32) *Raw[V] {
	return &Raw[V]{context: context, pos: pos}
}

// Get returns the stored value, or the zero value if nothing was stored.
func (r *Raw[V]) Get() (value V, err error) {
	err = r.context.state.DecodeStorage(r.context.address, r.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (r *Raw[V]) Exists() (bool, error) {
	raw, err := r.context.state.GetRawStorage(r.context.address, r.pos)
	if err != nil {
		return false, err
	}
	return len(raw) > 0, nil
}

func (r *Raw[V]) Upsert(value V) error {
	return r.context.state.EncodeStorage(r.context.address, r.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}
