// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/fctrlabs/fstake/ledger"
	"github.com/fctrlabs/fstake/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// State is a private, revertible view over the records of a Stater.
type State struct {
	stater    *Stater
	base      uint64
	sm        *stackedmap.StackedMap[string, []byte]
	touched   map[string]struct{}
	committed bool
}

func newState(stater *Stater, base uint64) *State {
	s := &State{
		stater:  stater,
		base:    base,
		touched: make(map[string]struct{}),
	}
	s.sm = stackedmap.New(func(key string) ([]byte, bool, error) {
		s.touched[key] = struct{}{}
		v, err := stater.load(key, s.base)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	})
	return s
}

func (s *State) getAccount(addr ledger.Address) (*Account, error) {
	raw, _, err := s.sm.Get(accountKey(addr))
	if err != nil {
		return nil, &Error{err}
	}
	acc, err := decodeAccount(raw)
	if err != nil {
		return nil, &Error{err}
	}
	return acc, nil
}

func (s *State) updateAccount(addr ledger.Address, acc *Account) error {
	raw, err := encodeAccount(acc)
	if err != nil {
		return &Error{err}
	}
	s.sm.Put(accountKey(addr), raw)
	return nil
}

// GetBalance returns native balance for the given address.
func (s *State) GetBalance(addr ledger.Address) (*uint256.Int, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return nil, err
	}
	return acc.Balance, nil
}

// SetBalance set native balance for the given address.
func (s *State) SetBalance(addr ledger.Address, balance *uint256.Int) error {
	return s.updateAccount(addr, &Account{Balance: new(uint256.Int).Set(balance)})
}

// AddBalance credits amount to the address.
func (s *State) AddBalance(addr ledger.Address, amount *uint256.Int) error {
	bal, err := s.GetBalance(addr)
	if err != nil {
		return err
	}
	sum, overflow := new(uint256.Int).AddOverflow(bal, amount)
	if overflow {
		return &Error{fmt.Errorf("balance overflow of %v", addr)}
	}
	return s.SetBalance(addr, sum)
}

// SubBalance debits amount from the address.
// It returns false without change if the balance is insufficient.
func (s *State) SubBalance(addr ledger.Address, amount *uint256.Int) (bool, error) {
	bal, err := s.GetBalance(addr)
	if err != nil {
		return false, err
	}
	if bal.Lt(amount) {
		return false, nil
	}
	return true, s.SetBalance(addr, new(uint256.Int).Sub(bal, amount))
}

// Transfer moves native currency between two addresses.
// It returns false without change if from cannot cover amount.
func (s *State) Transfer(from, to ledger.Address, amount *uint256.Int) (bool, error) {
	ok, err := s.SubBalance(from, amount)
	if err != nil || !ok {
		return ok, err
	}
	return true, s.AddBalance(to, amount)
}

// GetRawStorage returns storage value in raw bytes for given address and key.
func (s *State) GetRawStorage(addr ledger.Address, key ledger.Bytes32) ([]byte, error) {
	raw, _, err := s.sm.Get(storageKey(addr, key))
	if err != nil {
		return nil, &Error{err}
	}
	return raw, nil
}

// SetRawStorage set storage value in raw bytes. An empty value deletes the slot.
func (s *State) SetRawStorage(addr ledger.Address, key ledger.Bytes32, raw []byte) {
	s.sm.Put(storageKey(addr, key), raw)
}

// EncodeStorage set storage value encoded by given enc method.
func (s *State) EncodeStorage(addr ledger.Address, key ledger.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
func (s *State) DecodeStorage(addr ledger.Address, key ledger.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// changes returns the final value of every key written since creation.
func (s *State) changes() map[string][]byte {
	out := make(map[string][]byte)
	s.sm.Journal(func(key string, value []byte) bool {
		out[key] = value
		return true
	})
	return out
}
