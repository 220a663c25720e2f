// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/fctrlabs/fstake/kv"
	"github.com/fctrlabs/fstake/ledger"
)

var (
	// ErrConflict is returned when a record touched by a state was committed
	// by someone else after the state was created.
	ErrConflict = errors.New("state: conflicting commit")
	// ErrCommitted is returned when committing a state twice.
	ErrCommitted = errors.New("state: already committed")
)

// Stater creates states and commits them to the underlying kv store.
type Stater struct {
	mu       sync.RWMutex
	commitMu sync.RWMutex // shared by View, exclusive for Commit
	db       kv.Store
	cache    *lru.Cache
	seq      uint64
	modified map[string]uint64 // key => seq of the last commit that wrote it
}

// NewStater create a stater over db. cacheSize is the number of raw records kept in memory.
func NewStater(db kv.Store, cacheSize int) *Stater {
	if cacheSize < 1 {
		cacheSize = 1
	}
	cache, _ := lru.New(cacheSize)
	return &Stater{
		db:       db,
		cache:    cache,
		modified: make(map[string]uint64),
	}
}

// NewState create a fresh view over the latest committed records.
func (s *Stater) NewState() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newState(s, s.seq)
}

// View calls fn with a state over the latest committed records. Commits wait
// until fn returns, so every read of fn sees the same revision. fn must not
// call View or Commit.
func (s *Stater) View(fn func(st *State) error) error {
	s.commitMu.RLock()
	defer s.commitMu.RUnlock()
	return fn(s.NewState())
}

// Seq returns the number of commits applied so far.
func (s *Stater) Seq() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seq
}

// load reads the committed value of key as of commit base. A key committed
// after base cannot be read consistently and yields ErrConflict.
func (s *Stater) load(key string, base uint64) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.modified[key] > base {
		return nil, ErrConflict
	}

	if v, ok := s.cache.Get(key); ok {
		return v.([]byte), nil
	}
	v, err := s.db.Get([]byte(key))
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	s.cache.Add(key, v)
	return v, nil
}

// Commit applies all changes of st atomically.
// It fails with ErrConflict, applying nothing, if any record st read or wrote
// was changed by another commit since st was created.
func (s *Stater) Commit(st *State) error {
	if st.stater != s {
		return errors.New("state: foreign state")
	}
	if st.committed {
		return ErrCommitted
	}

	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	changes := st.changes()
	for key := range st.touched {
		if s.modified[key] > st.base {
			return ErrConflict
		}
	}
	for key := range changes {
		if s.modified[key] > st.base {
			return ErrConflict
		}
	}

	batch := s.db.NewBatch()
	for key, value := range changes {
		var err error
		if len(value) == 0 {
			err = batch.Delete([]byte(key))
		} else {
			err = batch.Put([]byte(key), value)
		}
		if err != nil {
			return &Error{err}
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}

	s.seq++
	for key, value := range changes {
		s.modified[key] = s.seq
		if len(value) == 0 {
			s.cache.Remove(key)
		} else {
			s.cache.Add(key, value)
		}
	}
	st.committed = true
	return nil
}

// IterateStorage traverses the committed storage slots of addr.
func (s *Stater) IterateStorage(addr ledger.Address, fn func(key ledger.Bytes32, raw []byte) bool) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := StoragePrefix(addr)
	return s.db.Iterate(prefix, func(k, v []byte) bool {
		return fn(ledger.BytesToBytes32(k[len(prefix):]), v)
	})
}
