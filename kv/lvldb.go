// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var (
	writeOpt = &opt.WriteOptions{}
	readOpt  = &opt.ReadOptions{}
)

// Options options for opening a persistent store.
type Options struct {
	CacheSize              int // in MiB
	OpenFilesCacheCapacity int
}

// implements Batch interface
type lvldbBatch struct {
	db    *leveldb.DB
	batch *leveldb.Batch
}

func (b *lvldbBatch) Put(key, value []byte) error {
	b.batch.Put(key, value)
	return nil
}

func (b *lvldbBatch) Delete(key []byte) error {
	b.batch.Delete(key)
	return nil
}

func (b *lvldbBatch) Len() int {
	return b.batch.Len()
}

func (b *lvldbBatch) Write() error {
	return b.db.Write(b.batch, writeOpt)
}

// implements Store interface
type lvldb struct {
	db  *leveldb.DB
	stg storage.Storage
}

func openLevelDB(stg storage.Storage, opts Options) (*lvldb, error) {
	if opts.CacheSize < 16 {
		opts.CacheSize = 16
	}
	if opts.OpenFilesCacheCapacity < 64 {
		opts.OpenFilesCacheCapacity = 64
	}

	db, err := leveldb.Open(stg, &opt.Options{
		OpenFilesCacheCapacity: opts.OpenFilesCacheCapacity,
		BlockCacheCapacity:     opts.CacheSize / 2 * opt.MiB,
		WriteBuffer:            opts.CacheSize / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open level db")
	}
	return &lvldb{db: db, stg: stg}, nil
}

// NewMem creates a store kept entirely in memory.
func NewMem() Store {
	db, err := openLevelDB(storage.NewMemStorage(), Options{})
	if err != nil {
		// memory storage never fails to open
		panic(err)
	}
	return db
}

// Open opens or creates a persistent store at the given path.
func Open(path string, opts Options) (Store, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "open level db storage")
	}
	db, err := openLevelDB(stg, opts)
	if err != nil {
		stg.Close()
		return nil, err
	}
	return db, nil
}

func (ldb *lvldb) Get(key []byte) ([]byte, error) {
	return ldb.db.Get(key, readOpt)
}

func (ldb *lvldb) Has(key []byte) (bool, error) {
	return ldb.db.Has(key, readOpt)
}

func (ldb *lvldb) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

func (ldb *lvldb) Put(key, value []byte) error {
	return ldb.db.Put(key, value, writeOpt)
}

func (ldb *lvldb) Delete(key []byte) error {
	return ldb.db.Delete(key, writeOpt)
}

func (ldb *lvldb) NewBatch() Batch {
	return &lvldbBatch{
		ldb.db,
		&leveldb.Batch{},
	}
}

func (ldb *lvldb) Iterate(prefix []byte, fn func(key, value []byte) bool) error {
	it := ldb.db.NewIterator(util.BytesPrefix(prefix), readOpt)
	defer it.Release()
	for it.Next() {
		if !fn(it.Key(), it.Value()) {
			break
		}
	}
	return it.Error()
}

// Close closes the db and then releases its storage, which leveldb leaves open.
func (ldb *lvldb) Close() error {
	if err := ldb.db.Close(); err != nil {
		return err
	}
	return ldb.stg.Close()
}
