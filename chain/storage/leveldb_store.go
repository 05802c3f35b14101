package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDBProvider backs Provider with a *leveldb.DB, the same database the
// teacher's StateDB already opens in chain/node/blockchain.go. Unlike
// StateDB (which writes key-by-key with no atomicity), this provider
// exercises leveldb's Batch/Write(batch, opts) API, which the teacher's
// go.mod already depends on directly but never calls.
type LevelDBProvider struct {
	db *leveldb.DB
}

// NewLevelDBProvider wraps an already-open LevelDB handle.
func NewLevelDBProvider(db *leveldb.DB) *LevelDBProvider {
	return &LevelDBProvider{db: db}
}

func (p *LevelDBProvider) Get(key []byte) ([]byte, error) {
	v, err := p.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrNotFound
	}
	return v, err
}

func (p *LevelDBProvider) Has(key []byte) (bool, error) {
	return p.db.Has(key, nil)
}

func (p *LevelDBProvider) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	iter := p.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()
	for iter.Next() {
		key := append([]byte(nil), iter.Key()...)
		value := append([]byte(nil), iter.Value()...)
		if err := fn(key, value); err != nil {
			return err
		}
	}
	return iter.Error()
}

func (p *LevelDBProvider) NewBatch() Batch {
	return &levelDBBatch{db: p.db, batch: new(leveldb.Batch)}
}

type levelDBBatch struct {
	db    *leveldb.DB
	batch *leveldb.Batch
}

func (b *levelDBBatch) Put(key, value []byte) {
	b.batch.Put(key, value)
}

func (b *levelDBBatch) Delete(key []byte) {
	b.batch.Delete(key)
}

func (b *levelDBBatch) Commit() error {
	return b.db.Write(b.batch, nil)
}
