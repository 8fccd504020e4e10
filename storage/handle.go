// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/exchanged/fault"
)

// PoolHandle - one prefix range of the ledger
type PoolHandle struct {
	prefix byte
	limit  []byte
	ledger *Ledger
}

// Element - a binary data item
type Element struct {
	Key   []byte
	Value []byte
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// Put - store a key/value bytes pair to the database
func (p *PoolHandle) Put(key []byte, value []byte) error {
	p.ledger.RLock()
	defer p.ledger.RUnlock()
	if nil == p.ledger.db {
		return fault.ErrLedgerClosed
	}
	return p.ledger.db.Put(p.prefixKey(key), value, nil)
}

// Get - read a value for a given key, nil if not present
func (p *PoolHandle) Get(key []byte) ([]byte, error) {
	p.ledger.RLock()
	defer p.ledger.RUnlock()
	if nil == p.ledger.db {
		return nil, fault.ErrLedgerClosed
	}
	value, err := p.ledger.db.Get(p.prefixKey(key), nil)
	if leveldb.ErrNotFound == err {
		return nil, nil
	}
	return value, err
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) bool {
	p.ledger.RLock()
	defer p.ledger.RUnlock()
	if nil == p.ledger.db {
		return false
	}
	value, err := p.ledger.db.Has(p.prefixKey(key), nil)
	return nil == err && value
}

// LastElement - get the last element in a pool
func (p *PoolHandle) LastElement() (Element, bool) {
	maxRange := ldb_util.Range{
		Start: []byte{p.prefix}, // Start of key range, included in the range
		Limit: p.limit,          // Limit of key range, excluded from the range
	}

	p.ledger.RLock()
	defer p.ledger.RUnlock()
	if nil == p.ledger.db {
		return Element{}, false
	}

	iter := p.ledger.db.NewIterator(&maxRange, nil)

	found := false
	result := Element{}
	if iter.Last() {

		// contents of the returned slice must not be modified, and are
		// only valid until the next call to Next
		key := iter.Key()
		value := iter.Value()

		dataKey := make([]byte, len(key)-1) // strip the prefix
		copy(dataKey, key[1:])              // ...

		dataValue := make([]byte, len(value))
		copy(dataValue, value)

		result.Key = dataKey
		result.Value = dataValue
		found = true
	}
	iter.Release()
	return result, found && nil == iter.Error()
}

// nextSequence - key after the current last element
func (p *PoolHandle) nextSequence() []byte {
	n := uint64(1)
	if last, ok := p.LastElement(); ok && 8 == len(last.Key) {
		n = binary.BigEndian.Uint64(last.Key) + 1
	}
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, n)
	return key
}
