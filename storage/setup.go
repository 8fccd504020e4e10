// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/exchanged/fault"
)

// Pools - the set of ledger pools
//
// note all must be exported (i.e. initial capital) or initialisation will fail
type Pools struct {
	Deliveries *PoolHandle `prefix:"D"`
	Receipts   *PoolHandle `prefix:"R"`
}

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentVersion = 0x100

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

// Ledger - an open database
type Ledger struct {
	sync.RWMutex
	Pools

	db *leveldb.DB

	// serialises sequence allocation
	appendLock sync.Mutex
}

// Open - open or create the database
func Open(database string, readOnly bool) (*Ledger, error) {

	db, version, err := getDB(database, readOnly)
	if nil != err {
		return nil, fmt.Errorf("%w: %s", fault.ErrRecordCorrupt, err)
	}

	ok := false
	defer func() {
		if !ok {
			db.Close()
		}
	}()

	// ensure no database downgrade
	if version > currentVersion {
		return nil, fmt.Errorf("database version: %d > current version: %d", version, currentVersion)
	}

	if 0 == version && !readOnly {
		err = putVersion(db, currentVersion)
		if nil != err {
			return nil, err
		}
	}

	l := &Ledger{db: db}

	// this will be a struct type
	poolType := reflect.TypeOf(l.Pools)

	// get write access by using pointer + Elem()
	poolValue := reflect.ValueOf(&l.Pools).Elem()

	// scan each field
	for i := 0; i < poolType.NumField(); i += 1 {

		fieldInfo := poolType.Field(i)

		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) {
			return nil, fmt.Errorf("pool: %v has invalid prefix: %q", fieldInfo, prefixTag)
		}

		prefix := prefixTag[0]
		limit := []byte(nil)
		if prefix < 255 {
			limit = []byte{prefix + 1}
		}

		p := &PoolHandle{
			prefix: prefix,
			limit:  limit,
			ledger: l,
		}
		poolValue.Field(i).Set(reflect.ValueOf(p))
	}

	ok = true // prevent db close
	return l, nil
}

// Close - close the database, pools are unusable afterwards
func (l *Ledger) Close() {
	if nil == l {
		return
	}
	l.Lock()
	defer l.Unlock()
	if nil != l.db {
		l.db.Close()
		l.db = nil
	}
}

// return:
//   database handle
//   version number
func getDB(name string, readOnly bool) (*leveldb.DB, int, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, 0, err
	}

	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return db, 0, nil
	} else if nil != err {
		db.Close()
		return nil, 0, err
	}

	if 4 != len(versionValue) {
		db.Close()
		return nil, 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}

	version := int(binary.BigEndian.Uint32(versionValue))
	return db, version, nil
}

func putVersion(db *leveldb.DB, version int) error {
	current := make([]byte, 4)
	binary.BigEndian.PutUint32(current, uint32(version))

	return db.Put(versionKey, current, nil)
}
