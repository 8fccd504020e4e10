// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/exchanged/fault"
	"github.com/bitmark-inc/exchanged/storage"
)

// configure for testing
func setup(t *testing.T) (*storage.Ledger, string) {
	dir, err := ioutil.TempDir("", "storage-test")
	if nil != err {
		t.Fatalf("temp dir error: %s", err)
	}
	database := filepath.Join(dir, "test.leveldb")
	l, err := storage.Open(database, storage.ReadWrite)
	if nil != err {
		t.Fatalf("storage open error: %s", err)
	}
	return l, database
}

// post test cleanup
func teardown(l *storage.Ledger, database string) {
	l.Close()
	os.RemoveAll(filepath.Dir(database))
}

func TestAppendAndList(t *testing.T) {
	l, database := setup(t)
	defer teardown(l, database)

	records := []*storage.Record{
		{LicenceId: "ABC123", Address: "0x71562b71999873DB5b286dF957af199Ec94617F7", Status: storage.StatusDelivered, SystemType: "Int32"},
		{LicenceId: "ABC124", CallbackAddress: "127.0.0.1:9001", Status: storage.StatusFailed, Error: "send failed"},
		{LicenceId: "ABC125", KeyFingerprint: []byte{1, 2, 3}, Status: storage.StatusDelivered, Confirmed: true},
	}
	for i, r := range records {
		n, err := l.Append(l.Deliveries, r)
		assert.Nil(t, err, "append error")
		assert.Equal(t, uint64(i+1), n, "wrong sequence")
	}

	// other pools are separate
	receipts, err := l.Receipts.Records()
	assert.Nil(t, err, "receipts error")
	assert.Equal(t, 0, len(receipts), "receipts not empty")

	stored, err := l.Deliveries.Records()
	assert.Nil(t, err, "records error")
	assert.Equal(t, len(records), len(stored), "wrong record count")
	for i, r := range stored {
		assert.Equal(t, records[i].LicenceId, r.LicenceId, "wrong licence")
		assert.Equal(t, records[i].Status, r.Status, "wrong status")
		assert.Equal(t, records[i].Confirmed, r.Confirmed, "wrong confirmed")
		assert.Equal(t, records[i].Sequence, r.Sequence, "wrong sequence")
	}
}

func TestUpdateAndLookup(t *testing.T) {
	l, database := setup(t)
	defer teardown(l, database)

	r := &storage.Record{LicenceId: "XYZ", Status: storage.StatusDelivered}
	n, err := l.Append(l.Deliveries, r)
	assert.Nil(t, err, "append error")

	r.Confirmed = true
	err = l.Update(l.Deliveries, r)
	assert.Nil(t, err, "update error")

	found, err := l.Deliveries.Lookup(n)
	assert.Nil(t, err, "lookup error")
	assert.True(t, found.Confirmed, "update not stored")

	_, err = l.Deliveries.Lookup(n + 1)
	assert.Equal(t, fault.ErrNotFoundRecord, err, "wrong error")

	err = l.Update(l.Deliveries, &storage.Record{Sequence: 99})
	assert.Equal(t, fault.ErrNotFoundRecord, err, "update of missing record")
}

func TestReopenContinuesSequence(t *testing.T) {
	l, database := setup(t)
	defer os.RemoveAll(filepath.Dir(database))

	_, err := l.Append(l.Receipts, &storage.Record{LicenceId: "one"})
	assert.Nil(t, err, "append error")
	l.Close()

	_, err = l.Append(l.Receipts, &storage.Record{LicenceId: "closed"})
	assert.Equal(t, fault.ErrLedgerClosed, err, "append to closed ledger")

	l, err = storage.Open(database, storage.ReadWrite)
	assert.Nil(t, err, "reopen error")
	defer l.Close()

	n, err := l.Append(l.Receipts, &storage.Record{LicenceId: "two"})
	assert.Nil(t, err, "append error")
	assert.Equal(t, uint64(2), n, "sequence restarted")
}

func TestFetchCursor(t *testing.T) {
	l, database := setup(t)
	defer teardown(l, database)

	for i := 0; i < 5; i += 1 {
		_, err := l.Append(l.Deliveries, &storage.Record{LicenceId: "id"})
		assert.Nil(t, err, "append error")
	}

	cursor := l.Deliveries.NewFetchCursor()
	first, err := cursor.Fetch(3)
	assert.Nil(t, err, "fetch error")
	assert.Equal(t, 3, len(first), "wrong first batch")

	second, err := cursor.Fetch(3)
	assert.Nil(t, err, "fetch error")
	assert.Equal(t, 2, len(second), "wrong second batch")
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 4}, second[0].Key, "cursor did not advance")

	_, err = cursor.Fetch(0)
	assert.Equal(t, fault.ErrInvalidCount, err, "wrong error")
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "delivered", storage.StatusDelivered.String())
	assert.Equal(t, "status(9)", storage.Status(9).String())
}
