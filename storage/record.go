// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/golang/protobuf/proto"

	"github.com/bitmark-inc/exchanged/fault"
)

// Status - outcome of an exchange
type Status int32

// exchange outcomes
const (
	StatusUnknown   Status = 0
	StatusDelivered Status = 1
	StatusFailed    Status = 2
	StatusReceived  Status = 3
)

var statusNames = map[Status]string{
	StatusUnknown:   "unknown",
	StatusDelivered: "delivered",
	StatusFailed:    "failed",
	StatusReceived:  "received",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int32(s))
}

// Record - one ledger entry
//
// the seller records the buyer address, callback and a fingerprint of the
// buyer key for each delivery, the buyer records the decoded value
type Record struct {
	Sequence        uint64 `protobuf:"varint,1,opt,name=sequence,proto3" json:"sequence"`
	Timestamp       int64  `protobuf:"varint,2,opt,name=timestamp,proto3" json:"timestamp"`
	Status          Status `protobuf:"varint,3,opt,name=status,proto3" json:"status"`
	LicenceId       string `protobuf:"bytes,4,opt,name=licence_id,json=licenceId,proto3" json:"licence_id"`
	Address         string `protobuf:"bytes,5,opt,name=address,proto3" json:"address"`
	CallbackAddress string `protobuf:"bytes,6,opt,name=callback_address,json=callbackAddress,proto3" json:"callback_address"`
	KeyFingerprint  []byte `protobuf:"bytes,7,opt,name=key_fingerprint,json=keyFingerprint,proto3" json:"key_fingerprint"`
	SystemType      string `protobuf:"bytes,8,opt,name=system_type,json=systemType,proto3" json:"system_type"`
	Value           string `protobuf:"bytes,9,opt,name=value,proto3" json:"value,omitempty"`
	DataSource      string `protobuf:"bytes,10,opt,name=data_source,json=dataSource,proto3" json:"data_source"`
	ResultUnit      string `protobuf:"bytes,11,opt,name=result_unit,json=resultUnit,proto3" json:"result_unit"`
	Confirmed       bool   `protobuf:"varint,12,opt,name=confirmed,proto3" json:"confirmed"`
	Error           string `protobuf:"bytes,13,opt,name=error,proto3" json:"error,omitempty"`
}

// Reset - proto.Message
func (r *Record) Reset() { *r = Record{} }

// String - proto.Message
func (r *Record) String() string { return proto.CompactTextString(r) }

// ProtoMessage - proto.Message
func (*Record) ProtoMessage() {}

// Append - store a record at the next sequence number of the pool
//
// the assigned sequence is written into the record
func (l *Ledger) Append(p *PoolHandle, record *Record) (uint64, error) {
	l.appendLock.Lock()
	defer l.appendLock.Unlock()

	key := p.nextSequence()
	record.Sequence = binary.BigEndian.Uint64(key)

	data, err := proto.Marshal(record)
	if nil != err {
		return 0, err
	}
	err = p.Put(key, data)
	if nil != err {
		return 0, err
	}
	return record.Sequence, nil
}

// Update - overwrite an existing record in place
func (l *Ledger) Update(p *PoolHandle, record *Record) error {
	l.appendLock.Lock()
	defer l.appendLock.Unlock()

	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, record.Sequence)
	if !p.Has(key) {
		return fault.ErrNotFoundRecord
	}

	data, err := proto.Marshal(record)
	if nil != err {
		return err
	}
	return p.Put(key, data)
}

// Lookup - record with a given sequence number
func (p *PoolHandle) Lookup(sequence uint64) (*Record, error) {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, sequence)

	data, err := p.Get(key)
	if nil != err {
		return nil, err
	}
	if nil == data {
		return nil, fault.ErrNotFoundRecord
	}
	return unpackRecord(data)
}

// Records - every record of a pool in sequence order
func (p *PoolHandle) Records() ([]*Record, error) {
	records := make([]*Record, 0, 16)
	err := p.NewFetchCursor().Map(func(key []byte, value []byte) error {
		r, err := unpackRecord(value)
		if nil != err {
			return err
		}
		records = append(records, r)
		return nil
	})
	return records, err
}

func unpackRecord(data []byte) (*Record, error) {
	r := &Record{}
	if err := proto.Unmarshal(data, r); nil != err {
		return nil, fmt.Errorf("%w: %s", fault.ErrRecordCorrupt, err)
	}
	return r, nil
}
