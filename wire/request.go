// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"math"

	"github.com/bitmark-inc/exchanged/fault"
)

const (
	lengthSize        = 4
	requestFieldCount = 4
	requestHeaderSize = requestFieldCount * lengthSize
)

// PurchaseRequest - buyer to seller message
type PurchaseRequest struct {
	LicenceID          []byte
	EncryptedSignature []byte
	BuyerPublicKey     []byte
	CallbackAddress    []byte
}

// fields in wire order
func (r *PurchaseRequest) fields() [requestFieldCount][]byte {
	return [requestFieldCount][]byte{
		r.LicenceID,
		r.EncryptedSignature,
		r.BuyerPublicKey,
		r.CallbackAddress,
	}
}

// Size - number of bytes the packed request occupies
func (r *PurchaseRequest) Size() int {
	n := requestHeaderSize
	for _, f := range r.fields() {
		n += len(f)
	}
	return n
}

// PackRequest - serialise a purchase request
func PackRequest(r *PurchaseRequest) ([]byte, error) {
	fields := r.fields()
	for _, f := range fields {
		if uint64(len(f)) > math.MaxUint32 {
			return nil, fault.ErrFieldTooLong
		}
	}

	buffer := make([]byte, requestHeaderSize, r.Size())
	for i, f := range fields {
		binary.LittleEndian.PutUint32(buffer[i*lengthSize:], uint32(len(f)))
	}
	for _, f := range fields {
		buffer = append(buffer, f...)
	}
	return buffer, nil
}

// UnpackRequest - parse a purchase request
//
// the returned fields are copies so the buffer may be reused
func UnpackRequest(buffer []byte) (*PurchaseRequest, error) {
	if len(buffer) < requestHeaderSize {
		return nil, fault.ErrTruncatedFrame
	}

	// lengths are summed in 64 bits so four maximal prefixes cannot wrap
	var lengths [requestFieldCount]uint64
	total := uint64(0)
	for i := range lengths {
		lengths[i] = uint64(binary.LittleEndian.Uint32(buffer[i*lengthSize:]))
		total += lengths[i]
	}

	payload := buffer[requestHeaderSize:]
	if total > uint64(len(payload)) {
		return nil, fault.ErrTruncatedFrame
	}
	if total != uint64(len(payload)) {
		return nil, fault.ErrTrailingData
	}

	var fields [requestFieldCount][]byte
	offset := uint64(0)
	for i, l := range lengths {
		fields[i] = clone(payload[offset : offset+l])
		offset += l
	}

	return &PurchaseRequest{
		LicenceID:          fields[0],
		EncryptedSignature: fields[1],
		BuyerPublicKey:     fields[2],
		CallbackAddress:    fields[3],
	}, nil
}

func clone(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
