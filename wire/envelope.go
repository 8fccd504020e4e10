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

// AssetEnvelope - seller to buyer message
type AssetEnvelope struct {
	Metadata   []byte
	Ciphertext []byte
}

// Size - number of bytes the packed envelope occupies
func (e *AssetEnvelope) Size() int {
	return lengthSize + len(e.Metadata) + len(e.Ciphertext)
}

// PackEnvelope - serialise an asset envelope
func PackEnvelope(e *AssetEnvelope) ([]byte, error) {
	if uint64(len(e.Metadata)) > math.MaxUint32 {
		return nil, fault.ErrFieldTooLong
	}
	buffer := make([]byte, lengthSize, e.Size())
	binary.LittleEndian.PutUint32(buffer, uint32(len(e.Metadata)))
	buffer = append(buffer, e.Metadata...)
	buffer = append(buffer, e.Ciphertext...)
	return buffer, nil
}

// UnpackEnvelope - parse an asset envelope
func UnpackEnvelope(buffer []byte) (*AssetEnvelope, error) {
	if len(buffer) < lengthSize {
		return nil, fault.ErrTruncatedFrame
	}
	n := uint64(binary.LittleEndian.Uint32(buffer))
	rest := buffer[lengthSize:]
	if n > uint64(len(rest)) {
		return nil, fault.ErrTruncatedFrame
	}
	return &AssetEnvelope{
		Metadata:   clone(rest[:n]),
		Ciphertext: clone(rest[n:]),
	}, nil
}
