// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/exchanged/fault"
	"github.com/bitmark-inc/exchanged/wire"
)

func TestPackUnpackEnvelope(t *testing.T) {
	items := []wire.AssetEnvelope{
		{
			Metadata:   []byte("<AssetInfo></AssetInfo>"),
			Ciphertext: make([]byte, 32),
		},
		{
			Metadata:   []byte{},
			Ciphertext: []byte{0xde, 0xad},
		},
		{
			Metadata:   []byte("only metadata"),
			Ciphertext: []byte{},
		},
	}

	for i, item := range items {
		packed, err := wire.PackEnvelope(&item)
		assert.Nil(t, err, "%d: pack error", i)
		assert.Equal(t, item.Size(), len(packed), "%d: wrong size", i)

		unpacked, err := wire.UnpackEnvelope(packed)
		assert.Nil(t, err, "%d: unpack error", i)
		assert.Equal(t, item, *unpacked, "%d: wrong envelope", i)
	}
}

func TestUnpackEnvelopeInvalid(t *testing.T) {
	items := [][]byte{
		nil,
		{0x01},
		{0x01, 0x00, 0x00},
		{0x01, 0x00, 0x00, 0x00},
		{0x05, 0x00, 0x00, 0x00, 'a', 'b'},
		{0xff, 0xff, 0xff, 0xff, 'a'},
	}
	for i, item := range items {
		e, err := wire.UnpackEnvelope(item)
		assert.Equal(t, fault.ErrTruncatedFrame, err, "%d: wrong error", i)
		assert.Nil(t, e, "%d: unexpected envelope", i)
	}
}
