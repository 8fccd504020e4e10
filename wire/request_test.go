// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/exchanged/fault"
	"github.com/bitmark-inc/exchanged/wire"
)

func TestPackUnpackRequest(t *testing.T) {
	items := []wire.PurchaseRequest{
		{
			LicenceID:          []byte("ABC123"),
			EncryptedSignature: []byte{0x01, 0x02, 0x03, 0x04, 0x05},
			BuyerPublicKey:     []byte("-----BEGIN PUBLIC KEY-----"),
			CallbackAddress:    []byte("127.0.0.1:4567"),
		},
		{
			LicenceID:          []byte{},
			EncryptedSignature: []byte{},
			BuyerPublicKey:     []byte{},
			CallbackAddress:    []byte{},
		},
		{
			LicenceID:          []byte("x"),
			EncryptedSignature: make([]byte, 256),
			BuyerPublicKey:     []byte{},
			CallbackAddress:    []byte("tcp://[::1]:9000"),
		},
	}

	for i, item := range items {
		packed, err := wire.PackRequest(&item)
		assert.Nil(t, err, "%d: pack error", i)
		assert.Equal(t, item.Size(), len(packed), "%d: wrong size", i)

		unpacked, err := wire.UnpackRequest(packed)
		assert.Nil(t, err, "%d: unpack error", i)
		assert.Equal(t, item, *unpacked, "%d: wrong request", i)

		again, err := wire.UnpackRequest(packed)
		assert.Nil(t, err, "%d: second unpack error", i)
		assert.Equal(t, unpacked, again, "%d: unpack not deterministic", i)
	}
}

func TestPackRequestLayout(t *testing.T) {
	r := wire.PurchaseRequest{
		LicenceID:          []byte("AB"),
		EncryptedSignature: []byte("CDE"),
		BuyerPublicKey:     []byte("F"),
		CallbackAddress:    []byte("GHIJ"),
	}
	packed, err := wire.PackRequest(&r)
	assert.Nil(t, err, "pack error")

	expected := []byte{
		0x02, 0x00, 0x00, 0x00,
		0x03, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00,
		0x04, 0x00, 0x00, 0x00,
		'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J',
	}
	assert.Equal(t, expected, packed, "wrong layout")
}

func TestUnpackRequestCopiesFields(t *testing.T) {
	r := wire.PurchaseRequest{
		LicenceID:          []byte("ABC123"),
		EncryptedSignature: []byte("sig"),
		BuyerPublicKey:     []byte("key"),
		CallbackAddress:    []byte("cb"),
	}
	packed, _ := wire.PackRequest(&r)
	unpacked, err := wire.UnpackRequest(packed)
	assert.Nil(t, err, "unpack error")

	for i := range packed {
		packed[i] = 0xff
	}
	assert.Equal(t, []byte("ABC123"), unpacked.LicenceID, "field aliases buffer")
}

func TestUnpackRequestInvalid(t *testing.T) {
	header := func(a, b, c, d uint32) []byte {
		h := make([]byte, 16)
		binary.LittleEndian.PutUint32(h[0:], a)
		binary.LittleEndian.PutUint32(h[4:], b)
		binary.LittleEndian.PutUint32(h[8:], c)
		binary.LittleEndian.PutUint32(h[12:], d)
		return h
	}

	items := []struct {
		buffer []byte
		err    error
	}{
		{nil, fault.ErrTruncatedFrame},
		{[]byte{}, fault.ErrTruncatedFrame},
		{[]byte{1, 0, 0, 0, 1, 0, 0}, fault.ErrTruncatedFrame},
		{header(1, 0, 0, 0), fault.ErrTruncatedFrame},
		{append(header(2, 2, 2, 2), 1, 2, 3, 4, 5, 6, 7), fault.ErrTruncatedFrame},
		{append(header(0xffffffff, 0xffffffff, 0xffffffff, 0xffffffff), 1, 2, 3), fault.ErrTruncatedFrame},
		{append(header(1, 0, 0, 0), 1, 2), fault.ErrTrailingData},
	}

	for i, item := range items {
		r, err := wire.UnpackRequest(item.buffer)
		assert.Equal(t, item.err, err, "%d: wrong error", i)
		assert.Nil(t, r, "%d: unexpected request", i)
		assert.True(t, fault.IsErrLength(err), "%d: wrong error class", i)
	}
}

func TestUnpackRequestGarbage(t *testing.T) {
	// any prefix of a valid frame must fail cleanly
	r := wire.PurchaseRequest{
		LicenceID:          []byte("ABC123"),
		EncryptedSignature: []byte("signature"),
		BuyerPublicKey:     []byte("public"),
		CallbackAddress:    []byte("callback"),
	}
	packed, _ := wire.PackRequest(&r)
	for n := 0; n < len(packed); n++ {
		_, err := wire.UnpackRequest(packed[:n])
		assert.NotNil(t, err, "prefix %d accepted", n)
	}
}
