// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keystore

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/pem"
	"io"

	"github.com/bitmark-inc/go-argon2"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/bitmark-inc/exchanged/fault"
)

const (
	saltSize  = 16
	nonceSize = 24
	keySize   = 32

	encryptedPrefix = "ENCRYPTED "
	saltHeader      = "Salt"
	kdfHeader       = "KDF"
	kdfName         = "argon2i"
)

// derive a secretbox key from a passphrase
func deriveKey(passphrase string, salt []byte) (*[keySize]byte, error) {
	ctx := &argon2.Context{
		Iterations:  5,
		Memory:      1 << 16,
		Parallelism: 4,
		HashLen:     keySize,
		Mode:        argon2.ModeArgon2i,
		Version:     argon2.Version13,
	}

	hash, err := argon2.Hash(ctx, []byte(passphrase), salt)
	if nil != err {
		return nil, err
	}
	key := new([keySize]byte)
	copy(key[:], hash)
	return key, nil
}

// encode a PEM block, sealing the body when a passphrase is given
func sealBlock(blockType string, body []byte, passphrase string) ([]byte, error) {
	if "" == passphrase {
		return pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: body}), nil
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); nil != err {
		return nil, err
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); nil != err {
		return nil, err
	}
	key, err := deriveKey(passphrase, salt)
	if nil != err {
		return nil, err
	}

	block := &pem.Block{
		Type: encryptedPrefix + blockType,
		Headers: map[string]string{
			kdfHeader:  kdfName,
			saltHeader: hex.EncodeToString(salt),
		},
		Bytes: secretbox.Seal(nonce[:], body, &nonce, key),
	}
	return pem.EncodeToMemory(block), nil
}

// decode a PEM block of the given type, opening it if sealed
func openBlock(blockType string, data []byte, passphrase string) ([]byte, error) {
	block, _ := pem.Decode(data)
	if nil == block {
		return nil, fault.ErrCannotDecodePrivateKey
	}

	switch block.Type {
	case blockType:
		return block.Bytes, nil

	case encryptedPrefix + blockType:
		if "" == passphrase {
			return nil, fault.ErrPassphraseRequired
		}
		if kdfName != block.Headers[kdfHeader] {
			return nil, fault.ErrUnknownAlgorithm
		}
		salt, err := hex.DecodeString(block.Headers[saltHeader])
		if nil != err || saltSize != len(salt) {
			return nil, fault.ErrCannotDecodePrivateKey
		}
		if len(block.Bytes) < nonceSize+secretbox.Overhead {
			return nil, fault.ErrCannotDecodePrivateKey
		}
		key, err := deriveKey(passphrase, salt)
		if nil != err {
			return nil, err
		}
		var nonce [nonceSize]byte
		copy(nonce[:], block.Bytes[:nonceSize])
		body, ok := secretbox.Open(nil, block.Bytes[nonceSize:], &nonce, key)
		if !ok {
			return nil, fault.ErrWrongPassphrase
		}
		return body, nil

	default:
		return nil, fault.ErrNotAPrivateKey
	}
}
