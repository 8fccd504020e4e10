// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cryptography

import (
	"crypto/rsa"

	"github.com/bitmark-inc/exchanged/fault"
)

// Sealed - ciphertext and the wrapped secrets needed to open it
type Sealed struct {
	Ciphertext    []byte
	WrappedKey    []byte
	WrappedIV     []byte
	MAC           []byte
	WrappedMACKey []byte
}

// Seal - encrypt plaintext for the holder of the private half of public
//
// fresh secrets are drawn on every call and never reused
func Seal(public *rsa.PublicKey, plaintext []byte) (*Sealed, error) {
	key, err := RandomBytes(KeySize)
	if nil != err {
		return nil, err
	}
	iv, err := RandomBytes(IVSize)
	if nil != err {
		return nil, err
	}
	macKey, err := RandomBytes(MACKeySize)
	if nil != err {
		return nil, err
	}

	ciphertext, err := EncryptAES(key, iv, plaintext)
	if nil != err {
		return nil, err
	}

	s := &Sealed{
		Ciphertext: ciphertext,
		MAC:        Sign(macKey, ciphertext),
	}

	s.WrappedKey, err = EncryptOAEP(public, key)
	if nil != err {
		return nil, err
	}
	s.WrappedIV, err = EncryptOAEP(public, iv)
	if nil != err {
		return nil, err
	}
	s.WrappedMACKey, err = EncryptOAEP(public, macKey)
	if nil != err {
		return nil, err
	}
	return s, nil
}

// Open - unwrap the secrets, check the MAC and decrypt
//
// the MAC is checked before any decryption so a tampered ciphertext
// never reaches the padding check
func Open(private *rsa.PrivateKey, s *Sealed) ([]byte, error) {
	macKey, err := DecryptOAEP(private, s.WrappedMACKey)
	if nil != err {
		return nil, err
	}
	if !Verify(macKey, s.Ciphertext, s.MAC) {
		return nil, fault.ErrSignatureMismatch
	}

	key, err := DecryptOAEP(private, s.WrappedKey)
	if nil != err {
		return nil, err
	}
	iv, err := DecryptOAEP(private, s.WrappedIV)
	if nil != err {
		return nil, err
	}

	plaintext, err := DecryptAES(key, iv, s.Ciphertext)
	if nil != err {
		return nil, fault.ErrDecryptionFailed
	}
	return plaintext, nil
}
