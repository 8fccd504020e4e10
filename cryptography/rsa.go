// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cryptography

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"fmt"

	"github.com/bitmark-inc/exchanged/fault"
)

// RSA key size used by generated keys
const RSAKeyBits = 2048

// EncryptOAEP - RSA-OAEP with SHA-1, the padding existing peers use
func EncryptOAEP(public *rsa.PublicKey, message []byte) ([]byte, error) {
	ciphertext, err := rsa.EncryptOAEP(sha1.New(), rand.Reader, public, message, nil)
	if nil != err {
		return nil, fmt.Errorf("%w: %s", fault.ErrEncryptionFailed, err)
	}
	return ciphertext, nil
}

// DecryptOAEP - reverse of EncryptOAEP
func DecryptOAEP(private *rsa.PrivateKey, ciphertext []byte) ([]byte, error) {
	message, err := rsa.DecryptOAEP(sha1.New(), rand.Reader, private, ciphertext, nil)
	if nil != err {
		return nil, fault.ErrDecryptionFailed
	}
	return message, nil
}
