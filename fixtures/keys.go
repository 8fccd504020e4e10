// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fixtures

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"
)

// BuyerSigningKeyHex - well known secp256k1 test key
const BuyerSigningKeyHex = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

// key size for generated test keys, large enough for OAEP of a signature
const testKeyBits = 2048

var keys struct {
	sync.Once
	seller *rsa.PrivateKey
	buyer  *rsa.PrivateKey
}

func generateKeys() {
	var err error
	keys.seller, err = rsa.GenerateKey(rand.Reader, testKeyBits)
	if nil != err {
		panic(err)
	}
	keys.buyer, err = rsa.GenerateKey(rand.Reader, testKeyBits)
	if nil != err {
		panic(err)
	}
}

// SellerKey - RSA key shared by all tests in a package
func SellerKey() *rsa.PrivateKey {
	keys.Do(generateKeys)
	return keys.seller
}

// BuyerKey - second RSA key, distinct from SellerKey
func BuyerKey() *rsa.PrivateKey {
	keys.Do(generateKeys)
	return keys.buyer
}

// BuyerSigningKey - secp256k1 key for BuyerSigningKeyHex
func BuyerSigningKey() *ecdsa.PrivateKey {
	key, err := crypto.HexToECDSA(BuyerSigningKeyHex)
	if nil != err {
		panic(err)
	}
	return key
}
