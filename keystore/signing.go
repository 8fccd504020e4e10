// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keystore

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/bitmark-inc/exchanged/fault"
)

const signingKeyType = "SECP256K1 PRIVATE KEY"

// EncodeSigningKey - PEM holding the raw 32 byte scalar
func EncodeSigningKey(key *ecdsa.PrivateKey, passphrase string) ([]byte, error) {
	return sealBlock(signingKeyType, crypto.FromECDSA(key), passphrase)
}

// DecodeSigningKey - PEM data, or bare hex as exported by wallets
func DecodeSigningKey(data []byte, passphrase string) (*ecdsa.PrivateKey, error) {
	if text := trimHex(string(data)); 64 == len(text) {
		key, err := crypto.HexToECDSA(text)
		if nil != err {
			return nil, fault.ErrCannotDecodeSigningKey
		}
		return key, nil
	}

	body, err := openBlock(signingKeyType, data, passphrase)
	if nil != err {
		return nil, err
	}
	key, err := crypto.ToECDSA(body)
	if nil != err {
		return nil, fault.ErrCannotDecodeSigningKey
	}
	return key, nil
}

func trimHex(s string) string {
	for len(s) > 0 && (' ' == s[len(s)-1] || '\n' == s[len(s)-1] || '\r' == s[len(s)-1] || '\t' == s[len(s)-1]) {
		s = s[:len(s)-1]
	}
	if len(s) >= 2 && '0' == s[0] && ('x' == s[1] || 'X' == s[1]) {
		s = s[2:]
	}
	return s
}
