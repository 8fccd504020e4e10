// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package signature - licence id signatures that identify a ledger account
//
// the licence id is hashed with Keccak-256, without any message prefix,
// and signed with secp256k1. The signature travels as "0x" followed by
// the hex of r, s and v where v is 27 or 28.
package signature

import (
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/bitmark-inc/exchanged/fault"
)

const (
	signatureLength = crypto.SignatureLength
	recoveryOffset  = 27
)

// Hash - message digest that is signed
func Hash(licenceID string) []byte {
	return crypto.Keccak256([]byte(licenceID))
}

// Sign - signature text for a licence id
func Sign(licenceID string, key *ecdsa.PrivateKey) (string, error) {
	sig, err := crypto.Sign(Hash(licenceID), key)
	if nil != err {
		return "", err
	}
	sig[signatureLength-1] += recoveryOffset
	return hexutil.Encode(sig), nil
}

// Recover - address of the account that produced signature
//
// any well formed signature recovers to some address, callers must
// compare it with the address they expect
func Recover(licenceID string, signature string) (common.Address, error) {
	s := strings.TrimSpace(signature)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	sig, err := hexutil.Decode(s)
	if nil != err || signatureLength != len(sig) {
		return common.Address{}, fault.ErrInvalidSignature
	}

	if sig[signatureLength-1] >= recoveryOffset {
		sig[signatureLength-1] -= recoveryOffset
	}
	if sig[signatureLength-1] > 1 {
		return common.Address{}, fault.ErrInvalidSignature
	}

	public, err := crypto.SigToPub(Hash(licenceID), sig)
	if nil != err {
		return common.Address{}, fault.ErrInvalidSignature
	}
	return crypto.PubkeyToAddress(*public), nil
}

// Address - account address of a signing key
func Address(key *ecdsa.PrivateKey) common.Address {
	return crypto.PubkeyToAddress(key.PublicKey)
}

// GenerateKey - new secp256k1 signing key
func GenerateKey() (*ecdsa.PrivateKey, error) {
	return crypto.GenerateKey()
}
