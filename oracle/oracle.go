// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package oracle - client for the on-chain licence contract
//
// read calls go through eth_call, state changing calls are sent from an
// account unlocked on the node with personal_unlockAccount and are
// complete once their receipt appears.
package oracle

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bitmark-inc/exchanged/fault"
)

//go:generate mockgen -source=oracle.go -destination=../mocks/oracle.go -package=mocks

// Oracle - the three calls the exchange depends on
type Oracle interface {
	// CheckLicence - true only if address holds the licence,
	// false together with any error
	CheckLicence(ctx context.Context, licenceID string, address common.Address) (bool, error)

	// GetPublicKey - the seller RSA public key published on chain
	GetPublicKey(ctx context.Context) (string, error)

	// ConfirmTransaction - record a completed delivery on chain
	ConfirmTransaction(ctx context.Context, licenceID string) (bool, error)
}

// Licence - stored licence record
type Licence struct {
	Customer common.Address
	Price    *big.Int
	Quantity *big.Int
}

// LicenceKey - bytes32 form of a licence id, UTF-8 right padded with zeros
func LicenceKey(licenceID string) ([32]byte, error) {
	var key [32]byte
	if "" == licenceID {
		return key, fault.ErrMissingLicenceID
	}
	if len(licenceID) > len(key) {
		return key, fault.ErrLicenceIDTooLong
	}
	copy(key[:], licenceID)
	return key, nil
}
