// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package oracle_test

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/exchanged/fault"
	"github.com/bitmark-inc/exchanged/fixtures"
	"github.com/bitmark-inc/exchanged/oracle"
)

const sellerKey = "-----BEGIN PUBLIC KEY-----\nseller\n-----END PUBLIC KEY-----\n"

var customer = common.HexToAddress("0x71562b71999873DB5b286dF957af199Ec94617F7")

func newClient(t *testing.T, chain *fixtures.Chain, conf oracle.Configuration) *oracle.Client {
	conf.Contract = fixtures.ContractAddress.Hex()
	if 0 == conf.RetryDelay {
		conf.RetryDelay = 1
	}
	if 0 == conf.ReceiptPoll {
		conf.ReceiptPoll = 1
	}
	client, err := oracle.NewClient(chain.Client(), &conf)
	require.Nil(t, err, "new client error")
	return client
}

func TestLicenceKey(t *testing.T) {
	key, err := oracle.LicenceKey("ABC123")
	assert.Nil(t, err, "key error")
	expected := [32]byte{'A', 'B', 'C', '1', '2', '3'}
	assert.Equal(t, expected, key, "wrong key")

	_, err = oracle.LicenceKey(strings.Repeat("x", 32))
	assert.Nil(t, err, "32 byte id rejected")

	_, err = oracle.LicenceKey(strings.Repeat("x", 33))
	assert.Equal(t, fault.ErrLicenceIDTooLong, err, "33 byte id accepted")

	_, err = oracle.LicenceKey("")
	assert.Equal(t, fault.ErrMissingLicenceID, err, "empty id accepted")
}

func TestCheckLicence(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	chain := fixtures.NewChain(sellerKey)
	defer chain.Stop()
	chain.Grant("ABC123", customer)

	client := newClient(t, chain, oracle.Configuration{})
	defer client.Close()

	ok, err := client.CheckLicence(context.Background(), "ABC123", customer)
	assert.Nil(t, err, "check error")
	assert.True(t, ok, "licence not found")

	ok, err = client.CheckLicence(context.Background(), "ABC123", common.HexToAddress("0x01"))
	assert.Nil(t, err, "check error")
	assert.False(t, ok, "licence granted to wrong address")

	ok, err = client.CheckLicence(context.Background(), "XYZ", customer)
	assert.Nil(t, err, "check error")
	assert.False(t, ok, "unknown licence granted")

	ok, err = client.CheckLicence(context.Background(), strings.Repeat("x", 40), customer)
	assert.Equal(t, fault.ErrLicenceIDTooLong, err, "long id accepted")
	assert.False(t, ok, "long id granted")
}

func TestGetPublicKey(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	chain := fixtures.NewChain(sellerKey)
	defer chain.Stop()

	client := newClient(t, chain, oracle.Configuration{})
	defer client.Close()

	key, err := client.GetPublicKey(context.Background())
	assert.Nil(t, err, "get key error")
	assert.Equal(t, sellerKey, key, "wrong key")
}

func TestRetry(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	chain := fixtures.NewChain(sellerKey)
	defer chain.Stop()
	chain.Grant("ABC123", customer)

	client := newClient(t, chain, oracle.Configuration{Retries: 3})
	defer client.Close()

	// two failures are absorbed by retries
	chain.FailCalls(2)
	ok, err := client.CheckLicence(context.Background(), "ABC123", customer)
	assert.Nil(t, err, "check error")
	assert.True(t, ok, "licence not found after retry")
	assert.Equal(t, 3, chain.Calls(), "wrong number of calls")

	// more failures than attempts
	chain.FailCalls(10)
	ok, err = client.CheckLicence(context.Background(), "ABC123", customer)
	assert.True(t, fault.IsErrOracle(err), "wrong error: %v", err)
	assert.False(t, ok, "failed check granted")
	assert.Equal(t, 3+4, chain.Calls(), "wrong number of attempts")
}

func TestNoRetry(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	chain := fixtures.NewChain(sellerKey)
	defer chain.Stop()

	client := newClient(t, chain, oracle.Configuration{Retries: -1})
	defer client.Close()

	chain.FailCalls(1)
	_, err := client.GetPublicKey(context.Background())
	assert.True(t, fault.IsErrOracle(err), "wrong error: %v", err)
	assert.Equal(t, 1, chain.Calls(), "retried")
}

func TestCancelledContext(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	chain := fixtures.NewChain(sellerKey)
	defer chain.Stop()

	client := newClient(t, chain, oracle.Configuration{})
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok, err := client.CheckLicence(ctx, "ABC123", customer)
	assert.True(t, fault.IsErrOracle(err), "wrong error: %v", err)
	assert.False(t, ok, "cancelled check granted")
}

func TestConfirmTransaction(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	chain := fixtures.NewChain(sellerKey)
	defer chain.Stop()
	chain.Grant("ABC123", customer)

	client := newClient(t, chain, oracle.Configuration{
		Account:  fixtures.OwnerAddress.Hex(),
		Password: fixtures.OwnerPassword,
	})
	defer client.Close()

	ok, err := client.ConfirmTransaction(context.Background(), "ABC123")
	assert.Nil(t, err, "confirm error")
	assert.True(t, ok, "confirm failed")
	assert.Equal(t, 1, chain.Confirmed("ABC123"), "not confirmed on chain")

	// reverted on chain
	ok, err = client.ConfirmTransaction(context.Background(), "UNKNOWN")
	assert.Nil(t, err, "confirm error")
	assert.False(t, ok, "failed transaction reported as success")
}

func TestConfirmTransactionErrors(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	chain := fixtures.NewChain(sellerKey)
	defer chain.Stop()
	chain.Grant("ABC123", customer)

	client := newClient(t, chain, oracle.Configuration{Retries: -1})
	_, err := client.ConfirmTransaction(context.Background(), "ABC123")
	assert.Equal(t, fault.ErrNoOracleAccount, err, "confirm without account")
	client.Close()

	client = newClient(t, chain, oracle.Configuration{
		Account:  fixtures.OwnerAddress.Hex(),
		Password: "wrong",
		Retries:  -1,
	})
	defer client.Close()
	ok, err := client.ConfirmTransaction(context.Background(), "ABC123")
	assert.True(t, fault.IsErrOracle(err), "wrong error: %v", err)
	assert.False(t, ok, "confirmed with wrong password")
	assert.Equal(t, 0, chain.Confirmed("ABC123"), "confirmed on chain")
}

func TestAddLicence(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	chain := fixtures.NewChain(sellerKey)
	defer chain.Stop()

	client := newClient(t, chain, oracle.Configuration{
		Account:  fixtures.OwnerAddress.Hex(),
		Password: fixtures.OwnerPassword,
	})
	defer client.Close()

	ok, err := client.AddLicence(context.Background(), "NEW1", customer, big.NewInt(100), big.NewInt(2))
	assert.Nil(t, err, "add error")
	assert.True(t, ok, "add failed")

	licence, err := client.Licence(context.Background(), "NEW1")
	assert.Nil(t, err, "licence error")
	assert.Equal(t, customer, licence.Customer, "wrong customer")
	assert.Equal(t, int64(100), licence.Price.Int64(), "wrong price")
	assert.Equal(t, int64(2), licence.Quantity.Int64(), "wrong quantity")

	valid, err := client.CheckLicence(context.Background(), "NEW1", customer)
	assert.Nil(t, err, "check error")
	assert.True(t, valid, "added licence not valid")
}

func TestNewClientInvalid(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	chain := fixtures.NewChain(sellerKey)
	defer chain.Stop()

	_, err := oracle.NewClient(chain.Client(), &oracle.Configuration{Contract: "nope"})
	assert.Equal(t, fault.ErrInvalidAddress, err, "bad contract accepted")

	_, err = oracle.NewClient(chain.Client(), &oracle.Configuration{
		Contract: fixtures.ContractAddress.Hex(),
		Account:  "nope",
	})
	assert.Equal(t, fault.ErrInvalidAddress, err, "bad account accepted")

	_, err = oracle.Dial(context.Background(), &oracle.Configuration{})
	assert.Equal(t, fault.ErrOracleUnavailable, err, "empty url accepted")
}
