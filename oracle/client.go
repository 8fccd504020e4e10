// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package oracle

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"
	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/bitmark-inc/exchanged/fault"
)

// Client - Oracle backed by a JSON-RPC node
type Client struct {
	log      *logger.L
	rpc      *rpc.Client
	eth      *ethclient.Client
	abi      abi.ABI
	contract common.Address
	account  common.Address
	password string
	gas      uint64

	unlockDuration time.Duration
	timeout        time.Duration
	retries        int
	retryDelay     time.Duration
	receiptTimeout time.Duration
	receiptPoll    time.Duration
}

// Dial - connect to the node at conf.URL
func Dial(ctx context.Context, conf *Configuration) (*Client, error) {
	if "" == conf.URL {
		return nil, fault.ErrOracleUnavailable
	}
	c, err := rpc.DialContext(ctx, conf.URL)
	if nil != err {
		return nil, fmt.Errorf("%w: %s", fault.ErrOracleUnavailable, err)
	}
	client, err := NewClient(c, conf)
	if nil != err {
		c.Close()
		return nil, err
	}
	return client, nil
}

// NewClient - oracle over an existing RPC connection
func NewClient(c *rpc.Client, conf *Configuration) (*Client, error) {
	if !common.IsHexAddress(conf.Contract) {
		return nil, fault.ErrInvalidAddress
	}
	account := common.Address{}
	if "" != conf.Account {
		if !common.IsHexAddress(conf.Account) {
			return nil, fault.ErrInvalidAddress
		}
		account = common.HexToAddress(conf.Account)
	}

	parsed, err := abi.JSON(strings.NewReader(ContractABI))
	if nil != err {
		return nil, err
	}

	retries := conf.Retries
	if 0 == retries {
		retries = defaultRetries
	} else if retries < 0 {
		retries = 0
	}

	return &Client{
		log:            logger.New("oracle"),
		rpc:            c,
		eth:            ethclient.NewClient(c),
		abi:            parsed,
		contract:       common.HexToAddress(conf.Contract),
		account:        account,
		password:       conf.Password,
		gas:            conf.Gas,
		unlockDuration: seconds(conf.UnlockDuration, defaultUnlockDuration),
		timeout:        seconds(conf.Timeout, defaultTimeout),
		retries:        retries,
		retryDelay:     milliseconds(conf.RetryDelay, defaultRetryDelay),
		receiptTimeout: seconds(conf.ReceiptTimeout, defaultReceiptTimeout),
		receiptPoll:    milliseconds(conf.ReceiptPoll, defaultReceiptPoll),
	}, nil
}

// Close - release the connection
func (c *Client) Close() {
	c.rpc.Close()
}

// CheckLicence - checkLicence(bytes32,address)
func (c *Client) CheckLicence(ctx context.Context, licenceID string, address common.Address) (bool, error) {
	key, err := LicenceKey(licenceID)
	if nil != err {
		return false, err
	}

	valid := false
	err = c.retry(ctx, checkLicenceFunction, func(ctx context.Context) error {
		return c.call(ctx, &valid, checkLicenceFunction, key, address)
	})
	if nil != err {
		return false, err
	}
	c.log.Debugf("licence: %q  address: %s  valid: %t", licenceID, address.Hex(), valid)
	return valid, nil
}

// GetPublicKey - getPublicKey()
func (c *Client) GetPublicKey(ctx context.Context) (string, error) {
	publicKey := ""
	err := c.retry(ctx, getPublicKeyFunction, func(ctx context.Context) error {
		return c.call(ctx, &publicKey, getPublicKeyFunction)
	})
	if nil != err {
		return "", err
	}
	return publicKey, nil
}

// Licence - _licences(bytes32)
func (c *Client) Licence(ctx context.Context, licenceID string) (*Licence, error) {
	key, err := LicenceKey(licenceID)
	if nil != err {
		return nil, err
	}
	licence := &Licence{}
	err = c.retry(ctx, licencesFunction, func(ctx context.Context) error {
		return c.call(ctx, licence, licencesFunction, key)
	})
	if nil != err {
		return nil, err
	}
	return licence, nil
}

// ConfirmTransaction - confirmTransaction(bytes32) sent from the configured account
func (c *Client) ConfirmTransaction(ctx context.Context, licenceID string) (bool, error) {
	key, err := LicenceKey(licenceID)
	if nil != err {
		return false, err
	}
	return c.transact(ctx, confirmTransactionFunction, key)
}

// AddLicence - addLicence(bytes32,address,uint256,uint256) sent from the configured account
func (c *Client) AddLicence(ctx context.Context, licenceID string, customer common.Address, price *big.Int, quantity *big.Int) (bool, error) {
	key, err := LicenceKey(licenceID)
	if nil != err {
		return false, err
	}
	return c.transact(ctx, addLicenceFunction, key, customer, price, quantity)
}

// eth_call of a view function unpacking into result
func (c *Client) call(ctx context.Context, result interface{}, function string, args ...interface{}) error {
	data, err := c.abi.Pack(function, args...)
	if nil != err {
		return err
	}
	msg := ethereum.CallMsg{
		From: c.account,
		To:   &c.contract,
		Data: data,
	}
	output, err := c.eth.CallContract(ctx, msg, nil)
	if nil != err {
		return err
	}
	if 0 == len(output) {
		return fault.ErrContractCallFailed
	}
	return c.abi.Unpack(result, function, output)
}

type sendArgs struct {
	From common.Address  `json:"from"`
	To   common.Address  `json:"to"`
	Data hexutil.Bytes   `json:"data"`
	Gas  *hexutil.Uint64 `json:"gas,omitempty"`
}

// unlock, send and wait for the receipt of a state changing call
func (c *Client) transact(ctx context.Context, function string, args ...interface{}) (bool, error) {
	if (common.Address{}) == c.account {
		return false, fault.ErrNoOracleAccount
	}
	data, err := c.abi.Pack(function, args...)
	if nil != err {
		return false, err
	}

	err = c.retry(ctx, "unlock", func(ctx context.Context) error {
		unlocked := false
		err := c.rpc.CallContext(ctx, &unlocked, "personal_unlockAccount", c.account, c.password, uint64(c.unlockDuration/time.Second))
		if nil == err && !unlocked {
			return fault.ErrOracleUnavailable
		}
		return err
	})
	if nil != err {
		return false, err
	}

	tx := sendArgs{
		From: c.account,
		To:   c.contract,
		Data: data,
	}
	if 0 != c.gas {
		gas := hexutil.Uint64(c.gas)
		tx.Gas = &gas
	}

	// a send is not retried since a lost reply may hide a mined transaction
	hash := common.Hash{}
	sendCtx, cancel := context.WithTimeout(ctx, c.timeout)
	err = c.rpc.CallContext(sendCtx, &hash, "eth_sendTransaction", tx)
	cancel()
	if nil != err {
		return false, fmt.Errorf("%w: %s: %s", fault.ErrTransactionFailed, function, err)
	}
	c.log.Infof("%s: transaction: %s", function, hash.Hex())

	return c.waitReceipt(ctx, hash)
}

// poll until the transaction is mined or the receipt timeout passes
func (c *Client) waitReceipt(ctx context.Context, hash common.Hash) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.receiptTimeout)
	defer cancel()

	for {
		receipt, err := c.eth.TransactionReceipt(ctx, hash)
		if nil == err {
			ok := 1 == receipt.Status
			c.log.Infof("transaction: %s  block: %v  status: %d", hash.Hex(), receipt.BlockNumber, receipt.Status)
			return ok, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			c.log.Warnf("transaction: %s  receipt error: %s", hash.Hex(), err)
		}

		select {
		case <-ctx.Done():
			return false, fmt.Errorf("%w: %s: %s", fault.ErrTransactionFailed, hash.Hex(), ctx.Err())
		case <-time.After(c.receiptPoll):
		}
	}
}
