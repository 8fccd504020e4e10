// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fixtures

import (
	"errors"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/bitmark-inc/exchanged/oracle"
)

// addresses used by the in-process chain
var (
	ContractAddress = common.HexToAddress("0x00000000000000000000000000000000000c0de1")
	OwnerAddress    = common.HexToAddress("0x000000000000000000000000000000000000a11c")
)

// OwnerPassword - password accepted by personal_unlockAccount
const OwnerPassword = "owner password"

var errUnknownFunction = errors.New("unknown function")

type licenceRecord struct {
	customer common.Address
	price    *big.Int
	quantity *big.Int
}

// Chain - in-process JSON-RPC node hosting the licence contract
type Chain struct {
	sync.Mutex
	abi       abi.ABI
	publicKey string
	licences  map[[32]byte]licenceRecord
	confirmed map[[32]byte]int
	receipts  map[common.Hash]*types.Receipt
	unlocked  bool
	calls     int
	failCalls int
	server    *rpc.Server
}

// NewChain - node whose contract publishes publicKey
func NewChain(publicKey string) *Chain {
	parsed, err := abi.JSON(strings.NewReader(oracle.ContractABI))
	if nil != err {
		panic(err)
	}
	c := &Chain{
		abi:       parsed,
		publicKey: publicKey,
		licences:  make(map[[32]byte]licenceRecord),
		confirmed: make(map[[32]byte]int),
		receipts:  make(map[common.Hash]*types.Receipt),
		server:    rpc.NewServer(),
	}
	if err := c.server.RegisterName("eth", &EthAPI{chain: c}); nil != err {
		panic(err)
	}
	if err := c.server.RegisterName("personal", &PersonalAPI{chain: c}); nil != err {
		panic(err)
	}
	return c
}

// Client - new in-process connection
func (c *Chain) Client() *rpc.Client {
	return rpc.DialInProc(c.server)
}

// Stop - shut the server down
func (c *Chain) Stop() {
	c.server.Stop()
}

// Grant - store a licence for customer
func (c *Chain) Grant(licenceID string, customer common.Address) {
	key, _ := oracle.LicenceKey(licenceID)
	c.Lock()
	c.licences[key] = licenceRecord{customer: customer, price: big.NewInt(1), quantity: big.NewInt(1)}
	c.Unlock()
}

// Confirmed - number of confirmations for a licence
func (c *Chain) Confirmed(licenceID string) int {
	key, _ := oracle.LicenceKey(licenceID)
	c.Lock()
	defer c.Unlock()
	return c.confirmed[key]
}

// FailCalls - make the next n eth_call requests fail
func (c *Chain) FailCalls(n int) {
	c.Lock()
	c.failCalls = n
	c.Unlock()
}

// Calls - number of eth_call requests received
func (c *Chain) Calls() int {
	c.Lock()
	defer c.Unlock()
	return c.calls
}

func selector(signature string) string {
	return string(crypto.Keccak256([]byte(signature))[:4])
}

func word(data []byte, n int) []byte {
	start := 4 + 32*n
	if len(data) < start+32 {
		return make([]byte, 32)
	}
	return data[start : start+32]
}

func key32(b []byte) [32]byte {
	var k [32]byte
	copy(k[:], b)
	return k
}

func (c *Chain) pack(function string, values ...interface{}) (hexutil.Bytes, error) {
	b, err := c.abi.Methods[function].Outputs.Pack(values...)
	return hexutil.Bytes(b), err
}

// EthAPI - eth namespace
type EthAPI struct {
	chain *Chain
}

// CallArgs - eth_call parameters
type CallArgs struct {
	From *common.Address `json:"from"`
	To   *common.Address `json:"to"`
	Data hexutil.Bytes   `json:"data"`
}

// Call - eth_call
func (s *EthAPI) Call(args CallArgs, block string) (hexutil.Bytes, error) {
	c := s.chain
	c.Lock()
	defer c.Unlock()

	c.calls += 1
	if c.failCalls > 0 {
		c.failCalls -= 1
		return nil, errors.New("node temporarily unavailable")
	}
	if nil == args.To || ContractAddress != *args.To || len(args.Data) < 4 {
		return hexutil.Bytes{}, nil
	}

	data := args.Data
	switch string(data[:4]) {
	case selector("checkLicence(bytes32,address)"):
		r, ok := c.licences[key32(word(data, 0))]
		customer := common.BytesToAddress(word(data, 1))
		return c.pack("checkLicence", ok && r.customer == customer)

	case selector("getPublicKey()"):
		return c.pack("getPublicKey", c.publicKey)

	case selector("_licences(bytes32)"):
		r, ok := c.licences[key32(word(data, 0))]
		if !ok {
			r = licenceRecord{price: big.NewInt(0), quantity: big.NewInt(0)}
		}
		return c.pack("_licences", r.customer, r.price, r.quantity)
	}
	return nil, errUnknownFunction
}

// SendArgs - eth_sendTransaction parameters
type SendArgs struct {
	From common.Address `json:"from"`
	To   common.Address `json:"to"`
	Data hexutil.Bytes  `json:"data"`
}

// SendTransaction - eth_sendTransaction, mined immediately
func (s *EthAPI) SendTransaction(args SendArgs) (common.Hash, error) {
	c := s.chain
	c.Lock()
	defer c.Unlock()

	if !c.unlocked || OwnerAddress != args.From {
		return common.Hash{}, errors.New("authentication needed: password or unlock")
	}
	if ContractAddress != args.To || len(args.Data) < 4 {
		return common.Hash{}, errUnknownFunction
	}

	data := args.Data
	status := types.ReceiptStatusSuccessful
	switch string(data[:4]) {
	case selector("confirmTransaction(bytes32)"):
		key := key32(word(data, 0))
		if _, ok := c.licences[key]; ok {
			c.confirmed[key] += 1
		} else {
			status = types.ReceiptStatusFailed
		}

	case selector("addLicence(bytes32,address,uint256,uint256)"):
		c.licences[key32(word(data, 0))] = licenceRecord{
			customer: common.BytesToAddress(word(data, 1)),
			price:    new(big.Int).SetBytes(word(data, 2)),
			quantity: new(big.Int).SetBytes(word(data, 3)),
		}

	default:
		return common.Hash{}, errUnknownFunction
	}

	hash := common.BytesToHash(crypto.Keccak256(data, big.NewInt(int64(len(c.receipts))).Bytes()))
	c.receipts[hash] = &types.Receipt{
		Status:            status,
		CumulativeGasUsed: 21000,
		GasUsed:           21000,
		Logs:              []*types.Log{},
		TxHash:            hash,
		BlockNumber:       big.NewInt(int64(len(c.receipts) + 1)),
	}
	return hash, nil
}

// GetTransactionReceipt - eth_getTransactionReceipt
func (s *EthAPI) GetTransactionReceipt(hash common.Hash) (*types.Receipt, error) {
	c := s.chain
	c.Lock()
	defer c.Unlock()
	return c.receipts[hash], nil
}

// PersonalAPI - personal namespace
type PersonalAPI struct {
	chain *Chain
}

// UnlockAccount - personal_unlockAccount
func (s *PersonalAPI) UnlockAccount(address common.Address, password string, duration *uint64) (bool, error) {
	c := s.chain
	c.Lock()
	defer c.Unlock()
	if OwnerAddress != address || OwnerPassword != password {
		return false, errors.New("could not decrypt key with given password")
	}
	c.unlocked = true
	return true, nil
}
