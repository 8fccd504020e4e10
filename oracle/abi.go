// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package oracle

// contract functions used
const (
	checkLicenceFunction       = "checkLicence"
	getPublicKeyFunction       = "getPublicKey"
	confirmTransactionFunction = "confirmTransaction"
	addLicenceFunction         = "addLicence"
	licencesFunction           = "_licences"
)

// ContractABI - interface of the licence contract
const ContractABI = `[
  {"constant":true,"inputs":[{"name":"licenceId","type":"bytes32"},{"name":"customer","type":"address"}],"name":"checkLicence","outputs":[{"name":"licValid","type":"bool"}],"payable":false,"stateMutability":"view","type":"function"},
  {"constant":true,"inputs":[],"name":"getPublicKey","outputs":[{"name":"publicKey","type":"string"}],"payable":false,"stateMutability":"view","type":"function"},
  {"constant":false,"inputs":[{"name":"licenceId","type":"bytes32"}],"name":"confirmTransaction","outputs":[{"name":"success","type":"bool"}],"payable":false,"stateMutability":"nonpayable","type":"function"},
  {"constant":true,"inputs":[{"name":"","type":"bytes32"}],"name":"_licences","outputs":[{"name":"customer","type":"address"},{"name":"price","type":"uint256"},{"name":"quantity","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"},
  {"constant":false,"inputs":[{"name":"licenceId","type":"bytes32"},{"name":"customer","type":"address"},{"name":"price","type":"uint256"},{"name":"quantity","type":"uint256"}],"name":"addLicence","outputs":[{"name":"success","type":"bool"}],"payable":false,"stateMutability":"nonpayable","type":"function"},
  {"inputs":[{"name":"publicKey","type":"string"}],"payable":false,"stateMutability":"nonpayable","type":"constructor"}
]`
