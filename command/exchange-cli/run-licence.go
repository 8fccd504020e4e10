// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/exchanged/fault"
	"github.com/bitmark-inc/exchanged/signature"
)

type licenceResult struct {
	LicenceID string `json:"licence_id"`
	Customer  string `json:"customer"`
	Price     string `json:"price"`
	Quantity  string `json:"quantity"`
	Held      bool   `json:"held"`
}

func runLicence(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	id, err := licenceID(c, m)
	if nil != err {
		return err
	}

	keys, err := loadKeys(m)
	if nil != err {
		return err
	}
	address := signature.Address(keys.Signing)

	ctx, cancel := interruptible()
	defer cancel()

	client, err := dialOracle(ctx, m)
	if nil != err {
		return err
	}
	defer client.Close()

	licence, err := client.Licence(ctx, id)
	if nil != err {
		return err
	}
	held, err := client.CheckLicence(ctx, id, address)
	if nil != err {
		return err
	}

	return printJson(m.w, &licenceResult{
		LicenceID: id,
		Customer:  licence.Customer.Hex(),
		Price:     licence.Price.String(),
		Quantity:  licence.Quantity.String(),
		Held:      held,
	})
}

func runAddLicence(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	id := c.String("licence")
	if "" == id {
		return fault.ErrMissingLicenceID
	}

	var customer common.Address
	if s := c.String("customer"); "" != s {
		if !common.IsHexAddress(s) {
			return fmt.Errorf("%w: %q", fault.ErrInvalidAddress, s)
		}
		customer = common.HexToAddress(s)
	} else {
		keys, err := loadKeys(m)
		if nil != err {
			return err
		}
		customer = signature.Address(keys.Signing)
	}

	price, ok := new(big.Int).SetString(c.String("price"), 10)
	if !ok || price.Sign() < 0 {
		return fmt.Errorf("%w: price %q", fault.ErrInvalidCount, c.String("price"))
	}
	quantity, ok := new(big.Int).SetString(c.String("quantity"), 10)
	if !ok || quantity.Sign() < 0 {
		return fmt.Errorf("%w: quantity %q", fault.ErrInvalidCount, c.String("quantity"))
	}

	if m.verbose {
		fmt.Fprintf(m.e, "licence: %s\n", id)
		fmt.Fprintf(m.e, "customer: %s\n", customer.Hex())
	}

	ctx, cancel := interruptible()
	defer cancel()

	client, err := dialOracle(ctx, m)
	if nil != err {
		return err
	}
	defer client.Close()

	ok, err = client.AddLicence(ctx, id, customer, price, quantity)
	if nil != err {
		return err
	}
	if !ok {
		return fault.ErrTransactionFailed
	}

	return printJson(m.w, &licenceResult{
		LicenceID: id,
		Customer:  customer.Hex(),
		Price:     price.String(),
		Quantity:  quantity.String(),
		Held:      true,
	})
}
