// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/exchanged/requester"
	"github.com/bitmark-inc/exchanged/storage"
	"github.com/bitmark-inc/exchanged/transport"
)

type purchaseResult struct {
	LicenceID  string `json:"licence_id"`
	SystemType string `json:"system_type"`
	Value      string `json:"value"`
	DataSource string `json:"data_source"`
	ResultUnit string `json:"result_unit"`
}

func runPurchase(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	id, err := licenceID(c, m)
	if nil != err {
		return err
	}

	server := c.String("server")
	if "" == server {
		server = m.config.Server
	}
	if "" == server {
		return fmt.Errorf("no seller server configured")
	}

	keys, err := loadKeys(m)
	if nil != err {
		return err
	}

	tr, err := transport.New(&m.config.Transport)
	if nil != err {
		return err
	}

	ledger, err := storage.Open(m.config.Ledger.Name, storage.ReadWrite)
	if nil != err {
		return err
	}
	defer ledger.Close()

	ctx, cancel := interruptible()
	defer cancel()

	client, err := dialOracle(ctx, m)
	if nil != err {
		return err
	}
	defer client.Close()

	r, err := requester.New(&requester.Config{
		Transport:      tr,
		Oracle:         client,
		SigningKey:     keys.Signing,
		PrivateKey:     keys.Private,
		PublicKey:      keys.PublicPEM,
		Server:         server,
		Listen:         m.config.Listen,
		Advertise:      m.config.Advertise,
		ReceiveTimeout: m.config.receiveTimeout(),
		Ledger:         ledger,
	})
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "licence: %s\n", id)
		fmt.Fprintf(m.e, "server: %s\n", server)
		fmt.Fprintf(m.e, "account: %s\n", r.Address().Hex())
	}

	result, err := r.Purchase(ctx, id)
	if nil != err {
		return err
	}

	return printJson(m.w, &purchaseResult{
		LicenceID:  id,
		SystemType: result.Value.Type.String(),
		Value:      result.Value.String(),
		DataSource: result.DataSource,
		ResultUnit: result.ResultUnit,
	})
}

func runReceipts(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	count := c.Int("count")
	if count <= 0 {
		return fmt.Errorf("invalid count: %d", count)
	}

	ledger, err := storage.Open(m.config.Ledger.Name, storage.ReadOnly)
	if nil != err {
		return err
	}
	defer ledger.Close()

	records, err := ledger.Receipts.Records()
	if nil != err {
		return err
	}
	if len(records) > count {
		records = records[len(records)-count:]
	}

	return printJson(m.w, records)
}
