// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/exchanged/signature"
)

func runAddress(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	keys, err := loadKeys(m)
	if nil != err {
		return err
	}

	fmt.Fprintf(m.w, "%s\n", signature.Address(keys.Signing).Hex())
	return nil
}

func runSellerKey(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	ctx, cancel := interruptible()
	defer cancel()

	client, err := dialOracle(ctx, m)
	if nil != err {
		return err
	}
	defer client.Close()

	key, err := client.GetPublicKey(ctx)
	if nil != err {
		return err
	}

	fmt.Fprintf(m.w, "%s\n", key)
	return nil
}
