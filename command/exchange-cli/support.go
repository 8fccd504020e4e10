// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/exchanged/fault"
	"github.com/bitmark-inc/exchanged/keystore"
	"github.com/bitmark-inc/exchanged/oracle"
)

const defaultKeyBits = 2048

func loadKeys(m *metadata) (*keystore.Keys, error) {
	keys, err := keystore.Load(&m.config.Keystore, m.config.DataDirectory)
	if nil != err {
		return nil, err
	}
	if nil == keys.Signing {
		return nil, fault.ErrCannotDecodeSigningKey
	}
	return keys, nil
}

func dialOracle(ctx context.Context, m *metadata) (*oracle.Client, error) {
	if m.verbose {
		fmt.Fprintf(m.e, "oracle: %s  contract: %s\n", m.config.Oracle.URL, m.config.Oracle.Contract)
	}
	return oracle.Dial(ctx, &m.config.Oracle)
}

// flag value or the configured default
func licenceID(c *cli.Context, m *metadata) (string, error) {
	id := c.String("licence")
	if "" == id {
		id = m.config.LicenceID
	}
	if "" == id {
		return "", fault.ErrMissingLicenceID
	}
	if _, err := oracle.LicenceKey(id); nil != err {
		return "", err
	}
	return id, nil
}
