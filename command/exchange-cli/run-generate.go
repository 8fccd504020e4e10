// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/exchanged/keystore"
	"github.com/bitmark-inc/exchanged/signature"
)

type generateResult struct {
	PrivateKey string `json:"private_key"`
	PublicKey  string `json:"public_key"`
	SigningKey string `json:"signing_key"`
	Address    string `json:"address"`
}

func runGenerate(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	directory := c.String("directory")
	bits := c.Int("bits")
	if bits < 1024 {
		return fmt.Errorf("invalid key size: %d", bits)
	}

	conf := &keystore.Configuration{
		PrivateKey: defaultPrivateKeyFile,
		PublicKey:  defaultPublicKeyFile,
		SigningKey: defaultSigningKeyFile,
		Passphrase: c.GlobalString("passphrase"),
	}

	if m.verbose {
		fmt.Fprintf(m.e, "directory: %s\n", directory)
		fmt.Fprintf(m.e, "bits: %d\n", bits)
	}

	keys, err := keystore.Generate(conf, directory, bits)
	if nil != err {
		return err
	}

	return printJson(m.w, &generateResult{
		PrivateKey: filepath.Join(directory, conf.PrivateKey),
		PublicKey:  filepath.Join(directory, conf.PublicKey),
		SigningKey: filepath.Join(directory, conf.SigningKey),
		Address:    signature.Address(keys.Signing).Hex(),
	})
}
