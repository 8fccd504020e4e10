// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/exchanged/configuration"
	"github.com/bitmark-inc/exchanged/fault"
	"github.com/bitmark-inc/exchanged/keystore"
	"github.com/bitmark-inc/exchanged/oracle"
	"github.com/bitmark-inc/exchanged/transport"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultListen = "0.0.0.0:5801"

	defaultPrivateKeyFile = "buyer.private"
	defaultPublicKeyFile  = "buyer.public"
	defaultSigningKeyFile = "buyer.signing"

	defaultLedgerDirectory = "data"
	defaultLedgerName      = "receipts.leveldb"

	defaultLogDirectory = "log"
	defaultLogFile      = "exchange-cli.log"
	defaultLogCount     = 10
	defaultLogSize      = 1024 * 1024
)

// LedgerType - receipt ledger location
type LedgerType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// Configuration - buyer settings
type Configuration struct {
	DataDirectory  string                  `gluamapper:"data_directory" json:"data_directory"`
	Transport      transport.Configuration `gluamapper:"transport" json:"transport"`
	Server         string                  `gluamapper:"server" json:"server"`
	Listen         string                  `gluamapper:"listen" json:"listen"`
	Advertise      string                  `gluamapper:"advertise" json:"advertise"`
	LicenceID      string                  `gluamapper:"licence_id" json:"licence_id"`
	ReceiveTimeout int                     `gluamapper:"receive_timeout" json:"receive_timeout"` // seconds
	Keystore       keystore.Configuration  `gluamapper:"keystore" json:"keystore"`
	Oracle         oracle.Configuration    `gluamapper:"oracle" json:"oracle"`
	Ledger         LedgerType              `gluamapper:"ledger" json:"ledger"`
	Logging        logger.Configuration    `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	if _, err := os.Stat(configurationFileName); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", fault.ErrNotFoundConfigFile, configurationFileName)
	}

	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory: ".",
		Listen:        defaultListen,

		Keystore: keystore.Configuration{
			PrivateKey: defaultPrivateKeyFile,
			PublicKey:  defaultPublicKeyFile,
			SigningKey: defaultSigningKeyFile,
		},

		Ledger: LedgerType{
			Directory: defaultLedgerDirectory,
			Name:      defaultLedgerName,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels: map[string]string{
				logger.DefaultTag: "error",
			},
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); nil != err {
		return nil, err
	}

	if "" == options.DataDirectory || "." == options.DataDirectory {
		options.DataDirectory = dataDirectory
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	for _, f := range []*string{
		&options.Keystore.PrivateKey,
		&options.Keystore.PublicKey,
		&options.Keystore.SigningKey,
		&options.Ledger.Directory,
		&options.Logging.Directory,
	} {
		*f = configuration.ResolvePath(options.DataDirectory, *f)
	}

	for _, f := range []*string{&options.Ledger.Name, &options.Logging.File} {
		switch filepath.Dir(*f) {
		case "", ".":
		default:
			return nil, fmt.Errorf("Files: %q is not plain name", *f)
		}
	}
	options.Ledger.Name = filepath.Join(options.Ledger.Directory, options.Ledger.Name)

	if "" == options.Keystore.SigningKey {
		return nil, fmt.Errorf("keystore: signing_key is required")
	}

	for _, d := range []string{options.Ledger.Directory, options.Logging.Directory} {
		if err := os.MkdirAll(d, 0700); nil != err {
			return nil, err
		}
	}

	return options, nil
}

func (conf *Configuration) receiveTimeout() time.Duration {
	return time.Duration(conf.ReceiveTimeout) * time.Second
}
