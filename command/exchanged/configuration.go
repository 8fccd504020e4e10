// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/exchanged/asset"
	"github.com/bitmark-inc/exchanged/configuration"
	"github.com/bitmark-inc/exchanged/keystore"
	"github.com/bitmark-inc/exchanged/oracle"
	"github.com/bitmark-inc/exchanged/ratelimit"
	"github.com/bitmark-inc/exchanged/transport"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultListen = "0.0.0.0:5800"

	defaultPrivateKeyFile = "exchanged.private"
	defaultPublicKeyFile  = "exchanged.public"

	defaultLedgerDirectory = "data"
	defaultLedgerName      = "deliveries.leveldb"

	defaultStatisticsInterval = 300 // seconds

	defaultLogDirectory = "log"
	defaultLogFile      = "exchanged.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// LedgerType - delivery ledger location
type LedgerType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// Configuration - seller daemon settings
type Configuration struct {
	DataDirectory      string                  `gluamapper:"data_directory" json:"data_directory"`
	PidFile            string                  `gluamapper:"pidfile" json:"pidfile"`
	Listen             string                  `gluamapper:"listen" json:"listen"`
	Transport          transport.Configuration `gluamapper:"transport" json:"transport"`
	Keystore           keystore.Configuration  `gluamapper:"keystore" json:"keystore"`
	Oracle             oracle.Configuration    `gluamapper:"oracle" json:"oracle"`
	Asset              asset.Configuration     `gluamapper:"asset" json:"asset"`
	Ledger             LedgerType              `gluamapper:"ledger" json:"ledger"`
	ConfirmTransaction bool                    `gluamapper:"confirm_transaction" json:"confirm_transaction"`
	RateLimit          ratelimit.Configuration `gluamapper:"rate_limit" json:"rate_limit"`
	StatisticsInterval int                     `gluamapper:"statistics_interval" json:"statistics_interval"`
	Logging            logger.Configuration    `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory:      defaultDataDirectory,
		PidFile:            "", // no PidFile by default
		Listen:             defaultListen,
		StatisticsInterval: defaultStatisticsInterval,

		Keystore: keystore.Configuration{
			PrivateKey: defaultPrivateKeyFile,
			PublicKey:  defaultPublicKeyFile,
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
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Keystore.PrivateKey,
		&options.Ledger.Directory,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = configuration.ResolvePath(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
		&options.Keystore.PublicKey,
		&options.Asset.File,
	}
	for _, f := range optionalAbsolute {
		*f = configuration.ResolvePath(options.DataDirectory, *f)
	}

	// fail if any of these are not simple file names
	mustNotBePaths := [][2]*string{
		{&options.Ledger.Name, &options.Ledger.Directory},
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
			if nil != f[1] {
				*f[0] = configuration.ResolvePath(*f[1], *f[0])
			}
		default:
			return nil, fmt.Errorf("Files: %q is not plain name", *f[0])
		}
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Ledger.Directory,
		&options.Logging.Directory,
	} {
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}

	if "" == options.Asset.File && "" == options.Asset.SystemType {
		return nil, fmt.Errorf("asset: either file or system_type and value must be set")
	}

	return options, nil
}
