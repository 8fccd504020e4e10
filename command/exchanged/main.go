// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/exchanged/asset"
	"github.com/bitmark-inc/exchanged/background"
	"github.com/bitmark-inc/exchanged/counter"
	"github.com/bitmark-inc/exchanged/keystore"
	"github.com/bitmark-inc/exchanged/messagebus"
	"github.com/bitmark-inc/exchanged/oracle"
	"github.com/bitmark-inc/exchanged/ratelimit"
	"github.com/bitmark-inc/exchanged/storage"
	"github.com/bitmark-inc/exchanged/transmitter"
	"github.com/bitmark-inc/exchanged/transport"
	"github.com/bitmark-inc/exchanged/verifier"
	_ "github.com/bitmark-inc/exchanged/zmqutil"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration and
	// process data needed for initial setup
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// keys are read once and never change while running
	log.Info("load keystore")
	keys, err := keystore.Load(&theConfiguration.Keystore, theConfiguration.DataDirectory)
	if nil != err {
		log.Criticalf("keystore load error: %s", err)
		exitwithstatus.Message("keystore load error: %s", err)
	}

	log.Info("initialise ledger")
	ledger, err := storage.Open(theConfiguration.Ledger.Name, storage.ReadWrite)
	if nil != err {
		log.Criticalf("ledger open error: %s", err)
		exitwithstatus.Message("ledger open error: %s", err)
	}
	defer ledger.Close()

	log.Infof("connect oracle: %s", theConfiguration.Oracle.URL)
	licenceOracle, err := oracle.Dial(context.Background(), &theConfiguration.Oracle)
	if nil != err {
		log.Criticalf("oracle connect error: %s", err)
		exitwithstatus.Message("oracle connect error: %s", err)
	}
	defer licenceOracle.Close()

	// the contract must publish the key matching ours
	checkPublishedKey(log, licenceOracle, keys)

	source, sourceProcesses, err := assetSource(&theConfiguration.Asset)
	if nil != err {
		log.Criticalf("asset source error: %s", err)
		exitwithstatus.Message("asset source error: %s", err)
	}

	tr, err := transport.New(&theConfiguration.Transport)
	if nil != err {
		log.Criticalf("transport error: %s", err)
		exitwithstatus.Message("transport error: %s", err)
	}

	bus := messagebus.New()
	defer bus.Close()

	stats := &counter.Statistics{}

	tx, err := transmitter.New(&transmitter.Config{
		Transport:  tr,
		Source:     source,
		Bus:        bus,
		Oracle:     licenceOracle,
		Confirm:    theConfiguration.ConfirmTransaction,
		Ledger:     ledger,
		Statistics: stats,
	})
	if nil != err {
		log.Criticalf("transmitter initialise error: %s", err)
		exitwithstatus.Message("transmitter initialise error: %s", err)
	}

	v, err := verifier.New(&verifier.Config{
		Transport:  tr,
		Listen:     theConfiguration.Listen,
		PrivateKey: keys.Private,
		Oracle:     licenceOracle,
		Bus:        bus,
		Limiter:    ratelimit.New(&theConfiguration.RateLimit),
		Statistics: stats,
	})
	if nil != err {
		log.Criticalf("verifier initialise error: %s", err)
		exitwithstatus.Message("verifier initialise error: %s", err)
	}

	// consumers first so nothing published is waiting on a stopped loop
	processes := append(sourceProcesses,
		tx,
		v,
		newStatistics(stats, theConfiguration.StatisticsInterval),
	)
	running := background.Start(processes, nil)
	defer running.Stop()

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nlistening on: %s\n", v.Address())
		fmt.Printf("Waiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
}

// literal value from the configuration or a watched value file
func assetSource(conf *asset.Configuration) (asset.Source, background.Processes, error) {
	if "" != conf.File {
		s, err := asset.NewFileSource(conf.File)
		if nil != err {
			return nil, nil, err
		}
		return s, background.Processes{s}, nil
	}

	item, err := asset.NewItem(conf.SystemType, conf.Value, conf.DataSource, conf.ResultUnit)
	if nil != err {
		return nil, nil, err
	}
	return asset.NewStaticSource(item), nil, nil
}

func checkPublishedKey(log *logger.L, o oracle.Oracle, keys *keystore.Keys) {
	published, err := o.GetPublicKey(context.Background())
	if nil != err {
		log.Warnf("cannot read published key: %s", err)
		return
	}
	public, err := keystore.ParsePublicKey(published)
	if nil != err {
		log.Warnf("published key is invalid: %s", err)
		return
	}
	if 0 != public.N.Cmp(keys.Private.N) || public.E != keys.Private.E {
		log.Critical("published key does not match the private key")
	}
}
