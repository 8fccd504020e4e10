// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/bitmark-inc/exchanged/keystore"
	"github.com/bitmark-inc/exchanged/storage"
)

const defaultKeyBits = 2048

// setup command handler
//
// commands that run to create key files these commands cannot
// access the ledger or the configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-rsa-keys", "rsa":
		directory := "."
		if len(arguments) > 0 && "" != arguments[0] {
			directory = arguments[0]
		}
		bits := defaultKeyBits
		if len(arguments) > 1 {
			n, err := strconv.Atoi(arguments[1])
			if nil != err || n < 1024 {
				exitwithstatus.Message("error: invalid key size: %q", arguments[1])
			}
			bits = n
		}

		conf := &keystore.Configuration{
			PrivateKey: defaultPrivateKeyFile,
			PublicKey:  defaultPublicKeyFile,
		}
		if _, err := keystore.Generate(conf, directory, bits); nil != err {
			fmt.Printf("generate RSA keys in: %q error: %s\n", directory, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated private key: %q and public key: %q\n",
			filepath.Join(directory, defaultPrivateKeyFile),
			filepath.Join(directory, defaultPublicKeyFile))

	case "start", "run":
		return false // continue processing

	case "config-test", "cfg", "public-key", "key", "deliveries", "d":
		return false // defer processing until configuration is read

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version string\n\n")

		fmt.Printf("  gen-rsa-keys [DIR [BITS]]  (rsa)    - create private key in: %q\n", "DIR/"+defaultPrivateKeyFile)
		fmt.Printf("                                        and the public key in: %q\n", "DIR/"+defaultPublicKeyFile)
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("                                        for convenience when passing script arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  public-key                 (key)    - display the public key in the form published to the contract\n")
		fmt.Printf("\n")

		fmt.Printf("  deliveries                 (d)      - dump the delivery ledger as JSON to stdout\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		printJSON(options)

	case "public-key", "key":
		keys, err := keystore.Load(&options.Keystore, options.DataDirectory)
		if nil != err {
			exitwithstatus.Message("error: %s", err)
		}
		text, err := keystore.PublicKeyXML(&keys.Private.PublicKey)
		if nil != err {
			exitwithstatus.Message("error: %s", err)
		}
		fmt.Printf("%s\n", text)

	case "deliveries", "d":
		ledger, err := storage.Open(options.Ledger.Name, storage.ReadOnly)
		if nil != err {
			exitwithstatus.Message("error: %s", err)
		}
		defer ledger.Close()
		records, err := ledger.Deliveries.Records()
		if nil != err {
			exitwithstatus.Message("error: %s", err)
		}
		printJSON(records)

	default: // unknown commands fall through to normal start up
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

func printJSON(item interface{}) {
	b, err := json.Marshal(item)
	if err != nil {
		exitwithstatus.Message("error: %s", err)
	}
	var out bytes.Buffer
	json.Indent(&out, b, "", "  ")
	out.WriteTo(os.Stdout)
	os.Stdout.WriteString("\n")
}
