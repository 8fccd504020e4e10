// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	_ "github.com/bitmark-inc/exchanged/zmqutil"
)

type metadata struct {
	file    string
	config  *Configuration
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "exchange-cli"
	app.Usage = "buy licensed assets from an exchange seller"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "config, c",
			Value: "",
			Usage: " configuration `FILE` [default: $XDG_CONFIG_HOME/exchange-cli/exchange-cli.conf]",
		},
		cli.StringFlag{
			Name:  "passphrase, p",
			Value: "",
			Usage: " key file `PASSPHRASE`, overrides the configuration",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "generate",
			Usage:     "generate buyer RSA and signing keys",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "directory, d",
					Value: ".",
					Usage: " write key files to `DIR`",
				},
				cli.IntFlag{
					Name:  "bits, b",
					Value: defaultKeyBits,
					Usage: " RSA key size `BITS`",
				},
			},
			Action: runGenerate,
		},
		{
			Name:   "address",
			Usage:  "display the account that must hold licences",
			Action: runAddress,
		},
		{
			Name:   "seller-key",
			Usage:  "display the seller public key published by the contract",
			Action: runSellerKey,
		},
		{
			Name:      "licence",
			Usage:     "display a licence record and whether this account holds it",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "licence, l",
					Value: "",
					Usage: " licence `ID` [default: configured licence_id]",
				},
			},
			Action: runLicence,
		},
		{
			Name:      "add-licence",
			Usage:     "register a licence, needs the contract owner account",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "licence, l",
					Value: "",
					Usage: "*licence `ID`",
				},
				cli.StringFlag{
					Name:  "customer, u",
					Value: "",
					Usage: " customer `ADDRESS` [default: this account]",
				},
				cli.StringFlag{
					Name:  "price, r",
					Value: "0",
					Usage: " price in wei `AMOUNT`",
				},
				cli.StringFlag{
					Name:  "quantity, q",
					Value: "1",
					Usage: " quantity `COUNT`",
				},
			},
			Action: runAddLicence,
		},
		{
			Name:      "purchase",
			Usage:     "request an asset and wait for its delivery",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "licence, l",
					Value: "",
					Usage: " licence `ID` [default: configured licence_id]",
				},
				cli.StringFlag{
					Name:  "server, s",
					Value: "",
					Usage: " seller `HOST:PORT` [default: configured server]",
				},
			},
			Action: runPurchase,
		},
		{
			Name:      "receipts",
			Usage:     "list received assets",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "count, n",
					Value: 20,
					Usage: " maximum records to output `COUNT`",
				},
			},
			Action: runReceipts,
		},
		{
			Name: "version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	// read the configuration
	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		// to suppress reading config file if certain commands
		command := c.Args().Get(0)
		switch command {
		case "", "version", "help", "h", "generate":
			c.App.Metadata["config"] = &metadata{
				verbose: verbose,
				e:       e,
				w:       w,
			}
			return nil
		}

		file := c.GlobalString("config")
		if "" == file {
			p := os.Getenv("XDG_CONFIG_HOME")
			if "" == p {
				return fmt.Errorf("XDG_CONFIG_HOME environment is not set")
			}
			file = path.Join(p, app.Name, app.Name+".conf")
		}

		if verbose {
			fmt.Fprintf(e, "reading config file: %s\n", file)
		}

		configuration, err := getConfiguration(file)
		if nil != err {
			return err
		}
		if p := c.GlobalString("passphrase"); "" != p {
			configuration.Keystore.Passphrase = p
		}

		if err := logger.Initialise(configuration.Logging); nil != err {
			return err
		}

		c.App.Metadata["config"] = &metadata{
			file:    file,
			config:  configuration,
			verbose: verbose,
			e:       e,
			w:       w,
		}
		return nil
	}

	app.After = func(c *cli.Context) error {
		m, ok := c.App.Metadata["config"].(*metadata)
		if ok && nil != m.config {
			logger.Finalise()
		}
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

// context cancelled by CTRL-C
func interruptible() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(ch)
	}()
	return ctx, cancel
}
