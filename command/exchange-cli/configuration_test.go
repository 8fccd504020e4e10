// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/exchanged/fault"
)

func TestSampleConfiguration(t *testing.T) {
	sample, err := ioutil.ReadFile("exchange-cli.conf.sample")
	require.Nil(t, err, "read sample")

	dir, err := ioutil.TempDir("", "exchange-cli-config")
	require.Nil(t, err, "temp dir")
	defer os.RemoveAll(dir)
	dir, _ = filepath.EvalSymlinks(dir)

	fileName := filepath.Join(dir, "exchange-cli.conf")
	require.Nil(t, ioutil.WriteFile(fileName, sample, 0600), "write config")

	conf, err := getConfiguration(fileName)
	require.Nil(t, err, "configuration error")

	assert.Equal(t, "127.0.0.1:5800", conf.Server, "server")
	assert.Equal(t, "0.0.0.0:5801", conf.Listen, "listen")
	assert.Equal(t, "", conf.Advertise, "advertise")
	assert.Equal(t, 60*time.Second, conf.receiveTimeout(), "receive timeout")
	assert.Equal(t, filepath.Join(dir, "buyer.signing"), conf.Keystore.SigningKey, "signing key")
	assert.Equal(t, filepath.Join(dir, "data", "receipts.leveldb"), conf.Ledger.Name, "ledger")
	assert.Equal(t, "http://127.0.0.1:8545", conf.Oracle.URL, "oracle")
}

func TestConfigurationRequiresSigningKey(t *testing.T) {
	dir, err := ioutil.TempDir("", "exchange-cli-config")
	require.Nil(t, err, "temp dir")
	defer os.RemoveAll(dir)

	fileName := filepath.Join(dir, "exchange-cli.conf")
	text := `return { keystore = { private_key = "a", signing_key = "" } }`
	require.Nil(t, ioutil.WriteFile(fileName, []byte(text), 0600), "write config")

	_, err = getConfiguration(fileName)
	assert.NotNil(t, err, "missing signing key accepted")
}

func TestConfigurationNotFound(t *testing.T) {
	_, err := getConfiguration("/no/such/directory/exchange-cli.conf")
	assert.True(t, errors.Is(err, fault.ErrNotFoundConfigFile), "wrong error: %v", err)
}
