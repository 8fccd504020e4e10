// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/exchanged/configuration"
	"github.com/bitmark-inc/exchanged/fault"
)

type inner struct {
	URL     string `gluamapper:"url"`
	Retries int    `gluamapper:"retries"`
}

type sample struct {
	DataDirectory string            `gluamapper:"data_directory"`
	Listen        string            `gluamapper:"listen"`
	Confirm       bool              `gluamapper:"confirm"`
	Oracle        inner             `gluamapper:"oracle"`
	Levels        map[string]string `gluamapper:"levels"`
}

const sampleText = `
local port = 4000 + 567
return {
    data_directory = "data",
    listen = "127.0.0.1:" .. port,
    confirm = true,
    oracle = {
        url = "http://127.0.0.1:8545",
        retries = 3,
    },
    levels = {
        DEFAULT = "info",
        verifier = "debug",
    },
}
`

func TestParseConfigurationString(t *testing.T) {
	s := sample{
		Oracle: inner{
			Retries: 9,
		},
	}
	err := configuration.ParseConfigurationString(sampleText, &s)
	assert.Nil(t, err, "parse error")
	assert.Equal(t, "data", s.DataDirectory, "wrong data directory")
	assert.Equal(t, "127.0.0.1:4567", s.Listen, "wrong listen")
	assert.True(t, s.Confirm, "wrong confirm")
	assert.Equal(t, "http://127.0.0.1:8545", s.Oracle.URL, "wrong url")
	assert.Equal(t, 3, s.Oracle.Retries, "wrong retries")
	assert.Equal(t, "debug", s.Levels["verifier"], "wrong level")
}

func TestParseConfigurationFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "configuration")
	if nil != err {
		t.Fatalf("temp dir error: %s", err)
	}
	defer os.RemoveAll(dir)

	fileName := filepath.Join(dir, "sample.conf")
	text := "return { data_directory = arg[0], listen = os.getenv(\"EXCHANGE_TEST_LISTEN\") }"
	err = ioutil.WriteFile(fileName, []byte(text), 0600)
	assert.Nil(t, err, "write error")

	os.Setenv("EXCHANGE_TEST_LISTEN", "0.0.0.0:1")
	defer os.Unsetenv("EXCHANGE_TEST_LISTEN")

	s := sample{}
	err = configuration.ParseConfigurationFile(fileName, &s)
	assert.Nil(t, err, "parse error")
	assert.Equal(t, fileName, s.DataDirectory, "arg[0] not set")
	assert.Equal(t, "0.0.0.0:1", s.Listen, "getenv not available")
}

func TestParseConfigurationErrors(t *testing.T) {
	s := sample{}
	err := configuration.ParseConfigurationString("return 42", &s)
	assert.Equal(t, fault.ErrConfigurationNotTable, err, "wrong error for non table")

	err = configuration.ParseConfigurationString("return {", &s)
	assert.NotNil(t, err, "syntax error accepted")

	err = configuration.ParseConfigurationString("return {}", s)
	assert.Equal(t, fault.ErrInvalidStructPointer, err, "wrong error for non pointer")

	err = configuration.ParseConfigurationFile("/nonexistent/file.conf", &s)
	assert.NotNil(t, err, "missing file accepted")
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "", configuration.ResolvePath("/base", ""), "empty path changed")
	assert.Equal(t, "/abs/file", configuration.ResolvePath("/base", "/abs/file"), "absolute path changed")
	assert.Equal(t, "/base/rel/file", configuration.ResolvePath("/base", "rel/file"), "relative path not resolved")
}
