// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset_test

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/exchanged/asset"
	"github.com/bitmark-inc/exchanged/background"
	"github.com/bitmark-inc/exchanged/fixtures"
)

func TestNewItemDefaults(t *testing.T) {
	item, err := asset.NewItem("int", "42", "", "")
	assert.Nil(t, err, "new item error")
	assert.Equal(t, asset.Value{Type: asset.Int32, Data: int32(42)}, item.Value, "wrong value")
	assert.Equal(t, asset.NotAvailable, item.DataSource, "wrong data source")
	assert.Equal(t, asset.NotAvailable, item.ResultUnit, "wrong result unit")

	_, err = asset.NewItem("decimal", "1", "", "")
	assert.NotNil(t, err, "unknown type accepted")
}

func TestStaticSource(t *testing.T) {
	item, _ := asset.NewItem("String", "hello", "lab", "text")
	s := asset.NewStaticSource(item)

	fetched, err := s.Fetch(context.Background(), "ABC123")
	assert.Nil(t, err, "fetch error")
	assert.Equal(t, item, fetched, "wrong item")

	other, _ := asset.NewItem("Double", "2.5", "", "")
	s.Set(other)
	fetched, err = s.Fetch(context.Background(), "ABC123")
	assert.Nil(t, err, "fetch error")
	assert.Equal(t, other, fetched, "item not replaced")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Fetch(ctx, "ABC123")
	assert.Equal(t, context.Canceled, err, "cancelled fetch succeeded")
}

const valueFile = `return {
    system_type = "%s",
    value = "%s",
    data_source = "sensor 7",
    result_unit = "count",
}
`

func writeValueFile(t *testing.T, fileName string, systemType string, value string) {
	text := []byte(fmt.Sprintf(valueFile, systemType, value))
	if err := ioutil.WriteFile(fileName, text, 0600); nil != err {
		t.Fatalf("write value file error: %s", err)
	}
}

func TestFileSource(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	dir, err := ioutil.TempDir("", "asset")
	if nil != err {
		t.Fatalf("temp dir error: %s", err)
	}
	defer os.RemoveAll(dir)

	fileName := filepath.Join(dir, "value.lua")
	writeValueFile(t, fileName, "Int32", "42")

	s, err := asset.NewFileSource(fileName)
	assert.Nil(t, err, "new file source error")

	item, err := s.Fetch(context.Background(), "ABC123")
	assert.Nil(t, err, "fetch error")
	assert.Equal(t, asset.Value{Type: asset.Int32, Data: int32(42)}, item.Value, "wrong value")
	assert.Equal(t, "sensor 7", item.DataSource, "wrong data source")
	assert.Equal(t, "count", item.ResultUnit, "wrong result unit")

	// a broken file keeps the previous value
	writeValueFile(t, fileName, "Int32", "not a number")
	s.Reload()
	item, _ = s.Fetch(context.Background(), "ABC123")
	assert.Equal(t, int32(42), item.Value.Data, "broken file replaced value")

	writeValueFile(t, fileName, "Double", "-3.14")
	s.Reload()
	item, _ = s.Fetch(context.Background(), "ABC123")
	assert.Equal(t, asset.Value{Type: asset.Double, Data: float64(-3.14)}, item.Value, "value not reloaded")

	// the watcher loop stops cleanly
	p := background.Start(background.Processes{s}, nil)
	time.Sleep(10 * time.Millisecond)
	p.Stop()
}

func TestFileSourceMissing(t *testing.T) {
	_, err := asset.NewFileSource("/nonexistent/value.lua")
	assert.NotNil(t, err, "missing file accepted")
}
