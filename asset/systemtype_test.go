// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/exchanged/asset"
	"github.com/bitmark-inc/exchanged/fault"
)

func TestParseSystemType(t *testing.T) {
	items := []struct {
		tag string
		t   asset.SystemType
	}{
		{"Int32", asset.Int32},
		{"int", asset.Int32},
		{"INT32", asset.Int32},
		{"Double", asset.Double},
		{"String", asset.String},
		{"string", asset.String},
		{"Boolean", asset.Bool},
		{"bool", asset.Bool},
		{"UInt16", asset.Uint16},
		{"ushort", asset.Uint16},
		{"uint", asset.Uint32},
		{"Int64", asset.Int64},
		{"Single", asset.Float},
		{"float", asset.Float},
		{"Byte", asset.Byte},
		{" Int16 ", asset.Int16},
		{"UInt64", asset.Uint64},
	}

	for i, item := range items {
		st, err := asset.ParseSystemType(item.tag)
		assert.Nil(t, err, "%d: tag %q error", i, item.tag)
		assert.Equal(t, item.t, st, "%d: tag %q wrong type", i, item.tag)

		// metadata names parse back to themselves
		again, err := asset.ParseSystemType(st.String())
		assert.Nil(t, err, "%d: name %q error", i, st)
		assert.Equal(t, st, again, "%d: name %q wrong type", i, st)
	}
}

func TestParseSystemTypeUnknown(t *testing.T) {
	for _, tag := range []string{"", "decimal", "char", "Unknown", "Int33"} {
		st, err := asset.ParseSystemType(tag)
		assert.Equal(t, fault.ErrUnknownSystemType, err, "tag %q: wrong error", tag)
		assert.Equal(t, asset.Unknown, st, "tag %q: wrong type", tag)
	}
	assert.False(t, asset.Unknown.IsValid(), "unknown is valid")
}
