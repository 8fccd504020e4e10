// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metadata_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/exchanged/asset"
	"github.com/bitmark-inc/exchanged/cryptography"
	"github.com/bitmark-inc/exchanged/fault"
	"github.com/bitmark-inc/exchanged/metadata"
)

func testSealed() *cryptography.Sealed {
	return &cryptography.Sealed{
		Ciphertext:    []byte("0123456789abcdef"),
		WrappedKey:    []byte("wrapped key"),
		WrappedIV:     []byte("wrapped iv"),
		MAC:           []byte("mac value"),
		WrappedMACKey: []byte("wrapped mac key"),
	}
}

func TestNewParse(t *testing.T) {
	item, _ := asset.NewItem("int", "42", "", "celsius")
	sealed := testSealed()

	data, err := metadata.New(sealed, item, 2048).Marshal()
	require.Nil(t, err, "marshal error")

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "<AssetInfo><Cryptography><Encrypted>True</Encrypted>"), "wrong layout: %s", text)
	assert.Contains(t, text, `<KeyEncryption algorithm="RSA2048">`, "wrong key algorithm")
	assert.Contains(t, text, `<DataEncryption algorithm="AES128"><AESEncryptedKeyValue><Key>`, "wrong data encryption")
	assert.Contains(t, text, `<DataSignature algorithm="HMACSHA256"><Value>`, "wrong signature")
	assert.Contains(t, text, "<DataSource>N/A</DataSource>", "missing default data source")
	assert.Contains(t, text, "<ResultUnit>celsius</ResultUnit>", "wrong result unit")
	assert.Contains(t, text, "<SystemType>Int32</SystemType>", "wrong system type")

	info, err := metadata.Parse(data)
	require.Nil(t, err, "parse error")

	st, err := info.Type()
	assert.Nil(t, err, "type error")
	assert.Equal(t, asset.Int32, st, "wrong type")
	assert.Equal(t, "N/A", info.DataSource, "wrong data source")

	opened, err := info.Sealed(sealed.Ciphertext)
	assert.Nil(t, err, "sealed error")
	assert.Equal(t, sealed, opened, "wrong sealed fields")
}

// layout written by existing peers, single quoted attributes and
// self closing provenance
const peerDocument = `<AssetInfo>
  <Cryptography>
    <Encrypted>True</Encrypted>
    <KeyEncryption algorithm='RSA2048' />
    <DataEncryption algorithm='AES128'>
      <AESEncryptedKeyValue>
        <Key>a2V5</Key>
        <IV>aXY=</IV>
      </AESEncryptedKeyValue>
    </DataEncryption>
    <DataSignature algorithm='HMACSHA256'>
      <Value>bWFj</Value>
      <EncryptedKey>bWFjIGtleQ==</EncryptedKey>
    </DataSignature>
  </Cryptography>
  <DataSource />
  <ResultUnit />
  <SystemType>Double</SystemType>
</AssetInfo>`

func TestParsePeerDocument(t *testing.T) {
	info, err := metadata.Parse([]byte(peerDocument))
	require.Nil(t, err, "parse error")

	st, _ := info.Type()
	assert.Equal(t, asset.Double, st, "wrong type")

	s, err := info.Sealed([]byte{1})
	assert.Nil(t, err, "sealed error")
	assert.Equal(t, []byte("key"), s.WrappedKey, "wrong key")
	assert.Equal(t, []byte("iv"), s.WrappedIV, "wrong iv")
	assert.Equal(t, []byte("mac"), s.MAC, "wrong mac")
	assert.Equal(t, []byte("mac key"), s.WrappedMACKey, "wrong mac key")
}

func TestParseInvalid(t *testing.T) {
	items := []struct {
		text string
		err  error
	}{
		{"", fault.ErrMissingMetadataField},
		{"not xml <", fault.ErrCannotDecodeMetadata},
		{"<AssetInfo>", fault.ErrCannotDecodeMetadata},
		{strings.Replace(peerDocument, "<Encrypted>True", "<Encrypted>False", 1), fault.ErrNotEncrypted},
		{strings.Replace(peerDocument, "'AES128'", "'DES'", 1), fault.ErrUnknownAlgorithm},
		{strings.Replace(peerDocument, "'HMACSHA256'", "'MD5'", 1), fault.ErrUnknownAlgorithm},
		{strings.Replace(peerDocument, "<IV>aXY=</IV>", "", 1), fault.ErrMissingMetadataField},
		{strings.Replace(peerDocument, "<IV>aXY=</IV>", "<IV></IV>", 1), fault.ErrMissingMetadataField},
		{strings.Replace(peerDocument, "<SystemType>Double</SystemType>", "", 1), fault.ErrMissingMetadataField},
		{strings.Replace(peerDocument, "<Key>a2V5</Key>", "<Key>a2V5</Key><Key>b3Rody==</Key>", 1), fault.ErrCannotDecodeMetadata},
		{strings.Replace(peerDocument, "<DataSource />", "<DataSource /><DataSource />", 1), fault.ErrCannotDecodeMetadata},
	}
	for i, item := range items {
		info, err := metadata.Parse([]byte(item.text))
		assert.Equal(t, item.err, err, "%d: wrong error", i)
		assert.Nil(t, info, "%d: unexpected info", i)
	}
}

func TestSealedBadBase64(t *testing.T) {
	doc := strings.Replace(peerDocument, "<Key>a2V5</Key>", "<Key>!!!</Key>", 1)
	info, err := metadata.Parse([]byte(doc))
	require.Nil(t, err, "parse error")

	_, err = info.Sealed(nil)
	assert.Equal(t, fault.ErrCannotDecodeMetadata, err, "bad base64 accepted")
}

func TestUnknownSystemType(t *testing.T) {
	doc := strings.Replace(peerDocument, "Double", "Decimal", 1)
	info, err := metadata.Parse([]byte(doc))
	require.Nil(t, err, "parse error")

	_, err = info.Type()
	assert.Equal(t, fault.ErrUnknownSystemType, err, "unknown type accepted")
}
