// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package metadata - the AssetInfo XML document sent ahead of the ciphertext
//
// it carries the RSA wrapped secrets, the HMAC of the ciphertext and
// the provenance of the value. Binary fields are base64.
package metadata

import (
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/bitmark-inc/exchanged/asset"
	"github.com/bitmark-inc/exchanged/cryptography"
	"github.com/bitmark-inc/exchanged/fault"
)

// algorithm identifiers
const (
	encryptedTrue       = "True"
	keyEncryptionPrefix = "RSA"
	dataEncryption      = "AES128"
	dataSignature       = "HMACSHA256"
)

// AssetInfo - root element
type AssetInfo struct {
	XMLName      xml.Name     `xml:"AssetInfo"`
	Cryptography Cryptography `xml:"Cryptography"`
	DataSource   string       `xml:"DataSource"`
	ResultUnit   string       `xml:"ResultUnit"`
	SystemType   string       `xml:"SystemType"`
}

// Cryptography - how the ciphertext was produced
type Cryptography struct {
	Encrypted      string         `xml:"Encrypted"`
	KeyEncryption  Algorithm      `xml:"KeyEncryption"`
	DataEncryption DataEncryption `xml:"DataEncryption"`
	DataSignature  DataSignature  `xml:"DataSignature"`
}

// Algorithm - element carrying only an algorithm attribute
type Algorithm struct {
	Algorithm string `xml:"algorithm,attr"`
}

// DataEncryption - symmetric cipher and its wrapped key and IV
type DataEncryption struct {
	Algorithm string `xml:"algorithm,attr"`
	Key       string `xml:"AESEncryptedKeyValue>Key"`
	IV        string `xml:"AESEncryptedKeyValue>IV"`
}

// DataSignature - MAC of the ciphertext and its wrapped key
type DataSignature struct {
	Algorithm    string `xml:"algorithm,attr"`
	Value        string `xml:"Value"`
	EncryptedKey string `xml:"EncryptedKey"`
}

// New - metadata for a sealed value
func New(sealed *cryptography.Sealed, item *asset.Item, keyBits int) *AssetInfo {
	b64 := base64.StdEncoding.EncodeToString
	dataSource := item.DataSource
	if "" == dataSource {
		dataSource = asset.NotAvailable
	}
	resultUnit := item.ResultUnit
	if "" == resultUnit {
		resultUnit = asset.NotAvailable
	}
	return &AssetInfo{
		Cryptography: Cryptography{
			Encrypted: encryptedTrue,
			KeyEncryption: Algorithm{
				Algorithm: fmt.Sprintf("%s%d", keyEncryptionPrefix, keyBits),
			},
			DataEncryption: DataEncryption{
				Algorithm: dataEncryption,
				Key:       b64(sealed.WrappedKey),
				IV:        b64(sealed.WrappedIV),
			},
			DataSignature: DataSignature{
				Algorithm:    dataSignature,
				Value:        b64(sealed.MAC),
				EncryptedKey: b64(sealed.WrappedMACKey),
			},
		},
		DataSource: dataSource,
		ResultUnit: resultUnit,
		SystemType: item.Value.Type.String(),
	}
}

// Marshal - UTF-8 XML bytes
func (a *AssetInfo) Marshal() ([]byte, error) {
	return xml.Marshal(a)
}

// Parse - decode and check a metadata document
func Parse(data []byte) (*AssetInfo, error) {
	if err := checkSingle(data); nil != err {
		return nil, err
	}

	a := &AssetInfo{}
	if err := xml.Unmarshal(data, a); nil != err {
		return nil, fault.ErrCannotDecodeMetadata
	}

	c := &a.Cryptography
	if !strings.EqualFold(encryptedTrue, strings.TrimSpace(c.Encrypted)) {
		return nil, fault.ErrNotEncrypted
	}
	if !strings.HasPrefix(strings.ToUpper(c.KeyEncryption.Algorithm), keyEncryptionPrefix) ||
		!strings.EqualFold(dataEncryption, c.DataEncryption.Algorithm) ||
		!strings.EqualFold(dataSignature, c.DataSignature.Algorithm) {
		return nil, fault.ErrUnknownAlgorithm
	}
	for _, s := range []string{c.DataEncryption.Key, c.DataEncryption.IV, c.DataSignature.Value, c.DataSignature.EncryptedKey, a.SystemType} {
		if "" == strings.TrimSpace(s) {
			return nil, fault.ErrMissingMetadataField
		}
	}
	return a, nil
}

// Type - the system type of the value
func (a *AssetInfo) Type() (asset.SystemType, error) {
	return asset.ParseSystemType(a.SystemType)
}

// Sealed - wrapped secrets from the metadata joined with the ciphertext
func (a *AssetInfo) Sealed(ciphertext []byte) (*cryptography.Sealed, error) {
	c := &a.Cryptography
	s := &cryptography.Sealed{
		Ciphertext: ciphertext,
	}
	fields := []struct {
		text string
		dst  *[]byte
	}{
		{c.DataEncryption.Key, &s.WrappedKey},
		{c.DataEncryption.IV, &s.WrappedIV},
		{c.DataSignature.Value, &s.MAC},
		{c.DataSignature.EncryptedKey, &s.WrappedMACKey},
	}
	for _, f := range fields {
		b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(f.text))
		if nil != err {
			return nil, fault.ErrCannotDecodeMetadata
		}
		*f.dst = b
	}
	return s, nil
}
