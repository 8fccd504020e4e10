// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metadata

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/bitmark-inc/exchanged/fault"
)

// element paths that must occur exactly once
var required = []string{
	"/AssetInfo",
	"/AssetInfo/Cryptography",
	"/AssetInfo/Cryptography/Encrypted",
	"/AssetInfo/Cryptography/KeyEncryption",
	"/AssetInfo/Cryptography/DataEncryption",
	"/AssetInfo/Cryptography/DataEncryption/AESEncryptedKeyValue",
	"/AssetInfo/Cryptography/DataEncryption/AESEncryptedKeyValue/Key",
	"/AssetInfo/Cryptography/DataEncryption/AESEncryptedKeyValue/IV",
	"/AssetInfo/Cryptography/DataSignature",
	"/AssetInfo/Cryptography/DataSignature/Value",
	"/AssetInfo/Cryptography/DataSignature/EncryptedKey",
	"/AssetInfo/SystemType",
}

// optional paths that still may not repeat
var optional = []string{
	"/AssetInfo/DataSource",
	"/AssetInfo/ResultUnit",
}

// scan the element tree counting paths
func checkSingle(data []byte) error {
	d := xml.NewDecoder(bytes.NewReader(data))
	counts := make(map[string]int)
	path := []string{}

	for {
		token, err := d.Token()
		if io.EOF == err {
			break
		}
		if nil != err {
			return fault.ErrCannotDecodeMetadata
		}
		switch t := token.(type) {
		case xml.StartElement:
			path = append(path, t.Name.Local)
			counts["/"+strings.Join(path, "/")] += 1
		case xml.EndElement:
			path = path[:len(path)-1]
		}
	}

	for _, p := range required {
		if 1 != counts[p] {
			if 0 == counts[p] {
				return fault.ErrMissingMetadataField
			}
			return fault.ErrCannotDecodeMetadata
		}
	}
	for _, p := range optional {
		if counts[p] > 1 {
			return fault.ErrCannotDecodeMetadata
		}
	}
	return nil
}
