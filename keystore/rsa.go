// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keystore

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"strings"

	"github.com/bitmark-inc/exchanged/fault"
)

const (
	privateKeyType   = "RSA PRIVATE KEY"
	publicKeyType    = "PUBLIC KEY"
	rsaPublicKeyType = "RSA PUBLIC KEY"
)

// GenerateRSA - new RSA private key
func GenerateRSA(bits int) (*rsa.PrivateKey, error) {
	return rsa.GenerateKey(rand.Reader, bits)
}

// EncodePrivateKey - PKCS#1 PEM, sealed when passphrase is not empty
func EncodePrivateKey(key *rsa.PrivateKey, passphrase string) ([]byte, error) {
	return sealBlock(privateKeyType, x509.MarshalPKCS1PrivateKey(key), passphrase)
}

// DecodePrivateKey - parse PEM or XML private key data
func DecodePrivateKey(data []byte, passphrase string) (*rsa.PrivateKey, error) {
	if isXML(string(data)) {
		return parsePrivateKeyXML(string(data))
	}
	body, err := openBlock(privateKeyType, data, passphrase)
	if nil != err {
		return nil, err
	}
	key, err := x509.ParsePKCS1PrivateKey(body)
	if nil != err {
		return nil, fault.ErrCannotDecodePrivateKey
	}
	return key, nil
}

// EncodePublicKey - PKIX PEM text
func EncodePublicKey(key *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if nil != err {
		return "", err
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: publicKeyType, Bytes: der})), nil
}

// ParsePublicKey - PEM (PKIX or PKCS#1) or XML public key text
func ParsePublicKey(text string) (*rsa.PublicKey, error) {
	if isXML(text) {
		return parsePublicKeyXML(text)
	}

	block, _ := pem.Decode([]byte(text))
	if nil == block {
		return nil, fault.ErrCannotDecodePublicKey
	}

	switch block.Type {
	case publicKeyType:
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if nil != err {
			return nil, fault.ErrCannotDecodePublicKey
		}
		public, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, fault.ErrNotAPublicKey
		}
		return public, nil

	case rsaPublicKeyType:
		public, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if nil != err {
			return nil, fault.ErrCannotDecodePublicKey
		}
		return public, nil

	default:
		return nil, fault.ErrNotAPublicKey
	}
}

func isXML(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "<")
}
