// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keystore

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/xml"
	"math/big"
	"strings"

	"github.com/bitmark-inc/exchanged/fault"
)

// <RSAKeyValue> with base64 big endian integers
type rsaKeyValue struct {
	XMLName  xml.Name `xml:"RSAKeyValue"`
	Modulus  string   `xml:"Modulus"`
	Exponent string   `xml:"Exponent"`
	P        string   `xml:"P,omitempty"`
	Q        string   `xml:"Q,omitempty"`
	DP       string   `xml:"DP,omitempty"`
	DQ       string   `xml:"DQ,omitempty"`
	InverseQ string   `xml:"InverseQ,omitempty"`
	D        string   `xml:"D,omitempty"`
}

func parsePublicKeyXML(text string) (*rsa.PublicKey, error) {
	kv, err := decodeKeyValue(text)
	if nil != err {
		return nil, fault.ErrCannotDecodePublicKey
	}
	return kv.publicKey()
}

func parsePrivateKeyXML(text string) (*rsa.PrivateKey, error) {
	kv, err := decodeKeyValue(text)
	if nil != err {
		return nil, fault.ErrCannotDecodePrivateKey
	}
	public, err := kv.publicKey()
	if nil != err {
		return nil, fault.ErrCannotDecodePrivateKey
	}

	d, okD := xmlInteger(kv.D)
	p, okP := xmlInteger(kv.P)
	q, okQ := xmlInteger(kv.Q)
	if !okD || !okP || !okQ {
		return nil, fault.ErrNotAPrivateKey
	}

	key := &rsa.PrivateKey{
		PublicKey: *public,
		D:         d,
		Primes:    []*big.Int{p, q},
	}
	if err := key.Validate(); nil != err {
		return nil, fault.ErrCannotDecodePrivateKey
	}
	key.Precompute()
	return key, nil
}

func decodeKeyValue(text string) (*rsaKeyValue, error) {
	kv := &rsaKeyValue{}
	if err := xml.Unmarshal([]byte(text), kv); nil != err {
		return nil, err
	}
	return kv, nil
}

func (kv *rsaKeyValue) publicKey() (*rsa.PublicKey, error) {
	n, ok := xmlInteger(kv.Modulus)
	if !ok {
		return nil, fault.ErrCannotDecodePublicKey
	}
	e, ok := xmlInteger(kv.Exponent)
	if !ok || !e.IsInt64() || e.Int64() > 1<<31-1 || e.Int64() < 3 {
		return nil, fault.ErrCannotDecodePublicKey
	}
	return &rsa.PublicKey{N: n, E: int(e.Int64())}, nil
}

// PublicKeyXML - XML RSAKeyValue form of a public key
func PublicKeyXML(key *rsa.PublicKey) (string, error) {
	kv := rsaKeyValue{
		Modulus:  base64.StdEncoding.EncodeToString(key.N.Bytes()),
		Exponent: base64.StdEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
	}
	b, err := xml.Marshal(kv)
	if nil != err {
		return "", err
	}
	return string(b), nil
}

func xmlInteger(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	if "" == s {
		return nil, false
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if nil != err || 0 == len(b) {
		return nil, false
	}
	return new(big.Int).SetBytes(b), true
}
