// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keystore

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"io/ioutil"
	"os"

	"github.com/bitmark-inc/exchanged/configuration"
	"github.com/bitmark-inc/exchanged/fault"
	"github.com/bitmark-inc/exchanged/signature"
)

// Configuration - key file names, relative to the data directory
type Configuration struct {
	PrivateKey string `gluamapper:"private_key" json:"private_key"`
	PublicKey  string `gluamapper:"public_key" json:"public_key"`
	SigningKey string `gluamapper:"signing_key" json:"signing_key"`
	Passphrase string `gluamapper:"passphrase" json:"passphrase"`
}

// Keys - the loaded key material, read only after Load
type Keys struct {
	Private   *rsa.PrivateKey
	PublicPEM string
	Signing   *ecdsa.PrivateKey
}

// Load - read the key files, the signing key is optional
func Load(conf *Configuration, dataDirectory string) (*Keys, error) {
	data, err := ioutil.ReadFile(configuration.ResolvePath(dataDirectory, conf.PrivateKey))
	if nil != err {
		return nil, err
	}
	private, err := DecodePrivateKey(data, conf.Passphrase)
	if nil != err {
		return nil, err
	}

	// the public file is what peers receive so it is sent verbatim
	publicPEM := ""
	if "" != conf.PublicKey {
		data, err := ioutil.ReadFile(configuration.ResolvePath(dataDirectory, conf.PublicKey))
		if nil != err {
			return nil, err
		}
		public, err := ParsePublicKey(string(data))
		if nil != err {
			return nil, err
		}
		if 0 != public.N.Cmp(private.N) || public.E != private.E {
			return nil, fault.ErrInvalidPublicKey
		}
		publicPEM = string(data)
	} else {
		publicPEM, err = EncodePublicKey(&private.PublicKey)
		if nil != err {
			return nil, err
		}
	}

	keys := &Keys{
		Private:   private,
		PublicPEM: publicPEM,
	}

	if "" != conf.SigningKey {
		data, err := ioutil.ReadFile(configuration.ResolvePath(dataDirectory, conf.SigningKey))
		if nil != err {
			return nil, err
		}
		keys.Signing, err = DecodeSigningKey(data, conf.Passphrase)
		if nil != err {
			return nil, err
		}
	}
	return keys, nil
}

// Generate - create new key files, never overwriting existing ones
func Generate(conf *Configuration, dataDirectory string, bits int) (*Keys, error) {
	private, err := GenerateRSA(bits)
	if nil != err {
		return nil, err
	}
	privateData, err := EncodePrivateKey(private, conf.Passphrase)
	if nil != err {
		return nil, err
	}
	publicPEM, err := EncodePublicKey(&private.PublicKey)
	if nil != err {
		return nil, err
	}

	keys := &Keys{
		Private:   private,
		PublicPEM: publicPEM,
	}

	var signingData []byte
	if "" != conf.SigningKey {
		keys.Signing, err = signature.GenerateKey()
		if nil != err {
			return nil, err
		}
		signingData, err = EncodeSigningKey(keys.Signing, conf.Passphrase)
		if nil != err {
			return nil, err
		}
	}

	files := []struct {
		name string
		data []byte
		mode os.FileMode
	}{
		{conf.PrivateKey, privateData, 0600},
		{conf.PublicKey, []byte(publicPEM), 0644},
		{conf.SigningKey, signingData, 0600},
	}

	// check all first so a failure leaves nothing half written
	for _, f := range files {
		if "" == f.name {
			continue
		}
		if _, err := os.Stat(configuration.ResolvePath(dataDirectory, f.name)); nil == err {
			return nil, fault.ErrKeyFileExists
		}
	}
	for _, f := range files {
		if "" == f.name {
			continue
		}
		if err := writeExclusive(configuration.ResolvePath(dataDirectory, f.name), f.data, f.mode); nil != err {
			return nil, err
		}
	}
	return keys, nil
}

func writeExclusive(fileName string, data []byte, mode os.FileMode) error {
	fd, err := os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if nil != err {
		return err
	}
	_, err = fd.Write(data)
	if closeErr := fd.Close(); nil == err {
		err = closeErr
	}
	return err
}
