// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package keystore - local key files for both exchange roles
//
// RSA keys are PEM files, the private key optionally sealed under a
// passphrase. The buyer also keeps a secp256k1 signing key whose
// address is the identity registered against a licence.
//
// Public and private RSA keys in the XML RSAKeyValue form written by
// .NET peers are accepted on input.
package keystore
