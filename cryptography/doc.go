// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package cryptography - hybrid encryption of asset values
//
// the plaintext is encrypted with AES-128-CBC under a fresh key and IV,
// the ciphertext is authenticated with HMAC-SHA256 under a fresh 64 byte
// key and all three secrets are wrapped for the buyer with RSA-OAEP
package cryptography
