// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wire - binary framing for the two exchange messages
//
// A purchase request is four little-endian uint32 lengths followed by
// the licence id, encrypted signature, buyer public key and callback
// address in that order:
//
//   [0:4)   licence id length
//   [4:8)   encrypted signature length
//   [8:12)  public key length
//   [12:16) callback address length
//   [16:)   fields, back to back
//
// An asset envelope is a little-endian uint32 metadata length, the
// metadata bytes and then the ciphertext which runs to the end of the
// frame.
package wire
