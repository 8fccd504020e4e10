// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package asset - the typed values sold through an exchange
//
// A value is tagged with one of a fixed set of system types which
// selects its plaintext encoding: numerics are fixed width little
// endian, booleans a single 0/1 byte and strings raw UTF-8.
//
// Sources supply the value for a licence at the moment of delivery.
package asset
