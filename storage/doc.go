// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - on-disk delivery and receipt ledger
//
// This maintains a LevelDB database split into a series of pools.
// Each pool is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the available pools.
//
// Notes:
// 1. each separate pool has a single byte prefix
// 2. ++       = concatenation of byte data
// 3. sequence = big endian uint64 (8 bytes), starting from 1
// 4. record   = protobuf encoded Record
//
// Seller:
//
//   D ++ sequence          - one entry per attempted delivery
//                            data: record
//
// Buyer:
//
//   R ++ sequence          - one entry per purchase
//                            data: record
//
// Database version:
//
//   0x00 ++ "VERSION"      - big endian uint32
package storage
