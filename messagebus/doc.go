// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package messagebus - ordered delivery of verified licences from the
// verifier to every subscriber, usually just the transmitter
package messagebus
