// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// the zeromq transport lives in zmqutil and registers itself as "zmq"
// when that package is imported
package transport
