// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"fmt"
	"strings"
	"sync/atomic"

	zmq "github.com/pebbe/zmq4"
)

var signalCounter uint64

// NewSignalPair - return a pair of connected push/pull sockets
// for shutdown signalling
func NewSignalPair(signal string) (*zmq.Socket, *zmq.Socket, error) {

	// send half of signalling channel
	push, err := zmq.NewSocket(zmq.PUSH)
	if nil != err {
		return nil, nil, err
	}
	push.SetLinger(0)
	err = push.Bind(signal)
	if nil != err {
		push.Close()
		return nil, nil, err
	}

	// receive half of signalling channel
	pull, err := zmq.NewSocket(zmq.PULL)
	if nil != err {
		push.Close()
		return nil, nil, err
	}
	pull.SetLinger(0)
	err = pull.Connect(signal)
	if nil != err {
		push.Close()
		pull.Close()
		return nil, nil, err
	}

	return push, pull, nil
}

// uniqueSignal - fresh inproc endpoint name
func uniqueSignal(prefix string) string {
	n := atomic.AddUint64(&signalCounter, 1)
	return fmt.Sprintf("inproc://%s-signal-%d", prefix, n)
}

// canonicalAddress - add the tcp scheme if missing and map port 0 to
// the zmq wildcard port
func canonicalAddress(address string) string {
	if !strings.Contains(address, "://") {
		address = "tcp://" + address
	}
	if strings.HasSuffix(address, ":0") {
		address = strings.TrimSuffix(address, ":0") + ":*"
	}
	return address
}
