// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net"
	"sync"
	"time"

	"github.com/bitmark-inc/exchanged/fault"
)

// how often a blocked accept wakes to check for cancellation
const acceptPoll = 200 * time.Millisecond

// TCP - one frame per connection, the frame ends when the sender closes
type TCP struct {
	limits Limits
}

// NewTCP - TCP transport
func NewTCP(limits Limits) *TCP {
	return &TCP{limits: limits}
}

type tcpListener struct {
	sync.Mutex
	listener *net.TCPListener
	limits   Limits
	closed   bool
}

// Listen - bind a TCP address, port 0 selects a free port
func (t *TCP) Listen(address string) (Listener, error) {
	l, err := net.Listen("tcp", address)
	if nil != err {
		return nil, fmt.Errorf("%w: %s", fault.ErrListenerClosed, err)
	}
	return &tcpListener{
		listener: l.(*net.TCPListener),
		limits:   t.limits,
	}, nil
}

func (l *tcpListener) Address() string {
	return l.listener.Addr().String()
}

func (l *tcpListener) Close() error {
	l.Lock()
	defer l.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return l.listener.Close()
}

func (l *tcpListener) isClosed() bool {
	l.Lock()
	defer l.Unlock()
	return l.closed
}

// Receive - accept one connection and read its frame
func (l *tcpListener) Receive(ctx context.Context) ([]byte, error) {
	for {
		if err := ctx.Err(); nil != err {
			return nil, err
		}
		if l.isClosed() {
			return nil, fault.ErrListenerClosed
		}

		_ = l.listener.SetDeadline(time.Now().Add(acceptPoll))
		conn, err := l.listener.Accept()
		if nil != err {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			if l.isClosed() {
				return nil, fault.ErrListenerClosed
			}
			return nil, fmt.Errorf("%w: %s", fault.ErrConnectionClosed, err)
		}
		return l.read(ctx, conn)
	}
}

func (l *tcpListener) read(ctx context.Context, conn net.Conn) ([]byte, error) {
	defer conn.Close()

	deadline := time.Now().Add(l.limits.ReadTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetReadDeadline(deadline)

	frame, err := ioutil.ReadAll(io.LimitReader(conn, int64(l.limits.MaxFrameSize)+1))
	if nil != err {
		return nil, fmt.Errorf("%w: %s", fault.ErrConnectionClosed, err)
	}
	if len(frame) > l.limits.MaxFrameSize {
		return nil, fault.ErrFrameTooLarge
	}
	return frame, nil
}

// Send - dial, write the whole frame and close
func (t *TCP) Send(ctx context.Context, address string, frame []byte) error {
	if len(frame) > t.limits.MaxFrameSize {
		return fault.ErrFrameTooLarge
	}

	ctx, cancel := context.WithTimeout(ctx, t.limits.SendTimeout)
	defer cancel()

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if nil != err {
		return fmt.Errorf("%w: %s", fault.ErrSendFailed, err)
	}
	defer conn.Close()

	if d, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(d)
	}
	if _, err := conn.Write(frame); nil != err {
		return fmt.Errorf("%w: %s", fault.ErrSendFailed, err)
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		if err := tc.CloseWrite(); nil != err {
			return fmt.Errorf("%w: %s", fault.ErrSendFailed, err)
		}
	}
	return nil
}
