// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/exchanged/fault"
	"github.com/bitmark-inc/exchanged/transport"
)

// how often a blocked receive wakes to check for cancellation
const pollInterval = 200 * time.Millisecond

func init() {
	transport.Register("zmq", func(limits transport.Limits) (transport.Transport, error) {
		return New(limits), nil
	})
}

// Transport - zeromq PUSH/PULL frames, one message per frame
type Transport struct {
	limits transport.Limits
}

// New - zeromq transport
func New(limits transport.Limits) *Transport {
	return &Transport{limits: limits}
}

// Listener - bound PULL socket
type Listener struct {
	// held by Receive while it owns the sockets
	busy sync.Mutex

	once    sync.Once
	closed  chan struct{}
	pull    *zmq.Socket
	sigPush *zmq.Socket
	sigPull *zmq.Socket
	poller  *Poller
	address string
	limits  transport.Limits
}

// Listen - bind a PULL socket, port 0 or * selects a free port
func (t *Transport) Listen(address string) (transport.Listener, error) {

	pull, err := zmq.NewSocket(zmq.PULL)
	if nil != err {
		return nil, err
	}

	sigPush := (*zmq.Socket)(nil)
	sigPull := (*zmq.Socket)(nil)
	endpoint := ""

	pull.SetLinger(0)
	err = pull.SetMaxmsgsize(int64(t.limits.MaxFrameSize))
	if nil != err {
		goto failure
	}
	err = pull.Bind(canonicalAddress(address))
	if nil != err {
		goto failure
	}
	endpoint, err = pull.GetLastEndpoint()
	if nil != err {
		goto failure
	}

	sigPush, sigPull, err = NewSignalPair(uniqueSignal("listener"))
	if nil != err {
		goto failure
	}

	return &Listener{
		closed:  make(chan struct{}),
		pull:    pull,
		sigPush: sigPush,
		sigPull: sigPull,
		poller:  newListenerPoller(pull, sigPull),
		address: endpoint,
		limits:  t.limits,
	}, nil

failure:
	pull.Close()
	return nil, fmt.Errorf("%w: %s", fault.ErrListenerClosed, err)
}

func newListenerPoller(pull *zmq.Socket, signal *zmq.Socket) *Poller {
	poller := NewPoller()
	poller.Add(pull, zmq.POLLIN)
	poller.Add(signal, zmq.POLLIN)
	return poller
}

// Address - endpoint actually bound, including the scheme
func (l *Listener) Address() string {
	return l.address
}

// Receive - next frame from any sender
func (l *Listener) Receive(ctx context.Context) ([]byte, error) {
	l.busy.Lock()
	defer l.busy.Unlock()

	for {
		select {
		case <-l.closed:
			return nil, fault.ErrListenerClosed
		default:
		}
		if err := ctx.Err(); nil != err {
			return nil, err
		}

		polled, err := l.poller.Poll(pollInterval)
		if nil != err {
			if zmq.ErrorNoSocket == err {
				return nil, fault.ErrListenerClosed
			}
			continue
		}

		for _, p := range polled {
			switch p.Socket {
			case l.sigPull:
				return nil, fault.ErrListenerClosed
			case l.pull:
				frame, err := l.pull.RecvBytes(0)
				if nil != err {
					return nil, fmt.Errorf("%w: %s", fault.ErrConnectionClosed, err)
				}
				if len(frame) > l.limits.MaxFrameSize {
					return nil, fault.ErrFrameTooLarge
				}
				return frame, nil
			}
		}
	}
}

// Close - wake any pending Receive and release the sockets
func (l *Listener) Close() error {
	l.once.Do(func() {
		close(l.closed)
		l.sigPush.SendBytes([]byte("stop"), zmq.DONTWAIT)

		l.busy.Lock()
		defer l.busy.Unlock()

		l.poller.Remove(l.pull)
		l.poller.Remove(l.sigPull)
		l.pull.Close()
		l.sigPull.Close()
		l.sigPush.Close()
	})
	return nil
}

// Send - connect a PUSH socket, deliver frame, then disconnect
func (t *Transport) Send(ctx context.Context, address string, frame []byte) error {
	if len(frame) > t.limits.MaxFrameSize {
		return fault.ErrFrameTooLarge
	}

	timeout := t.limits.SendTimeout
	if d, ok := ctx.Deadline(); ok {
		if remaining := time.Until(d); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return context.DeadlineExceeded
	}

	push, err := zmq.NewSocket(zmq.PUSH)
	if nil != err {
		return fmt.Errorf("%w: %s", fault.ErrSendFailed, err)
	}
	defer push.Close()

	// do not queue on a connection that never completes
	err = push.SetImmediate(true)
	if nil != err {
		goto failure
	}
	err = push.SetSndtimeo(timeout)
	if nil != err {
		goto failure
	}
	err = push.SetLinger(timeout)
	if nil != err {
		goto failure
	}
	err = push.Connect(canonicalAddress(address))
	if nil != err {
		goto failure
	}
	_, err = push.SendBytes(frame, 0)
	if nil != err {
		goto failure
	}
	return nil

failure:
	return fmt.Errorf("%w: %s", fault.ErrSendFailed, err)
}
