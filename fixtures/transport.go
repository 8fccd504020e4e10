// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fixtures

import (
	"context"
	"fmt"
	"sync"

	"github.com/bitmark-inc/exchanged/fault"
	"github.com/bitmark-inc/exchanged/transport"
)

// Sent - a frame delivered through the memory transport
type Sent struct {
	Address string
	Frame   []byte
}

// Memory - in-process transport, addresses are arbitrary strings
type Memory struct {
	sync.Mutex
	listeners map[string]*memoryListener
	sent      []Sent
	next      int
}

// NewMemory - empty in-process transport
func NewMemory() *Memory {
	return &Memory{
		listeners: make(map[string]*memoryListener),
	}
}

type memoryListener struct {
	owner   *Memory
	address string
	queue   chan []byte
	done    chan struct{}
	once    sync.Once
}

// Listen - bind address, "" allocates a fresh one
func (m *Memory) Listen(address string) (transport.Listener, error) {
	m.Lock()
	defer m.Unlock()

	if "" == address {
		m.next += 1
		address = fmt.Sprintf("memory-%d", m.next)
	}
	if _, ok := m.listeners[address]; ok {
		return nil, fault.ErrInvalidAddress
	}
	l := &memoryListener{
		owner:   m,
		address: address,
		queue:   make(chan []byte, 16),
		done:    make(chan struct{}),
	}
	m.listeners[address] = l
	return l, nil
}

// Send - queue a copy of frame on the listener bound to address
func (m *Memory) Send(ctx context.Context, address string, frame []byte) error {
	m.Lock()
	l, ok := m.listeners[address]
	m.sent = append(m.sent, Sent{Address: address, Frame: append([]byte{}, frame...)})
	m.Unlock()

	if !ok {
		return fault.ErrSendFailed
	}
	select {
	case l.queue <- append([]byte{}, frame...):
		return nil
	case <-l.done:
		return fault.ErrSendFailed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sent - every frame sent so far, including undeliverable ones
func (m *Memory) Sent() []Sent {
	m.Lock()
	defer m.Unlock()
	return append([]Sent{}, m.sent...)
}

func (l *memoryListener) Receive(ctx context.Context) ([]byte, error) {
	select {
	case frame := <-l.queue:
		return frame, nil
	case <-l.done:
		return nil, fault.ErrListenerClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *memoryListener) Address() string {
	return l.address
}

func (l *memoryListener) Close() error {
	l.once.Do(func() {
		l.owner.Lock()
		delete(l.owner.listeners, l.address)
		l.owner.Unlock()
		close(l.done)
	})
	return nil
}
