// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus

import (
	"context"
	"sync"

	"github.com/bitmark-inc/exchanged/fault"
)

// internal constants
const (
	queueSize = 100
)

// VerifiedLicence - a buyer whose licence the oracle confirmed
type VerifiedLicence struct {
	LicenceID       string
	BuyerPublicKey  string
	CallbackAddress string
}

// Bus - fan out of verified licences
//
// each subscriber receives every licence published after it subscribed,
// in publication order
type Bus struct {
	sync.RWMutex
	subscribers []chan VerifiedLicence
	closed      bool
}

// New - empty bus
func New() *Bus {
	return &Bus{}
}

// Subscribe - channel receiving all later publications, closed by Close
func (bus *Bus) Subscribe() <-chan VerifiedLicence {
	bus.Lock()
	defer bus.Unlock()

	queue := make(chan VerifiedLicence, queueSize)
	if bus.closed {
		close(queue)
		return queue
	}
	bus.subscribers = append(bus.subscribers, queue)
	return queue
}

// Publish - queue item for every subscriber
//
// blocks while a subscriber queue is full, returning early only when
// ctx is done
func (bus *Bus) Publish(ctx context.Context, item VerifiedLicence) error {
	bus.RLock()
	defer bus.RUnlock()

	if bus.closed {
		return fault.ErrBusClosed
	}

	for _, queue := range bus.subscribers {
		select {
		case queue <- item:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Subscribers - current number of subscribers
func (bus *Bus) Subscribers() int {
	bus.RLock()
	defer bus.RUnlock()
	return len(bus.subscribers)
}

// Close - close every subscriber channel, later publications fail
func (bus *Bus) Close() {
	bus.Lock()
	defer bus.Unlock()

	if bus.closed {
		return
	}
	bus.closed = true
	for _, queue := range bus.subscribers {
		close(queue)
	}
	bus.subscribers = nil
}
