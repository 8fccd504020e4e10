// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter

import (
	"fmt"
	"sync/atomic"
)

// Counter - 64 bit unsigned value safe for concurrent update
type Counter uint64

// Increment - add 1, returns new value
func (c *Counter) Increment() uint64 {
	return atomic.AddUint64((*uint64)(c), 1)
}

// Decrement - subtract 1, returns new value
func (c *Counter) Decrement() uint64 {
	return atomic.AddUint64((*uint64)(c), ^uint64(0))
}

// Uint64 - current value
func (c *Counter) Uint64() uint64 {
	return atomic.LoadUint64((*uint64)(c))
}

// Statistics - exchange outcome counts shared by the seller loops
//
// InFlight is a gauge, every other field only increases
type Statistics struct {
	Received  Counter // frames accepted from the transport
	Rejected  Counter // frames failing parse, crypto or rate checks
	Granted   Counter // oracle returned true
	Denied    Counter // oracle returned false
	Delivered Counter // envelopes sent
	Failed    Counter // deliveries aborted
	Confirmed Counter // ledger transactions confirmed
	InFlight  Counter // deliveries being prepared or sent
}

// Snapshot - current values by name
func (s *Statistics) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"received":  s.Received.Uint64(),
		"rejected":  s.Rejected.Uint64(),
		"granted":   s.Granted.Uint64(),
		"denied":    s.Denied.Uint64(),
		"delivered": s.Delivered.Uint64(),
		"failed":    s.Failed.Uint64(),
		"confirmed": s.Confirmed.Uint64(),
		"in_flight": s.InFlight.Uint64(),
	}
}

// String - single line summary for logging
func (s *Statistics) String() string {
	return fmt.Sprintf("received: %d  rejected: %d  granted: %d  denied: %d  delivered: %d  failed: %d  confirmed: %d  in flight: %d",
		s.Received.Uint64(),
		s.Rejected.Uint64(),
		s.Granted.Uint64(),
		s.Denied.Uint64(),
		s.Delivered.Uint64(),
		s.Failed.Uint64(),
		s.Confirmed.Uint64(),
		s.InFlight.Uint64(),
	)
}
