// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package oracle

import (
	"time"
)

// defaults for zero configuration values
const (
	defaultTimeout        = 10 * time.Second
	defaultRetries        = 3
	defaultRetryDelay     = 500 * time.Millisecond
	defaultUnlockDuration = 120 * time.Second
	defaultReceiptTimeout = 120 * time.Second
	defaultReceiptPoll    = time.Second
)

// Configuration - node connection and contract details
type Configuration struct {
	URL            string `gluamapper:"url" json:"url"`
	Contract       string `gluamapper:"contract" json:"contract"`
	Account        string `gluamapper:"account" json:"account"`
	Password       string `gluamapper:"password" json:"password"`
	Gas            uint64 `gluamapper:"gas" json:"gas"`
	UnlockDuration int    `gluamapper:"unlock_duration" json:"unlock_duration"` // seconds
	Timeout        int    `gluamapper:"timeout" json:"timeout"`                 // seconds, per call
	Retries        int    `gluamapper:"retries" json:"retries"`
	RetryDelay     int    `gluamapper:"retry_delay" json:"retry_delay"`         // milliseconds, doubles per retry
	ReceiptTimeout int    `gluamapper:"receipt_timeout" json:"receipt_timeout"` // seconds
	ReceiptPoll    int    `gluamapper:"receipt_poll" json:"receipt_poll"`       // milliseconds
}

func seconds(n int, def time.Duration) time.Duration {
	if n <= 0 {
		return def
	}
	return time.Duration(n) * time.Second
}

func milliseconds(n int, def time.Duration) time.Duration {
	if n <= 0 {
		return def
	}
	return time.Duration(n) * time.Millisecond
}
