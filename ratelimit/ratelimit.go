// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ratelimit - token buckets keyed by requester
package ratelimit

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/exchanged/fault"
)

// idle buckets are discarded after this
const (
	bucketExpiry  = 10 * time.Minute
	cleanInterval = time.Minute
)

// Configuration - zero PerSecond disables limiting
type Configuration struct {
	PerSecond float64 `gluamapper:"per_second" json:"per_second"`
	Burst     int     `gluamapper:"burst" json:"burst"`
}

// Limiter - one bucket per key
type Limiter struct {
	sync.Mutex
	limit   rate.Limit
	burst   int
	buckets *cache.Cache
}

// New - limiter from configuration, nil when limiting is disabled
func New(conf *Configuration) *Limiter {
	if nil == conf || conf.PerSecond <= 0 {
		return nil
	}
	burst := conf.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		limit:   rate.Limit(conf.PerSecond),
		burst:   burst,
		buckets: cache.New(bucketExpiry, cleanInterval),
	}
}

// Allow - take one token for key without waiting
//
// a nil limiter allows everything
func (l *Limiter) Allow(key string) error {
	if nil == l {
		return nil
	}

	l.Lock()
	bucket, ok := l.buckets.Get(key)
	if !ok {
		bucket = rate.NewLimiter(l.limit, l.burst)
	}
	// refresh expiry on every use
	l.buckets.SetDefault(key, bucket)
	l.Unlock()

	if !bucket.(*rate.Limiter).Allow() {
		return fault.ErrRateLimiting
	}
	return nil
}

// Tracked - number of keys currently holding a bucket
func (l *Limiter) Tracked() int {
	if nil == l {
		return 0
	}
	return l.buckets.ItemCount()
}
