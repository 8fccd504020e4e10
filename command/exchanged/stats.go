// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/exchanged/counter"
)

type statistics struct {
	log      *logger.L
	stats    *counter.Statistics
	interval time.Duration
}

func newStatistics(stats *counter.Statistics, seconds int) *statistics {
	if seconds <= 0 {
		seconds = defaultStatisticsInterval
	}
	return &statistics{
		log:      logger.New("statistics"),
		stats:    stats,
		interval: time.Duration(seconds) * time.Second,
	}
}

// Run - periodic exchange counts
func (s *statistics) Run(args interface{}, shutdown <-chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
			s.log.Infof("stats: %s", s.stats)
		}
	}
	s.log.Infof("final: %s", s.stats)
}
