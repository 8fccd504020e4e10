// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package oracle

import (
	"context"
	"fmt"
	"time"

	"github.com/bitmark-inc/exchanged/fault"
)

// run f with a per attempt timeout, retrying with doubling delay
//
// the final error is classed as an oracle error
func (c *Client) retry(ctx context.Context, name string, f func(context.Context) error) error {
	delay := c.retryDelay
	var err error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			c.log.Warnf("%s: attempt: %d  after: %s  error: %s", name, attempt, delay, err)
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %s: %s", fault.ErrOracleUnavailable, name, ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err = f(callCtx)
		cancel()
		if nil == err {
			return nil
		}
		if nil != ctx.Err() {
			break
		}
	}

	if fault.IsErrOracle(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %s", fault.ErrOracleUnavailable, name, err)
}
