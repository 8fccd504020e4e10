// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package transmitter - seller side delivery of an asset to a verified buyer
package transmitter

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/bitmark-inc/exchanged/asset"
	"github.com/bitmark-inc/exchanged/counter"
	"github.com/bitmark-inc/exchanged/cryptography"
	"github.com/bitmark-inc/exchanged/fault"
	"github.com/bitmark-inc/exchanged/keystore"
	"github.com/bitmark-inc/exchanged/messagebus"
	"github.com/bitmark-inc/exchanged/metadata"
	"github.com/bitmark-inc/exchanged/oracle"
	"github.com/bitmark-inc/exchanged/storage"
	"github.com/bitmark-inc/exchanged/transport"
	"github.com/bitmark-inc/exchanged/wire"
)

// Config - Oracle is only needed with Confirm, Ledger and Statistics may be nil
type Config struct {
	Transport  transport.Transport
	Source     asset.Source
	Bus        *messagebus.Bus
	Oracle     oracle.Oracle
	Confirm    bool
	Ledger     *storage.Ledger
	Statistics *counter.Statistics
}

// Transmitter - consumer of verified licences
type Transmitter struct {
	log       *logger.L
	transport transport.Transport
	source    asset.Source
	events    <-chan messagebus.VerifiedLicence
	oracle    oracle.Oracle
	confirm   bool
	ledger    *storage.Ledger
	stats     *counter.Statistics
}

// New - subscribe to the bus, licences published from now on are delivered
// once Run starts
func New(conf *Config) (*Transmitter, error) {
	if nil == conf.Transport || nil == conf.Source || nil == conf.Bus {
		return nil, fault.ErrInvalidStructPointer
	}
	if conf.Confirm && nil == conf.Oracle {
		return nil, fault.ErrNoOracleAccount
	}

	stats := conf.Statistics
	if nil == stats {
		stats = &counter.Statistics{}
	}

	return &Transmitter{
		log:       logger.New("transmitter"),
		transport: conf.Transport,
		source:    conf.Source,
		events:    conf.Bus.Subscribe(),
		oracle:    conf.Oracle,
		confirm:   conf.Confirm,
		ledger:    conf.Ledger,
		stats:     stats,
	}, nil
}

// Run - background process: deliver each licence in arrival order
func (t *Transmitter) Run(args interface{}, shutdown <-chan struct{}) {
	log := t.log

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-shutdown
		cancel()
	}()
	defer cancel()

	log.Info("starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case licence, ok := <-t.events:
			if !ok {
				break loop
			}
			err := t.Transmit(ctx, licence)
			if nil != err {
				log.Errorf("licence: %q  callback: %s  delivery error: %s", licence.LicenceID, licence.CallbackAddress, err)
			}
		}
	}
	log.Info("stopped")
}

// Transmit - encrypt the current asset value for the buyer and send it
//
// a failure at any step aborts the delivery, nothing is retried
func (t *Transmitter) Transmit(ctx context.Context, licence messagebus.VerifiedLicence) error {
	t.stats.InFlight.Increment()
	defer t.stats.InFlight.Decrement()

	record := &storage.Record{
		Timestamp:       time.Now().Unix(),
		LicenceId:       licence.LicenceID,
		CallbackAddress: licence.CallbackAddress,
		KeyFingerprint:  crypto.Keccak256([]byte(licence.BuyerPublicKey)),
	}

	item, err := t.deliver(ctx, licence)
	if nil != err {
		t.stats.Failed.Increment()
		record.Status = storage.StatusFailed
		record.Error = err.Error()
		t.store(record)
		return err
	}

	t.stats.Delivered.Increment()
	t.log.Infof("delivered licence: %q  type: %s  to: %s", licence.LicenceID, item.Value.Type, licence.CallbackAddress)

	record.Status = storage.StatusDelivered
	record.SystemType = item.Value.Type.String()
	record.DataSource = item.DataSource
	record.ResultUnit = item.ResultUnit

	if t.confirm {
		confirmed, err := t.oracle.ConfirmTransaction(ctx, licence.LicenceID)
		if nil != err {
			t.log.Warnf("licence: %q  confirm error: %s", licence.LicenceID, err)
			record.Error = err.Error()
		} else if confirmed {
			t.stats.Confirmed.Increment()
			record.Confirmed = true
		}
	}
	t.store(record)
	return nil
}

func (t *Transmitter) deliver(ctx context.Context, licence messagebus.VerifiedLicence) (*asset.Item, error) {
	public, err := keystore.ParsePublicKey(licence.BuyerPublicKey)
	if nil != err {
		return nil, err
	}

	item, err := t.source.Fetch(ctx, licence.LicenceID)
	if nil != err {
		return nil, err
	}

	plaintext, err := asset.Encode(item.Value)
	if nil != err {
		return nil, err
	}

	sealed, err := cryptography.Seal(public, plaintext)
	if nil != err {
		return nil, err
	}

	meta, err := metadata.New(sealed, item, public.N.BitLen()).Marshal()
	if nil != err {
		return nil, err
	}

	frame, err := wire.PackEnvelope(&wire.AssetEnvelope{
		Metadata:   meta,
		Ciphertext: sealed.Ciphertext,
	})
	if nil != err {
		return nil, err
	}

	err = t.transport.Send(ctx, licence.CallbackAddress, frame)
	if nil != err {
		return nil, err
	}
	return item, nil
}

// ledger failures are logged, the delivery itself already happened
func (t *Transmitter) store(record *storage.Record) {
	if nil == t.ledger {
		return
	}
	_, err := t.ledger.Append(t.ledger.Deliveries, record)
	if nil != err {
		t.log.Errorf("ledger append error: %s", err)
	}
}
