// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package verifier - seller side acceptance of purchase requests
//
// each request frame is parsed, its signature decrypted with the seller
// key, the signer recovered and the licence checked with the oracle.
// Only a granted licence is published on the bus; a denied request
// produces nothing at all.
package verifier

import (
	"context"
	"crypto/rsa"
	"sync/atomic"
	"unicode/utf8"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/exchanged/counter"
	"github.com/bitmark-inc/exchanged/cryptography"
	"github.com/bitmark-inc/exchanged/fault"
	"github.com/bitmark-inc/exchanged/messagebus"
	"github.com/bitmark-inc/exchanged/oracle"
	"github.com/bitmark-inc/exchanged/ratelimit"
	"github.com/bitmark-inc/exchanged/signature"
	"github.com/bitmark-inc/exchanged/transport"
	"github.com/bitmark-inc/exchanged/wire"
)

// Config - everything a verifier needs, Limiter and Statistics may be nil
type Config struct {
	Transport  transport.Transport
	Listen     string
	PrivateKey *rsa.PrivateKey
	Oracle     oracle.Oracle
	Bus        *messagebus.Bus
	Limiter    *ratelimit.Limiter
	Statistics *counter.Statistics
}

// Verifier - sequential request loop
type Verifier struct {
	log        *logger.L
	listener   transport.Listener
	privateKey *rsa.PrivateKey
	oracle     oracle.Oracle
	bus        *messagebus.Bus
	limiter    *ratelimit.Limiter
	stats      *counter.Statistics
	state      int32
}

// New - bind the listen address so requests queue before Run starts
func New(conf *Config) (*Verifier, error) {
	if nil == conf.PrivateKey {
		return nil, fault.ErrInvalidPrivateKey
	}
	if nil == conf.Oracle || nil == conf.Bus || nil == conf.Transport {
		return nil, fault.ErrInvalidStructPointer
	}

	listener, err := conf.Transport.Listen(conf.Listen)
	if nil != err {
		return nil, err
	}

	stats := conf.Statistics
	if nil == stats {
		stats = &counter.Statistics{}
	}

	v := &Verifier{
		log:        logger.New("verifier"),
		listener:   listener,
		privateKey: conf.PrivateKey,
		oracle:     conf.Oracle,
		bus:        conf.Bus,
		limiter:    conf.Limiter,
		stats:      stats,
	}
	v.log.Infof("listening on: %s", listener.Address())
	return v, nil
}

// Address - where buyers send requests
func (v *Verifier) Address() string {
	return v.listener.Address()
}

// State - current position in the request cycle
func (v *Verifier) State() State {
	return State(atomic.LoadInt32(&v.state))
}

func (v *Verifier) setState(s State) {
	atomic.StoreInt32(&v.state, int32(s))
}

// Run - background process: handle frames one at a time until shutdown
//
// the listener is closed when Run returns
func (v *Verifier) Run(args interface{}, shutdown <-chan struct{}) {
	log := v.log

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-shutdown
		cancel()
	}()
	defer cancel()

	log.Info("starting…")

loop:
	for {
		v.setState(Listening)

		frame, err := v.listener.Receive(ctx)
		if nil != err {
			if nil != ctx.Err() || fault.ErrListenerClosed == err {
				break loop
			}
			log.Errorf("receive error: %s", err)
			continue loop
		}
		v.stats.Received.Increment()

		licence, err := v.Process(ctx, frame)
		switch {
		case nil != err:
			v.stats.Rejected.Increment()
			log.Warnf("request rejected: %s", err)
		case nil == licence:
			log.Info("licence denied")
		default:
			log.Infof("licence granted: %q  callback: %s", licence.LicenceID, licence.CallbackAddress)
		}
	}

	v.listener.Close()
	v.setState(Listening)
	log.Infof("stopped  %s", v.stats)
}

// Process - run one frame through the state machine
//
// returns the published licence when granted, nil with nil error when
// denied, otherwise an error describing the first failed step
func (v *Verifier) Process(ctx context.Context, frame []byte) (*messagebus.VerifiedLicence, error) {
	log := v.log

	request, err := wire.UnpackRequest(frame)
	if nil != err {
		return nil, err
	}
	err = validate(request)
	if nil != err {
		return nil, err
	}
	v.setState(RequestParsed)

	licenceID := string(request.LicenceID)

	sig, err := cryptography.DecryptOAEP(v.privateKey, request.EncryptedSignature)
	if nil != err {
		return nil, err
	}
	v.setState(SignatureDecrypted)

	address, err := signature.Recover(licenceID, string(sig))
	if nil != err {
		return nil, err
	}
	v.setState(IdentityRecovered)
	log.Debugf("licence: %q  signed by: %s", licenceID, address.Hex())

	err = v.limiter.Allow(address.Hex())
	if nil != err {
		return nil, err
	}

	granted, err := v.oracle.CheckLicence(ctx, licenceID, address)
	v.setState(OracleQueried)
	if nil != err {
		return nil, err
	}

	if !granted {
		v.setState(LicenceDenied)
		v.stats.Denied.Increment()
		return nil, nil
	}
	v.setState(LicenceGranted)
	v.stats.Granted.Increment()

	licence := messagebus.VerifiedLicence{
		LicenceID:       licenceID,
		BuyerPublicKey:  string(request.BuyerPublicKey),
		CallbackAddress: string(request.CallbackAddress),
	}
	err = v.bus.Publish(ctx, licence)
	if nil != err {
		return nil, err
	}
	return &licence, nil
}

// reject requests that could never be delivered before touching the oracle
func validate(request *wire.PurchaseRequest) error {
	switch {
	case 0 == len(request.LicenceID):
		return fault.ErrMissingLicenceID
	case 0 == len(request.EncryptedSignature):
		return fault.ErrMissingSignature
	case 0 == len(request.BuyerPublicKey):
		return fault.ErrMissingBuyerPublicKey
	case 0 == len(request.CallbackAddress):
		return fault.ErrMissingCallbackAddress
	}
	for _, field := range [][]byte{request.LicenceID, request.BuyerPublicKey, request.CallbackAddress} {
		if !utf8.Valid(field) {
			return fault.ErrInvalidUTF8
		}
	}
	return nil
}
