// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package requester - buyer side of an exchange
//
// a purchase binds the callback first, then sends the signed request and
// waits for exactly one envelope
package requester

import (
	"context"
	"crypto/ecdsa"
	"crypto/rsa"
	"errors"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/ethereum/go-ethereum/common"

	"github.com/bitmark-inc/exchanged/asset"
	"github.com/bitmark-inc/exchanged/cryptography"
	"github.com/bitmark-inc/exchanged/fault"
	"github.com/bitmark-inc/exchanged/keystore"
	"github.com/bitmark-inc/exchanged/metadata"
	"github.com/bitmark-inc/exchanged/oracle"
	"github.com/bitmark-inc/exchanged/signature"
	"github.com/bitmark-inc/exchanged/storage"
	"github.com/bitmark-inc/exchanged/transport"
	"github.com/bitmark-inc/exchanged/wire"
)

// DefaultReceiveTimeout - wait for an envelope when none is configured
const DefaultReceiveTimeout = 60 * time.Second

// Config - buyer identity and endpoints
//
// Advertise is the callback sent to the seller, the bound address is
// used when it is empty. Ledger may be nil.
type Config struct {
	Transport      transport.Transport
	Oracle         oracle.Oracle
	SigningKey     *ecdsa.PrivateKey
	PrivateKey     *rsa.PrivateKey
	PublicKey      string
	Server         string
	Listen         string
	Advertise      string
	ReceiveTimeout time.Duration
	Ledger         *storage.Ledger
}

// Requester - buyer
type Requester struct {
	log            *logger.L
	transport      transport.Transport
	oracle         oracle.Oracle
	signingKey     *ecdsa.PrivateKey
	privateKey     *rsa.PrivateKey
	publicKey      string
	server         string
	listen         string
	advertise      string
	receiveTimeout time.Duration
	ledger         *storage.Ledger
}

// Result - a decrypted asset
type Result struct {
	Value      asset.Value
	DataSource string
	ResultUnit string
}

// New - requester from configuration
func New(conf *Config) (*Requester, error) {
	if nil == conf.Transport || nil == conf.Oracle {
		return nil, fault.ErrInvalidStructPointer
	}
	if nil == conf.SigningKey {
		return nil, fault.ErrCannotDecodeSigningKey
	}
	if nil == conf.PrivateKey {
		return nil, fault.ErrInvalidPrivateKey
	}
	if "" == conf.PublicKey {
		return nil, fault.ErrMissingBuyerPublicKey
	}

	timeout := conf.ReceiveTimeout
	if timeout <= 0 {
		timeout = DefaultReceiveTimeout
	}

	return &Requester{
		log:            logger.New("requester"),
		transport:      conf.Transport,
		oracle:         conf.Oracle,
		signingKey:     conf.SigningKey,
		privateKey:     conf.PrivateKey,
		publicKey:      conf.PublicKey,
		server:         conf.Server,
		listen:         conf.Listen,
		advertise:      conf.Advertise,
		receiveTimeout: timeout,
		ledger:         conf.Ledger,
	}, nil
}

// Address - the account the licence must be registered to
func (r *Requester) Address() common.Address {
	return signature.Address(r.signingKey)
}

// Request - sign the licence id and send it to the seller
//
// the signature is encrypted under the seller key published by the oracle
func (r *Requester) Request(ctx context.Context, licenceID string, callback string) error {
	if "" == licenceID {
		return fault.ErrMissingLicenceID
	}
	if "" == callback {
		return fault.ErrMissingCallbackAddress
	}

	sig, err := signature.Sign(licenceID, r.signingKey)
	if nil != err {
		return err
	}

	sellerKeyText, err := r.oracle.GetPublicKey(ctx)
	if nil != err {
		return err
	}
	sellerKey, err := keystore.ParsePublicKey(sellerKeyText)
	if nil != err {
		return err
	}

	encrypted, err := cryptography.EncryptOAEP(sellerKey, []byte(sig))
	if nil != err {
		return err
	}

	frame, err := wire.PackRequest(&wire.PurchaseRequest{
		LicenceID:          []byte(licenceID),
		EncryptedSignature: encrypted,
		BuyerPublicKey:     []byte(r.publicKey),
		CallbackAddress:    []byte(callback),
	})
	if nil != err {
		return err
	}

	r.log.Infof("request licence: %q  from: %s  callback: %s", licenceID, r.server, callback)
	return r.transport.Send(ctx, r.server, frame)
}

// Receive - wait for one envelope on listener and decrypt it
//
// gives up with fault.ErrReceiveTimeout after the receive timeout
func (r *Requester) Receive(ctx context.Context, listener transport.Listener) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.receiveTimeout)
	defer cancel()

	frame, err := listener.Receive(ctx)
	if nil != err {
		// transports may wrap the deadline in their own error
		if errors.Is(err, context.DeadlineExceeded) || context.DeadlineExceeded == ctx.Err() {
			return nil, fault.ErrReceiveTimeout
		}
		return nil, err
	}
	return Open(r.privateKey, frame)
}

// Purchase - complete exchange for one licence
func (r *Requester) Purchase(ctx context.Context, licenceID string) (*Result, error) {
	listener, err := r.transport.Listen(r.listen)
	if nil != err {
		return nil, err
	}
	defer listener.Close()

	callback := r.advertise
	if "" == callback {
		callback = listener.Address()
	}

	err = r.Request(ctx, licenceID, callback)
	if nil != err {
		return nil, err
	}

	result, err := r.Receive(ctx, listener)
	if nil != err {
		r.log.Warnf("licence: %q  receive error: %s", licenceID, err)
		return nil, err
	}
	r.log.Infof("licence: %q  received: %s", licenceID, result.Value.Type)

	r.store(licenceID, callback, result)
	return result, nil
}

// Open - decrypt an envelope frame with the buyer private key
func Open(private *rsa.PrivateKey, frame []byte) (*Result, error) {
	envelope, err := wire.UnpackEnvelope(frame)
	if nil != err {
		return nil, err
	}

	info, err := metadata.Parse(envelope.Metadata)
	if nil != err {
		return nil, err
	}

	// unknown type is rejected before any decryption
	systemType, err := info.Type()
	if nil != err {
		return nil, err
	}

	sealed, err := info.Sealed(envelope.Ciphertext)
	if nil != err {
		return nil, err
	}

	plaintext, err := cryptography.Open(private, sealed)
	if nil != err {
		return nil, err
	}

	value, err := asset.Decode(systemType, plaintext)
	if nil != err {
		return nil, err
	}
	return &Result{
		Value:      value,
		DataSource: info.DataSource,
		ResultUnit: info.ResultUnit,
	}, nil
}

func (r *Requester) store(licenceID string, callback string, result *Result) {
	if nil == r.ledger {
		return
	}
	_, err := r.ledger.Append(r.ledger.Receipts, &storage.Record{
		Timestamp:       time.Now().Unix(),
		Status:          storage.StatusReceived,
		LicenceId:       licenceID,
		Address:         r.Address().Hex(),
		CallbackAddress: callback,
		SystemType:      result.Value.Type.String(),
		Value:           result.Value.String(),
		DataSource:      result.DataSource,
		ResultUnit:      result.ResultUnit,
	})
	if nil != err {
		r.log.Errorf("ledger append error: %s", err)
	}
}
