// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError
type CryptoError GenericError
type OracleError GenericError
type TransportError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised     = ExistsError("already initialised")
	ErrBusClosed              = ProcessError("message bus is closed")
	ErrCannotDecodeAsset      = InvalidError("cannot decode asset value")
	ErrCannotDecodeMetadata   = InvalidError("cannot decode metadata")
	ErrCannotDecodePrivateKey = InvalidError("cannot decode private key")
	ErrCannotDecodePublicKey  = InvalidError("cannot decode public key")
	ErrCannotDecodeSigningKey = InvalidError("cannot decode signing key")
	ErrCiphertextLength       = LengthError("ciphertext length is invalid")
	ErrConfigurationNotTable  = InvalidError("configuration did not return a table")
	ErrConnectionClosed       = TransportError("connection closed")
	ErrContractCallFailed     = OracleError("contract call failed")
	ErrDecryptionFailed       = CryptoError("decryption failed")
	ErrEncryptionFailed       = CryptoError("encryption failed")
	ErrFieldTooLong           = LengthError("field too long")
	ErrFrameTooLarge          = LengthError("frame too large")
	ErrInvalidAddress         = InvalidError("invalid address")
	ErrInvalidCount           = InvalidError("invalid count")
	ErrInvalidKeyLength       = LengthError("invalid key length")
	ErrInvalidLoggerChannel   = InvalidError("invalid logger channel")
	ErrInvalidPadding         = CryptoError("invalid padding")
	ErrInvalidPublicKey       = InvalidError("invalid public key")
	ErrInvalidPrivateKey      = InvalidError("invalid private key")
	ErrInvalidSignature       = InvalidError("invalid signature")
	ErrInvalidStructPointer   = InvalidError("invalid struct pointer")
	ErrInvalidTransport       = InvalidError("invalid transport")
	ErrInvalidUTF8            = InvalidError("invalid utf-8 text")
	ErrKeyFileExists          = ExistsError("key file already exists")
	ErrLedgerClosed           = RecordError("ledger is closed")
	ErrLicenceIDTooLong       = LengthError("licence id exceeds 32 bytes")
	ErrListenerClosed         = TransportError("listener closed")
	ErrMissingBuyerPublicKey  = InvalidError("missing buyer public key")
	ErrMissingCallbackAddress = InvalidError("missing callback address")
	ErrMissingLicenceID       = InvalidError("missing licence id")
	ErrMissingMetadataField   = InvalidError("missing metadata field")
	ErrMissingSignature       = InvalidError("missing signature")
	ErrNoOracleAccount        = InvalidError("no oracle account configured")
	ErrNotAPrivateKey         = InvalidError("not a private key")
	ErrNotAPublicKey          = InvalidError("not a public key")
	ErrNotEncrypted           = InvalidError("asset is not encrypted")
	ErrNotFoundConfigFile     = NotFoundError("configuration file is not found")
	ErrNotFoundRecord         = NotFoundError("record not found")
	ErrOracleUnavailable      = OracleError("oracle unavailable")
	ErrPassphraseRequired     = InvalidError("passphrase required")
	ErrRateLimiting           = ProcessError("rate limiting")
	ErrReceiveTimeout         = TransportError("receive timeout")
	ErrRecordCorrupt          = RecordError("record is corrupt")
	ErrSendFailed             = TransportError("send failed")
	ErrSignatureMismatch      = CryptoError("signature mismatch")
	ErrTrailingData           = LengthError("trailing data after fields")
	ErrTransactionFailed      = OracleError("transaction failed")
	ErrTruncatedFrame         = LengthError("truncated frame")
	ErrUnknownAlgorithm       = InvalidError("unknown algorithm")
	ErrUnknownSystemType      = InvalidError("unknown system type")
	ErrValueLength            = LengthError("value length does not match system type")
	ErrValueTypeMismatch      = InvalidError("value does not match system type")
	ErrWrongPassphrase        = CryptoError("wrong passphrase")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string    { return string(e) }
func (e InvalidError) Error() string   { return string(e) }
func (e LengthError) Error() string    { return string(e) }
func (e NotFoundError) Error() string  { return string(e) }
func (e ProcessError) Error() string   { return string(e) }
func (e RecordError) Error() string    { return string(e) }
func (e CryptoError) Error() string    { return string(e) }
func (e OracleError) Error() string    { return string(e) }
func (e TransportError) Error() string { return string(e) }

// determine the class of an error, looking through any wrapping
func IsErrExists(e error) bool    { var x ExistsError; return errors.As(e, &x) }
func IsErrInvalid(e error) bool   { var x InvalidError; return errors.As(e, &x) }
func IsErrLength(e error) bool    { var x LengthError; return errors.As(e, &x) }
func IsErrNotFound(e error) bool  { var x NotFoundError; return errors.As(e, &x) }
func IsErrProcess(e error) bool   { var x ProcessError; return errors.As(e, &x) }
func IsErrRecord(e error) bool    { var x RecordError; return errors.As(e, &x) }
func IsErrCrypto(e error) bool    { var x CryptoError; return errors.As(e, &x) }
func IsErrOracle(e error) bool    { var x OracleError; return errors.As(e, &x) }
func IsErrTransport(e error) bool { var x TransportError; return errors.As(e, &x) }
