// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package verifier

// State - position of the verifier in handling one request
type State int32

// request handling states, in order
const (
	Listening State = iota
	RequestParsed
	SignatureDecrypted
	IdentityRecovered
	OracleQueried
	LicenceGranted
	LicenceDenied
)

var stateNames = [...]string{
	Listening:          "Listening",
	RequestParsed:      "RequestParsed",
	SignatureDecrypted: "SignatureDecrypted",
	IdentityRecovered:  "IdentityRecovered",
	OracleQueried:      "OracleQueried",
	LicenceGranted:     "LicenceGranted",
	LicenceDenied:      "LicenceDenied",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}
