// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset

import (
	"strings"

	"github.com/bitmark-inc/exchanged/fault"
)

// SystemType - tag carried in the metadata to select the decoder
type SystemType int

// supported types
const (
	Unknown SystemType = iota
	Bool
	Byte
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Float
	Double
	String
)

// names written to metadata, compatible with the runtime type names
// used by existing peers
var names = map[SystemType]string{
	Bool:   "Boolean",
	Byte:   "Byte",
	Int16:  "Int16",
	Uint16: "UInt16",
	Int32:  "Int32",
	Uint32: "UInt32",
	Int64:  "Int64",
	Uint64: "UInt64",
	Float:  "Single",
	Double: "Double",
	String: "String",
}

// lower case tags accepted on input
var tags = map[string]SystemType{
	"bool":    Bool,
	"boolean": Bool,
	"byte":    Byte,
	"uint8":   Byte,
	"short":   Int16,
	"int16":   Int16,
	"ushort":  Uint16,
	"uint16":  Uint16,
	"int":     Int32,
	"int32":   Int32,
	"uint":    Uint32,
	"uint32":  Uint32,
	"long":    Int64,
	"int64":   Int64,
	"ulong":   Uint64,
	"uint64":  Uint64,
	"float":   Float,
	"single":  Float,
	"float32": Float,
	"double":  Double,
	"float64": Double,
	"string":  String,
}

// ParseSystemType - case insensitive lookup of a type tag
func ParseSystemType(tag string) (SystemType, error) {
	t, ok := tags[strings.ToLower(strings.TrimSpace(tag))]
	if !ok {
		return Unknown, fault.ErrUnknownSystemType
	}
	return t, nil
}

// String - the metadata name of the type
func (t SystemType) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return "Unknown"
}

// IsValid - true for every supported type
func (t SystemType) IsValid() bool {
	_, ok := names[t]
	return ok
}

// size of the fixed width encodings, zero for variable
func (t SystemType) size() int {
	switch t {
	case Bool, Byte:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float:
		return 4
	case Int64, Uint64, Double:
		return 8
	default:
		return 0
	}
}
