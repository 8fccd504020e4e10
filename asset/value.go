// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/bitmark-inc/exchanged/fault"
)

// Value - a typed asset value
//
// Data holds the Go type matching Type:
//   Bool:bool Byte:uint8 Int16:int16 Uint16:uint16 Int32:int32
//   Uint32:uint32 Int64:int64 Uint64:uint64 Float:float32
//   Double:float64 String:string
type Value struct {
	Type SystemType
	Data interface{}
}

// String - printable form of the value
func (v Value) String() string {
	switch d := v.Data.(type) {
	case float32:
		return strconv.FormatFloat(float64(d), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(d, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", d)
	}
}

// Encode - plaintext bytes for a value
func Encode(v Value) ([]byte, error) {
	le := binary.LittleEndian

	switch v.Type {
	case Bool:
		d, ok := v.Data.(bool)
		if !ok {
			break
		}
		if d {
			return []byte{1}, nil
		}
		return []byte{0}, nil

	case Byte:
		if d, ok := v.Data.(uint8); ok {
			return []byte{d}, nil
		}

	case Int16:
		if d, ok := v.Data.(int16); ok {
			b := make([]byte, 2)
			le.PutUint16(b, uint16(d))
			return b, nil
		}

	case Uint16:
		if d, ok := v.Data.(uint16); ok {
			b := make([]byte, 2)
			le.PutUint16(b, d)
			return b, nil
		}

	case Int32:
		if d, ok := v.Data.(int32); ok {
			b := make([]byte, 4)
			le.PutUint32(b, uint32(d))
			return b, nil
		}

	case Uint32:
		if d, ok := v.Data.(uint32); ok {
			b := make([]byte, 4)
			le.PutUint32(b, d)
			return b, nil
		}

	case Int64:
		if d, ok := v.Data.(int64); ok {
			b := make([]byte, 8)
			le.PutUint64(b, uint64(d))
			return b, nil
		}

	case Uint64:
		if d, ok := v.Data.(uint64); ok {
			b := make([]byte, 8)
			le.PutUint64(b, d)
			return b, nil
		}

	case Float:
		if d, ok := v.Data.(float32); ok {
			b := make([]byte, 4)
			le.PutUint32(b, math.Float32bits(d))
			return b, nil
		}

	case Double:
		if d, ok := v.Data.(float64); ok {
			b := make([]byte, 8)
			le.PutUint64(b, math.Float64bits(d))
			return b, nil
		}

	case String:
		if d, ok := v.Data.(string); ok {
			if !utf8.ValidString(d) {
				return nil, fault.ErrInvalidUTF8
			}
			return []byte(d), nil
		}

	default:
		return nil, fault.ErrUnknownSystemType
	}
	return nil, fault.ErrValueTypeMismatch
}

// Decode - value from plaintext bytes
func Decode(t SystemType, data []byte) (Value, error) {
	if !t.IsValid() {
		return Value{}, fault.ErrUnknownSystemType
	}
	if n := t.size(); 0 != n && n != len(data) {
		return Value{}, fault.ErrValueLength
	}

	le := binary.LittleEndian
	v := Value{Type: t}

	switch t {
	case Bool:
		switch data[0] {
		case 0:
			v.Data = false
		case 1:
			v.Data = true
		default:
			return Value{}, fault.ErrCannotDecodeAsset
		}
	case Byte:
		v.Data = data[0]
	case Int16:
		v.Data = int16(le.Uint16(data))
	case Uint16:
		v.Data = le.Uint16(data)
	case Int32:
		v.Data = int32(le.Uint32(data))
	case Uint32:
		v.Data = le.Uint32(data)
	case Int64:
		v.Data = int64(le.Uint64(data))
	case Uint64:
		v.Data = le.Uint64(data)
	case Float:
		v.Data = math.Float32frombits(le.Uint32(data))
	case Double:
		v.Data = math.Float64frombits(le.Uint64(data))
	case String:
		if !utf8.Valid(data) {
			return Value{}, fault.ErrInvalidUTF8
		}
		v.Data = string(data)
	}
	return v, nil
}

// ParseValue - value from its text form, as found in configuration
func ParseValue(t SystemType, text string) (Value, error) {
	v := Value{Type: t}
	var err error

	switch t {
	case Bool:
		v.Data, err = strconv.ParseBool(text)
	case Byte:
		var n uint64
		n, err = strconv.ParseUint(text, 10, 8)
		v.Data = uint8(n)
	case Int16:
		var n int64
		n, err = strconv.ParseInt(text, 10, 16)
		v.Data = int16(n)
	case Uint16:
		var n uint64
		n, err = strconv.ParseUint(text, 10, 16)
		v.Data = uint16(n)
	case Int32:
		var n int64
		n, err = strconv.ParseInt(text, 10, 32)
		v.Data = int32(n)
	case Uint32:
		var n uint64
		n, err = strconv.ParseUint(text, 10, 32)
		v.Data = uint32(n)
	case Int64:
		v.Data, err = strconv.ParseInt(text, 10, 64)
	case Uint64:
		v.Data, err = strconv.ParseUint(text, 10, 64)
	case Float:
		var f float64
		f, err = strconv.ParseFloat(text, 32)
		v.Data = float32(f)
	case Double:
		v.Data, err = strconv.ParseFloat(text, 64)
	case String:
		if !utf8.ValidString(text) {
			return Value{}, fault.ErrInvalidUTF8
		}
		v.Data = text
	default:
		return Value{}, fault.ErrUnknownSystemType
	}

	if nil != err {
		return Value{}, fmt.Errorf("%w: %q as %s", fault.ErrValueTypeMismatch, text, t)
	}
	return v, nil
}
