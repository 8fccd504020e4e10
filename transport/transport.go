// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package transport - single frame delivery between exchange parties
//
// a frame is one complete request or envelope. Every Send opens a fresh
// connection which is closed once the frame is written, no connection
// is reused between exchanges.
package transport

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bitmark-inc/exchanged/fault"
)

// Listener - bound endpoint yielding whole frames
type Listener interface {
	// Receive - block until one frame arrives or ctx is done
	Receive(ctx context.Context) ([]byte, error)

	// Address - the endpoint peers should send to
	Address() string

	Close() error
}

// Transport - a way of moving frames
type Transport interface {
	Listen(address string) (Listener, error)
	Send(ctx context.Context, address string, frame []byte) error
}

// defaults for zero configuration values
const (
	DefaultMaxFrameSize = 1 << 20
	defaultReadTimeout  = 10 * time.Second
	defaultSendTimeout  = 30 * time.Second
	defaultType         = "tcp"
)

// Configuration - transport selection and limits
type Configuration struct {
	Type         string `gluamapper:"type" json:"type"`
	MaxFrameSize int    `gluamapper:"max_frame_size" json:"max_frame_size"`
	ReadTimeout  int    `gluamapper:"read_timeout" json:"read_timeout"` // seconds
	SendTimeout  int    `gluamapper:"send_timeout" json:"send_timeout"` // seconds
}

// Limits - resolved configuration values
type Limits struct {
	MaxFrameSize int
	ReadTimeout  time.Duration
	SendTimeout  time.Duration
}

// Limits - apply defaults
func (conf *Configuration) Limits() Limits {
	l := Limits{
		MaxFrameSize: conf.MaxFrameSize,
		ReadTimeout:  time.Duration(conf.ReadTimeout) * time.Second,
		SendTimeout:  time.Duration(conf.SendTimeout) * time.Second,
	}
	if l.MaxFrameSize <= 0 {
		l.MaxFrameSize = DefaultMaxFrameSize
	}
	if l.ReadTimeout <= 0 {
		l.ReadTimeout = defaultReadTimeout
	}
	if l.SendTimeout <= 0 {
		l.SendTimeout = defaultSendTimeout
	}
	return l
}

// Constructor - builds a transport from resolved limits
type Constructor func(limits Limits) (Transport, error)

var registry = struct {
	sync.RWMutex
	constructors map[string]Constructor
}{
	constructors: map[string]Constructor{
		"tcp": func(limits Limits) (Transport, error) {
			return NewTCP(limits), nil
		},
	},
}

// Register - make a transport available by name
func Register(name string, constructor Constructor) {
	registry.Lock()
	registry.constructors[name] = constructor
	registry.Unlock()
}

// Names - registered transport names
func Names() []string {
	registry.RLock()
	defer registry.RUnlock()
	names := make([]string, 0, len(registry.constructors))
	for name := range registry.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New - transport named in the configuration, tcp when empty
func New(conf *Configuration) (Transport, error) {
	name := conf.Type
	if "" == name {
		name = defaultType
	}
	registry.RLock()
	constructor, ok := registry.constructors[name]
	registry.RUnlock()
	if !ok {
		return nil, fault.ErrInvalidTransport
	}
	return constructor(conf.Limits())
}
