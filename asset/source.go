// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset

import (
	"context"
	"sync"
)

// default provenance text
const NotAvailable = "N/A"

// Item - a value together with its provenance
type Item struct {
	Value      Value
	DataSource string
	ResultUnit string
}

//go:generate mockgen -source=source.go -destination=../mocks/source.go -package=mocks

// Source - supplies the plaintext asset for a licence
type Source interface {
	Fetch(ctx context.Context, licenceID string) (*Item, error)
}

// Configuration - a literal value or a value file
type Configuration struct {
	File       string `gluamapper:"file" json:"file"`
	SystemType string `gluamapper:"system_type" json:"system_type"`
	Value      string `gluamapper:"value" json:"value"`
	DataSource string `gluamapper:"data_source" json:"data_source"`
	ResultUnit string `gluamapper:"result_unit" json:"result_unit"`
}

// NewItem - build an item from text fields
func NewItem(systemType string, value string, dataSource string, resultUnit string) (*Item, error) {
	t, err := ParseSystemType(systemType)
	if nil != err {
		return nil, err
	}
	v, err := ParseValue(t, value)
	if nil != err {
		return nil, err
	}
	if "" == dataSource {
		dataSource = NotAvailable
	}
	if "" == resultUnit {
		resultUnit = NotAvailable
	}
	return &Item{
		Value:      v,
		DataSource: dataSource,
		ResultUnit: resultUnit,
	}, nil
}

// StaticSource - always returns the same item
type StaticSource struct {
	sync.RWMutex
	item Item
}

// NewStaticSource - source for a fixed item
func NewStaticSource(item *Item) *StaticSource {
	return &StaticSource{item: *item}
}

// Fetch - return a copy of the item
func (s *StaticSource) Fetch(ctx context.Context, licenceID string) (*Item, error) {
	if err := ctx.Err(); nil != err {
		return nil, err
	}
	s.RLock()
	item := s.item
	s.RUnlock()
	return &item, nil
}

// Set - replace the item
func (s *StaticSource) Set(item *Item) {
	s.Lock()
	s.item = *item
	s.Unlock()
}
