// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset

import (
	"path/filepath"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"

	"github.com/bitmark-inc/exchanged/configuration"
)

// FileSource - value read from a Lua file and re-read when it changes
//
// the file returns a table with the same keys as Configuration:
//
//   return {
//       system_type = "Int32",
//       value = "42",
//       data_source = "sensor 7",
//       result_unit = "count",
//   }
type FileSource struct {
	StaticSource
	log      *logger.L
	fileName string
	watcher  *fsnotify.Watcher
}

// NewFileSource - load the file and begin watching it
func NewFileSource(fileName string) (*FileSource, error) {
	fileName, err := filepath.Abs(filepath.Clean(fileName))
	if nil != err {
		return nil, err
	}

	item, err := loadFile(fileName)
	if nil != err {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		return nil, err
	}

	// watch the directory so that editors replacing the file are seen
	err = watcher.Add(filepath.Dir(fileName))
	if nil != err {
		watcher.Close()
		return nil, err
	}

	s := &FileSource{
		log:      logger.New("asset"),
		fileName: fileName,
		watcher:  watcher,
	}
	s.item = *item
	return s, nil
}

// Run - background reload loop, closes the watcher on shutdown
func (s *FileSource) Run(args interface{}, shutdown <-chan struct{}) {
	log := s.log
	log.Infof("watching: %s", s.fileName)

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event, ok := <-s.watcher.Events:
			if !ok {
				break loop
			}
			if filepath.Clean(event.Name) != s.fileName {
				continue loop
			}
			if 0 == event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue loop
			}
			s.Reload()

		case err, ok := <-s.watcher.Errors:
			if !ok {
				break loop
			}
			log.Errorf("watcher error: %s", err)
		}
	}
	s.watcher.Close()
	log.Info("stopped")
}

// Reload - re-read the file, the previous item is kept on error
func (s *FileSource) Reload() {
	item, err := loadFile(s.fileName)
	if nil != err {
		s.log.Errorf("reload: %s  error: %s", s.fileName, err)
		return
	}
	s.Set(item)
	s.log.Infof("reloaded: %s  type: %s", s.fileName, item.Value.Type)
}

func loadFile(fileName string) (*Item, error) {
	c := Configuration{}
	err := configuration.ParseConfigurationFile(fileName, &c)
	if nil != err {
		return nil, err
	}
	return NewItem(c.SystemType, c.Value, c.DataSource, c.ResultUnit)
}
