//
//  Copyright 2023 PayPal Inc.
//
//  Licensed to the Apache Software Foundation (ASF) under one or more
//  contributor license agreements.  See the NOTICE file distributed with
//  this work for additional information regarding copyright ownership.
//  The ASF licenses this file to You under the Apache License, Version 2.0
//  (the "License"); you may not use this file except in compliance with
//  the License.  You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.
//

package msglog

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/golang/snappy"

	"fixcodec/pkg/util"
)

// Writer appends records to a journal file. Writes are buffered; call
// Sync to force them to disk, or set Config.SyncEvery to sync after
// every n appends. A Writer may be shared by concurrent producers.
type Writer struct {
	config Config
	mtx    sync.Mutex
	file   *os.File
	writer *bufio.Writer
	header [kRecordHeaderSize]byte

	numAppended int
}

func NewWriter(config Config) (w *Writer, err error) {
	if config.Path == "" {
		err = errors.New("journal path not set")
		return
	}
	file, err := os.OpenFile(config.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		err = fmt.Errorf("open journal %s: %s", config.Path, err)
		return
	}
	w = &Writer{
		config: config,
		file:   file,
		writer: bufio.NewWriter(file),
	}
	return
}

// Append writes one record framing payload. The payload is snappy
// compressed when Config.Compress is set and compression shrinks it.
func (w *Writer) Append(payload []byte) (err error) {
	stored := payload
	var flags byte
	if w.config.Compress {
		maxLen := snappy.MaxEncodedLen(len(payload))
		pool := util.GetBufferPool(maxLen)
		scratch := pool.Get()
		defer pool.Put(scratch)

		scratch.Resize(maxLen)
		if c := snappy.Encode(scratch.Bytes(), payload); len(c) < len(payload) {
			stored = c
			flags = kFlagCompressed
		}
	}

	w.mtx.Lock()
	defer w.mtx.Unlock()

	binary.BigEndian.PutUint32(w.header[0:4], uint32(len(stored)))
	binary.BigEndian.PutUint32(w.header[4:8], util.Murmur3Hash(stored))
	w.header[8] = flags

	if _, err = w.writer.Write(w.header[:]); err != nil {
		return
	}
	if _, err = w.writer.Write(stored); err != nil {
		return
	}

	w.numAppended++
	if w.config.SyncEvery > 0 && w.numAppended%w.config.SyncEvery == 0 {
		err = w.sync()
	}
	return
}

// NumAppended is the number of records appended through this Writer.
func (w *Writer) NumAppended() int {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	return w.numAppended
}

// Sync flushes buffered records and commits them to stable storage.
func (w *Writer) Sync() (err error) {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	return w.sync()
}

func (w *Writer) sync() (err error) {
	if err = w.writer.Flush(); err != nil {
		return
	}
	return w.file.Sync()
}

func (w *Writer) Close() (err error) {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	err = w.sync()
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	return
}
