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
	"fmt"
	"io"
	"os"

	"github.com/golang/snappy"

	"fixcodec/pkg/util"
)

// Reader walks a journal file record by record. Not safe for
// concurrent use.
type Reader struct {
	file   *os.File
	reader *bufio.Reader

	index int // zero-based index of the record Next reads
}

func NewReader(path string) (r *Reader, err error) {
	file, err := os.Open(path)
	if err != nil {
		err = fmt.Errorf("open journal %s: %s", path, err)
		return
	}
	r = &Reader{
		file:   file,
		reader: bufio.NewReader(file),
	}
	return
}

// Next returns the next payload, decompressed if the record was stored
// compressed. It returns io.EOF at a clean end of the journal; a
// partial record or a hash mismatch is reported as an error naming the
// record index.
func (r *Reader) Next() (payload []byte, err error) {
	var header [kRecordHeaderSize]byte
	if _, err = io.ReadFull(r.reader, header[:]); err != nil {
		if err == io.EOF {
			return
		}
		err = fmt.Errorf("record %d: truncated header: %s", r.index, err)
		return
	}
	length := binary.BigEndian.Uint32(header[0:4])
	hash := binary.BigEndian.Uint32(header[4:8])
	flags := header[8]

	if length > kMaxRecordSize {
		err = fmt.Errorf("record %d: invalid length %d", r.index, length)
		return
	}
	stored := make([]byte, length)
	if _, err = io.ReadFull(r.reader, stored); err != nil {
		err = fmt.Errorf("record %d: truncated payload: %s", r.index, err)
		return
	}
	if h := util.Murmur3Hash(stored); h != hash {
		err = fmt.Errorf("record %d: hash mismatch: stored %x computed %x",
			r.index, hash, h)
		return
	}

	if flags&kFlagCompressed != 0 {
		if payload, err = snappy.Decode(nil, stored); err != nil {
			err = fmt.Errorf("record %d: decompress: %s", r.index, err)
			return
		}
	} else {
		payload = stored
	}
	r.index++
	return
}

func (r *Reader) Close() error {
	return r.file.Close()
}
