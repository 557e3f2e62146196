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
	"io"
)

const (
	kRecordHeaderSize = 9
	kFlagCompressed   = 0x1

	// a length beyond this is taken as corruption, not a record
	kMaxRecordSize = 16 * 1024 * 1024
)

// Config selects the journal file and write behavior. SyncEvery 0
// syncs on Close only.
type Config struct {
	Path      string
	Compress  bool
	SyncEvery int
}

// Replay reads the journal at path from the beginning and invokes fn
// with each payload in order. It stops at the first error, either from
// the journal or from fn, and returns the number of payloads delivered.
func Replay(path string, fn func(payload []byte) error) (n int, err error) {
	r, err := NewReader(path)
	if err != nil {
		return
	}
	defer r.Close()

	for {
		var payload []byte
		payload, err = r.Next()
		if err == io.EOF {
			err = nil
			return
		}
		if err != nil {
			return
		}
		if err = fn(payload); err != nil {
			return
		}
		n++
	}
}
