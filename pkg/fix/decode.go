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

package fix

import (
	"bytes"
	"strconv"
)

// Decode parses one complete wire message into a new Message. Field
// values are copied, so data may be reused by the caller afterwards.
// The leading fields must be BeginString(8), BodyLength(9) and
// MsgType(35) in that order; the CheckSum(10) field is kept in the
// returned message after validation.
func Decode(data []byte) (msg *Message, err error) {
	m := NewMessage()
	rest := data

	var f Field
	if f, rest, err = extractField(rest, TagBeginString); err != nil {
		return
	}
	m.AddField(f)
	if f, rest, err = extractField(rest, TagBodyLength); err != nil {
		return
	}
	m.AddField(f)
	if f, rest, err = extractField(rest, TagMsgType); err != nil {
		return
	}
	m.AddField(f)

	for {
		i := bytes.IndexByte(rest, SOH)
		if i < 0 {
			// a trailing span without SOH is not a field
			break
		}
		span := rest[:i]
		rest = rest[i+1:]
		eq := bytes.IndexByte(span, Equals)
		if eq < 0 {
			err = ErrInvalidFormat
			return
		}
		var tag uint32
		if tag, err = parseTag(span[:eq]); err != nil {
			return
		}
		value := make([]byte, len(span)-eq-1)
		copy(value, span[eq+1:])
		m.AddField(NewField(tag, value))
	}

	if err = validateCheckSum(data, m); err != nil {
		return
	}
	msg = m
	return
}

// extractField parses the field at the start of data and requires its
// tag to be want.
func extractField(data []byte, want uint32) (f Field, rest []byte, err error) {
	i := bytes.IndexByte(data, SOH)
	if i < 0 {
		err = ErrInvalidFormat
		return
	}
	span := data[:i]
	eq := bytes.IndexByte(span, Equals)
	if eq < 0 {
		err = ErrInvalidFormat
		return
	}
	tag, err := parseTag(span[:eq])
	if err != nil {
		return
	}
	if tag != want {
		err = ErrInvalidFormat
		return
	}
	value := make([]byte, len(span)-eq-1)
	copy(value, span[eq+1:])
	f = NewField(tag, value)
	rest = data[i+1:]
	return
}

// parseTag requires every byte of text to be an ASCII digit.
// ParseUint with base 10 rejects empty text, signs and any non-digit.
func parseTag(text []byte) (uint32, error) {
	v, err := strconv.ParseUint(string(text), 10, 32)
	if err != nil {
		return 0, ErrInvalidFormat
	}
	return uint32(v), nil
}

// validateCheckSum recomputes the checksum over everything before the
// trailing 7 bytes, which are taken to be the checksum field itself,
// and compares it against the stored CheckSum(10) value.
func validateCheckSum(data []byte, m *Message) (err error) {
	cs, ok := m.fields[TagCheckSum]
	if !ok {
		return &MissingFieldError{Tag: TagCheckSum}
	}
	if len(data) < kCheckSumFieldSize {
		return ErrInvalidFormat
	}
	computed := computeCheckSum(data[:len(data)-kCheckSumFieldSize])

	stored, perr := strconv.ParseUint(string(cs.value), 10, 32)
	if perr != nil {
		return ErrInvalidFormat
	}
	if computed != uint32(stored) {
		return ErrInvalidChecksum
	}
	return
}
