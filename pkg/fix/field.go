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
	"strconv"
	"strings"

	"fixcodec/pkg/util"
)

// Field is one tag-value pair. The value bytes are stored as given and
// not copied.
type Field struct {
	tag   uint32
	value []byte
}

func NewField(tag uint32, value []byte) Field {
	return Field{tag: tag, value: value}
}

// ParseField parses the text form "tag=value". The value may be empty.
func ParseField(text string) (Field, error) {
	eq := strings.IndexByte(text, '=')
	if eq <= 0 {
		return Field{}, ErrInvalidFormat
	}
	tag, err := parseTag([]byte(text[:eq]))
	if err != nil {
		return Field{}, err
	}
	return NewField(tag, []byte(text[eq+1:])), nil
}

func (f *Field) Tag() uint32 {
	return f.tag
}

func (f *Field) Value() []byte {
	return f.value
}

// EncodedLength returns the wire size of the field without encoding it:
// decimal digits of the tag, '=', the value bytes, and the SOH.
// !!! Must stay consistent with appendTo. !!!
func (f *Field) EncodedLength() int {
	return numDecimalDigits(f.tag) + 1 + len(f.value) + 1
}

// appendTo appends the wire form "tag=value<SOH>" to b.
func (f *Field) appendTo(b []byte) []byte {
	b = strconv.AppendUint(b, uint64(f.tag), 10)
	b = append(b, Equals)
	b = append(b, f.value...)
	b = append(b, SOH)
	return b
}

// String renders "tag=value" with non-printable value bytes shown as '.'.
func (f *Field) String() string {
	return strconv.FormatUint(uint64(f.tag), 10) + "=" + util.ToPrintableString(f.value)
}

func numDecimalDigits(v uint32) (n int) {
	n = 1
	for v >= 10 {
		v /= 10
		n++
	}
	return
}
