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

	"fixcodec/pkg/util"
)

// Encode serializes the message into one freshly allocated exact-size
// buffer. BeginString(8) and MsgType(35) must be present; BodyLength(9)
// and CheckSum(10) are computed, any stored values for them ignored.
func (m *Message) Encode() (data []byte, err error) {
	total, bodyLen, err := m.encodedSizes()
	if err != nil {
		return nil, err
	}
	data = m.encodeInto(make([]byte, 0, total), bodyLen)
	return
}

// EncodeToBuffer serializes into buf reusing its backing storage, for
// callers pooling buffers across messages.
func (m *Message) EncodeToBuffer(buf *util.Buffer) (err error) {
	total, bodyLen, err := m.encodedSizes()
	if err != nil {
		return
	}
	buf.Resize(total)
	m.encodeInto(buf.Bytes()[:0], bodyLen)
	return
}

// encodedSizes computes the exact wire size and the body length, and
// verifies the required header fields are present.
func (m *Message) encodedSizes() (total int, bodyLen int, err error) {
	begin, ok := m.fields[TagBeginString]
	if !ok {
		err = &MissingFieldError{Tag: TagBeginString}
		return
	}
	msgType, ok := m.fields[TagMsgType]
	if !ok {
		err = &MissingFieldError{Tag: TagMsgType}
		return
	}
	bodyLen = msgType.EncodedLength()
	for _, tag := range m.order {
		switch tag {
		case TagBeginString, TagBodyLength, TagCheckSum, TagMsgType:
			continue
		}
		f := m.fields[tag]
		bodyLen += f.EncodedLength()
	}
	szBodyLengthField := 2 + numDecimalDigits(uint32(bodyLen)) + 1
	total = begin.EncodedLength() + szBodyLengthField + bodyLen + kCheckSumFieldSize
	return
}

// encodeInto appends the full wire form to b. The caller sizes cap(b)
// with encodedSizes so no append reallocates.
func (m *Message) encodeInto(b []byte, bodyLen int) []byte {
	begin := m.fields[TagBeginString]
	b = begin.appendTo(b)

	b = append(b, '9', Equals)
	b = strconv.AppendUint(b, uint64(bodyLen), 10)
	b = append(b, SOH)

	msgType := m.fields[TagMsgType]
	b = msgType.appendTo(b)
	for _, tag := range m.order {
		switch tag {
		case TagBeginString, TagBodyLength, TagCheckSum, TagMsgType:
			continue
		}
		f := m.fields[tag]
		b = f.appendTo(b)
	}

	// CheckSum(10) covers every byte emitted so far, as three
	// zero-padded digits.
	cs := computeCheckSum(b)
	b = append(b, '1', '0', Equals)
	b = append(b, byte('0'+cs/100), byte('0'+(cs/10)%10), byte('0'+cs%10))
	b = append(b, SOH)
	return b
}
