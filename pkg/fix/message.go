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
	"fmt"
	"io"

	"fixcodec/pkg/util"
)

// Message holds fields in insertion order with map-backed tag lookup.
// It is a plain value with no internal synchronization; a Message must
// not be mutated while another goroutine encodes it.
type Message struct {
	fields map[uint32]Field
	order  []uint32
}

func NewMessage() *Message {
	return &Message{
		fields: make(map[uint32]Field),
	}
}

func NewMessageWithCapacity(numFields int) *Message {
	return &Message{
		fields: make(map[uint32]Field, numFields),
		order:  make([]uint32, 0, numFields),
	}
}

// AddField inserts f. Re-adding a tag overwrites the value reachable by
// lookup but appends the tag to the order trace again, so encode emits
// the field once per trace entry, each time with the latest value.
func (m *Message) AddField(f Field) {
	m.fields[f.tag] = f
	m.order = append(m.order, f.tag)
}

func (m *Message) GetField(tag uint32) (f Field, ok bool) {
	f, ok = m.fields[tag]
	return
}

// GetValue returns the value bytes of tag, nil if absent.
func (m *Message) GetValue(tag uint32) []byte {
	if f, ok := m.fields[tag]; ok {
		return f.value
	}
	return nil
}

// NumFields is the number of distinct tags.
func (m *Message) NumFields() int {
	return len(m.fields)
}

// Tags returns a copy of the insertion-order trace, duplicates included.
func (m *Message) Tags() []uint32 {
	tags := make([]uint32, len(m.order))
	copy(tags, m.order)
	return tags
}

func (m *Message) PrettyPrint(w io.Writer) {
	if f, ok := m.fields[TagBeginString]; ok {
		fmt.Fprintf(w, "BeginString   : %s\n", string(f.value))
	}
	if f, ok := m.fields[TagBodyLength]; ok {
		fmt.Fprintf(w, "BodyLength    : %s\n", string(f.value))
	}
	if f, ok := m.fields[TagMsgType]; ok {
		name := MsgTypeName(string(f.value))
		if name == "" {
			name = "Unknown"
		}
		fmt.Fprintf(w, "MsgType       : %s\t%s\n", string(f.value), name)
	}
	fmt.Fprintf(w, "NumFields     : %d\n", m.NumFields())
	for _, tag := range m.order {
		switch tag {
		case TagBeginString, TagBodyLength, TagMsgType:
			continue
		}
		f := m.fields[tag]
		name := TagName(tag)
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "  %-5d %-14s: %s\n", tag, name, util.ToPrintableAndHexString(f.value))
	}
}
