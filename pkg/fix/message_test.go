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
	"errors"
	"strings"
	"testing"
)

func TestMessageFields(t *testing.T) {
	m := NewMessage()
	if m.NumFields() != 0 {
		t.Errorf("expect an empty message, got %d fields", m.NumFields())
	}
	if _, ok := m.GetField(TagSymbol); ok {
		t.Error("GetField on an empty message")
	}
	if m.GetValue(TagSymbol) != nil {
		t.Error("GetValue must return nil for an absent tag")
	}

	m.AddField(NewField(TagSymbol, []byte("XYZ")))
	f, ok := m.GetField(TagSymbol)
	if !ok || f.Tag() != TagSymbol || string(f.Value()) != "XYZ" {
		t.Errorf("got %v %v", f, ok)
	}
	if string(m.GetValue(TagSymbol)) != "XYZ" {
		t.Errorf("got %q", string(m.GetValue(TagSymbol)))
	}
	if m.NumFields() != 1 {
		t.Errorf("expect 1 field, got %d", m.NumFields())
	}
}

func TestMessageDuplicateAdd(t *testing.T) {
	m := NewMessageWithCapacity(4)
	m.AddField(NewField(TagSide, []byte("1")))
	m.AddField(NewField(TagSide, []byte("2")))
	if got := string(m.GetValue(TagSide)); got != "2" {
		t.Errorf("lookup must see the latest value, got %q", got)
	}
	if m.NumFields() != 1 {
		t.Errorf("expect 1 distinct tag, got %d", m.NumFields())
	}
	if tags := m.Tags(); len(tags) != 2 || tags[0] != TagSide || tags[1] != TagSide {
		t.Errorf("expect the tag twice in the trace, got %v", tags)
	}
}

func TestMessageTagsIsACopy(t *testing.T) {
	m := NewMessage()
	m.AddField(NewField(TagSymbol, []byte("XYZ")))
	tags := m.Tags()
	tags[0] = 0
	if m.Tags()[0] != TagSymbol {
		t.Error("Tags must return a copy of the trace")
	}
}

func TestFieldEncodedLength(t *testing.T) {
	for _, f := range []Field{
		NewField(8, []byte("FIX.4.2")),
		NewField(35, nil),
		NewField(555, []byte("x")),
		NewField(4294967295, []byte("value")),
	} {
		if n := len(f.appendTo(nil)); n != f.EncodedLength() {
			t.Errorf("tag %d: EncodedLength %d, wire %d", f.Tag(), f.EncodedLength(), n)
		}
	}
}

func TestFieldAppendTo(t *testing.T) {
	f := NewField(TagMsgType, []byte("D"))
	if got := string(f.appendTo(nil)); got != "35=D\x01" {
		t.Errorf("got %q", got)
	}
}

func TestFieldString(t *testing.T) {
	f := NewField(TagMsgType, []byte("D"))
	if f.String() != "35=D" {
		t.Errorf("got %q", f.String())
	}
	f = NewField(58, []byte{0x01, 'A'})
	if f.String() != "58=.A" {
		t.Errorf("got %q", f.String())
	}
}

func TestParseField(t *testing.T) {
	f, err := ParseField("55=IBM")
	if err != nil || f.Tag() != TagSymbol || string(f.Value()) != "IBM" {
		t.Errorf("got %v %v", f, err)
	}
	f, err = ParseField("58=")
	if err != nil || f.Tag() != 58 || len(f.Value()) != 0 {
		t.Errorf("empty value must parse, got %v %v", f, err)
	}
	f, err = ParseField("55=a=b")
	if err != nil || string(f.Value()) != "a=b" {
		t.Errorf("value may contain '=', got %v %v", f, err)
	}
	for _, text := range []string{"", "55", "=IBM", "5a=IBM", "-1=x"} {
		if _, err = ParseField(text); err == nil {
			t.Errorf("%q: expect an error", text)
		}
	}
}

func TestNumDecimalDigits(t *testing.T) {
	cases := map[uint32]int{
		0: 1, 9: 1, 10: 2, 99: 2, 100: 3, 4294967295: 10,
	}
	for v, n := range cases {
		if got := numDecimalDigits(v); got != n {
			t.Errorf("%d: expect %d, got %d", v, n, got)
		}
	}
}

func TestTagNames(t *testing.T) {
	if TagName(TagClOrdID) != "ClOrdID" {
		t.Errorf("got %q", TagName(TagClOrdID))
	}
	if TagName(12345) != "" {
		t.Errorf("got %q", TagName(12345))
	}
	if MsgTypeName(MsgTypeLogon) != "Logon" {
		t.Errorf("got %q", MsgTypeName(MsgTypeLogon))
	}
	if MsgTypeName("zz") != "" {
		t.Errorf("got %q", MsgTypeName("zz"))
	}
}

func TestProtocolErrors(t *testing.T) {
	if ErrInvalidChecksum.Error() != "ProtocolError: Invalid checksum" {
		t.Errorf("got %q", ErrInvalidChecksum.Error())
	}
	err := &MissingFieldError{Tag: TagBeginString}
	if err.Error() != "ProtocolError: Missing required field: 8" {
		t.Errorf("got %q", err.Error())
	}
	if !errors.Is(err, ErrMissingField) {
		t.Error("MissingFieldError must match ErrMissingField")
	}
	if errors.Is(err, ErrInvalidFormat) {
		t.Error("MissingFieldError must not match other sentinels")
	}
}

func TestComputeCheckSum(t *testing.T) {
	if cs := computeCheckSum(nil); cs != 0 {
		t.Errorf("got %d", cs)
	}
	if cs := computeCheckSum([]byte{0xFF, 0x01}); cs != 0 {
		t.Errorf("expect 256 to wrap to 0, got %d", cs)
	}
	if cs := computeCheckSum([]byte("8=FIX.4.2\x01")); cs != 543%256 {
		t.Errorf("got %d", cs)
	}
}

func TestMessagePrettyPrint(t *testing.T) {
	m, err := Decode([]byte(kNewOrderWire))
	if err != nil {
		t.Fatal(err)
	}
	var w bytes.Buffer
	m.PrettyPrint(&w)
	out := w.String()
	for _, want := range []string{
		"BeginString   : FIX.4.2",
		"BodyLength    : 38",
		"MsgType       : D\tNewOrderSingle",
		"NumFields     : 8",
		"SenderCompID",
		"ClOrdID",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestMessagePrettyPrintUnknownType(t *testing.T) {
	m := NewMessage()
	m.AddField(NewField(TagMsgType, []byte("zz")))
	m.AddField(NewField(12345, []byte("v")))
	var w bytes.Buffer
	m.PrettyPrint(&w)
	out := w.String()
	if !strings.Contains(out, "Unknown") {
		t.Errorf("expect Unknown for msg type zz:\n%s", out)
	}
	if !strings.Contains(out, "12345 -") {
		t.Errorf("expect - for an unregistered tag:\n%s", out)
	}
}
