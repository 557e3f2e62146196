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
	"testing"
)

const kNewOrderWire = "8=FIX.4.2\x019=38\x0135=D\x0149=SENDER\x0156=TARGET\x0134=1\x0111=ORD1\x0110=083\x01"

func TestDecodeNewOrder(t *testing.T) {
	m, err := Decode([]byte(kNewOrderWire))
	if err != nil {
		t.Fatal(err)
	}
	expected := map[uint32]string{
		TagBeginString:  "FIX.4.2",
		TagBodyLength:   "38",
		TagMsgType:      "D",
		TagSenderCompID: "SENDER",
		TagTargetCompID: "TARGET",
		TagMsgSeqNum:    "1",
		TagClOrdID:      "ORD1",
		TagCheckSum:     "083",
	}
	for tag, value := range expected {
		if got := string(m.GetValue(tag)); got != value {
			t.Errorf("tag %d: expect %q, got %q", tag, value, got)
		}
	}
	if m.NumFields() != len(expected) {
		t.Errorf("expect %d fields, got %d", len(expected), m.NumFields())
	}
	order := []uint32{8, 9, 35, 49, 56, 34, 11, 10}
	tags := m.Tags()
	if len(tags) != len(order) {
		t.Fatalf("expect %d tags, got %v", len(order), tags)
	}
	for i, tag := range order {
		if tags[i] != tag {
			t.Errorf("tag order %v, expect %v", tags, order)
			break
		}
	}
}

func TestDecodeCopiesValues(t *testing.T) {
	data := []byte(kNewOrderWire)
	m, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	for i := range data {
		data[i] = 'x'
	}
	if got := string(m.GetValue(TagSenderCompID)); got != "SENDER" {
		t.Errorf("decoded value aliases the input: %q", got)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	m := NewMessage()
	m.AddField(NewField(TagBeginString, []byte(VersionFIX44)))
	m.AddField(NewField(TagMsgType, []byte(MsgTypeExecutionReport)))
	m.AddField(NewField(TagSenderCompID, []byte("S")))
	m.AddField(NewField(TagTargetCompID, []byte("T")))
	m.AddField(NewField(TagMsgSeqNum, []byte("42")))
	m.AddField(NewField(96, []byte{0x00, 0x02, 0x80, 0xFF}))
	m.AddField(NewField(4294967295, []byte("x")))

	data, err := m.Encode()
	if err != nil {
		t.Fatal(err)
	}
	out, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	for _, tag := range m.Tags() {
		if !bytes.Equal(out.GetValue(tag), m.GetValue(tag)) {
			t.Errorf("tag %d: expect %q, got %q", tag, m.GetValue(tag), out.GetValue(tag))
		}
	}
	again, err := out.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(again, data) {
		t.Errorf("re-encode differs:\n%q\n%q", string(data), string(again))
	}
}

func TestDecodeKeepsCheckSumField(t *testing.T) {
	m, err := Decode([]byte(kNewOrderWire))
	if err != nil {
		t.Fatal(err)
	}
	f, ok := m.GetField(TagCheckSum)
	if !ok {
		t.Fatal("CheckSum(10) must be kept in the decoded message")
	}
	if string(f.Value()) != "083" {
		t.Errorf("got %q", string(f.Value()))
	}
}

func TestDecodeCorrupted(t *testing.T) {
	data := bytes.Replace([]byte(kNewOrderWire), []byte("SENDER"), []byte("SENDEX"), 1)
	if _, err := Decode(data); err != ErrInvalidChecksum {
		t.Errorf("expect ErrInvalidChecksum, got %v", err)
	}
}

func TestDecodeChecksumMismatch(t *testing.T) {
	data := []byte("8=FIX.4.2\x019=5\x0135=0\x0110=162\x01")
	if _, err := Decode(data); err != ErrInvalidChecksum {
		t.Errorf("expect ErrInvalidChecksum, got %v", err)
	}
}

func TestDecodeChecksumNotNumeric(t *testing.T) {
	data := []byte("8=FIX.4.2\x019=5\x0135=0\x0110=abc\x01")
	if _, err := Decode(data); err != ErrInvalidFormat {
		t.Errorf("expect ErrInvalidFormat, got %v", err)
	}
}

func TestDecodeMissingCheckSum(t *testing.T) {
	for _, wire := range []string{
		"8=FIX.4.2\x019=5\x0135=0\x01",
		"8=FIX.4.2\x019=38\x0135=D\x0149=SENDER\x0156=TARGET\x0134=1\x0111=ORD1\x01",
		// trailer cut before its SOH is not a field
		"8=FIX.4.2\x019=5\x0135=0\x0110=16",
	} {
		_, err := Decode([]byte(wire))
		var mf *MissingFieldError
		if !errors.As(err, &mf) || mf.Tag != TagCheckSum {
			t.Errorf("%q: expect missing CheckSum(10), got %v", wire, err)
		}
	}
}

func TestDecodeHeaderOrder(t *testing.T) {
	for _, wire := range []string{
		"9=5\x018=FIX.4.2\x0135=0\x0110=161\x01",
		"8=FIX.4.2\x0135=0\x019=5\x0110=161\x01",
		"35=0\x018=FIX.4.2\x019=5\x0110=161\x01",
		"8=FIX.4.2\x019=5\x0149=X\x0135=0\x0110=161\x01",
	} {
		if _, err := Decode([]byte(wire)); err != ErrInvalidFormat {
			t.Errorf("%q: expect ErrInvalidFormat, got %v", wire, err)
		}
	}
}

func TestDecodeTruncated(t *testing.T) {
	for _, wire := range []string{
		"",
		"8",
		"8=FIX.4.2",
		"8=FIX.4.2\x01",
		"8=FIX.4.2\x019=38",
		"8=FIX.4.2\x019=38\x01",
		"8=FIX.4.2\x019=38\x0135=D",
	} {
		if _, err := Decode([]byte(wire)); err != ErrInvalidFormat {
			t.Errorf("%q: expect ErrInvalidFormat, got %v", wire, err)
		}
	}
}

func TestDecodeBadTag(t *testing.T) {
	for _, wire := range []string{
		"8=FIX.4.2\x019=5\x0135=0\x01x7=a\x0110=000\x01",
		"8=FIX.4.2\x019=5\x0135=0\x013x=a\x0110=000\x01",
		"8=FIX.4.2\x019=5\x0135=0\x01+7=a\x0110=000\x01",
		"8=FIX.4.2\x019=5\x0135=0\x01-7=a\x0110=000\x01",
		"8=FIX.4.2\x019=5\x0135=0\x01=a\x0110=000\x01",
		"8=FIX.4.2\x019=5\x0135=0\x014294967296=a\x0110=000\x01",
	} {
		if _, err := Decode([]byte(wire)); err != ErrInvalidFormat {
			t.Errorf("%q: expect ErrInvalidFormat, got %v", wire, err)
		}
	}
}

func TestDecodeSpanWithoutEquals(t *testing.T) {
	for _, wire := range []string{
		"8=FIX.4.2\x019=5\x0135=0\x01junk\x0110=000\x01",
		"8=FIX.4.2\x019=5\x0135=0\x01\x0110=000\x01",
	} {
		if _, err := Decode([]byte(wire)); err != ErrInvalidFormat {
			t.Errorf("%q: expect ErrInvalidFormat, got %v", wire, err)
		}
	}
}

func TestDecodeDuplicateTags(t *testing.T) {
	m := NewMessage()
	m.AddField(NewField(TagBeginString, []byte(VersionFIX42)))
	m.AddField(NewField(TagMsgType, []byte(MsgTypeNewOrderSingle)))
	m.AddField(NewField(TagSymbol, []byte("AAA")))
	m.AddField(NewField(TagSymbol, []byte("BBB")))
	data, err := m.Encode()
	if err != nil {
		t.Fatal(err)
	}
	out, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(out.GetValue(TagSymbol)); got != "BBB" {
		t.Errorf("lookup must see the latest value, got %q", got)
	}
	var n int
	for _, tag := range out.Tags() {
		if tag == TagSymbol {
			n++
		}
	}
	if n != 2 {
		t.Errorf("expect the tag twice in the trace, got %d", n)
	}
}

func TestDecodeEmptyValue(t *testing.T) {
	m, err := Decode([]byte("8=FIX.4.2\x019=4\x0135=\x0110=112\x01"))
	if err != nil {
		t.Fatal(err)
	}
	f, ok := m.GetField(TagMsgType)
	if !ok {
		t.Fatal("MsgType(35) absent")
	}
	if len(f.Value()) != 0 {
		t.Errorf("expect an empty value, got %q", string(f.Value()))
	}
}

func TestDecodeValueWithEquals(t *testing.T) {
	// only the first '=' splits tag and value
	m := NewMessage()
	m.AddField(NewField(TagBeginString, []byte(VersionFIX42)))
	m.AddField(NewField(TagMsgType, []byte(MsgTypeHeartbeat)))
	m.AddField(NewField(58, []byte("a=b=c")))
	data, err := m.Encode()
	if err != nil {
		t.Fatal(err)
	}
	out, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(out.GetValue(58)); got != "a=b=c" {
		t.Errorf("got %q", got)
	}
}
