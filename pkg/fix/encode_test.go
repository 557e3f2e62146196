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
	"strconv"
	"testing"

	"fixcodec/pkg/util"
)

func newOrderMessage() *Message {
	m := NewMessage()
	m.AddField(NewField(TagBeginString, []byte(VersionFIX42)))
	m.AddField(NewField(TagMsgType, []byte(MsgTypeNewOrderSingle)))
	m.AddField(NewField(TagSenderCompID, []byte("SENDER")))
	m.AddField(NewField(TagTargetCompID, []byte("TARGET")))
	m.AddField(NewField(TagMsgSeqNum, []byte("1")))
	m.AddField(NewField(TagClOrdID, []byte("ORD1")))
	return m
}

func TestEncodeHeartbeat(t *testing.T) {
	m := NewMessage()
	m.AddField(NewField(TagBeginString, []byte(VersionFIX42)))
	m.AddField(NewField(TagMsgType, []byte(MsgTypeHeartbeat)))

	data, err := m.Encode()
	if err != nil {
		t.Fatal(err)
	}
	expected := "8=FIX.4.2\x019=5\x0135=0\x0110=161\x01"
	if string(data) != expected {
		t.Errorf("expect %q, got %q", expected, string(data))
	}
}

func TestEncodeNewOrder(t *testing.T) {
	data, err := newOrderMessage().Encode()
	if err != nil {
		t.Fatal(err)
	}
	expected := "8=FIX.4.2\x019=38\x0135=D\x0149=SENDER\x0156=TARGET\x0134=1\x0111=ORD1\x0110=083\x01"
	if string(data) != expected {
		t.Errorf("expect %q, got %q", expected, string(data))
	}
}

func TestEncodeChecksumTrailer(t *testing.T) {
	data, err := newOrderMessage().Encode()
	if err != nil {
		t.Fatal(err)
	}
	trailer := data[len(data)-kCheckSumFieldSize:]
	if trailer[0] != '1' || trailer[1] != '0' || trailer[2] != Equals ||
		trailer[6] != SOH {
		t.Fatalf("malformed checksum trailer %q", string(trailer))
	}
	for _, d := range trailer[3:6] {
		if d < '0' || d > '9' {
			t.Errorf("checksum digits must be zero padded, got %q", string(trailer))
		}
	}
}

func TestEncodeEmptyMsgTypeValue(t *testing.T) {
	m := NewMessage()
	m.AddField(NewField(TagBeginString, []byte(VersionFIX42)))
	m.AddField(NewField(TagMsgType, nil))
	data, err := m.Encode()
	if err != nil {
		t.Fatal(err)
	}
	expected := "8=FIX.4.2\x019=4\x0135=\x0110=112\x01"
	if string(data) != expected {
		t.Errorf("expect %q, got %q", expected, string(data))
	}
}

func TestEncodeMissingBeginString(t *testing.T) {
	m := NewMessage()
	m.AddField(NewField(TagMsgType, []byte(MsgTypeHeartbeat)))
	if _, err := m.Encode(); err == nil {
		t.Fatal("expect an error")
	} else {
		var mf *MissingFieldError
		if !errors.As(err, &mf) || mf.Tag != TagBeginString {
			t.Errorf("expect missing BeginString(8), got %v", err)
		}
		if !errors.Is(err, ErrMissingField) {
			t.Errorf("expect ErrMissingField, got %v", err)
		}
	}
}

func TestEncodeMissingMsgType(t *testing.T) {
	m := NewMessage()
	m.AddField(NewField(TagBeginString, []byte(VersionFIX42)))
	if _, err := m.Encode(); err == nil {
		t.Fatal("expect an error")
	} else {
		var mf *MissingFieldError
		if !errors.As(err, &mf) || mf.Tag != TagMsgType {
			t.Errorf("expect missing MsgType(35), got %v", err)
		}
	}
}

// Stored BodyLength(9) and CheckSum(10) values must be ignored and the
// emitted ones computed from the actual content.
func TestEncodeOverridesStoredHeaderFields(t *testing.T) {
	m := NewMessage()
	m.AddField(NewField(TagBeginString, []byte(VersionFIX42)))
	m.AddField(NewField(TagBodyLength, []byte("999")))
	m.AddField(NewField(TagMsgType, []byte(MsgTypeHeartbeat)))
	m.AddField(NewField(TagCheckSum, []byte("999")))
	data, err := m.Encode()
	if err != nil {
		t.Fatal(err)
	}
	expected := "8=FIX.4.2\x019=5\x0135=0\x0110=161\x01"
	if string(data) != expected {
		t.Errorf("expect %q, got %q", expected, string(data))
	}
}

func TestEncodeDuplicateTag(t *testing.T) {
	m := NewMessage()
	m.AddField(NewField(TagBeginString, []byte(VersionFIX42)))
	m.AddField(NewField(TagMsgType, []byte(MsgTypeNewOrderSingle)))
	m.AddField(NewField(TagSymbol, []byte("AAA")))
	m.AddField(NewField(TagSymbol, []byte("BBB")))
	data, err := m.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if n := bytes.Count(data, []byte("55=BBB\x01")); n != 2 {
		t.Errorf("expect the latest value once per insertion, got %d in %q", n, string(data))
	}
	if bytes.Contains(data, []byte("AAA")) {
		t.Errorf("overwritten value must not be emitted: %q", string(data))
	}
	if _, err = Decode(data); err != nil {
		t.Errorf("emitted message must stay decodable: %v", err)
	}
}

func TestEncodeToBuffer(t *testing.T) {
	m := newOrderMessage()
	expected, err := m.Encode()
	if err != nil {
		t.Fatal(err)
	}

	var buf util.Buffer
	if err = m.EncodeToBuffer(&buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), expected) {
		t.Errorf("expect %q, got %q", string(expected), string(buf.Bytes()))
	}

	// reuse with different content
	m2 := NewMessage()
	m2.AddField(NewField(TagBeginString, []byte(VersionFIX42)))
	m2.AddField(NewField(TagMsgType, []byte(MsgTypeHeartbeat)))
	if err = m2.EncodeToBuffer(&buf); err != nil {
		t.Fatal(err)
	}
	if string(buf.Bytes()) != "8=FIX.4.2\x019=5\x0135=0\x0110=161\x01" {
		t.Errorf("reused buffer holds %q", string(buf.Bytes()))
	}
}

func TestEncodeToBufferMissingField(t *testing.T) {
	m := NewMessage()
	var buf util.Buffer
	if err := m.EncodeToBuffer(&buf); err == nil {
		t.Fatal("expect an error")
	}
	if buf.Len() != 0 {
		t.Errorf("buffer must stay untouched on error, len %d", buf.Len())
	}
}

func TestEncodeLargeBody(t *testing.T) {
	value := bytes.Repeat([]byte{'A'}, 10000)
	m := NewMessage()
	m.AddField(NewField(TagBeginString, []byte(VersionFIX42)))
	m.AddField(NewField(TagMsgType, []byte(MsgTypeNewOrderSingle)))
	m.AddField(NewField(TagSymbol, value))
	data, err := m.Encode()
	if err != nil {
		t.Fatal(err)
	}
	// 8=FIX.4.2| is 10, 9=10009| is 8, body is 5+10004, trailer is 7
	if len(data) != 10034 {
		t.Errorf("expect 10034 bytes, got %d", len(data))
	}
	if !bytes.Contains(data, []byte("\x019=10009\x01")) {
		t.Error("wrong body length header")
	}
	out, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.GetValue(TagSymbol), value) {
		t.Error("large value corrupted in round trip")
	}
}

func TestEncodedSizesMatchOutput(t *testing.T) {
	for _, m := range []*Message{heartbeatMessage(), newOrderMessage()} {
		total, bodyLen, err := m.encodedSizes()
		if err != nil {
			t.Fatal(err)
		}
		data, err := m.Encode()
		if err != nil {
			t.Fatal(err)
		}
		if len(data) != total {
			t.Errorf("expect total %d, got %d bytes", total, len(data))
		}
		out, err := Decode(data)
		if err != nil {
			t.Fatal(err)
		}
		if string(out.GetValue(TagBodyLength)) != strconv.Itoa(bodyLen) {
			t.Errorf("announced body %q, sized %d",
				string(out.GetValue(TagBodyLength)), bodyLen)
		}
	}
}

func heartbeatMessage() *Message {
	m := NewMessage()
	m.AddField(NewField(TagBeginString, []byte(VersionFIX42)))
	m.AddField(NewField(TagMsgType, []byte(MsgTypeHeartbeat)))
	return m
}
