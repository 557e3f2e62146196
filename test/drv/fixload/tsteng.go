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

package main

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/golang/glog"

	"fixcodec/pkg/fix"
	"fixcodec/pkg/logging/otel"
	"fixcodec/pkg/msglog"
	"fixcodec/pkg/util"
)

const (
	kRequestTypeEncode RequestType = iota
	kRequestTypeDecode
	kRequestTypeRoundTrip
	kNumRequestTypes
)

// Encoded messages kept around as decode input.
const kMaxStoredWires = 1024

// Wires pre-encoded at engine init so a decode-only pattern has input.
const kNumSeedWires = 16

type (
	RequestType uint8

	// WireStore holds encoded messages for the decode path. Bounded;
	// once full, a new wire replaces a random slot.
	WireStore struct {
		wires [][]byte
	}

	TestEngine struct {
		rdgen           *RandomGen
		wireStore       WireStore
		reqSequence     RequestSequence
		invokeFuncs     []InvokeFunc
		journal         *msglog.Writer
		stats           *Statistics
		movingStats     *Statistics
		numReqPerSecond int
		numRunningExec  *util.AtomicCounter
		buf             util.Buffer
	}
	InvokeFunc func() error
)

func (t RequestType) String() (str string) {
	switch t {
	case kRequestTypeEncode:
		str = "Encode"
	case kRequestTypeDecode:
		str = "Decode"
	case kRequestTypeRoundTrip:
		str = "RoundTrip"
	default:
		str = "Unsupported"
	}
	return
}

func (s *WireStore) Add(wire []byte) {
	if len(s.wires) < kMaxStoredWires {
		s.wires = append(s.wires, wire)
		return
	}
	s.wires[rand.Intn(len(s.wires))] = wire
}

func (s *WireStore) Get() (wire []byte, err error) {
	if len(s.wires) == 0 {
		err = fmt.Errorf("no encoded message in the store")
		return
	}
	wire = s.wires[rand.Intn(len(s.wires))]
	return
}

func (e *TestEngine) Init() {
	e.invokeFuncs = make([]InvokeFunc, kNumRequestTypes)
	e.invokeFuncs[kRequestTypeEncode] = e.invokeEncode
	e.invokeFuncs[kRequestTypeDecode] = e.invokeDecode
	e.invokeFuncs[kRequestTypeRoundTrip] = e.invokeRoundTrip

	for i := 0; i < kNumSeedWires; i++ {
		wire, err := e.rdgen.NextMessage().Encode()
		if err != nil {
			glog.Errorf("seed message: %s", err)
			return
		}
		e.wireStore.Add(wire)
	}
}

func (e *TestEngine) Run(wg *sync.WaitGroup, chDone <-chan bool) {
	defer wg.Done()
	defer e.numRunningExec.Add(-1)
	startTime := time.Now()
	var numreq int = 0

	for {
		for _, item := range e.reqSequence.items {
			for i := 0; i < item.numRequests; i++ {
				select {
				case <-chDone:
					return
				default:
					now := time.Now()
					err := e.invoke(item.reqType)
					tm := time.Since(now)

					e.stats.Put(item.reqType, tm, err)
					e.movingStats.Put(item.reqType, tm, err)
					if err != nil {
						glog.Errorf("%s error: %s", item.reqType.String(), err)
					}
					diff := now.Sub(startTime)
					if e.rdgen.isVariable && diff > (12*time.Second) {
						e.numReqPerSecond = e.rdgen.getThroughPut()
						startTime = time.Now()
						numreq = 0
					}
					numreq++
					e.checkSpeedDelayIfNeeded(now, numreq, startTime)
				}
			}
		}
	}
}

func (e *TestEngine) checkSpeedDelayIfNeeded(now time.Time, numReq int, startTime time.Time) {
	if numReq < 10 {
		return
	}
	expectedDur := 1 * time.Second / time.Duration(e.numReqPerSecond)
	expectedDur *= time.Duration(numReq)

	dur := now.Sub(startTime)
	delta := expectedDur - dur
	if delta > 0 {
		time.Sleep(delta)
	}
}

func (e *TestEngine) invokeEncode() (err error) {
	msg := e.rdgen.NextMessage()
	msgType := string(msg.GetValue(fix.TagMsgType))

	start := time.Now()
	err = msg.EncodeToBuffer(&e.buf)
	elapsed := int64(time.Since(start) / time.Microsecond)
	if err != nil {
		otel.RecordEncode(msgType, otel.StatusError, elapsed)
		return
	}
	otel.RecordEncode(msgType, otel.StatusSuccess, elapsed)
	otel.RecordCount(otel.EncodeOp, nil)

	wire := e.buf.Bytes()
	if e.journal != nil {
		if err = e.journal.Append(wire); err != nil {
			return
		}
		otel.RecordCount(otel.JournalAppend, nil)
	}
	// the engine buffer is reused; the store needs its own copy
	e.wireStore.Add(append([]byte(nil), wire...))
	return
}

func (e *TestEngine) invokeDecode() (err error) {
	wire, err := e.wireStore.Get()
	if err != nil {
		return
	}

	start := time.Now()
	msg, err := fix.Decode(wire)
	elapsed := int64(time.Since(start) / time.Microsecond)
	if err != nil {
		otel.RecordDecode("", otel.StatusError, elapsed)
		otel.RecordCount(otel.DecodeErr, []otel.Tags{{otel.Status, otel.StatusError}})
		return
	}
	otel.RecordDecode(string(msg.GetValue(fix.TagMsgType)), otel.StatusSuccess, elapsed)
	otel.RecordCount(otel.DecodeOp, nil)
	return
}

func (e *TestEngine) invokeRoundTrip() (err error) {
	msg := e.rdgen.NextMessage()
	msgType := string(msg.GetValue(fix.TagMsgType))

	start := time.Now()
	wire, err := msg.Encode()
	encodeUs := int64(time.Since(start) / time.Microsecond)
	if err != nil {
		otel.RecordEncode(msgType, otel.StatusError, encodeUs)
		return
	}
	otel.RecordEncode(msgType, otel.StatusSuccess, encodeUs)
	otel.RecordCount(otel.EncodeOp, nil)

	start = time.Now()
	decoded, err := fix.Decode(wire)
	decodeUs := int64(time.Since(start) / time.Microsecond)
	if err != nil {
		otel.RecordDecode(msgType, otel.StatusError, decodeUs)
		otel.RecordCount(otel.DecodeErr, []otel.Tags{{otel.Status, otel.StatusError}})
		return
	}
	otel.RecordDecode(msgType, otel.StatusSuccess, decodeUs)
	otel.RecordCount(otel.DecodeOp, nil)

	// encoding adds the BodyLength and CheckSum fields
	if decoded.NumFields() != msg.NumFields()+2 {
		err = fmt.Errorf("round trip returned %d fields, expected %d", decoded.NumFields(), msg.NumFields()+2)
		return
	}
	e.wireStore.Add(wire)
	return
}

func (e *TestEngine) invoke(t RequestType) (err error) {
	if t >= kNumRequestTypes {
		glog.Exitf("not supported request type : %d", t)
	}
	f := e.invokeFuncs[t]
	if f != nil {
		err = f()
	} else {
		glog.Errorf("test engine not properly initialized")
	}
	return
}
