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
)

type ProtocolError struct {
	what string
}

// Wire delimiters
const (
	SOH    byte = 0x01
	Equals byte = '='
)

// "10=" + three checksum digits + SOH
const kCheckSumFieldSize = 7

// Standard field tags
const (
	TagBeginString  uint32 = 8
	TagBodyLength   uint32 = 9
	TagCheckSum     uint32 = 10
	TagClOrdID      uint32 = 11
	TagOrderQty     uint32 = 38
	TagMsgSeqNum    uint32 = 34
	TagMsgType      uint32 = 35
	TagOrdType      uint32 = 40
	TagPrice        uint32 = 44
	TagSenderCompID uint32 = 49
	TagSendingTime  uint32 = 52
	TagSide         uint32 = 54
	TagSymbol       uint32 = 55
	TagTargetCompID uint32 = 56
)

// MsgType(35) values
const (
	MsgTypeHeartbeat       = "0"
	MsgTypeTestRequest     = "1"
	MsgTypeResendRequest   = "2"
	MsgTypeReject          = "3"
	MsgTypeSequenceReset   = "4"
	MsgTypeLogout          = "5"
	MsgTypeExecutionReport = "8"
	MsgTypeLogon           = "A"
	MsgTypeNewOrderSingle  = "D"
)

// BeginString(8) values
const (
	VersionFIX40 = "FIX.4.0"
	VersionFIX41 = "FIX.4.1"
	VersionFIX42 = "FIX.4.2"
	VersionFIX43 = "FIX.4.3"
	VersionFIX44 = "FIX.4.4"
	VersionFIX50 = "FIX.5.0"
)

var (
	tagNameMap map[uint32]string = map[uint32]string{
		TagBeginString:  "BeginString",
		TagBodyLength:   "BodyLength",
		TagCheckSum:     "CheckSum",
		TagClOrdID:      "ClOrdID",
		TagMsgSeqNum:    "MsgSeqNum",
		TagMsgType:      "MsgType",
		TagOrderQty:     "OrderQty",
		TagOrdType:      "OrdType",
		TagPrice:        "Price",
		TagSenderCompID: "SenderCompID",
		TagSendingTime:  "SendingTime",
		TagSide:         "Side",
		TagSymbol:       "Symbol",
		TagTargetCompID: "TargetCompID",
	}

	msgTypeNameMap map[string]string = map[string]string{
		MsgTypeHeartbeat:       "Heartbeat",
		MsgTypeTestRequest:     "TestRequest",
		MsgTypeResendRequest:   "ResendRequest",
		MsgTypeReject:          "Reject",
		MsgTypeSequenceReset:   "SequenceReset",
		MsgTypeLogout:          "Logout",
		MsgTypeExecutionReport: "ExecutionReport",
		MsgTypeLogon:           "Logon",
		MsgTypeNewOrderSingle:  "NewOrderSingle",
	}
)

// TagName returns the symbolic name of a standard tag, "" if unknown.
func TagName(tag uint32) string {
	return tagNameMap[tag]
}

// MsgTypeName returns the symbolic name of a MsgType(35) value, "" if unknown.
func MsgTypeName(code string) string {
	return msgTypeNameMap[code]
}

var (
	ErrInvalidFormat     = &ProtocolError{"Invalid message format"}
	ErrInvalidChecksum   = &ProtocolError{"Invalid checksum"}
	ErrInvalidFieldValue = &ProtocolError{"Invalid field value"}
	ErrInvalidBodyLength = &ProtocolError{"Invalid body length"}
	ErrMissingField      = &ProtocolError{"Missing required field"}
)

func NewProtocolError(err error) *ProtocolError {
	return &ProtocolError{
		what: err.Error(),
	}
}

func (e *ProtocolError) Error() string {
	return "ProtocolError: " + e.what
}

// MissingFieldError reports which required tag was absent. It matches
// ErrMissingField with errors.Is.
type MissingFieldError struct {
	Tag uint32
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("ProtocolError: Missing required field: %d", e.Tag)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

func computeCheckSum(data []byte) uint32 {
	var sum uint32
	for _, b := range data {
		sum += uint32(b)
	}
	return sum % 256
}
