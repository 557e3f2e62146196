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
package otel

import (
	"sync"

	"go.opentelemetry.io/otel/metric/instrument/syncint64"
	"go.opentelemetry.io/otel/sdk/metric"
)

//*************************** Constants ****************************
const (
	EncodeOp CMetric = CMetric(iota)
	DecodeOp
	DecodeErr
	JournalAppend
)

// attribute names
const (
	Target    = string("target")
	Endpoint  = string("endpoint")
	Operation = string("operation")
	Status    = string("status")
	MsgType   = string("msg_type")
)

// OTEl Status
const (
	StatusSuccess string = "SUCCESS"
	StatusFatal   string = "FATAL"
	StatusError   string = "ERROR"
	StatusWarning string = "WARNING"
	StatusUnknown string = "UNKNOWN"
)

const FIX_METRIC_PREFIX = "fix.codec."
const MeterName = "fixcodec-meter"

//****************************** variables ***************************

var (
	encodeHistogramOnce      sync.Once
	decodeHistogramOnce      sync.Once
	encodeCounterOnce        sync.Once
	decodeCounterOnce        sync.Once
	decodeErrCounterOnce     sync.Once
	journalAppendCounterOnce sync.Once
)

var encodeHistogram syncint64.Histogram
var decodeHistogram syncint64.Histogram

var countMetricMap map[CMetric]*countMetric = map[CMetric]*countMetric{
	EncodeOp:      {"encoded", "Messages encoded", nil, &encodeCounterOnce},
	DecodeOp:      {"decoded", "Messages decoded", nil, &decodeCounterOnce},
	DecodeErr:     {"DecodeErr", "Message decode failures", nil, &decodeErrCounterOnce},
	JournalAppend: {"journal_append", "Messages appended to the journal", nil, &journalAppendCounterOnce},
}

var (
	meterProvider *metric.MeterProvider
)

// ************************************ Types ****************************
type CMetric int

type Tags struct {
	TagName  string
	TagValue string
}

type countMetric struct {
	metricName    string
	metricDesc    string
	counter       syncint64.Counter
	createCounter *sync.Once
}
