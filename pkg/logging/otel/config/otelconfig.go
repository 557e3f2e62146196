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
package config

import (
	"github.com/golang/glog"
)

var OtelConfig *Config

// HistBuckets holds explicit histogram bucket boundaries, in
// microseconds, for the codec latency histograms.
type HistBuckets struct {
	Encode []float64
	Decode []float64
}

type Config struct {
	Host             string
	Port             uint32
	UrlPath          string
	Environment      string
	Poolname         string
	Enabled          bool
	Resolution       uint32
	UseTls           bool
	HistogramBuckets HistBuckets
}

func (c *Config) Validate() {
	if len(c.Poolname) <= 0 {
		glog.Fatal("Error: Otel Poolname is required.")
	}
	c.setDefaultIfNotDefined()
}

func (c *Config) setDefaultIfNotDefined() {
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 4318
	}
	if c.Resolution == 0 {
		c.Resolution = 60
	}
	if c.Environment == "" {
		c.Environment = "qa"
	}
	if c.UrlPath == "" {
		c.UrlPath = "/v1/metrics"
	}
	if len(c.HistogramBuckets.Encode) == 0 {
		c.HistogramBuckets.Encode = []float64{1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024, 2048}
	}
	if len(c.HistogramBuckets.Decode) == 0 {
		c.HistogramBuckets.Decode = []float64{1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024, 2048}
	}
}

func (c *Config) Dump() {
	glog.Infof("Host : %s", c.Host)
	glog.Infof("Port: %d", c.Port)
	glog.Infof("Environment: %s", c.Environment)
	glog.Infof("Poolname: %s", c.Poolname)
	glog.Infof("Resolution: %d", c.Resolution)
	glog.Infof("UseTls: %t", c.UseTls)
	glog.Infof("UrlPath: %s", c.UrlPath)
	glog.Info("Encode Bucket: ", c.HistogramBuckets.Encode)
	glog.Info("Decode Bucket: ", c.HistogramBuckets.Decode)
}
