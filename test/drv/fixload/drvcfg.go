package main

import (
	"time"

	"fixcodec/pkg/fix"
	otelCfg "fixcodec/pkg/logging/otel/config"
	"fixcodec/pkg/msglog"
	"fixcodec/pkg/util"
)

type (
	Config struct {
		RequestPattern string
		BeginString    string
		SenderCompID   string
		TargetCompID   string
		HttpMonAddr    string

		NumExecutor     int
		NumBodyFields   int
		ValueLen        int
		NumReqPerSecond int
		RunningTime     util.Duration
		StatOutputRate  int // seconds

		Otel    otelCfg.Config
		Journal msglog.Config

		isVariable bool
	}
)

func (c *Config) SetDefault() {
	c.RequestPattern = kDefaultRequestPattern
	c.BeginString = fix.VersionFIX42
	c.SenderCompID = "FIXLOAD"
	c.TargetCompID = "SINK"
	c.NumExecutor = kDefaultNumExecutor
	c.NumBodyFields = kDefaultNumBodyFields
	c.ValueLen = kDefaultValueLen
	c.NumReqPerSecond = kDefaultNumReqPerSecond
	c.RunningTime = util.Duration{Duration: kDefaultRunningTime * time.Second}
	c.StatOutputRate = kDefaultStatOutputRate
	c.Journal.Compress = true
}
