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
	"bytes"
	"fmt"
	"net"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/BurntSushi/toml"
	"golang.org/x/net/netutil"

	"fixcodec/pkg/cfg"
	"fixcodec/pkg/cmd"
	"fixcodec/pkg/logging/otel"
	"fixcodec/pkg/msglog"
	"fixcodec/pkg/util"
	"fixcodec/pkg/version"
)

type (
	LoadDriver struct {
		cmd.Command

		cmdOpts CmdOptions
		config  Config

		reqSequence RequestSequence
		stats       Statistics
		movingStats Statistics
		tmStart     time.Time

		journal        *msglog.Writer
		numRunningExec util.AtomicCounter
	}
	CmdOptions struct {
		cfgFile string

		requestPattern  string
		numExecutor     int
		numBodyFields   int
		valueLen        int
		numReqPerSecond int
		runningTime     time.Duration
		statOutputRate  int
		httpMonAddr     string
		journalPath     string
		version         bool
		isVariable      bool
	}
)

var (
	td                     = LoadDriver{}
	kDefaultRequestPattern = "E:1,D:1,R:1"
)

const (
	kDefaultNumBodyFields   = 8
	kDefaultValueLen        = 16
	kDefaultNumReqPerSecond = 10000
	kDefaultNumExecutor     = 1
	kDefaultRunningTime     = 100
	kDefaultStatOutputRate  = 10
	kMaxMonConnections      = 8
)

func (d *LoadDriver) setDefaultConfig() {
	d.config.SetDefault()
	d.config.Otel.Poolname = "fixload"
	d.config.Otel.Enabled = false
}

func (d *LoadDriver) Init(name string, desc string) {
	d.Command.Init(name, desc)
	d.StringOption(&d.cmdOpts.cfgFile, "c|config", "", "specify toml configuration file name")
	d.StringOption(&d.cmdOpts.requestPattern, "p|request-pattern", kDefaultRequestPattern, `specify request pattern, a sequence of operations to be
	invoked in format
	  <Op>:<num>[{,<Op>:<num>}]
	Supported type of operations:
	  E    ENCODE
	  D    DECODE
	  R    ROUNDTRIP
	`)
	d.BoolOption(&d.cmdOpts.isVariable, "var-load|variable-load", false, "specify if you want to vary the value length and throughput through the test")
	d.IntOption(&d.cmdOpts.numExecutor, "n|num-executor", kDefaultNumExecutor, "specify the number of executors to be running in parallel")
	d.IntOption(&d.cmdOpts.numBodyFields, "b|num-body-fields", kDefaultNumBodyFields, "specify the number of generated body fields per message")
	d.IntOption(&d.cmdOpts.valueLen, "l|value-length", kDefaultValueLen, "specify the length of generated field values")
	d.IntOption(&d.cmdOpts.numReqPerSecond, "f|num-req-per-second", kDefaultNumReqPerSecond, "specify expected throughput (number of operations per second)")
	d.DurationOption(&d.cmdOpts.runningTime, "t|running-time", kDefaultRunningTime*time.Second, "specify driver's running time")
	d.IntOption(&d.cmdOpts.statOutputRate, "o|stat-output-rate", kDefaultStatOutputRate, "specify how often to output statistic information in second\n\tfor the period of time.")
	d.StringOption(&d.cmdOpts.httpMonAddr, "mon-addr|monitoring-address", "", "specify the http monitoring address. \n\toverride HttpMonAddr in config file")
	d.StringOption(&d.cmdOpts.journalPath, "journal", "", "append encoded messages to the journal at the given path. \n\toverride Journal.Path in config file")
	d.BoolOption(&d.cmdOpts.version, "version", false, "display version information.")

	t := &LoadDriver{}
	t.setDefaultConfig()

	conf := t.config
	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	encoder.Encode(&conf)
	d.AddDetails("\tConfig properties and default values if not defined:\n" +
		"\t\t" + strings.Replace(buf.String(), "\n", "\n\t\t", -1))

	d.AddExample(name+" -p E:10,D:10", "\trun ten encodes followed by ten decodes per cycle")
	d.AddExample(name+" -c config.toml", "\trun the driver with options specified in config.toml")
	d.AddExample(name+" -journal capture.mlog -t 30s",
		"\tcapture encoded messages to capture.mlog for 30 seconds")
}

func (d *LoadDriver) Parse(args []string) (err error) {
	if err = d.Command.Parse(args); err != nil {
		return
	}
	d.setDefaultConfig()

	layered := &cfg.Config{}
	if err = layered.ReadFrom(&d.config); err != nil {
		return
	}
	if len(d.cmdOpts.cfgFile) != 0 {
		fileCfg := &cfg.Config{}
		if err := fileCfg.ReadFromTomlFile(d.cmdOpts.cfgFile); err != nil {
			glog.Exitf("failed to load config file %s. %s", d.cmdOpts.cfgFile, err)
		}
		if err := layered.Merge(fileCfg); err != nil {
			glog.Exitf("failed to merge config file %s. %s", d.cmdOpts.cfgFile, err)
		}
	}

	// command line options override the config file
	if d.cmdOpts.requestPattern != kDefaultRequestPattern {
		layered.SetKeyValue("RequestPattern", d.cmdOpts.requestPattern)
	}
	if d.cmdOpts.numExecutor != kDefaultNumExecutor {
		layered.SetKeyValue("NumExecutor", int64(d.cmdOpts.numExecutor))
	}
	if d.cmdOpts.numBodyFields != kDefaultNumBodyFields {
		layered.SetKeyValue("NumBodyFields", int64(d.cmdOpts.numBodyFields))
	}
	if d.cmdOpts.valueLen != kDefaultValueLen {
		layered.SetKeyValue("ValueLen", int64(d.cmdOpts.valueLen))
	}
	if d.cmdOpts.numReqPerSecond != kDefaultNumReqPerSecond {
		layered.SetKeyValue("NumReqPerSecond", int64(d.cmdOpts.numReqPerSecond))
	}
	if d.cmdOpts.runningTime != kDefaultRunningTime*time.Second {
		layered.SetKeyValue("RunningTime", d.cmdOpts.runningTime.String())
	}
	if d.cmdOpts.statOutputRate != kDefaultStatOutputRate {
		layered.SetKeyValue("StatOutputRate", int64(d.cmdOpts.statOutputRate))
	}
	if d.cmdOpts.httpMonAddr != "" {
		layered.SetKeyValue("HttpMonAddr", d.cmdOpts.httpMonAddr)
	}
	if d.cmdOpts.journalPath != "" {
		layered.SetKeyValue("Journal.Path", d.cmdOpts.journalPath)
	}

	if err = layered.WriteTo(&d.config); err != nil {
		return
	}

	if d.cmdOpts.isVariable {
		d.config.isVariable = true
	}
	if d.config.HttpMonAddr != "" && !strings.Contains(d.config.HttpMonAddr, ":") {
		d.config.HttpMonAddr = ":" + d.config.HttpMonAddr
	}
	if d.config.Otel.Enabled {
		err = otel.Initialize(&d.config.Otel)
	}
	return
}

func (d *LoadDriver) PrintTestSetup() {
	fmt.Println(`
Test Configuration:
--------------------------------------------------------------------`)
	fmt.Printf("To invoke the following operation(s) in sequence repeatedly with %d executor(s)\n", d.config.NumExecutor)
	d.reqSequence.PrettyPrint(os.Stdout)

	if d.config.isVariable {
		fmt.Printf("at a variable rate with mean of (%d) operation(s) per second per executor\n", d.config.NumReqPerSecond)
		fmt.Printf("for about (%s).\n\n", d.config.RunningTime.Duration)
		fmt.Printf("Each message carries (%d) body field(s) with variable values of mean length (%d) byte(s).\n\n", d.config.NumBodyFields, d.config.ValueLen)
	} else {
		fmt.Printf("at the rate of no more than (%d) operation(s) per second per executor\n", d.config.NumReqPerSecond)
		fmt.Printf("for about (%s).\n\n", d.config.RunningTime.Duration)
		fmt.Printf("Each message carries (%d) body field(s) with values of (%d) byte(s).\n\n", d.config.NumBodyFields, d.config.ValueLen)
	}
	if d.journal != nil {
		fmt.Printf("Encoded messages will be appended to the journal at %s.\n\n", d.config.Journal.Path)
	}
	fmt.Printf("Statistic information will be printed for every (%d) second(s).\n\n\n\n", d.config.StatOutputRate)
}

func (d *LoadDriver) Prepare() bool {
	if d.config.ValueLen <= 0 || d.config.NumBodyFields < 0 || d.config.NumReqPerSecond <= 0 {
		glog.Errorf("invalid load shape: ValueLen=%d NumBodyFields=%d NumReqPerSecond=%d",
			d.config.ValueLen, d.config.NumBodyFields, d.config.NumReqPerSecond)
		return false
	}

	if err := d.reqSequence.initFromPattern(d.config.RequestPattern); err != nil {
		glog.Errorf("bad request pattern %q: %s", d.config.RequestPattern, err)
		return false
	}
	numPerCycle := 0
	for _, item := range d.reqSequence.items {
		numPerCycle += item.numRequests
	}
	if numPerCycle == 0 {
		glog.Errorf("request pattern %q has no operations to run", d.config.RequestPattern)
		return false
	}

	if d.config.Journal.Path != "" {
		w, err := msglog.NewWriter(d.config.Journal)
		if err != nil {
			glog.Errorf("%s", err)
			return false
		}
		d.journal = w
	}

	d.PrintTestSetup()
	return true
}

func (d *LoadDriver) Exec() {
	var wg sync.WaitGroup
	chDone := make(chan bool)

	if d.config.NumExecutor > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			timer := time.NewTimer(d.config.RunningTime.Duration)
			ticker := time.NewTicker(time.Duration(d.config.StatOutputRate) * time.Second)
		loop:
			for {
				select {
				case <-timer.C:
					timer.Stop()
					ticker.Stop()
					close(chDone)
					break loop
				case <-chDone:
					break loop
				case <-ticker.C:
					fmt.Printf("%s elapsed, %d executor(s) running, %d operation(s) done\n",
						time.Since(d.tmStart).Round(time.Second), d.numRunningExec.Get(), d.stats.GetNumRequests())
					d.movingStats.PrettyPrint(os.Stdout)
					d.movingStats.Reset()
				}
			}
		}()
	} else {
		glog.Errorf("number of executor specified is zero")
		return
	}
	d.tmStart = time.Now()
	d.stats.Init()
	d.movingStats.Init()
	d.numRunningExec.Set(int32(d.config.NumExecutor))
	for i := 0; i < d.config.NumExecutor; i++ {
		eng := &TestEngine{
			rdgen:           NewRandomGen(&d.config, i),
			reqSequence:     d.reqSequence,
			journal:         d.journal,
			stats:           &d.stats,
			movingStats:     &d.movingStats,
			numReqPerSecond: d.config.NumReqPerSecond,
			numRunningExec:  &d.numRunningExec,
		}
		eng.Init()
		wg.Add(1)
		go eng.Run(&wg, chDone)
	}
	if d.config.HttpMonAddr != "" {
		http.HandleFunc("/version", version.HttpHandler)
		go func() {
			listener, err := net.Listen("tcp", d.config.HttpMonAddr)
			if err != nil {
				glog.Warningf("fail to listen on %s, err: %s", d.config.HttpMonAddr, err)
				return
			}
			if err := http.Serve(netutil.LimitListener(listener, kMaxMonConnections), nil); err != nil {
				glog.Warningf("fail to serve HTTP on %s, err: %s", d.config.HttpMonAddr, err)
			}
		}()
	}
	wg.Wait()
}

func (d *LoadDriver) Finish() {
	if d.journal != nil {
		if err := d.journal.Close(); err != nil {
			glog.Errorf("journal close: %s", err)
		}
		PrintJournalStats(d.config.Journal.Path)
	}
	otel.Finalize()
}

func main() {
	td.Init("fixload", "codec load driver")
	if err := td.Parse(os.Args[1:]); err != nil {
		glog.Exitf("failed with %s", err.Error())
	}

	if td.cmdOpts.version {
		version.PrintVersionInfo()
		return
	}

	if td.Prepare() && td.config.RunningTime.Duration > 0 {
		td.Exec()
		fmt.Println("\n\nFINAL")
		td.stats.PrettyPrint(os.Stdout)
	}
	td.Finish()
}
