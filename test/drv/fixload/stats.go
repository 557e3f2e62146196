package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

type (
	RequestStat struct {
		mtx       sync.Mutex
		hist      *hdrhistogram.Histogram
		total     time.Duration
		numErrors int64
	}

	Statistics struct {
		all      RequestStat
		requests [kNumRequestTypes]RequestStat
		tmStart  time.Time
	}
	StatsData struct {
		throughput   float32
		avgLatency   time.Duration
		minLatency   time.Duration
		maxLatency   time.Duration
		p50Latency   time.Duration
		p95Latency   time.Duration
		p99Latency   time.Duration
		p9999Latency time.Duration
		numRequests  int64
		numErrors    int64
	}
)

// ensureHist lazily allocates the histogram. Callers hold mtx.
func (s *RequestStat) ensureHist() {
	if s.hist == nil {
		// Codec operations finish in-process; a minute of range is
		// more than enough.
		s.hist = hdrhistogram.New(1, int64(time.Minute), 3)
	}
}

func (s *RequestStat) Init() {
	s.mtx.Lock()
	s.ensureHist()
	s.mtx.Unlock()
}

func (s *RequestStat) Put(tm time.Duration, err error) {
	s.mtx.Lock()
	s.ensureHist()
	s.hist.RecordValues(int64(tm), 1)
	s.total += tm
	if err != nil {
		s.numErrors++
	}
	s.mtx.Unlock()
}

func (s *RequestStat) GetStats() (stat StatsData) {
	s.mtx.Lock()
	s.ensureHist()
	stat.numRequests = s.hist.TotalCount()
	stat.numErrors = s.numErrors
	stat.minLatency = time.Duration(s.hist.Min())
	stat.maxLatency = time.Duration(s.hist.Max())
	stat.p50Latency = time.Duration(s.hist.ValueAtQuantile(50.))
	stat.p95Latency = time.Duration(s.hist.ValueAtQuantile(95.))
	stat.p99Latency = time.Duration(s.hist.ValueAtQuantile(99.))
	stat.p9999Latency = time.Duration(s.hist.ValueAtQuantile(99.99))
	total := s.total
	s.mtx.Unlock()

	if stat.numRequests != 0 {
		v := float32(total) / float32(stat.numRequests)
		stat.avgLatency = time.Duration(v)
		stat.throughput = 1.0e9 / v
	}
	return
}

func (s *RequestStat) GetTotalCount() (num int64) {
	s.mtx.Lock()
	s.ensureHist()
	num = s.hist.TotalCount()
	s.mtx.Unlock()
	return
}

func (s *RequestStat) Reset() {
	s.mtx.Lock()
	s.ensureHist()
	s.hist.Reset()
	s.numErrors = 0
	s.total = 0
	s.mtx.Unlock()
}

func (s *Statistics) Init() {
	s.all.Init()
	for i := 0; i < int(kNumRequestTypes); i++ {
		s.requests[i].Init()
	}
	s.tmStart = time.Now()
}

func (s *Statistics) Reset() {
	s.all.Reset()
	for i := 0; i < int(kNumRequestTypes); i++ {
		s.requests[i].Reset()
	}
	s.tmStart = time.Now()
}

func (s *Statistics) Put(typ RequestType, tm time.Duration, err error) {
	s.all.Put(tm, err)
	s.requests[typ].Put(tm, err)
}

func (s *Statistics) GetNumRequests() int64 {
	return s.all.GetTotalCount()
}

func (s *Statistics) PrettyPrint(w io.Writer) {
	fmt.Fprintln(w,
		`
    op/s    |                            operation latency                                             |  number of |            |              | number of
  average   | average    | min        | max        |        50% |      95%   |      99%   |     99.99% | operations | percentage |   op type    |  errors
------------+------------+------------+------------+------------+------------+------------+------------+------------+------------+--------------+-------------`)
	wstat := func(stat *StatsData, percentage float32, opType string) {
		fmt.Fprintf(w, "%12.2f %12s %12s %12s %12s %12s %12s %12s %12d %12.2f %12s %12d\n",
			stat.throughput, stat.avgLatency, stat.minLatency, stat.maxLatency, stat.p50Latency, stat.p95Latency,
			stat.p99Latency, stat.p9999Latency,
			stat.numRequests,
			percentage, opType, stat.numErrors)
	}
	stat4all := s.all.GetStats()

	for i := 0; i < int(kNumRequestTypes); i++ {
		stat := s.requests[i].GetStats()
		if stat.numRequests != 0 {
			wstat(&stat, 100.0*float32(stat.numRequests)/float32(stat4all.numRequests), RequestType(i).String())
		}
	}
	fmt.Fprintln(w,
		"------------+------------+------------+------------+------------+------------+------------+------------+------------+------------+--------------+-------------")
	wstat(&stat4all, 100.0, "All")
}
