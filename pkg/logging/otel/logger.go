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
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang/glog"

	otelCfg "fixcodec/pkg/logging/otel/config"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric/global"
	"go.opentelemetry.io/otel/metric/instrument"
	"go.opentelemetry.io/otel/metric/instrument/syncint64"
	"go.opentelemetry.io/otel/metric/unit"
	"go.opentelemetry.io/otel/sdk/instrumentation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregation"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

func Initialize(args ...interface{}) (err error) {
	sz := len(args)
	if sz == 0 {
		err = fmt.Errorf("Otel config argument not as expected")
		glog.Error(err)
		return
	}
	var c *otelCfg.Config
	var ok bool
	if c, ok = args[0].(*otelCfg.Config); !ok {
		err = fmt.Errorf("wrong argument type")
		glog.Error(err)
		return
	}
	c.Dump()
	if c.Enabled {
		// Initialize only if OTEL is enabled
		InitMetricProvider(c)
	}
	return
}

func InitMetricProvider(config *otelCfg.Config) {
	if meterProvider != nil {
		return
	}

	otelCfg.OtelConfig = config

	ctx := context.Background()

	// Views to customize the latency histogram buckets.
	encodeBucketsView := metric.NewView(
		metric.Instrument{
			Name:  "*encode_latency*",
			Scope: instrumentation.Scope{Name: MeterName},
		},
		metric.Stream{
			Aggregation: aggregation.ExplicitBucketHistogram{
				Boundaries: config.HistogramBuckets.Encode,
			},
		})
	decodeBucketsView := metric.NewView(
		metric.Instrument{
			Name:  "*decode_latency*",
			Scope: instrumentation.Scope{Name: MeterName},
		},
		metric.Stream{
			Aggregation: aggregation.ExplicitBucketHistogram{
				Boundaries: config.HistogramBuckets.Decode,
			},
		})

	provider, err := NewMeterProvider(ctx, *config, encodeBucketsView, decodeBucketsView)
	if err != nil {
		log.Fatal(err)
	}
	provider.Meter(MeterName)
	global.SetMeterProvider(provider)
	glog.Info("OTEL metric provider initialized")
}

func NewMeterProvider(ctx context.Context, cfg otelCfg.Config, vis ...metric.View) (*metric.MeterProvider, error) {
	exp, err := NewHTTPExporter(ctx)
	if err != nil {
		return nil, err
	}

	res := getResourceInfo(cfg)

	reader := metric.NewPeriodicReader(exp, metric.WithInterval(time.Duration(cfg.Resolution)*time.Second))
	meterProvider = metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(reader),
		metric.WithView(vis...),
	)

	return meterProvider, nil
}

func NewHTTPExporter(ctx context.Context) (metric.Exporter, error) {
	var deltaTemporalitySelector = func(metric.InstrumentKind) metricdata.Temporality { return metricdata.DeltaTemporality }
	if otelCfg.OtelConfig.UseTls == true {
		return otlpmetrichttp.New(
			ctx,
			otlpmetrichttp.WithEndpoint(otelCfg.OtelConfig.Host+":"+fmt.Sprintf("%d", otelCfg.OtelConfig.Port)),
			otlpmetrichttp.WithURLPath(otelCfg.OtelConfig.UrlPath),
			// WithTimeout sets the max amount of time the Exporter will attempt an
			// export.
			otlpmetrichttp.WithTimeout(7*time.Second),
			otlpmetrichttp.WithCompression(otlpmetrichttp.NoCompression),
			otlpmetrichttp.WithTemporalitySelector(deltaTemporalitySelector),
			otlpmetrichttp.WithRetry(otlpmetrichttp.RetryConfig{
				// Enabled indicates whether to not retry sending batches in case
				// of export failure.
				Enabled: true,
				// InitialInterval the time to wait after the first failure before
				// retrying.
				InitialInterval: 1 * time.Second,
				// MaxInterval is the upper bound on backoff interval. Once this
				// value is reached the delay between consecutive retries will
				// always be `MaxInterval`.
				MaxInterval: 10 * time.Second,
				// MaxElapsedTime is the maximum amount of time (including retries)
				// spent trying to send a request/batch. Once this value is
				// reached, the data is discarded.
				MaxElapsedTime: 240 * time.Second,
			}),
		)
	} else {
		return otlpmetrichttp.New(
			ctx,
			otlpmetrichttp.WithEndpoint(otelCfg.OtelConfig.Host+":"+fmt.Sprintf("%d", otelCfg.OtelConfig.Port)),
			otlpmetrichttp.WithURLPath(otelCfg.OtelConfig.UrlPath),
			otlpmetrichttp.WithInsecure(),
			otlpmetrichttp.WithTimeout(7*time.Second),
			otlpmetrichttp.WithCompression(otlpmetrichttp.NoCompression),
			otlpmetrichttp.WithTemporalitySelector(deltaTemporalitySelector),
			otlpmetrichttp.WithRetry(otlpmetrichttp.RetryConfig{
				Enabled:         true,
				InitialInterval: 1 * time.Second,
				MaxInterval:     10 * time.Second,
				MaxElapsedTime:  240 * time.Second,
			}),
		)
	}
}

func IsEnabled() bool {
	return meterProvider != nil
}

// Finalize flushes any pending export and shuts the provider down.
// Call it on tool exit so short runs do not lose their last interval.
func Finalize() {
	if meterProvider != nil {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			glog.Error(err)
		}
	}
}

func GetHistogramForEncode() (syncint64.Histogram, error) {
	var err error
	encodeHistogramOnce.Do(func() {
		meter := global.Meter(MeterName)
		encodeHistogram, err = meter.SyncInt64().Histogram(
			PopulateFixMetricNamePrefix("encode_latency"),
			instrument.WithDescription("Histogram for message encode latency"),
			instrument.WithUnit(unit.Unit("us")),
		)
	})
	return encodeHistogram, err
}

func GetHistogramForDecode() (syncint64.Histogram, error) {
	var err error
	decodeHistogramOnce.Do(func() {
		meter := global.Meter(MeterName)
		decodeHistogram, err = meter.SyncInt64().Histogram(
			PopulateFixMetricNamePrefix("decode_latency"),
			instrument.WithDescription("Histogram for message decode latency"),
			instrument.WithUnit(unit.Unit("us")),
		)
	})
	return decodeHistogram, err
}

func GetCounter(counterName CMetric) (syncint64.Counter, error) {
	if counterMetric, ok := countMetricMap[counterName]; ok {
		counterMetric.createCounter.Do(func() {
			meter := global.Meter(MeterName)
			counterMetric.counter, _ = meter.SyncInt64().Counter(
				PopulateFixMetricNamePrefix(counterMetric.metricName),
				instrument.WithDescription(counterMetric.metricDesc),
			)
		})
		if counterMetric.counter != nil {
			return counterMetric.counter, nil
		} else {
			return nil, errors.New("Counter Object not Ready")
		}
	} else {
		return nil, errors.New("No Such counter exists")
	}
}

// RecordEncode records one encode latency, in microseconds, tagged
// with the message type and status.
func RecordEncode(msgType string, status string, latency int64) {
	ctx := context.Background()
	if histogram, err := GetHistogramForEncode(); err == nil {
		commonLabels := []attribute.KeyValue{
			attribute.String(MsgType, msgType),
			attribute.String(Status, status),
		}
		histogram.Record(ctx, latency, commonLabels...)
	}
}

// RecordDecode records one decode latency, in microseconds, tagged
// with the message type and status.
func RecordDecode(msgType string, status string, latency int64) {
	ctx := context.Background()
	if histogram, err := GetHistogramForDecode(); err == nil {
		commonLabels := []attribute.KeyValue{
			attribute.String(MsgType, msgType),
			attribute.String(Status, status),
		}
		histogram.Record(ctx, latency, commonLabels...)
	}
}

func RecordCount(counterName CMetric, tags []Tags) {
	ctx := context.Background()
	if counter, err := GetCounter(counterName); err == nil {
		if len(tags) != 0 {
			commonLabels := convertTagsToOTELAttributes(tags)
			counter.Add(ctx, 1, commonLabels...)
		} else {
			counter.Add(ctx, 1)
		}
	} else {
		glog.Error(err)
	}
}

func convertTagsToOTELAttributes(tags []Tags) (attr []attribute.KeyValue) {
	attr = make([]attribute.KeyValue, len(tags))
	for i := 0; i < len(tags); i++ {
		attr[i] = attribute.String(tags[i].TagName, tags[i].TagValue)
	}
	return
}

func PopulateFixMetricNamePrefix(metricName string) string {
	return FIX_METRIC_PREFIX + metricName
}

func getResourceInfo(cfg otelCfg.Config) *resource.Resource {
	hostname, _ := os.Hostname()

	resource := resource.NewWithAttributes("empty resource",
		semconv.HostNameKey.String(hostname),
		semconv.ServiceNameKey.String(cfg.Poolname),
		attribute.String("env", cfg.Environment),
		attribute.String("application", cfg.Poolname),
	)
	return resource
}
