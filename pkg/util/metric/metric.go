// Copyright 2026 The Cockroach Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package metric

import (
	"reflect"
	"strings"

	"github.com/VividCortex/ewma"
	"github.com/cockroachdb/dbconsole/pkg/util/syncutil"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Unit describes how a metric is measured.
type Unit int32

// Units for metrics.
const (
	Unit_UNSET Unit = iota
	Unit_COUNT
	Unit_NANOSECONDS
)

// Metadata holds metadata about a metric.
type Metadata struct {
	Name        string
	Help        string
	Measurement string
	Unit        Unit
}

// namespace prefixes every exported metric name.
const namespace = "dbconsole"

// PrometheusName returns the name of the metric as exported to prometheus:
// periods and dashes are replaced with underscores and the namespace is
// prepended.
func (m Metadata) PrometheusName() string {
	return namespace + "_" + strings.NewReplacer(".", "_", "-", "_").Replace(m.Name)
}

// NewCounter creates a prometheus counter described by metadata.
func NewCounter(metadata Metadata) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: metadata.PrometheusName(),
		Help: metadata.Help,
	})
}

// NewGauge creates a prometheus gauge described by metadata.
func NewGauge(metadata Metadata) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Name: metadata.PrometheusName(),
		Help: metadata.Help,
	})
}

// NewCounterVec creates a prometheus counter partitioned by labels.
func NewCounterVec(metadata Metadata, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: metadata.PrometheusName(),
		Help: metadata.Help,
	}, labels)
}

// NewGaugeVec creates a prometheus gauge partitioned by labels.
func NewGaugeVec(metadata Metadata, labels ...string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: metadata.PrometheusName(),
		Help: metadata.Help,
	}, labels)
}

// MovingAverage is an exponentially weighted moving average exported as a
// prometheus gauge.
type MovingAverage struct {
	prometheus.GaugeFunc

	mu struct {
		syncutil.Mutex
		avg ewma.MovingAverage
	}
}

// NewMovingAverage creates a MovingAverage described by metadata.
func NewMovingAverage(metadata Metadata) *MovingAverage {
	m := &MovingAverage{}
	m.mu.avg = ewma.NewMovingAverage()
	m.GaugeFunc = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: metadata.PrometheusName(),
		Help: metadata.Help,
	}, m.Value)
	return m
}

// Add records a new sample.
func (m *MovingAverage) Add(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mu.avg.Add(v)
}

// Value returns the current value of the average.
func (m *MovingAverage) Value() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mu.avg.Value()
}

// Struct can be implemented by the types of members of a metric
// container so that the members get automatically registered.
type Struct interface {
	MetricStruct()
}

// RegisterStruct registers every exported field of the metric struct which
// is a prometheus.Collector with reg. metricStruct must be a pointer to a
// struct implementing Struct.
func RegisterStruct(reg prometheus.Registerer, metricStruct Struct) error {
	v := reflect.ValueOf(metricStruct)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return errors.AssertionFailedf("expected pointer to metric struct, got %T", metricStruct)
	}
	v = v.Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		if !t.Field(i).IsExported() {
			continue
		}
		c, ok := v.Field(i).Interface().(prometheus.Collector)
		if !ok || c == nil {
			continue
		}
		if err := reg.Register(c); err != nil {
			return errors.Wrapf(err, "registering %s.%s", t.Name(), t.Field(i).Name)
		}
	}
	return nil
}
