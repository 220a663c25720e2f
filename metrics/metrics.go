// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"
)

// metrics is the process wide meter provider, noop until Enable is called.
var metrics Metrics = noop{}

// Metrics creates or returns named meters.
type Metrics interface {
	Counter(name string) CountMeter
	CounterVec(name string, labels []string) CountVecMeter
	Gauge(name string) GaugeMeter
	HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter
	Handler() http.Handler
}

// HTTPHandler returns the handler exposing the collected metrics, nil when disabled.
func HTTPHandler() http.Handler {
	return metrics.Handler()
}

// BucketDurationMs covers transitions and API requests, in milliseconds.
var BucketDurationMs = []int64{0, 1, 2, 5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000}

type CountMeter interface {
	Add(int64)
}

type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

type GaugeMeter interface {
	Add(int64)
	Set(int64)
}

type HistogramVecMeter interface {
	ObserveWithLabels(int64, map[string]string)
}

func Counter(name string) CountMeter { return metrics.Counter(name) }

func CounterVec(name string, labels []string) CountVecMeter {
	return metrics.CounterVec(name, labels)
}

func Gauge(name string) GaugeMeter { return metrics.Gauge(name) }

func HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return metrics.HistogramVec(name, labels, buckets)
}

// LazyLoad defers creating a meter until first use, so package level meters
// bind to the provider selected at startup.
func LazyLoad[T any](f func() T) func() T {
	var (
		result T
		once   sync.Once
	)
	return func() T {
		once.Do(func() {
			result = f()
		})
		return result
	}
}

func LazyLoadCounter(name string) func() CountMeter {
	return LazyLoad(func() CountMeter { return Counter(name) })
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return LazyLoad(func() CountVecMeter { return CounterVec(name, labels) })
}

func LazyLoadGauge(name string) func() GaugeMeter {
	return LazyLoad(func() GaugeMeter { return Gauge(name) })
}

func LazyLoadHistogramVec(name string, labels []string, buckets []int64) func() HistogramVecMeter {
	return LazyLoad(func() HistogramVecMeter { return HistogramVec(name, labels, buckets) })
}

type noop struct{}

func (noop) Counter(string) CountMeter                                { return noopMeter{} }
func (noop) CounterVec(string, []string) CountVecMeter                { return noopMeter{} }
func (noop) Gauge(string) GaugeMeter                                  { return noopMeter{} }
func (noop) HistogramVec(string, []string, []int64) HistogramVecMeter { return noopMeter{} }
func (noop) Handler() http.Handler                                    { return nil }

type noopMeter struct{}

func (noopMeter) Add(int64)                                  {}
func (noopMeter) Set(int64)                                  {}
func (noopMeter) AddWithLabel(int64, map[string]string)      {}
func (noopMeter) ObserveWithLabels(int64, map[string]string) {}
