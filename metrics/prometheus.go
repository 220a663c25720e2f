// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fctrlabs/fstake/log"
)

const namespace = "fstake"

var logger = log.WithContext("pkg", "metrics")

// Enable switches the process to a prometheus backed provider. Calling it
// again keeps the existing registry.
func Enable() {
	if _, ok := metrics.(*promMetrics); !ok {
		metrics = newPromMetrics()
	}
}

type promMetrics struct {
	registry *prometheus.Registry
	meters   sync.Map // name => meter
}

func newPromMetrics() *promMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
	)
	return &promMetrics{registry: reg}
}

// getOrCreate returns the meter registered under name, creating it with build.
func getOrCreate[T any](p *promMetrics, name string, build func() (prometheus.Collector, T)) T {
	if m, ok := p.meters.Load(name); ok {
		if meter, ok := m.(T); ok {
			return meter
		}
	}
	collector, meter := build()
	if err := p.registry.Register(collector); err != nil {
		logger.Warn("unable to register metric", "name", name, "err", err)
	}
	actual, _ := p.meters.LoadOrStore(name, meter)
	if m, ok := actual.(T); ok {
		return m
	}
	return meter
}

func toFloats(buckets []int64) []float64 {
	fb := make([]float64, 0, len(buckets))
	for _, b := range buckets {
		fb = append(fb, float64(b))
	}
	return fb
}

func (p *promMetrics) Counter(name string) CountMeter {
	return getOrCreate(p, name, func() (prometheus.Collector, CountMeter) {
		c := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name})
		return c, &promCounter{c}
	})
}

func (p *promMetrics) CounterVec(name string, labels []string) CountVecMeter {
	return getOrCreate(p, name, func() (prometheus.Collector, CountVecMeter) {
		c := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name}, labels)
		return c, &promCounterVec{c}
	})
}

func (p *promMetrics) Gauge(name string) GaugeMeter {
	return getOrCreate(p, name, func() (prometheus.Collector, GaugeMeter) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name})
		return g, &promGauge{g}
	})
}

func (p *promMetrics) HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return getOrCreate(p, name, func() (prometheus.Collector, HistogramVecMeter) {
		h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Buckets:   toFloats(buckets),
		}, labels)
		return h, &promHistogramVec{h}
	})
}

func (p *promMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

type promCounter struct{ c prometheus.Counter }

func (m *promCounter) Add(i int64) { m.c.Add(float64(i)) }

type promCounterVec struct{ c *prometheus.CounterVec }

func (m *promCounterVec) AddWithLabel(i int64, labels map[string]string) {
	m.c.With(labels).Add(float64(i))
}

type promGauge struct{ g prometheus.Gauge }

func (m *promGauge) Add(i int64) { m.g.Add(float64(i)) }
func (m *promGauge) Set(i int64) { m.g.Set(float64(i)) }

type promHistogramVec struct{ h *prometheus.HistogramVec }

func (m *promHistogramVec) ObserveWithLabels(i int64, labels map[string]string) {
	m.h.With(labels).Observe(float64(i))
}
