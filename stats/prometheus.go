// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package stats // import "github.com/politepol/crawllog/stats"

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const keyLabel = "key"

// Prometheus exposes counters as one labelled Prometheus counter vector.
type Prometheus struct {
	counters *prometheus.CounterVec
}

var _ Collector = (*Prometheus)(nil)

// NewPrometheus registers the crawllog_stats_total counter vector on reg.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	counters := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crawllog",
		Name:      "stats_total",
		Help:      "Named crawl statistics such as log_count/<LEVEL>.",
	}, []string{keyLabel})
	if err := reg.Register(counters); err != nil {
		return nil, fmt.Errorf("register stats counters: %w", err)
	}
	return &Prometheus{counters: counters}, nil
}

// IncValue increments the counter labelled with key.
func (p *Prometheus) IncValue(key string) {
	p.counters.WithLabelValues(key).Inc()
}

// Value returns the current value of the counter labelled with key, or zero
// when it was never incremented.
func (p *Prometheus) Value(key string) int64 {
	c, err := p.counters.GetMetricWithLabelValues(key)
	if err != nil {
		return 0
	}
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return int64(m.GetCounter().GetValue())
}
