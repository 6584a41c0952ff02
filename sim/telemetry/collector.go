// Package telemetry exposes a dsplay queue's tier occupancy and counters as
// Prometheus metrics.
package telemetry

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/inference-sim/dsplay/sim/dsplay"
)

// StatsSource is anything that can report dsplay tier statistics.
type StatsSource interface {
	Stats() dsplay.Stats
}

// Collector reads a fresh Stats snapshot on every scrape. It holds no state of
// its own, so it is safe to register once and scrape after the run.
type Collector struct {
	src StatsSource

	tierEvents   *prometheus.Desc
	tierBoundary *prometheus.Desc
	buckets      *prometheus.Desc
	bucketIndex  *prometheus.Desc
	bucketWidth  *prometheus.Desc
	enqueued     *prometheus.Desc
	dequeued     *prometheus.Desc
	promotions   *prometheus.Desc
	hintMisses   *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector builds a collector whose metric names start with namespace.
func NewCollector(namespace string, src StatsSource) *Collector {
	name := func(n string) string { return prometheus.BuildFQName(namespace, "queue", n) }
	return &Collector{
		src: src,
		tierEvents: prometheus.NewDesc(name("tier_events"),
			"Events currently held by each tier.", []string{"tier"}, nil),
		tierBoundary: prometheus.NewDesc(name("tier_boundary"),
			"Current boundary time of each tier.", []string{"tier"}, nil),
		buckets: prometheus.NewDesc(name("tier2_buckets"),
			"Buckets in the active tier-2 array (0 when inactive).", nil, nil),
		bucketIndex: prometheus.NewDesc(name("tier2_bucket_index"),
			"Index of the next tier-2 bucket to drain.", nil, nil),
		bucketWidth: prometheus.NewDesc(name("tier2_bucket_width"),
			"Width of each tier-2 bucket in time units.", nil, nil),
		enqueued: prometheus.NewDesc(name("enqueued_total"),
			"Events enqueued over the queue's lifetime.", nil, nil),
		dequeued: prometheus.NewDesc(name("dequeued_total"),
			"Events removed over the queue's lifetime.", nil, nil),
		promotions: prometheus.NewDesc(name("promotions_total"),
			"Promotion passes from a far tier into a nearer one.", []string{"from", "to"}, nil),
		hintMisses: prometheus.NewDesc(name("hint_misses_total"),
			"Removals whose time hint did not locate the event.", nil, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.tierEvents
	ch <- c.tierBoundary
	ch <- c.buckets
	ch <- c.bucketIndex
	ch <- c.bucketWidth
	ch <- c.enqueued
	ch <- c.dequeued
	ch <- c.promotions
	ch <- c.hintMisses
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.src.Stats()

	for _, tier := range []struct {
		label string
		n     int
		cur   float64
	}{
		{"1", st.Tier1Len, st.Tier1Cur},
		{"2", st.Tier2Len, st.Tier2Cur},
		{"3", st.Tier3Len, st.Tier3Cur},
	} {
		ch <- prometheus.MustNewConstMetric(c.tierEvents, prometheus.GaugeValue, float64(tier.n), tier.label)
		ch <- prometheus.MustNewConstMetric(c.tierBoundary, prometheus.GaugeValue, tier.cur, tier.label)
	}

	ch <- prometheus.MustNewConstMetric(c.buckets, prometheus.GaugeValue, float64(st.Tier2Buckets))
	ch <- prometheus.MustNewConstMetric(c.bucketIndex, prometheus.GaugeValue, float64(st.Tier2Index))
	ch <- prometheus.MustNewConstMetric(c.bucketWidth, prometheus.GaugeValue, st.Tier2Width)
	ch <- prometheus.MustNewConstMetric(c.enqueued, prometheus.CounterValue, float64(st.Enqueued))
	ch <- prometheus.MustNewConstMetric(c.dequeued, prometheus.CounterValue, float64(st.Dequeued))
	ch <- prometheus.MustNewConstMetric(c.promotions, prometheus.CounterValue, float64(st.Tier3ToTier2), "3", "2")
	ch <- prometheus.MustNewConstMetric(c.promotions, prometheus.CounterValue, float64(st.Tier2ToTier1), "2", "1")
	ch <- prometheus.MustNewConstMetric(c.hintMisses, prometheus.CounterValue, float64(st.HintMisses))
}

// NewRegistry returns a private registry holding only c, so repeated runs in
// one process never collide on metric names.
func NewRegistry(c *Collector) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		return nil, fmt.Errorf("register queue collector: %w", err)
	}
	return reg, nil
}

// WriteText gathers g and writes every family in the Prometheus text format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
