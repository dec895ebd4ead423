// Package metrics exports primemap statistics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/thepudds/primemap"
)

// Source is anything that reports primemap statistics, such as a *primemap.Map.
type Source interface {
	Stats() primemap.Stats
}

var (
	capacityDesc = prometheus.NewDesc(
		"primemap_capacity_slots",
		"Number of slots in the current table",
		[]string{"map"}, nil)

	modulusDesc = prometheus.NewDesc(
		"primemap_probe_modulus",
		"Prime modulus of the current probe sequence",
		[]string{"map"}, nil)

	occupiedDesc = prometheus.NewDesc(
		"primemap_occupied",
		"Successful puts since the map was created or last cleared",
		[]string{"map"}, nil)

	growsDesc = prometheus.NewDesc(
		"primemap_grows_total",
		"Completed table resizes by cause",
		[]string{"map", "cause"}, nil)

	exhaustionsDesc = prometheus.NewDesc(
		"primemap_probe_exhaustions_total",
		"Probe sequences that found no empty slot",
		[]string{"map"}, nil)

	lookupsDesc = prometheus.NewDesc(
		"primemap_lookups_total",
		"Get and ContainsKey calls by result",
		[]string{"map", "result"}, nil)
)

// Collector is a prometheus.Collector reading a Source on every scrape.
type Collector struct {
	name string
	src  Source
}

// NewCollector returns a Collector labelling its metrics with name.
func NewCollector(name string, src Source) *Collector {
	return &Collector{name: name, src: src}
}

// Describe sends the descriptors of every metric the Collector reports.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- capacityDesc
	ch <- modulusDesc
	ch <- occupiedDesc
	ch <- growsDesc
	ch <- exhaustionsDesc
	ch <- lookupsDesc
}

// Collect reads the Source once and sends its statistics as const metrics.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()

	ch <- prometheus.MustNewConstMetric(capacityDesc, prometheus.GaugeValue, float64(s.Capacity), c.name)
	ch <- prometheus.MustNewConstMetric(modulusDesc, prometheus.GaugeValue, float64(s.ProbeModulus), c.name)
	ch <- prometheus.MustNewConstMetric(occupiedDesc, prometheus.GaugeValue, float64(s.Occupied), c.name)

	ch <- prometheus.MustNewConstMetric(growsDesc, prometheus.CounterValue, float64(s.Grows-s.ForcedGrows), c.name, "load")
	ch <- prometheus.MustNewConstMetric(growsDesc, prometheus.CounterValue, float64(s.ForcedGrows), c.name, "exhausted")
	ch <- prometheus.MustNewConstMetric(exhaustionsDesc, prometheus.CounterValue, float64(s.Exhaustions), c.name)

	ch <- prometheus.MustNewConstMetric(lookupsDesc, prometheus.CounterValue, float64(s.Lookups-s.Misses), c.name, "hit")
	ch <- prometheus.MustNewConstMetric(lookupsDesc, prometheus.CounterValue, float64(s.Misses), c.name, "miss")
}
