// Package metrics exposes registry state to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/hereafter-labs/will-registry-api/wills"
)

// WillsCollector reads registry counters from the wills service on
// every scrape.
type WillsCollector struct {
	service *wills.Service

	totalWills             *prometheus.Desc
	activeWills            *prometheus.Desc
	triggeredSwitches      *prometheus.Desc
	uniqueBeneficiaries    *prometheus.Desc
	unclaimedFungibleValue *prometheus.Desc
}

func NewWillsCollector(service *wills.Service) *WillsCollector {
	return &WillsCollector{
		service: service,
		totalWills: prometheus.NewDesc(
			"registry_wills_total",
			"Number of wills ever created in the registry.",
			nil, nil,
		),
		activeWills: prometheus.NewDesc(
			"registry_wills_active",
			"Number of active wills.",
			nil, nil,
		),
		triggeredSwitches: prometheus.NewDesc(
			"registry_switches_triggered",
			"Number of wills whose dead man's switch has been triggered.",
			nil, nil,
		),
		uniqueBeneficiaries: prometheus.NewDesc(
			"registry_beneficiaries_unique",
			"Number of distinct beneficiary addresses across all wills.",
			nil, nil,
		),
		unclaimedFungibleValue: prometheus.NewDesc(
			"registry_unclaimed_fungible_value",
			"Sum of fungible token amounts allocated but not yet claimed.",
			nil, nil,
		),
	}
}

func (c *WillsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalWills
	ch <- c.activeWills
	ch <- c.triggeredSwitches
	ch <- c.uniqueBeneficiaries
	ch <- c.unclaimedFungibleValue
}

func (c *WillsCollector) Collect(ch chan<- prometheus.Metric) {
	stats, err := c.service.Stats()
	if err != nil {
		log.WithFields(log.Fields{"error": err}).Warn("Error while collecting registry stats")
		return
	}

	ch <- prometheus.MustNewConstMetric(c.totalWills, prometheus.CounterValue, float64(stats.TotalWills))
	ch <- prometheus.MustNewConstMetric(c.activeWills, prometheus.GaugeValue, float64(stats.ActiveWills))
	ch <- prometheus.MustNewConstMetric(c.triggeredSwitches, prometheus.GaugeValue, float64(stats.TriggeredSwitches))
	ch <- prometheus.MustNewConstMetric(c.uniqueBeneficiaries, prometheus.GaugeValue, float64(stats.UniqueBeneficiaries))
	ch <- prometheus.MustNewConstMetric(c.unclaimedFungibleValue, prometheus.GaugeValue, float64(stats.UnclaimedFungibleValue))
}
