// Package exporter exposes Toon status as Prometheus metrics. The collector
// polls the device on every scrape, so scrape intervals double as poll
// intervals.
package exporter

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/zberg/go-toon/pkg/toon"
)

const defaultScrapeTimeout = 15 * time.Second

// Collector implements prometheus.Collector for a single Toon.
type Collector struct {
	client  *toon.Client
	timeout time.Duration
	logger  *slog.Logger

	currentTemperature *prometheus.Desc
	currentSetpoint    *prometheus.Desc
	modulationLevel    *prometheus.Desc
	activeState        *prometheus.Desc
	programState       *prometheus.Desc
	heating            *prometheus.Desc
	hotTapWater        *prometheus.Desc
	preHeating         *prometheus.Desc
	gasLastHour        *prometheus.Desc
	gasTotal           *prometheus.Desc
	powerFlow          *prometheus.Desc
	powerQuantity      *prometheus.Desc
	boilerPressure     *prometheus.Desc
	scrapeSuccess      *prometheus.Desc
}

// NewCollector creates a collector polling the given client on each scrape.
func NewCollector(client *toon.Client, logger *slog.Logger) *Collector {
	return &Collector{
		client:  client,
		timeout: defaultScrapeTimeout,
		logger:  logger,
		currentTemperature: prometheus.NewDesc(
			"toon_thermostat_current_temperature_celsius",
			"Temperature measured by the thermostat display",
			nil, nil,
		),
		currentSetpoint: prometheus.NewDesc(
			"toon_thermostat_setpoint_celsius",
			"Current target temperature",
			nil, nil,
		),
		modulationLevel: prometheus.NewDesc(
			"toon_thermostat_modulation_level_percent",
			"Boiler modulation level",
			nil, nil,
		),
		activeState: prometheus.NewDesc(
			"toon_thermostat_active_state",
			"Active preset (0=comfort, 1=home, 2=sleep, 3=away, 4=holiday, -1=none)",
			nil, nil,
		),
		programState: prometheus.NewDesc(
			"toon_thermostat_program_state",
			"Weekly program state (0=off, 1=on, 2=override)",
			nil, nil,
		),
		heating: prometheus.NewDesc(
			"toon_thermostat_heating",
			"Burner is heating the house (1=yes, 0=no)",
			nil, nil,
		),
		hotTapWater: prometheus.NewDesc(
			"toon_thermostat_hot_tap_water",
			"Burner is heating tap water (1=yes, 0=no)",
			nil, nil,
		),
		preHeating: prometheus.NewDesc(
			"toon_thermostat_pre_heating",
			"Burner is pre-heating (1=yes, 0=no)",
			nil, nil,
		),
		gasLastHour: prometheus.NewDesc(
			"toon_gas_last_hour_m3",
			"Gas used over the last hour in cubic meters",
			nil, nil,
		),
		gasTotal: prometheus.NewDesc(
			"toon_gas_total_m3",
			"Gas meter reading in cubic meters",
			nil, nil,
		),
		powerFlow: prometheus.NewDesc(
			"toon_electricity_flow_watts",
			"Current electricity flow in watts",
			[]string{"direction", "tariff"}, nil,
		),
		powerQuantity: prometheus.NewDesc(
			"toon_electricity_total_kwh",
			"Electricity meter reading in kWh",
			[]string{"direction", "tariff"}, nil,
		),
		boilerPressure: prometheus.NewDesc(
			"toon_boiler_pressure_bar",
			"Central heating water pressure in bar",
			nil, nil,
		),
		scrapeSuccess: prometheus.NewDesc(
			"toon_scrape_success",
			"Whether polling the Toon was successful",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.currentTemperature
	ch <- c.currentSetpoint
	ch <- c.modulationLevel
	ch <- c.activeState
	ch <- c.programState
	ch <- c.heating
	ch <- c.hotTapWater
	ch <- c.preHeating
	ch <- c.gasLastHour
	ch <- c.gasTotal
	ch <- c.powerFlow
	ch <- c.powerQuantity
	ch <- c.boilerPressure
	ch <- c.scrapeSuccess
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	status, err := c.client.Update(ctx)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("poll failed", "error", err)
		}
		ch <- prometheus.MustNewConstMetric(c.scrapeSuccess, prometheus.GaugeValue, 0)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.scrapeSuccess, prometheus.GaugeValue, 1)

	th := status.Thermostat
	emit(ch, c.currentTemperature, th.CurrentTemperature)
	emit(ch, c.currentSetpoint, th.CurrentSetpoint)
	if th.ModulationLevel != nil {
		ch <- prometheus.MustNewConstMetric(c.modulationLevel, prometheus.GaugeValue, float64(*th.ModulationLevel))
	}
	ch <- prometheus.MustNewConstMetric(c.activeState, prometheus.GaugeValue, float64(th.ActiveState.DeviceValue()))
	ch <- prometheus.MustNewConstMetric(c.programState, prometheus.GaugeValue, float64(th.ProgramState))
	ch <- prometheus.MustNewConstMetric(c.heating, prometheus.GaugeValue, boolValue(th.Heating()))
	ch <- prometheus.MustNewConstMetric(c.hotTapWater, prometheus.GaugeValue, boolValue(th.HotTapWater()))
	ch <- prometheus.MustNewConstMetric(c.preHeating, prometheus.GaugeValue, boolValue(th.PreHeating()))

	emit(ch, c.gasLastHour, status.GasMeter.LastHour)
	emit(ch, c.gasTotal, status.GasMeter.Total)

	elec := status.ElectricityMeter
	c.emitPower(ch, c.powerFlow, elec.DeliveryLow, "delivery", "low")
	c.emitPower(ch, c.powerFlow, elec.DeliveryHigh, "delivery", "high")
	c.emitPower(ch, c.powerFlow, elec.ReturnLow, "return", "low")
	c.emitPower(ch, c.powerFlow, elec.ReturnHigh, "return", "high")
	c.emitPower(ch, c.powerQuantity, elec.DeliveredLow, "delivery", "low")
	c.emitPower(ch, c.powerQuantity, elec.DeliveredHigh, "delivery", "high")
	c.emitPower(ch, c.powerQuantity, elec.ReturnedLow, "return", "low")
	c.emitPower(ch, c.powerQuantity, elec.ReturnedHigh, "return", "high")

	emit(ch, c.boilerPressure, status.Boiler.Pressure)
}

func (c *Collector) emitPower(ch chan<- prometheus.Metric, desc *prometheus.Desc, v *float64, direction, tariff string) {
	if v == nil {
		return
	}
	ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, *v, direction, tariff)
}

func emit(ch chan<- prometheus.Metric, desc *prometheus.Desc, v *float64) {
	if v == nil {
		return
	}
	ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, *v)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
