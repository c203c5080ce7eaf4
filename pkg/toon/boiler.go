package toon

import (
	"encoding/json"
	"fmt"
	"time"
)

// Boiler holds the boiler readings derived from the RRD datalogger.
type Boiler struct {
	Pressure *float64 // bar
}

// Available reports whether a pressure reading was obtained.
func (b Boiler) Available() bool {
	return b.Pressure != nil
}

// rrdTimeLayout is the readable sample-time format used by hcb_rrd when
// readableTime=1 is requested.
const rrdTimeLayout = "2006-01-02 15:04:05"

// parseBoilerPressure picks the most recent valid sample from an RRD series.
// The response maps readable sample times to values; gaps carry null (with
// nullForNaN=1) and a pressure of exactly zero means the boiler reported no
// reading.
func parseBoilerPressure(data []byte) (Boiler, error) {
	var series map[string]value
	if err := json.Unmarshal(data, &series); err != nil {
		return Boiler{}, fmt.Errorf("decode boiler rrd data: %w", err)
	}

	var (
		latest   time.Time
		pressure *float64
	)
	for sampleTime, sample := range series {
		ts, err := time.Parse(rrdTimeLayout, sampleTime)
		if err != nil {
			continue
		}
		p := sample.nonZero()
		if p == nil {
			continue
		}
		if ts.After(latest) {
			latest = ts
			pressure = p
		}
	}

	return Boiler{Pressure: pressure}, nil
}
