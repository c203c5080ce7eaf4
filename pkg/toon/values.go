package toon

import (
	"bytes"
	"math"
	"strconv"
	"time"
)

// value decodes a numeric field from the Toon. The firmware is inconsistent:
// depending on version a field arrives as a bare number, a quoted number, or
// the literal "NaN". Missing and unparseable values leave Valid false.
type value struct {
	Float float64
	Valid bool
}

func (v *value) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	s := string(data)
	if s == "" || s == "null" || s == "NaN" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	v.Float = f
	v.Valid = true
	return nil
}

func (v value) intPtr() *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Float)
	return &i
}

// temperature converts a centi-degree value to degrees Celsius.
func (v value) temperature() *float64 {
	if !v.Valid {
		return nil
	}
	t := v.Float / 100.0
	return &t
}

// kWh converts a watt-hour counter to kilowatt hours, rounded to 2 decimals.
func (v value) kWh() *float64 {
	if !v.Valid {
		return nil
	}
	return round2(v.Float / 1000.0)
}

// cubicMeters converts a litre counter to cubic meters, rounded to 2 decimals.
func (v value) cubicMeters() *float64 {
	if !v.Valid {
		return nil
	}
	return round2(v.Float / 1000.0)
}

// watts truncates a flow reading to whole watts.
func (v value) watts() *float64 {
	if !v.Valid {
		return nil
	}
	w := math.Trunc(v.Float)
	return &w
}

// timestamp interprets the value as Java milliseconds since the epoch.
func (v value) timestamp() *time.Time {
	if !v.Valid {
		return nil
	}
	ms := int64(v.Float)
	t := time.UnixMilli(ms).UTC()
	return &t
}

// nonZero drops zero readings, which the Toon reports when a sensor has no
// data rather than an actual measurement.
func (v value) nonZero() *float64 {
	if !v.Valid || v.Float == 0 {
		return nil
	}
	f := v.Float
	return &f
}

// activeState maps the device encoding (comfort=0 through holiday=4,
// negative means unknown) onto ActiveState.
func (v value) activeState() ActiveState {
	if !v.Valid || v.Float < 0 {
		return StateNone
	}
	s := ActiveState(v.Float) + 1
	if s > StateHoliday {
		return StateNone
	}
	return s
}

func round2(f float64) *float64 {
	r := math.Round(f*100) / 100
	return &r
}
