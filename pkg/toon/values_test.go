package toon

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_UnmarshalVariants(t *testing.T) {
	var payload struct {
		Quoted  value `json:"quoted"`
		Bare    value `json:"bare"`
		NaN     value `json:"nan"`
		Null    value `json:"null"`
		Missing value `json:"missing"`
	}

	err := json.Unmarshal([]byte(`{"quoted": "1850", "bare": 42.5, "nan": "NaN", "null": null}`), &payload)
	require.NoError(t, err)

	assert.True(t, payload.Quoted.Valid)
	assert.InDelta(t, 1850, payload.Quoted.Float, 0.001)
	assert.True(t, payload.Bare.Valid)
	assert.InDelta(t, 42.5, payload.Bare.Float, 0.001)
	assert.False(t, payload.NaN.Valid)
	assert.False(t, payload.Null.Valid)
	assert.False(t, payload.Missing.Valid)
}

func TestValue_Conversions(t *testing.T) {
	v := value{Float: 1962, Valid: true}
	assert.InDelta(t, 19.62, *v.temperature(), 0.001)

	v = value{Float: 1234567, Valid: true}
	assert.InDelta(t, 1234.57, *v.kWh(), 0.001)
	assert.InDelta(t, 1234.57, *v.cubicMeters(), 0.001)

	v = value{Float: 130.9, Valid: true}
	assert.InDelta(t, 130, *v.watts(), 0.001)

	v = value{Float: 1579417200000, Valid: true}
	assert.Equal(t, time.Date(2020, 1, 19, 7, 0, 0, 0, time.UTC), v.timestamp().UTC())

	v = value{Float: 0, Valid: true}
	assert.Nil(t, v.nonZero())

	v = value{}
	assert.Nil(t, v.temperature())
	assert.Nil(t, v.kWh())
	assert.Nil(t, v.watts())
	assert.Nil(t, v.timestamp())
	assert.Nil(t, v.intPtr())
}

func TestValue_ActiveState(t *testing.T) {
	assert.Equal(t, StateNone, value{}.activeState())
	assert.Equal(t, StateNone, value{Float: -1, Valid: true}.activeState())
	assert.Equal(t, StateComfort, value{Float: 0, Valid: true}.activeState())
	assert.Equal(t, StateSleep, value{Float: 2, Valid: true}.activeState())
	assert.Equal(t, StateNone, value{Float: 99, Valid: true}.activeState())
}

func TestActiveState_DeviceValue(t *testing.T) {
	// Wire encoding round-trips through the device numbering.
	assert.Equal(t, -1, StateNone.DeviceValue())
	assert.Equal(t, 0, StateComfort.DeviceValue())
	assert.Equal(t, 3, StateAway.DeviceValue())
	assert.Equal(t, 4, StateHoliday.DeviceValue())

	for _, s := range []ActiveState{StateComfort, StateHome, StateSleep, StateAway, StateHoliday} {
		assert.Equal(t, s, value{Float: float64(s.DeviceValue()), Valid: true}.activeState())
	}
}

func TestActiveState_ZeroValueIsNone(t *testing.T) {
	// A thermostat that has never been polled must not claim a preset.
	var s ActiveState
	assert.Equal(t, StateNone, s)
	assert.Equal(t, "none", s.String())
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "comfort", StateComfort.String())
	assert.Equal(t, "holiday", StateHoliday.String())
	assert.Equal(t, "none", StateNone.String())
	assert.Equal(t, "tap_water", BurnerTapWater.String())
	assert.Equal(t, "override", ProgramOverride.String())
}
