package toon

import (
	"encoding/json"
	"fmt"
	"time"
)

// Thermostat holds the climate state reported by getThermostatInfo.
type Thermostat struct {
	ActiveState        ActiveState
	BurnerState        BurnerState
	CurrentTemperature *float64
	CurrentSetpoint    *float64
	ModulationLevel    *int
	NextProgram        *int
	NextState          ActiveState
	NextSetpoint       *float64
	NextTime           *time.Time
	ProgramState       ProgramState
	ErrorFound         bool
	OpenThermCommError bool
	HolidayMode        bool
}

// Burner reports whether the burner is running for any reason.
func (t Thermostat) Burner() bool {
	return t.BurnerState != BurnerOff
}

// Heating reports whether the burner is heating the house.
func (t Thermostat) Heating() bool {
	return t.BurnerState == BurnerOn
}

// HotTapWater reports whether the burner is heating tap water.
func (t Thermostat) HotTapWater() bool {
	return t.BurnerState == BurnerTapWater
}

// PreHeating reports whether the burner is pre-heating ahead of the next
// program switch.
func (t Thermostat) PreHeating() bool {
	return t.BurnerState == BurnerPreheating
}

// ProgramActive reports whether the weekly program drives the thermostat,
// including when the current block is overridden.
func (t Thermostat) ProgramActive() bool {
	return t.ProgramState == ProgramOn || t.ProgramState == ProgramOverride
}

// ProgramOverridden reports whether the current program block is overridden.
func (t Thermostat) ProgramOverridden() bool {
	return t.ProgramState == ProgramOverride
}

type thermostatInfoPayload struct {
	ActiveState     value `json:"activeState"`
	BurnerInfo      value `json:"burnerInfo"`
	CurrentTemp     value `json:"currentTemp"`
	CurrentSetpoint value `json:"currentSetpoint"`
	ModulationLevel value `json:"currentModulationLevel"`
	ErrorFound      value `json:"errorFound"`
	NextProgram     value `json:"nextProgram"`
	NextSetpoint    value `json:"nextSetpoint"`
	NextState       value `json:"nextState"`
	NextTime        value `json:"nextTime"`
	OTCommError     value `json:"otCommError"`
	ProgramState    value `json:"programState"`
}

func parseThermostatInfo(data []byte) (Thermostat, error) {
	var payload thermostatInfoPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Thermostat{}, fmt.Errorf("decode thermostat info: %w", err)
	}

	t := Thermostat{
		ActiveState:        payload.ActiveState.activeState(),
		NextState:          payload.NextState.activeState(),
		CurrentTemperature: payload.CurrentTemp.temperature(),
		CurrentSetpoint:    payload.CurrentSetpoint.temperature(),
		NextSetpoint:       payload.NextSetpoint.temperature(),
		ModulationLevel:    payload.ModulationLevel.intPtr(),
		NextTime:           payload.NextTime.timestamp(),
	}
	if payload.BurnerInfo.Valid {
		t.BurnerState = BurnerState(payload.BurnerInfo.Float)
	}
	if payload.ProgramState.Valid {
		t.ProgramState = ProgramState(payload.ProgramState.Float)
	}
	if p := payload.NextProgram.intPtr(); p != nil && *p >= 0 {
		t.NextProgram = p
	}
	if payload.ErrorFound.Valid {
		t.ErrorFound = int(payload.ErrorFound.Float) != noErrorSentinel
	}
	if payload.OTCommError.Valid {
		t.OpenThermCommError = payload.OTCommError.Float != 0
	}
	t.HolidayMode = t.ActiveState == StateHoliday

	return t, nil
}
