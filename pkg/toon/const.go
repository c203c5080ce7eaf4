package toon

// Service endpoints exposed by the rooted Toon firmware. Each service is a
// path component; the operation is selected with the "action" query parameter.
const (
	ServiceThermostat = "happ_thermstat"
	ServiceEnergy     = "hdrv_zwave"
	ServiceDatalogger = "hcb_rrd"
)

// Actions understood by the services above.
const (
	ActionThermostatInfo    = "getThermostatInfo"
	ActionSetSetpoint       = "setSetpoint"
	ActionChangeSchemeState = "changeSchemeState"
	ActionWeeklyList        = "getWeeklyList"
	ActionGetDevices        = "getDevices.json"
	ActionGetRrdData        = "getRrdData"
)

// ActiveState is the thermostat preset currently (or next) in effect.
// StateNone is the zero value, so a thermostat that has not been polled yet
// reports no preset. The device wire encoding differs; see DeviceValue.
type ActiveState int

const (
	StateNone ActiveState = iota
	StateComfort
	StateHome
	StateSleep
	StateAway
	StateHoliday
)

// DeviceValue returns the wire encoding used by the device API
// (comfort=0, home=1, sleep=2, away=3, holiday=4, none=-1).
func (s ActiveState) DeviceValue() int {
	return int(s) - 1
}

func (s ActiveState) String() string {
	switch s {
	case StateComfort:
		return "comfort"
	case StateHome:
		return "home"
	case StateSleep:
		return "sleep"
	case StateAway:
		return "away"
	case StateHoliday:
		return "holiday"
	default:
		return "none"
	}
}

// BurnerState reports what the boiler burner is doing.
type BurnerState int

const (
	BurnerOff        BurnerState = 0
	BurnerOn         BurnerState = 1
	BurnerTapWater   BurnerState = 2
	BurnerPreheating BurnerState = 3
)

func (s BurnerState) String() string {
	switch s {
	case BurnerOff:
		return "off"
	case BurnerOn:
		return "on"
	case BurnerTapWater:
		return "tap_water"
	case BurnerPreheating:
		return "preheating"
	default:
		return "unknown"
	}
}

// ProgramState controls whether the weekly program drives the thermostat.
type ProgramState int

const (
	ProgramOff      ProgramState = 0
	ProgramOn       ProgramState = 1
	ProgramOverride ProgramState = 2
)

func (s ProgramState) String() string {
	switch s {
	case ProgramOff:
		return "off"
	case ProgramOn:
		return "on"
	case ProgramOverride:
		return "override"
	default:
		return "unknown"
	}
}

// errorFound uses 255 as the "no error" sentinel.
const noErrorSentinel = 255

// boilerPressureLogger is the RRD datalogger that tracks CH water pressure.
const boilerPressureLogger = "thermstat_boilerChPressure"

// MeterEndpoint identifies one of the metered electricity channels behind the
// Toon meter adapter.
type MeterEndpoint string

const (
	EndpointGas          MeterEndpoint = "gas"
	EndpointDeliveryLow  MeterEndpoint = "electricity_delivery_low"
	EndpointDeliveryHigh MeterEndpoint = "electricity_delivery_high"
	EndpointReturnLow    MeterEndpoint = "electricity_return_low"
	EndpointReturnHigh   MeterEndpoint = "electricity_return_high"
)

// meterDeviceTypes maps each metered channel to the Z-Wave device type names
// the various meter adapter hardware revisions report for it.
var meterDeviceTypes = map[MeterEndpoint][]string{
	EndpointGas: {
		"gas", "HAE_METER_v2_1", "HAE_METER_v3_1", "HAE_METER_v4_1",
	},
	EndpointDeliveryLow: {
		"elec_delivered_lt", "HAE_METER_v2_5", "HAE_METER_v3_6",
		"HAE_METER_v3_5", "HAE_METER_v4_6", "HAE_METER_HEAT_5",
	},
	EndpointDeliveryHigh: {
		"elec_delivered_nt", "HAE_METER_v2_3", "HAE_METER_v3_3",
		"HAE_METER_v3_4", "HAE_METER_v4_4", "HAE_METER_HEAT_3",
	},
	EndpointReturnLow: {
		"elec_received_lt", "HAE_METER_v2_6", "HAE_METER_v3_7",
		"HAE_METER_v4_7",
	},
	EndpointReturnHigh: {
		"elec_received_nt", "HAE_METER_v2_4", "HAE_METER_v3_5",
		"HAE_METER_v4_5",
	},
}

// JSON keys used by the energy device records.
const (
	keyFlowElectricity     = "CurrentElectricityFlow"
	keyFlowGas             = "CurrentGasFlow"
	keyQuantityElectricity = "CurrentElectricityQuantity"
	keyQuantityGas         = "CurrentGasQuantity"
)
