package toon

import (
	"encoding/json"
	"fmt"
)

// GasMeter holds the gas readings from the meter adapter.
type GasMeter struct {
	LastHour *float64 // m³ measured over the last hour
	Total    *float64 // m³ since meter installation
}

// Available reports whether a gas meter was found behind the adapter.
func (m GasMeter) Available() bool {
	return m.Total != nil
}

// ElectricityMeter holds the electricity readings from the meter adapter.
// Flow values are in watts, quantities in kWh. Low and high refer to the
// dual-tariff channels; meters without dual tariff only populate one pair.
type ElectricityMeter struct {
	DeliveryLow   *float64
	DeliveryHigh  *float64
	ReturnLow     *float64
	ReturnHigh    *float64
	DeliveredLow  *float64
	DeliveredHigh *float64
	ReturnedLow   *float64
	ReturnedHigh  *float64
}

// Available reports whether any electricity channel was found.
func (m ElectricityMeter) Available() bool {
	return m.DeliveredLow != nil || m.DeliveredHigh != nil ||
		m.ReturnedLow != nil || m.ReturnedHigh != nil
}

// Delivery returns the combined delivery flow across both tariffs, or nil
// when either channel is missing.
func (m ElectricityMeter) Delivery() *float64 {
	if m.DeliveryLow == nil || m.DeliveryHigh == nil {
		return nil
	}
	sum := *m.DeliveryLow + *m.DeliveryHigh
	return &sum
}

// Return returns the combined return flow across both tariffs, or nil when
// either channel is missing.
func (m ElectricityMeter) Return() *float64 {
	if m.ReturnLow == nil || m.ReturnHigh == nil {
		return nil
	}
	sum := *m.ReturnLow + *m.ReturnHigh
	return &sum
}

// energyDevice is one record in the getDevices.json response. The record
// carries many more fields; only the metering ones matter here.
type energyDevice struct {
	Type                string `json:"type"`
	GasFlow             value  `json:"CurrentGasFlow"`
	GasQuantity         value  `json:"CurrentGasQuantity"`
	ElectricityFlow     value  `json:"CurrentElectricityFlow"`
	ElectricityQuantity value  `json:"CurrentElectricityQuantity"`
}

// meterTopology maps metered channels to the internal Z-Wave device ids the
// Toon assigned them. It is discovered once from a getDevices.json payload
// and reused for subsequent energy updates.
type meterTopology struct {
	deviceIDs map[MeterEndpoint]string
}

func (t meterTopology) discovered() bool {
	return len(t.deviceIDs) > 0
}

func discoverMeters(devices map[string]energyDevice) meterTopology {
	topo := meterTopology{deviceIDs: make(map[MeterEndpoint]string)}
	for endpoint, types := range meterDeviceTypes {
		for id, dev := range devices {
			if !containsType(types, dev.Type) {
				continue
			}
			// A device reporting NaN quantities is registered on the
			// adapter but has no meter attached.
			if endpoint == EndpointGas {
				if dev.GasQuantity.Valid {
					topo.deviceIDs[endpoint] = id
				}
			} else if dev.ElectricityQuantity.Valid {
				topo.deviceIDs[endpoint] = id
			}
		}
	}
	return topo
}

func containsType(types []string, t string) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

func parseEnergyDevices(data []byte) (map[string]energyDevice, error) {
	var devices map[string]energyDevice
	if err := json.Unmarshal(data, &devices); err != nil {
		return nil, fmt.Errorf("decode energy devices: %w", err)
	}
	return devices, nil
}

func (t meterTopology) gasMeter(devices map[string]energyDevice) GasMeter {
	id, ok := t.deviceIDs[EndpointGas]
	if !ok {
		return GasMeter{}
	}
	dev := devices[id]
	return GasMeter{
		LastHour: dev.GasFlow.cubicMeters(),
		Total:    dev.GasQuantity.cubicMeters(),
	}
}

func (t meterTopology) electricityMeter(devices map[string]energyDevice) ElectricityMeter {
	var m ElectricityMeter
	for endpoint, id := range t.deviceIDs {
		dev, ok := devices[id]
		if !ok {
			continue
		}
		flow := dev.ElectricityFlow.watts()
		quantity := dev.ElectricityQuantity.kWh()
		switch endpoint {
		case EndpointDeliveryLow:
			m.DeliveryLow, m.DeliveredLow = flow, quantity
		case EndpointDeliveryHigh:
			m.DeliveryHigh, m.DeliveredHigh = flow, quantity
		case EndpointReturnLow:
			m.ReturnLow, m.ReturnedLow = flow, quantity
		case EndpointReturnHigh:
			m.ReturnHigh, m.ReturnedHigh = flow, quantity
		}
	}
	return m
}
