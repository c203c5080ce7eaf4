package toon

// Status is a point-in-time snapshot of everything the Toon reports. Update
// calls build a fresh Status; a snapshot handed to a caller is never mutated
// afterwards.
type Status struct {
	Thermostat       Thermostat
	GasMeter         GasMeter
	ElectricityMeter ElectricityMeter
	Boiler           Boiler
	Program          Program
}

// HasMeterAdapter reports whether both meters were found, which indicates a
// connected meter adapter.
func (s Status) HasMeterAdapter() bool {
	return s.GasMeter.Available() && s.ElectricityMeter.Available()
}
