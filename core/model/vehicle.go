package model

// VehicleType categorises a vehicle for pricing and preference matching.
type VehicleType string

const (
	TypeSedan VehicleType = "SEDAN"
	TypeSUV   VehicleType = "SUV"
	TypeVan   VehicleType = "VAN"
	TypeTruck VehicleType = "TRUCK"
	TypeBus   VehicleType = "BUS"
	TypeBike  VehicleType = "BIKE"
)

// VehicleStatus is the operational state of a vehicle.
type VehicleStatus string

const (
	VehicleAvailable    VehicleStatus = "AVAILABLE"
	VehicleInUse        VehicleStatus = "IN_USE"
	VehicleMaintenance  VehicleStatus = "MAINTENANCE"
	VehicleOutOfService VehicleStatus = "OUT_OF_SERVICE"
)

// Vehicle is the fleet registry's view of a single vehicle. The optimization
// core reads most fields and only ever flips Status.
type Vehicle struct {
	ID           string        `json:"id"`
	Number       string        `json:"number"` // fleet plate, human readable
	Type         VehicleType   `json:"type"`
	Capacity     int           `json:"capacity"`
	IsElectric   bool          `json:"is_electric"`
	BatteryLevel float64       `json:"battery_level"` // percent, electric vehicles
	FuelLevel    float64       `json:"fuel_level"`    // percent, combustion vehicles
	Status       VehicleStatus `json:"status"`
	Latitude     *float64      `json:"latitude,omitempty"`
	Longitude    *float64      `json:"longitude,omitempty"`
	HealthScore  float64       `json:"health_score"` // 0-100 mechanical condition proxy
}

// HasPosition reports whether the vehicle's coordinates are known.
func (v Vehicle) HasPosition() bool {
	return v.Latitude != nil && v.Longitude != nil
}

// Position returns the vehicle location. Only valid when HasPosition is true.
func (v Vehicle) Position() Location {
	return Location{Latitude: *v.Latitude, Longitude: *v.Longitude}
}

// HasEnergyFor reports whether the vehicle has enough charge or fuel to take
// on a new load: electric vehicles need more than 30% battery, combustion
// vehicles more than 20% fuel.
func (v Vehicle) HasEnergyFor() bool {
	if v.IsElectric {
		return v.BatteryLevel > 30
	}
	return v.FuelLevel > 20
}

// CanCarry reports whether the vehicle capacity covers the given weight.
func (v Vehicle) CanCarry(weight float64) bool {
	return float64(v.Capacity) >= weight
}
