package recommend

import (
	"fmt"
	"time"

	"github.com/optifleet/fleetcore/core/model"
	"github.com/optifleet/fleetcore/core/registry"
)

// Availability partitions each day in [from, to] into 24 hourly slots and
// marks each slot booked or free against the vehicle's active bookings.
func (e *Engine) Availability(vehicleID string, from, to time.Time) (AvailabilityResult, error) {
	v, err := e.vehicles.Get(vehicleID)
	if err != nil {
		return AvailabilityResult{}, err
	}
	if to.Before(from) {
		return AvailabilityResult{}, fmt.Errorf("availability range end before start: %w", registry.ErrValidation)
	}

	var active []model.Booking
	for _, b := range e.bookings.ListByVehicle(vehicleID) {
		if b.Blocks() {
			active = append(active, b)
		}
	}

	price := PricePerHour(v)
	res := AvailabilityResult{VehicleID: vehicleID, PricePerHour: price}

	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	last := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location())
	for !day.After(last) {
		for hour := 0; hour < 24; hour++ {
			start := day.Add(time.Duration(hour) * time.Hour)
			end := start.Add(time.Hour)
			slot := model.TimeSlot{Start: start, End: end, Price: price, Available: true}
			for _, b := range active {
				if b.Overlaps(start, end) {
					slot.Available = false
					break
				}
			}
			if slot.Available {
				res.AvailableSlots = append(res.AvailableSlots, slot)
			} else {
				res.BookedSlots = append(res.BookedSlots, slot)
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return res, nil
}
