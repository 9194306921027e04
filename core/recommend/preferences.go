package recommend

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/optifleet/fleetcore/core/model"
)

// UpdatePreferences rebuilds the customer's profile from their completed
// bookings. The preferred type is the modal booked type, electric preference
// requires a strict majority, capacity and duration are rounded means.
// Customers with no completed bookings keep no profile.
func (e *Engine) UpdatePreferences(customerID string) (model.CustomerPreference, error) {
	var completed []model.Booking
	for _, b := range e.bookings.ListByCustomer(customerID) {
		if b.Status == model.BookingCompleted {
			completed = append(completed, b)
		}
	}
	if len(completed) == 0 {
		pref, _ := e.prefs.Get(customerID)
		return pref, nil
	}

	typeCounts := map[model.VehicleType]int{}
	electricCount := 0
	var capacities, durations []float64
	counted := 0
	for _, b := range completed {
		v, err := e.vehicles.Get(b.VehicleID)
		if err != nil {
			e.log.Warnf("preference update: booking %s references unknown vehicle %s", b.ID, b.VehicleID)
			continue
		}
		counted++
		typeCounts[v.Type]++
		if v.IsElectric {
			electricCount++
		}
		capacities = append(capacities, float64(v.Capacity))
		durations = append(durations, b.EndTime.Sub(b.StartTime).Hours())
	}
	if counted == 0 {
		pref, _ := e.prefs.Get(customerID)
		return pref, nil
	}

	pref := model.CustomerPreference{
		CustomerID:   customerID,
		BookingCount: len(completed),
		UpdatedAt:    e.now(),
	}
	pref.PreferredType = modalType(typeCounts)
	preferElectric := electricCount*2 > counted
	pref.PreferredElectric = &preferElectric
	avgCap := int(math.Round(stat.Mean(capacities, nil)))
	pref.PreferredCapacity = &avgCap
	pref.AvgDurationHours = int(math.Round(stat.Mean(durations, nil)))

	e.prefs.Put(pref)
	e.log.Infof("updated preferences for customer %s from %d bookings", customerID, len(completed))
	return pref, nil
}

// modalType returns the most frequently booked type. Ties resolve to the
// lexicographically smallest type so repeated runs stay stable.
func modalType(counts map[model.VehicleType]int) model.VehicleType {
	var best model.VehicleType
	bestCount := 0
	for t, n := range counts {
		if n > bestCount || (n == bestCount && (best == "" || t < best)) {
			best = t
			bestCount = n
		}
	}
	return best
}
