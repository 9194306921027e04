// Package recommend scores and ranks available vehicles against a customer's
// learned preference profile, computes hourly availability slots and keeps
// the profile up to date from completed bookings.
package recommend

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/optifleet/fleetcore/core/logger"
	"github.com/optifleet/fleetcore/core/metrics"
	"github.com/optifleet/fleetcore/core/model"
	"github.com/optifleet/fleetcore/core/registry"
)

// ErrUnavailable indicates the requested vehicle and time window conflicts
// with an active booking.
var ErrUnavailable = errors.New("vehicle unavailable in requested window")

const hourlyRateBase = 25.0

var typeMultipliers = map[model.VehicleType]float64{
	model.TypeSedan: 1.0,
	model.TypeSUV:   1.5,
	model.TypeVan:   2.0,
	model.TypeTruck: 2.5,
	model.TypeBus:   3.0,
	model.TypeBike:  0.5,
}

// SearchRequest filters the candidate pool before scoring. Nil or zero
// fields are ignored.
type SearchRequest struct {
	VehicleType model.VehicleType `json:"vehicle_type,omitempty"`
	IsElectric  *bool             `json:"is_electric,omitempty"`
	MinCapacity *int              `json:"min_capacity,omitempty"`
	MaxCapacity *int              `json:"max_capacity,omitempty"`
	StartTime   *time.Time        `json:"start_time,omitempty"`
	EndTime     *time.Time        `json:"end_time,omitempty"`
}

// AvailabilityResult partitions each requested day into 24 hourly slots.
type AvailabilityResult struct {
	VehicleID      string           `json:"vehicle_id"`
	AvailableSlots []model.TimeSlot `json:"available_slots"`
	BookedSlots    []model.TimeSlot `json:"booked_slots"`
	PricePerHour   float64          `json:"price_per_hour"`
}

// Engine is the recommendation and availability service.
type Engine struct {
	vehicles registry.VehicleRegistry
	bookings registry.BookingRegistry
	prefs    registry.PreferenceStore
	ratings  registry.RatingSource
	sink     metrics.MetricsSink
	log      logger.Logger
	now      func() time.Time
}

// NewEngine wires the recommendation engine. vehicles, bookings, prefs,
// ratings and log are required; sink may be nil.
func NewEngine(
	vehicles registry.VehicleRegistry,
	bookings registry.BookingRegistry,
	prefs registry.PreferenceStore,
	ratings registry.RatingSource,
	sink metrics.MetricsSink,
	log logger.Logger,
) (*Engine, error) {
	if vehicles == nil || bookings == nil || prefs == nil || ratings == nil || log == nil {
		return nil, fmt.Errorf("recommend: nil parameter provided to NewEngine")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Engine{
		vehicles: vehicles,
		bookings: bookings,
		prefs:    prefs,
		ratings:  ratings,
		sink:     sink,
		log:      log,
		now:      time.Now,
	}, nil
}

// SetClock overrides the engine clock, for tests.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

// Recommend filters and scores vehicles for the customer, best first.
func (e *Engine) Recommend(customerID string, req SearchRequest) ([]model.VehicleRecommendation, error) {
	candidates := e.filterVehicles(req)

	pref, hasPref := e.prefs.Get(customerID)
	recs := make([]model.VehicleRecommendation, 0, len(candidates))
	for _, v := range candidates {
		score := e.score(v, pref, hasPref)
		recs = append(recs, model.VehicleRecommendation{
			Vehicle:       v,
			Score:         score,
			Reason:        e.reason(v, pref, hasPref),
			IsRecommended: score >= 70,
			PricePerHour:  PricePerHour(v),
		})
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })

	ev := metrics.RecommendationEvent{CustomerID: customerID, Candidates: len(recs), Time: e.now()}
	if len(recs) > 0 {
		ev.TopScore = recs[0].Score
	}
	if err := e.sink.RecordRecommendation(ev); err != nil {
		e.log.Warnf("record recommendation: %v", err)
	}
	return recs, nil
}

func (e *Engine) filterVehicles(req SearchRequest) []model.Vehicle {
	var res []model.Vehicle
	for _, v := range e.vehicles.ListByStatus(model.VehicleAvailable) {
		if req.VehicleType != "" && v.Type != req.VehicleType {
			continue
		}
		if req.IsElectric != nil && v.IsElectric != *req.IsElectric {
			continue
		}
		if req.MinCapacity != nil && v.Capacity < *req.MinCapacity {
			continue
		}
		if req.MaxCapacity != nil && v.Capacity > *req.MaxCapacity {
			continue
		}
		res = append(res, v)
	}
	if req.StartTime != nil && req.EndTime != nil {
		res = e.dropBooked(res, *req.StartTime, *req.EndTime)
	}
	return res
}

// dropBooked removes vehicles with an active booking overlapping the window.
func (e *Engine) dropBooked(vehicles []model.Vehicle, start, end time.Time) []model.Vehicle {
	booked := map[string]bool{}
	for _, b := range e.bookings.List() {
		if b.Blocks() && b.Overlaps(start, end) {
			booked[b.VehicleID] = true
		}
	}
	var res []model.Vehicle
	for _, v := range vehicles {
		if !booked[v.ID] {
			res = append(res, v)
		}
	}
	return res
}

// score applies the weighted preference model: base 50, clamped to [0,100],
// rounded to one decimal place.
func (e *Engine) score(v model.Vehicle, pref model.CustomerPreference, hasPref bool) float64 {
	score := 50.0
	if hasPref {
		if pref.PreferredType != "" && pref.PreferredType == v.Type {
			score += 20
		}
		if pref.PreferredElectric != nil && *pref.PreferredElectric == v.IsElectric {
			score += 15
		}
		if pref.PreferredCapacity != nil && abs(*pref.PreferredCapacity-v.Capacity) <= 2 {
			score += 10
		}
	}
	if rating, ok := e.ratings.AverageRating(v.ID); ok {
		score += rating / 5 * 15
	}
	score += v.HealthScore / 100 * 10
	if v.IsElectric {
		score += 5
	}
	return math.Min(math.Round(score*10)/10, 100)
}

// reason concatenates the applicable phrases in fixed precedence order.
func (e *Engine) reason(v model.Vehicle, pref model.CustomerPreference, hasPref bool) string {
	var reasons []string
	if hasPref {
		if pref.PreferredType != "" && pref.PreferredType == v.Type {
			reasons = append(reasons, "Matches your preferred vehicle type")
		}
		if pref.PreferredElectric != nil && *pref.PreferredElectric == v.IsElectric {
			reasons = append(reasons, "Matches your eco-friendly preference")
		}
		if pref.BookingCount > 0 {
			reasons = append(reasons, fmt.Sprintf("Based on your %d previous bookings", pref.BookingCount))
		}
	}
	if rating, ok := e.ratings.AverageRating(v.ID); ok && rating >= 4.0 {
		reasons = append(reasons, fmt.Sprintf("Highly rated (%.1f/5.0)", rating))
	}
	if v.HealthScore >= 90 {
		reasons = append(reasons, "Excellent condition")
	}
	if v.IsElectric {
		reasons = append(reasons, "Eco-friendly electric vehicle")
	}
	if len(reasons) == 0 {
		return "Available and reliable"
	}
	return strings.Join(reasons, " • ")
}

// PricePerHour computes the hourly rate for a vehicle, rounded to cents.
func PricePerHour(v model.Vehicle) float64 {
	mult, ok := typeMultipliers[v.Type]
	if !ok {
		mult = 1.0
	}
	price := hourlyRateBase * mult
	if v.IsElectric {
		price *= 1.1
	}
	return math.Round(price*100) / 100
}

// EnsureBookable verifies the vehicle has no active booking overlapping the
// window. Returned as-is to the booking workflow.
func (e *Engine) EnsureBookable(vehicleID string, start, end time.Time) error {
	if _, err := e.vehicles.Get(vehicleID); err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("window end before start: %w", registry.ErrValidation)
	}
	for _, b := range e.bookings.ListByVehicle(vehicleID) {
		if b.Blocks() && b.Overlaps(start, end) {
			return fmt.Errorf("vehicle %s between %s and %s: %w", vehicleID, start, end, ErrUnavailable)
		}
	}
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
