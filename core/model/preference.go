package model

import "time"

// CustomerPreference is a learned profile derived from a customer's completed
// bookings. Unset preferences are represented by the zero VehicleType and nil
// pointers so that absence never matches.
type CustomerPreference struct {
	CustomerID        string      `json:"customer_id"`
	PreferredType     VehicleType `json:"preferred_type,omitempty"`
	PreferredElectric *bool       `json:"preferred_electric,omitempty"`
	PreferredCapacity *int        `json:"preferred_capacity,omitempty"`
	AvgDurationHours  int         `json:"avg_duration_hours,omitempty"`
	BookingCount      int         `json:"booking_count"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// VehicleRecommendation is the scored output of the recommendation engine.
// It is computed per request and never persisted.
type VehicleRecommendation struct {
	Vehicle       Vehicle `json:"vehicle"`
	Score         float64 `json:"score"` // 0-100, one decimal place
	Reason        string  `json:"reason"`
	IsRecommended bool    `json:"is_recommended"`
	PricePerHour  float64 `json:"price_per_hour"`
}

// TimeSlot is a one-hour bookable interval in an availability response.
type TimeSlot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Price     float64   `json:"price"`
	Available bool      `json:"available"`
}
