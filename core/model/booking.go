package model

import "time"

// BookingStatus is the lifecycle state of a customer booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingActive    BookingStatus = "ACTIVE"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// Booking is a reserved time window on a vehicle. The optimization core only
// reads bookings for interval-overlap filtering and preference learning.
type Booking struct {
	ID         string        `json:"id"`
	VehicleID  string        `json:"vehicle_id"`
	CustomerID string        `json:"customer_id"`
	StartTime  time.Time     `json:"start_time"`
	EndTime    time.Time     `json:"end_time"`
	Status     BookingStatus `json:"status"`
}

// Blocks reports whether the booking still occupies its window. Cancelled and
// completed bookings release the vehicle.
func (b Booking) Blocks() bool {
	return b.Status != BookingCancelled && b.Status != BookingCompleted
}

// Overlaps reports whether the booking window intersects [start, end].
func (b Booking) Overlaps(start, end time.Time) bool {
	return !(b.EndTime.Before(start) || b.StartTime.After(end))
}
