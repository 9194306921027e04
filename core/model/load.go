package model

import "time"

// LoadPriority ranks pending loads for batch assignment.
type LoadPriority string

const (
	PriorityLow    LoadPriority = "LOW"
	PriorityMedium LoadPriority = "MEDIUM"
	PriorityHigh   LoadPriority = "HIGH"
	PriorityUrgent LoadPriority = "URGENT"
)

// Rank returns a comparable weight for the priority, higher is more urgent.
func (p LoadPriority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 3
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

// LoadStatus tracks a load through its delivery lifecycle. Transitions move
// forward only, except CANCELLED which may happen at any point.
type LoadStatus string

const (
	LoadPending   LoadStatus = "PENDING"
	LoadAssigned  LoadStatus = "ASSIGNED"
	LoadInTransit LoadStatus = "IN_TRANSIT"
	LoadDelivered LoadStatus = "DELIVERED"
	LoadCancelled LoadStatus = "CANCELLED"
)

// Load is a shipment waiting for, or attached to, a vehicle. VehicleID is set
// only by the assignment engine.
type Load struct {
	ID          string       `json:"id"`
	Description string       `json:"description,omitempty"`
	Weight      float64      `json:"weight"`
	Pickup      Location     `json:"pickup"`
	Destination Location     `json:"destination"`
	Priority    LoadPriority `json:"priority"`
	VehicleID   string       `json:"vehicle_id,omitempty"`
	Status      LoadStatus   `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	AssignedAt  time.Time    `json:"assigned_at,omitempty"`
	DeliveredAt time.Time    `json:"delivered_at,omitempty"`
}
