package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/optifleet/fleetcore/core/model"
)

// MemoryVehicleStore is a thread-safe in-memory VehicleRegistry.
type MemoryVehicleStore struct {
	mu   sync.RWMutex
	data map[string]model.Vehicle
}

func NewMemoryVehicleStore() *MemoryVehicleStore {
	return &MemoryVehicleStore{data: map[string]model.Vehicle{}}
}

func (s *MemoryVehicleStore) Get(id string) (model.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[id]
	if !ok {
		return model.Vehicle{}, fmt.Errorf("vehicle %s: %w", id, ErrNotFound)
	}
	return v, nil
}

func (s *MemoryVehicleStore) List() []model.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.Vehicle, 0, len(s.data))
	for _, v := range s.data {
		res = append(res, v)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

func (s *MemoryVehicleStore) ListByStatus(status model.VehicleStatus) []model.Vehicle {
	var res []model.Vehicle
	for _, v := range s.List() {
		if v.Status == status {
			res = append(res, v)
		}
	}
	return res
}

func (s *MemoryVehicleStore) Put(v model.Vehicle) {
	s.mu.Lock()
	s.data[v.ID] = v
	s.mu.Unlock()
}

func (s *MemoryVehicleStore) CompareAndSwapStatus(id string, from, to model.VehicleStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[id]
	if !ok {
		return false, fmt.Errorf("vehicle %s: %w", id, ErrNotFound)
	}
	if v.Status != from {
		return false, nil
	}
	v.Status = to
	s.data[id] = v
	return true, nil
}

func (s *MemoryVehicleStore) Apply(id string, fn func(*model.Vehicle)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[id]
	if !ok {
		return fmt.Errorf("vehicle %s: %w", id, ErrNotFound)
	}
	fn(&v)
	s.data[id] = v
	return nil
}

// MemoryLoadStore is a thread-safe in-memory LoadRegistry.
type MemoryLoadStore struct {
	mu   sync.RWMutex
	data map[string]model.Load
	now  func() time.Time
}

func NewMemoryLoadStore() *MemoryLoadStore {
	return &MemoryLoadStore{data: map[string]model.Load{}, now: time.Now}
}

// SetClock overrides the store clock, for tests.
func (s *MemoryLoadStore) SetClock(now func() time.Time) { s.now = now }

func (s *MemoryLoadStore) Get(id string) (model.Load, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.data[id]
	if !ok {
		return model.Load{}, fmt.Errorf("load %s: %w", id, ErrNotFound)
	}
	return l, nil
}

func (s *MemoryLoadStore) List() []model.Load {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.Load, 0, len(s.data))
	for _, l := range s.data {
		res = append(res, l)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

func (s *MemoryLoadStore) ListPending() []model.Load {
	var res []model.Load
	for _, l := range s.List() {
		if l.Status == model.LoadPending && l.VehicleID == "" {
			res = append(res, l)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Priority.Rank() != res[j].Priority.Rank() {
			return res[i].Priority.Rank() > res[j].Priority.Rank()
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res
}

func (s *MemoryLoadStore) ListByStatus(status model.LoadStatus) []model.Load {
	var res []model.Load
	for _, l := range s.List() {
		if l.Status == status {
			res = append(res, l)
		}
	}
	return res
}

func (s *MemoryLoadStore) Create(l model.Load) (model.Load, error) {
	if l.Weight <= 0 {
		return model.Load{}, fmt.Errorf("load weight must be positive: %w", ErrValidation)
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Status == "" {
		l.Status = model.LoadPending
	}
	if l.Priority == "" {
		l.Priority = model.PriorityMedium
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = s.now()
	}
	s.mu.Lock()
	s.data[l.ID] = l
	s.mu.Unlock()
	return l, nil
}

func (s *MemoryLoadStore) Put(l model.Load) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[l.ID]; !ok {
		return fmt.Errorf("load %s: %w", l.ID, ErrNotFound)
	}
	s.data[l.ID] = l
	return nil
}

// MemoryRouteStore is a thread-safe in-memory RouteRegistry.
type MemoryRouteStore struct {
	mu   sync.RWMutex
	data map[string]model.Route
}

func NewMemoryRouteStore() *MemoryRouteStore {
	return &MemoryRouteStore{data: map[string]model.Route{}}
}

func (s *MemoryRouteStore) Get(id string) (model.Route, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.data[id]
	if !ok {
		return model.Route{}, fmt.Errorf("route %s: %w", id, ErrNotFound)
	}
	return r, nil
}

func (s *MemoryRouteStore) ListByVehicle(vehicleID string) []model.Route {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []model.Route
	for _, r := range s.data {
		if r.VehicleID == vehicleID {
			res = append(res, r)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res
}

func (s *MemoryRouteStore) Create(r model.Route) model.Route {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.data[r.ID] = r
	s.mu.Unlock()
	return r
}

func (s *MemoryRouteStore) Put(r model.Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[r.ID]; !ok {
		return fmt.Errorf("route %s: %w", r.ID, ErrNotFound)
	}
	s.data[r.ID] = r
	return nil
}

// MemoryBookingStore is a thread-safe in-memory BookingRegistry.
type MemoryBookingStore struct {
	mu   sync.RWMutex
	data map[string]model.Booking
}

func NewMemoryBookingStore() *MemoryBookingStore {
	return &MemoryBookingStore{data: map[string]model.Booking{}}
}

func (s *MemoryBookingStore) Put(b model.Booking) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.data[b.ID] = b
	s.mu.Unlock()
}

func (s *MemoryBookingStore) List() []model.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.Booking, 0, len(s.data))
	for _, b := range s.data {
		res = append(res, b)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].StartTime.Before(res[j].StartTime) })
	return res
}

func (s *MemoryBookingStore) ListByVehicle(vehicleID string) []model.Booking {
	var res []model.Booking
	for _, b := range s.List() {
		if b.VehicleID == vehicleID {
			res = append(res, b)
		}
	}
	return res
}

func (s *MemoryBookingStore) ListByCustomer(customerID string) []model.Booking {
	var res []model.Booking
	for _, b := range s.List() {
		if b.CustomerID == customerID {
			res = append(res, b)
		}
	}
	return res
}

// MemoryPreferenceStore is a thread-safe in-memory PreferenceStore.
type MemoryPreferenceStore struct {
	mu   sync.RWMutex
	data map[string]model.CustomerPreference
}

func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{data: map[string]model.CustomerPreference{}}
}

func (s *MemoryPreferenceStore) Get(customerID string) (model.CustomerPreference, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.data[customerID]
	return p, ok
}

func (s *MemoryPreferenceStore) Put(p model.CustomerPreference) {
	s.mu.Lock()
	s.data[p.CustomerID] = p
	s.mu.Unlock()
}

// StaticRatings is a fixed RatingSource for wiring and tests.
type StaticRatings map[string]float64

func (r StaticRatings) AverageRating(vehicleID string) (float64, bool) {
	v, ok := r[vehicleID]
	return v, ok
}
