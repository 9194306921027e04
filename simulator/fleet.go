package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// SimulatedVehicle drifts around its start position and drains its energy
// while publishing telemetry.
type SimulatedVehicle struct {
	ID       string
	Electric bool

	lat     float64
	lon     float64
	battery float64
	fuel    float64
	rng     *rand.Rand
}

// NewSimulatedVehicle creates a vehicle at the given position.
func NewSimulatedVehicle(id string, electric bool, lat, lon float64, seed int64) *SimulatedVehicle {
	return &SimulatedVehicle{
		ID:       id,
		Electric: electric,
		lat:      lat,
		lon:      lon,
		battery:  100,
		fuel:     100,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// step advances the vehicle by one tick: a small random move and a slow
// energy drain that wraps back to full, so long runs keep producing eligible
// vehicles.
func (v *SimulatedVehicle) step() {
	v.lat += (v.rng.Float64() - 0.5) * 0.01
	v.lon += (v.rng.Float64() - 0.5) * 0.01
	drain := v.rng.Float64() * 2
	if v.Electric {
		v.battery -= drain
		if v.battery < 5 {
			v.battery = 100
		}
	} else {
		v.fuel -= drain
		if v.fuel < 5 {
			v.fuel = 100
		}
	}
}

func (v *SimulatedVehicle) payload() ([]byte, error) {
	msg := map[string]any{
		"vehicle_id": v.ID,
		"latitude":   v.lat,
		"longitude":  v.lon,
	}
	if v.Electric {
		msg["battery_level"] = v.battery
	} else {
		msg["fuel_level"] = v.fuel
	}
	return json.Marshal(msg)
}

// Fleet publishes telemetry for a set of simulated vehicles.
type Fleet struct {
	vehicles []*SimulatedVehicle
	client   paho.Client
	interval time.Duration
}

// NewFleet creates size vehicles scattered around the origin, alternating
// electric and combustion.
func NewFleet(size int, originLat, originLon float64, interval time.Duration, seed int64) *Fleet {
	f := &Fleet{interval: interval}
	for i := 0; i < size; i++ {
		f.vehicles = append(f.vehicles, NewSimulatedVehicle(
			fmt.Sprintf("sim-%03d", i+1),
			i%2 == 0,
			originLat+float64(i)*0.002,
			originLon-float64(i)*0.002,
			seed+int64(i),
		))
	}
	return f
}

// Run connects to the broker and publishes one telemetry message per vehicle
// per tick until ctx is done.
func (f *Fleet) Run(ctx context.Context, broker string) error {
	opts := paho.NewClientOptions().AddBroker(broker).SetClientID("fleetcore-simulator")
	opts.AutoReconnect = true
	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	f.client = cli
	defer cli.Disconnect(250)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			f.tick()
		}
	}
}

func (f *Fleet) tick() {
	for _, v := range f.vehicles {
		v.step()
		payload, err := v.payload()
		if err != nil {
			continue
		}
		topic := fmt.Sprintf("fleet/%s/telemetry", v.ID)
		f.client.Publish(topic, 0, false, payload)
	}
}
