// Command simulator feeds synthetic vehicle telemetry into an MQTT broker so
// a fleetcore instance has live positions to work with.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	broker := flag.String("broker", "tcp://localhost:1883", "MQTT broker address")
	size := flag.Int("vehicles", 10, "number of simulated vehicles")
	interval := flag.Duration("interval", 2*time.Second, "telemetry publish interval")
	lat := flag.Float64("lat", 48.8566, "origin latitude")
	lon := flag.Float64("lon", 2.3522, "origin longitude")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fleet := NewFleet(*size, *lat, *lon, *interval, *seed)
	if err := fleet.Run(ctx, *broker); err != nil {
		log.Fatalf("simulator: %v", err)
	}
}
