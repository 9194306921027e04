// Package app assembles the optimization core, its registries, metrics sinks
// and the HTTP surface into a runnable service.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	apiloads "github.com/optifleet/fleetcore/api/loads"
	apiroutes "github.com/optifleet/fleetcore/api/routes"
	apivehicles "github.com/optifleet/fleetcore/api/vehicles"
	"github.com/optifleet/fleetcore/config"
	"github.com/optifleet/fleetcore/core/assign"
	"github.com/optifleet/fleetcore/core/eta"
	"github.com/optifleet/fleetcore/core/events"
	coremetrics "github.com/optifleet/fleetcore/core/metrics"
	"github.com/optifleet/fleetcore/core/model"
	"github.com/optifleet/fleetcore/core/recommend"
	"github.com/optifleet/fleetcore/core/registry"
	"github.com/optifleet/fleetcore/core/routing"
	"github.com/optifleet/fleetcore/infra/logger"
	"github.com/optifleet/fleetcore/infra/metrics"
	"github.com/optifleet/fleetcore/infra/telemetry"
	"github.com/optifleet/fleetcore/internal/eventbus"
)

// Service owns the engines, the event bus and the HTTP server.
type Service struct {
	Orchestrator *routing.Orchestrator
	Assigner     *assign.Engine
	Recommender  *recommend.Engine
	Vehicles     *registry.MemoryVehicleStore
	Loads        *registry.MemoryLoadStore

	bus         *eventbus.Bus[events.Event]
	ingestor    *telemetry.Ingestor
	handler     http.Handler
	log         logger.Logger
	apiAddr     string
	shutdown    time.Duration
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	vehicles := registry.NewMemoryVehicleStore()
	loads := registry.NewMemoryLoadStore()
	routes := registry.NewMemoryRouteStore()
	bookings := registry.NewMemoryBookingStore()
	prefs := registry.NewMemoryPreferenceStore()
	ratings := registry.StaticRatings{}

	if cfg.Fleet.VehiclesFile != "" {
		if err := loadVehicles(cfg.Fleet.VehiclesFile, vehicles); err != nil {
			return nil, fmt.Errorf("load vehicles: %w", err)
		}
	}

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket))
	}
	var sink coremetrics.MetricsSink
	switch len(sinks) {
	case 0:
		sink = coremetrics.NopSink{}
	case 1:
		sink = sinks[0]
	default:
		sink = metrics.NewMultiSink(sinks...)
	}

	bus := eventbus.New[events.Event]()

	models := eta.DefaultFactory()
	if cfg.Fleet.PredictionSeed != 0 {
		models = eta.FixedFactory(cfg.Fleet.PredictionSeed, time.Now)
	}
	graphs := routing.NewSyntheticGraphSource()
	graphs.Seed = cfg.Fleet.GraphSeed

	orch, err := routing.NewOrchestrator(graphs, routes, vehicles, models, sink, bus, logger.New("routing"))
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	assigner, err := assign.NewEngine(vehicles, loads, sink, bus, logger.New("assign"))
	if err != nil {
		return nil, fmt.Errorf("assignment engine: %w", err)
	}
	recommender, err := recommend.NewEngine(vehicles, bookings, prefs, ratings, sink, logger.New("recommend"))
	if err != nil {
		return nil, fmt.Errorf("recommendation engine: %w", err)
	}

	var ingestor *telemetry.Ingestor
	if cfg.Telemetry.Enabled {
		ingestor, err = telemetry.NewIngestor(cfg.Telemetry, vehicles)
		if err != nil {
			return nil, fmt.Errorf("telemetry ingestor: %w", err)
		}
	}

	routesAPI := apiroutes.NewHandler(orch)
	loadsAPI := apiloads.NewHandler(assigner, loads)
	vehiclesAPI := apivehicles.NewHandler(recommender, vehicles)

	mux := http.NewServeMux()
	mux.Handle("/api/routes", routesAPI)
	mux.Handle("/api/routes/", routesAPI)
	mux.Handle("/api/loads", loadsAPI)
	mux.Handle("/api/loads/", loadsAPI)
	mux.Handle("/api/vehicles", vehiclesAPI)
	mux.Handle("/api/vehicles/", vehiclesAPI)
	mux.Handle("/api/customers/", vehiclesAPI)

	return &Service{
		Orchestrator: orch,
		Assigner:     assigner,
		Recommender:  recommender,
		Vehicles:     vehicles,
		Loads:        loads,
		bus:          bus,
		ingestor:     ingestor,
		handler:      mux,
		log:          logg,
		apiAddr:      cfg.API.Addr,
		shutdown:     time.Duration(cfg.API.ShutdownTimeoutSeconds) * time.Second,
		promEnabled:  cfg.Metrics.PrometheusEnabled,
		promPort:     cfg.Metrics.PrometheusPort,
	}, nil
}

// Handler exposes the HTTP API, for tests.
func (s *Service) Handler() http.Handler { return s.handler }

// Run starts the HTTP server and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	go s.logEvents(ctx)
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{Addr: s.apiAddr, Handler: s.handler}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api shutdown: %v", err)
		}
	}()

	s.log.Infof("api listening on %s", s.apiAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// logEvents drains the domain event bus into the service log.
func (s *Service) logEvents(ctx context.Context) {
	sub := s.bus.Subscribe()
	defer s.bus.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			s.log.Debugw(ev.EventName(), map[string]any{"event": ev})
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.ingestor != nil {
		s.ingestor.Disconnect()
	}
	s.bus.Close()
	return nil
}

// loadVehicles seeds the registry from a JSON array of vehicles.
func loadVehicles(path string, store *registry.MemoryVehicleStore) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fleet []model.Vehicle
	if err := json.Unmarshal(data, &fleet); err != nil {
		return err
	}
	for _, v := range fleet {
		if v.Status == "" {
			v.Status = model.VehicleAvailable
		}
		store.Put(v)
	}
	return nil
}
