// Package telemetry subscribes to vehicle telemetry over MQTT and feeds
// position and energy updates into the vehicle registry.
package telemetry

import (
	"encoding/json"
	"fmt"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/optifleet/fleetcore/core/model"
	"github.com/optifleet/fleetcore/core/registry"
	"github.com/optifleet/fleetcore/infra/logger"
)

// Config defines the connection parameters for the telemetry subscriber.
type Config struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	// Topic is the subscription filter, typically "fleet/+/telemetry".
	Topic string `json:"topic"`
	QoS   byte   `json:"qos"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "fleetcore-telemetry"
	}
	if c.Topic == "" {
		c.Topic = "fleet/+/telemetry"
	}
}

// Validate checks mandatory fields when the subscriber is enabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("broker is required")
	}
	return nil
}

// message is the wire format vehicles publish on their telemetry topic.
type message struct {
	VehicleID    string   `json:"vehicle_id"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	BatteryLevel *float64 `json:"battery_level,omitempty"`
	FuelLevel    *float64 `json:"fuel_level,omitempty"`
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Ingestor consumes telemetry messages and applies them to the registry.
type Ingestor struct {
	cli      pahoClient
	vehicles registry.VehicleRegistry
	topic    string
	qos      byte
	log      logger.Logger
}

// NewIngestor connects to the broker and subscribes to the telemetry topic.
func NewIngestor(cfg Config, vehicles registry.VehicleRegistry) (*Ingestor, error) {
	if vehicles == nil {
		return nil, fmt.Errorf("telemetry: nil parameter provided to NewIngestor")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.New("telemetry")
	ing := &Ingestor{vehicles: vehicles, topic: cfg.Topic, qos: cfg.QoS, log: log}

	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected")
		if token := c.Subscribe(ing.topic, ing.qos, ing.onMessage); token.Wait() && token.Error() != nil {
			log.Errorf("subscribe error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	ing.cli = c
	return ing, nil
}

func (i *Ingestor) onMessage(_ paho.Client, msg paho.Message) {
	var m message
	if err := json.Unmarshal(msg.Payload(), &m); err != nil {
		i.log.Errorf("failed to decode telemetry: %v", err)
		return
	}
	if err := i.apply(m); err != nil {
		i.log.Warnf("telemetry for unknown vehicle %s", m.VehicleID)
	}
}

// apply merges the update into the stored vehicle under the registry lock.
// Absent fields leave the stored values untouched.
func (i *Ingestor) apply(m message) error {
	return i.vehicles.Apply(m.VehicleID, func(v *model.Vehicle) {
		if m.Latitude != nil {
			v.Latitude = m.Latitude
		}
		if m.Longitude != nil {
			v.Longitude = m.Longitude
		}
		if m.BatteryLevel != nil {
			v.BatteryLevel = *m.BatteryLevel
		}
		if m.FuelLevel != nil {
			v.FuelLevel = *m.FuelLevel
		}
	})
}

// Disconnect gracefully closes the MQTT connection.
func (i *Ingestor) Disconnect() {
	if i.cli != nil && i.cli.IsConnected() {
		i.cli.Disconnect(250)
	}
}
