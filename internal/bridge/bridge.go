// Package bridge periodically polls a Toon and publishes status snapshots to
// an MQTT broker, one retained JSON message per subsystem.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/zberg/go-toon/pkg/toon"
)

const (
	defaultTopicPrefix = "toon"
	defaultInterval    = 30 * time.Second
	connectTimeout     = 10 * time.Second
	publishTimeout     = 5 * time.Second
)

// Config holds the MQTT connection and publishing settings.
type Config struct {
	Broker      string // e.g. tcp://192.168.1.2:1883
	Username    string
	Password    string
	ClientID    string
	TopicPrefix string
	Interval    time.Duration
}

// Bridge connects a Toon client to an MQTT broker.
type Bridge struct {
	client   *toon.Client
	mqtt     mqtt.Client
	prefix   string
	interval time.Duration
	logger   *slog.Logger
}

// New connects to the broker and returns a ready-to-run bridge.
func New(client *toon.Client, cfg Config, logger *slog.Logger) (*Bridge, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("mqtt broker is required")
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "go-toon-bridge"
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(connectTimeout)

	mqttClient := mqtt.NewClient(opts)
	if token := mqttClient.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect mqtt broker: %w", token.Error())
	}

	return newBridge(client, mqttClient, cfg, logger), nil
}

func newBridge(client *toon.Client, mqttClient mqtt.Client, cfg Config, logger *slog.Logger) *Bridge {
	prefix := cfg.TopicPrefix
	if prefix == "" {
		prefix = defaultTopicPrefix
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}

	return &Bridge{
		client:   client,
		mqtt:     mqttClient,
		prefix:   prefix,
		interval: interval,
		logger:   logger,
	}
}

// Run polls and publishes until the context is canceled. Poll failures are
// logged and retried on the next tick.
func (b *Bridge) Run(ctx context.Context) error {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	if err := b.publish(ctx); err != nil && b.logger != nil {
		b.logger.Error("publish failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := b.publish(ctx); err != nil && b.logger != nil {
				b.logger.Error("publish failed", "error", err)
			}
		}
	}
}

// Close disconnects from the broker.
func (b *Bridge) Close() {
	b.mqtt.Disconnect(uint(publishTimeout.Milliseconds()))
}

func (b *Bridge) publish(ctx context.Context) error {
	status, err := b.client.Update(ctx)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	messages, err := payloads(*status, b.prefix)
	if err != nil {
		return err
	}

	for topic, payload := range messages {
		token := b.mqtt.Publish(topic, 0, true, payload)
		if !token.WaitTimeout(publishTimeout) {
			return fmt.Errorf("publish %s: timeout", topic)
		}
		if token.Error() != nil {
			return fmt.Errorf("publish %s: %w", topic, token.Error())
		}
		if b.logger != nil {
			b.logger.Debug("published", "topic", topic, "bytes", len(payload))
		}
	}
	return nil
}

type thermostatMessage struct {
	CurrentTemperature *float64 `json:"current_temperature,omitempty"`
	Setpoint           *float64 `json:"setpoint,omitempty"`
	ActiveState        string   `json:"active_state"`
	ProgramState       string   `json:"program_state"`
	Heating            bool     `json:"heating"`
	HotTapWater        bool     `json:"hot_tap_water"`
	ModulationLevel    *int     `json:"modulation_level,omitempty"`
	NextSetpoint       *float64 `json:"next_setpoint,omitempty"`
}

type powerMessage struct {
	DeliveryW     *float64 `json:"delivery_w,omitempty"`
	ReturnW       *float64 `json:"return_w,omitempty"`
	DeliveredLow  *float64 `json:"delivered_low_kwh,omitempty"`
	DeliveredHigh *float64 `json:"delivered_high_kwh,omitempty"`
	ReturnedLow   *float64 `json:"returned_low_kwh,omitempty"`
	ReturnedHigh  *float64 `json:"returned_high_kwh,omitempty"`
}

type gasMessage struct {
	LastHourM3 *float64 `json:"last_hour_m3,omitempty"`
	TotalM3    *float64 `json:"total_m3,omitempty"`
}

type boilerMessage struct {
	PressureBar *float64 `json:"pressure_bar,omitempty"`
}

// payloads builds the per-subsystem JSON messages for one snapshot.
func payloads(status toon.Status, prefix string) (map[string][]byte, error) {
	th := status.Thermostat
	messages := map[string]any{
		prefix + "/thermostat": thermostatMessage{
			CurrentTemperature: th.CurrentTemperature,
			Setpoint:           th.CurrentSetpoint,
			ActiveState:        th.ActiveState.String(),
			ProgramState:       th.ProgramState.String(),
			Heating:            th.Heating(),
			HotTapWater:        th.HotTapWater(),
			ModulationLevel:    th.ModulationLevel,
			NextSetpoint:       th.NextSetpoint,
		},
		prefix + "/power": powerMessage{
			DeliveryW:     status.ElectricityMeter.Delivery(),
			ReturnW:       status.ElectricityMeter.Return(),
			DeliveredLow:  status.ElectricityMeter.DeliveredLow,
			DeliveredHigh: status.ElectricityMeter.DeliveredHigh,
			ReturnedLow:   status.ElectricityMeter.ReturnedLow,
			ReturnedHigh:  status.ElectricityMeter.ReturnedHigh,
		},
		prefix + "/gas": gasMessage{
			LastHourM3: status.GasMeter.LastHour,
			TotalM3:    status.GasMeter.Total,
		},
		prefix + "/boiler": boilerMessage{
			PressureBar: status.Boiler.Pressure,
		},
	}

	encoded := make(map[string][]byte, len(messages))
	for topic, message := range messages {
		payload, err := json.Marshal(message)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", topic, err)
		}
		encoded[topic] = payload
	}
	return encoded, nil
}
