package bridge

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zberg/go-toon/pkg/toon"
)

type stubToken struct{}

func (stubToken) Wait() bool                     { return true }
func (stubToken) WaitTimeout(time.Duration) bool { return true }
func (stubToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (stubToken) Error() error { return nil }

type stubMQTT struct {
	published map[string][]byte
	retained  map[string]bool
}

func (s *stubMQTT) IsConnected() bool      { return true }
func (s *stubMQTT) IsConnectionOpen() bool { return true }
func (s *stubMQTT) Connect() mqtt.Token    { return stubToken{} }
func (s *stubMQTT) Disconnect(uint)        {}
func (s *stubMQTT) Publish(topic string, _ byte, retained bool, payload any) mqtt.Token {
	if s.published == nil {
		s.published = make(map[string][]byte)
		s.retained = make(map[string]bool)
	}
	s.published[topic] = payload.([]byte)
	s.retained[topic] = retained
	return stubToken{}
}
func (s *stubMQTT) Subscribe(string, byte, mqtt.MessageHandler) mqtt.Token { return stubToken{} }
func (s *stubMQTT) SubscribeMultiple(map[string]byte, mqtt.MessageHandler) mqtt.Token {
	return stubToken{}
}
func (s *stubMQTT) Unsubscribe(...string) mqtt.Token        { return stubToken{} }
func (s *stubMQTT) AddRoute(string, mqtt.MessageHandler)    {}
func (s *stubMQTT) OptionsReader() mqtt.ClientOptionsReader { panic("not used") }

func sampleStatus() toon.Status {
	temp := 19.5
	setpoint := 20.0
	deliveryLow, deliveryHigh := 120.0, 80.0
	deliveredLow := 150.0
	gasTotal := 750.0
	pressure := 1.8

	return toon.Status{
		Thermostat: toon.Thermostat{
			ActiveState:        toon.StateHome,
			BurnerState:        toon.BurnerOn,
			CurrentTemperature: &temp,
			CurrentSetpoint:    &setpoint,
			ProgramState:       toon.ProgramOn,
		},
		ElectricityMeter: toon.ElectricityMeter{
			DeliveryLow:  &deliveryLow,
			DeliveryHigh: &deliveryHigh,
			DeliveredLow: &deliveredLow,
		},
		GasMeter: toon.GasMeter{Total: &gasTotal},
		Boiler:   toon.Boiler{Pressure: &pressure},
	}
}

func TestPayloads(t *testing.T) {
	messages, err := payloads(sampleStatus(), "toon")
	require.NoError(t, err)
	require.Len(t, messages, 4)

	var thermostat map[string]any
	require.NoError(t, json.Unmarshal(messages["toon/thermostat"], &thermostat))
	assert.Equal(t, "home", thermostat["active_state"])
	assert.Equal(t, "on", thermostat["program_state"])
	assert.Equal(t, true, thermostat["heating"])
	assert.InDelta(t, 19.5, thermostat["current_temperature"].(float64), 0.001)

	var power map[string]any
	require.NoError(t, json.Unmarshal(messages["toon/power"], &power))
	assert.InDelta(t, 200.0, power["delivery_w"].(float64), 0.001)
	assert.InDelta(t, 150.0, power["delivered_low_kwh"].(float64), 0.001)
	// Incomplete return channels are omitted entirely.
	assert.NotContains(t, power, "return_w")

	var boiler map[string]any
	require.NoError(t, json.Unmarshal(messages["toon/boiler"], &boiler))
	assert.InDelta(t, 1.8, boiler["pressure_bar"].(float64), 0.001)
}

func TestPayloads_Empty(t *testing.T) {
	messages, err := payloads(toon.Status{}, "home/toon")
	require.NoError(t, err)

	var gas map[string]any
	require.NoError(t, json.Unmarshal(messages["home/toon/gas"], &gas))
	assert.Empty(t, gas)

	var thermostat map[string]any
	require.NoError(t, json.Unmarshal(messages["home/toon/thermostat"], &thermostat))
	assert.Equal(t, "none", thermostat["active_state"])
}

func testClient(t *testing.T) *toon.Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("action") {
		case "getThermostatInfo":
			_, _ = io.WriteString(w, `{"currentTemp": "1950", "currentSetpoint": "2000", "activeState": "1", "programState": "1", "burnerInfo": "1", "errorFound": "255"}`)
		case "getDevices.json":
			_, _ = io.WriteString(w, `{"dev_2.1": {"type": "HAE_METER_v3_1", "CurrentGasFlow": "90", "CurrentGasQuantity": "750000"}}`)
		case "getRrdData":
			_, _ = io.WriteString(w, `{"2023-11-05 12:00:00": "1.75"}`)
		case "getWeeklyList":
			_, _ = io.WriteString(w, `{result: 'ok', programs: []}`)
		default:
			t.Errorf("unexpected action: %s", r.URL.Query().Get("action"))
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	client, err := toon.NewClient(u.Hostname(), toon.WithPort(port))
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return client
}

func TestPublish(t *testing.T) {
	stub := &stubMQTT{}
	b := newBridge(testClient(t), stub, Config{Broker: "tcp://localhost:1883"}, nil)

	require.NoError(t, b.publish(context.Background()))

	require.Len(t, stub.published, 4)
	for _, topic := range []string{"toon/thermostat", "toon/power", "toon/gas", "toon/boiler"} {
		require.Contains(t, stub.published, topic)
		assert.True(t, stub.retained[topic], topic)
	}

	var thermostat map[string]any
	require.NoError(t, json.Unmarshal(stub.published["toon/thermostat"], &thermostat))
	assert.Equal(t, "home", thermostat["active_state"])
	assert.InDelta(t, 19.5, thermostat["current_temperature"].(float64), 0.001)

	var gas map[string]any
	require.NoError(t, json.Unmarshal(stub.published["toon/gas"], &gas))
	assert.InDelta(t, 750.0, gas["total_m3"].(float64), 0.001)

	var boiler map[string]any
	require.NoError(t, json.Unmarshal(stub.published["toon/boiler"], &boiler))
	assert.InDelta(t, 1.75, boiler["pressure_bar"].(float64), 0.001)
}

func TestNewBridge_Defaults(t *testing.T) {
	stub := &stubMQTT{}
	b := newBridge(nil, stub, Config{Broker: "tcp://localhost:1883"}, nil)

	assert.Equal(t, "toon", b.prefix)
	assert.Equal(t, 30*time.Second, b.interval)
}

func TestNew_NoBroker(t *testing.T) {
	_, err := New(nil, Config{}, nil)
	assert.Error(t, err)
}
