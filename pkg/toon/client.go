package toon

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Client talks to a rooted Toon over its local HTTP API.
type Client struct {
	host           string
	port           int
	httpClient     *http.Client
	requestTimeout time.Duration
	logger         *slog.Logger

	mu       sync.Mutex
	topology meterTopology
	status   Status
}

// NewClient creates a client for the Toon at the given host.
// Options can be provided to configure the client behavior.
func NewClient(host string, opts ...ClientOption) (*Client, error) {
	if host == "" {
		return nil, fmt.Errorf("host is required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		host:           host,
		port:           cfg.port,
		httpClient:     httpClient,
		requestTimeout: cfg.requestTimeout,
		logger:         cfg.logger,
	}, nil
}

// Close releases idle connections held by the underlying transport.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
	if c.logger != nil {
		c.logger.Debug("client closed", "host", c.host)
	}
}

// Status returns the most recent snapshot assembled by the update calls.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Client) request(ctx context.Context, service, action string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("action", action)

	u := url.URL{
		Scheme:   "http",
		Host:     net.JoinHostPort(c.host, strconv.Itoa(c.port)),
		Path:     "/" + service,
		RawQuery: query.Encode(),
	}

	// Apply request timeout if context has no deadline
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if c.logger != nil {
		c.logger.Debug("request sent", "service", service, "action", action)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", service, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", service, err)
	}

	// The device answers with text/javascript or text/plain content types
	// regardless of payload, so only the status code is checked here.
	if resp.StatusCode >= 400 {
		if c.logger != nil {
			c.logger.Warn("device error", "service", service, "action", action, "status", resp.StatusCode)
		}
		return nil, &DeviceError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	if c.logger != nil {
		c.logger.Debug("response received", "service", service, "action", action, "bytes", len(body))
	}
	return body, nil
}

// UpdateClimate refreshes the thermostat state and returns the new snapshot.
func (c *Client) UpdateClimate(ctx context.Context) (*Status, error) {
	body, err := c.request(ctx, ServiceThermostat, ActionThermostatInfo, nil)
	if err != nil {
		return nil, err
	}

	thermostat, err := parseThermostatInfo(body)
	if err != nil {
		return nil, err
	}

	return c.swap(func(s *Status) { s.Thermostat = thermostat }), nil
}

// UpdateEnergy refreshes the gas and electricity meter readings and returns
// the new snapshot. The first call discovers which Z-Wave devices carry the
// meters; the mapping is cached for the lifetime of the client.
func (c *Client) UpdateEnergy(ctx context.Context) (*Status, error) {
	body, err := c.request(ctx, ServiceEnergy, ActionGetDevices, nil)
	if err != nil {
		return nil, err
	}

	devices, err := parseEnergyDevices(body)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if !c.topology.discovered() {
		c.topology = discoverMeters(devices)
		if c.logger != nil {
			c.logger.Debug("meter devices discovered", "count", len(c.topology.deviceIDs))
		}
	}
	topology := c.topology
	c.mu.Unlock()

	gas := topology.gasMeter(devices)
	electricity := topology.electricityMeter(devices)

	return c.swap(func(s *Status) {
		s.GasMeter = gas
		s.ElectricityMeter = electricity
	}), nil
}

// UpdateBoiler refreshes the boiler pressure from the RRD datalogger and
// returns the new snapshot.
func (c *Client) UpdateBoiler(ctx context.Context) (*Status, error) {
	from := time.Now().Add(-time.Hour).Truncate(time.Minute)

	query := url.Values{}
	query.Set("loggerName", boilerPressureLogger)
	query.Set("rra", "30days")
	query.Set("readableTime", "1")
	query.Set("nullForNaN", "1")
	query.Set("from", strconv.FormatInt(from.Unix(), 10))

	body, err := c.request(ctx, ServiceDatalogger, ActionGetRrdData, query)
	if err != nil {
		return nil, err
	}

	boiler, err := parseBoilerPressure(body)
	if err != nil {
		return nil, err
	}

	return c.swap(func(s *Status) { s.Boiler = boiler }), nil
}

// UpdateProgram refreshes the weekly heating program and returns the new
// snapshot.
func (c *Client) UpdateProgram(ctx context.Context) (*Status, error) {
	body, err := c.request(ctx, ServiceThermostat, ActionWeeklyList, nil)
	if err != nil {
		return nil, err
	}

	program, err := parseWeeklyList(body)
	if err != nil {
		return nil, err
	}

	return c.swap(func(s *Status) { s.Program = program }), nil
}

// Update refreshes everything the device reports and returns the new
// snapshot.
func (c *Client) Update(ctx context.Context) (*Status, error) {
	if _, err := c.UpdateClimate(ctx); err != nil {
		return nil, err
	}
	if _, err := c.UpdateEnergy(ctx); err != nil {
		return nil, err
	}
	if _, err := c.UpdateBoiler(ctx); err != nil {
		return nil, err
	}
	if _, err := c.UpdateProgram(ctx); err != nil {
		return nil, err
	}

	status := c.Status()
	return &status, nil
}

// SetSetpoint sets the target temperature in degrees Celsius and re-reads
// the climate state.
func (c *Client) SetSetpoint(ctx context.Context, celsius float64) error {
	query := url.Values{}
	query.Set("Setpoint", strconv.Itoa(int(math.Round(celsius*100))))

	if _, err := c.request(ctx, ServiceThermostat, ActionSetSetpoint, query); err != nil {
		return err
	}

	_, err := c.UpdateClimate(ctx)
	return err
}

// SetActiveState overrides the current program block with the given preset
// and re-reads the climate state.
func (c *Client) SetActiveState(ctx context.Context, state ActiveState) error {
	query := url.Values{}
	query.Set("state", strconv.Itoa(int(ProgramOverride)))
	query.Set("temperatureState", strconv.Itoa(state.DeviceValue()))

	if _, err := c.request(ctx, ServiceThermostat, ActionChangeSchemeState, query); err != nil {
		return err
	}

	_, err := c.UpdateClimate(ctx)
	return err
}

// SetProgramState switches the weekly program on, off, or into override and
// re-reads the climate state.
func (c *Client) SetProgramState(ctx context.Context, state ProgramState) error {
	query := url.Values{}
	query.Set("state", strconv.Itoa(int(state)))

	if _, err := c.request(ctx, ServiceThermostat, ActionChangeSchemeState, query); err != nil {
		return err
	}

	_, err := c.UpdateClimate(ctx)
	return err
}

// swap applies a mutation to a copy of the current snapshot, stores it, and
// returns the copy.
func (c *Client) swap(apply func(*Status)) *Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.status
	apply(&next)
	c.status = next
	return &next
}
