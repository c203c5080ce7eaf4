package toon

import (
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithPort_Valid(t *testing.T) {
	cfg := defaultConfig()

	err := WithPort(80)(cfg)
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.port)

	err = WithPort(1)(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.port)

	err = WithPort(65535)(cfg)
	require.NoError(t, err)
	assert.Equal(t, 65535, cfg.port)
}

func TestWithPort_Invalid(t *testing.T) {
	cfg := defaultConfig()

	err := WithPort(0)(cfg)
	assert.Error(t, err)

	err = WithPort(-1)(cfg)
	assert.Error(t, err)

	err = WithPort(65536)(cfg)
	assert.Error(t, err)
}

func TestWithRequestTimeout_Valid(t *testing.T) {
	cfg := defaultConfig()

	err := WithRequestTimeout(5 * time.Second)(cfg)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.requestTimeout)
}

func TestWithRequestTimeout_Invalid(t *testing.T) {
	cfg := defaultConfig()

	err := WithRequestTimeout(0)(cfg)
	assert.Error(t, err)

	err = WithRequestTimeout(-1 * time.Second)(cfg)
	assert.Error(t, err)
}

func TestWithHTTPClient(t *testing.T) {
	cfg := defaultConfig()
	assert.Nil(t, cfg.httpClient)

	httpClient := &http.Client{}
	err := WithHTTPClient(httpClient)(cfg)
	require.NoError(t, err)
	assert.Equal(t, httpClient, cfg.httpClient)
}

func TestWithHTTPClient_Nil(t *testing.T) {
	cfg := defaultConfig()

	err := WithHTTPClient(nil)(cfg)
	assert.Error(t, err)
}

func TestWithLogger(t *testing.T) {
	cfg := defaultConfig()
	assert.Nil(t, cfg.logger)

	logger := slog.Default()
	err := WithLogger(logger)(cfg)
	require.NoError(t, err)
	assert.Equal(t, logger, cfg.logger)
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	assert.Equal(t, 80, cfg.port)
	assert.Equal(t, 10*time.Second, cfg.requestTimeout)
	assert.Nil(t, cfg.httpClient)
	assert.Nil(t, cfg.logger)
}

func TestNewClient_NoHost(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)
}

func TestNewClient_InvalidOption(t *testing.T) {
	_, err := NewClient("192.168.1.45", WithPort(0))
	assert.Error(t, err)
}
