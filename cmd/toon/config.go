package main

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Configuration for the daemon commands (serve, bridge). Settings come from
// an optional toon.yaml config file and TOON_* environment variables, with
// command line flags taking precedence.
func loadConfig() error {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/toon")
		viper.SetConfigName("toon")
	}

	viper.SetEnvPrefix("TOON")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("port", 80)
	viper.SetDefault("listen", ":9102")
	viper.SetDefault("interval", "30s")
	viper.SetDefault("mqtt.topic_prefix", "toon")
	viper.SetDefault("mqtt.client_id", "go-toon-bridge")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// configuredHost resolves the device host from the --host flag or config.
func configuredHost() string {
	if targetHost != "" {
		return targetHost
	}
	return viper.GetString("host")
}

// configuredPort resolves the device port from the --port flag or config.
func configuredPort() int {
	if targetPort != 0 {
		return targetPort
	}
	return viper.GetInt("port")
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
