package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zberg/go-toon/internal/bridge"
)

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Publish Toon status to an MQTT broker",
	Run: func(cmd *cobra.Command, args []string) {
		client := getClient()
		defer client.Close()

		logger := newLogger()

		cfg := bridge.Config{
			Broker:      viper.GetString("mqtt.broker"),
			Username:    viper.GetString("mqtt.username"),
			Password:    viper.GetString("mqtt.password"),
			ClientID:    viper.GetString("mqtt.client_id"),
			TopicPrefix: viper.GetString("mqtt.topic_prefix"),
			Interval:    viper.GetDuration("interval"),
		}

		b, err := bridge.New(client, cfg, logger)
		if err != nil {
			fmt.Printf("Error starting bridge: %v\n", err)
			os.Exit(1)
		}
		defer b.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("bridge running", "broker", cfg.Broker, "prefix", cfg.TopicPrefix, "interval", cfg.Interval)
		if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Printf("Bridge stopped: %v\n", err)
			os.Exit(1)
		}
	},
}
