package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zberg/go-toon/internal/exporter"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a Prometheus exporter for the Toon",
	Run: func(cmd *cobra.Command, args []string) {
		client := getClient()
		defer client.Close()

		logger := newLogger()
		listen := viper.GetString("listen")

		registry := prometheus.NewRegistry()
		registry.MustRegister(exporter.NewCollector(client, logger))

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
		})

		logger.Info("exporter listening", "addr", listen, "host", configuredHost())
		if err := http.ListenAndServe(listen, mux); err != nil {
			fmt.Printf("Error serving metrics: %v\n", err)
			os.Exit(1)
		}
	},
}
