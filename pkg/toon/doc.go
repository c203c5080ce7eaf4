// Package toon provides a client for querying and controlling a rooted Toon
// thermostat over its local HTTP API.
//
// # Basic Usage
//
//	ctx := context.Background()
//	client, err := toon.NewClient("192.168.1.45")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	status, err := client.Update(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(status.Thermostat.CurrentTemperature)
//
// # Configuration
//
// The client can be configured using functional options:
//
//	client, err := toon.NewClient("192.168.1.45",
//	    toon.WithPort(10080),
//	    toon.WithRequestTimeout(5*time.Second),
//	    toon.WithLogger(slog.Default()),
//	)
//
// # Device API
//
// A rooted Toon exposes its internal services over plain HTTP on port 80.
// Thermostat state and control go through the happ_thermstat service, the
// meter adapter readings through hdrv_zwave, and boiler pressure history
// through the hcb_rrd datalogger. The API is unauthenticated; isolate the
// device on a trusted network segment.
package toon
