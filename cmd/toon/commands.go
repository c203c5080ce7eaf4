package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zberg/go-toon/pkg/toon"
)

var (
	targetHost string
	targetPort int
	configFile string
	debug      bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&targetHost, "host", "", "IP address or hostname of the Toon")
	rootCmd.PersistentFlags().IntVar(&targetPort, "port", 0, "HTTP port of the Toon (default 80)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default toon.yaml in . or ~/.config/toon)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(programCmd)
	rootCmd.AddCommand(setTempCmd)
	rootCmd.AddCommand(setStateCmd)
	rootCmd.AddCommand(setModeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(bridgeCmd)
}

func getClient() *toon.Client {
	if err := loadConfig(); err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	host := configuredHost()
	if host == "" {
		fmt.Println("No host configured. Use --host, a config file, or TOON_HOST.")
		os.Exit(1)
	}

	opts := []toon.ClientOption{}
	if port := configuredPort(); port != 0 {
		opts = append(opts, toon.WithPort(port))
	}
	if debug {
		opts = append(opts, toon.WithLogger(newLogger()))
	}

	client, err := toon.NewClient(host, opts...)
	if err != nil {
		fmt.Printf("Error creating client: %v\n", err)
		os.Exit(1)
	}
	return client
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover Toon devices on the network",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Discovering devices...")
		results, err := toon.Discover(cmd.Context())
		if err != nil {
			fmt.Printf("Error discovering: %v\n", err)
			return
		}

		if len(results) == 0 {
			fmt.Println("No devices found.")
			return
		}

		for _, res := range results {
			fmt.Printf("Found device at: %s\n", res.IP)
		}
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show thermostat, meter and boiler status",
	Run: func(cmd *cobra.Command, args []string) {
		client := getClient()
		defer client.Close()

		status, err := client.Update(cmd.Context())
		if err != nil {
			fmt.Printf("Error fetching status: %v\n", err)
			os.Exit(1)
		}

		th := status.Thermostat
		fmt.Println("Thermostat:")
		fmt.Printf("  Temperature: %s\n", formatTemp(th.CurrentTemperature))
		fmt.Printf("  Setpoint:    %s\n", formatTemp(th.CurrentSetpoint))
		fmt.Printf("  State:       %s (program %s)\n", th.ActiveState, th.ProgramState)
		fmt.Printf("  Burner:      %s\n", th.BurnerState)
		if th.NextSetpoint != nil && th.NextTime != nil {
			fmt.Printf("  Next:        %s to %s at %s\n", th.NextState, formatTemp(th.NextSetpoint), th.NextTime.Local().Format("Mon 15:04"))
		}

		if status.GasMeter.Available() {
			fmt.Println("Gas:")
			fmt.Printf("  Last hour: %.2f m3\n", *status.GasMeter.LastHour)
			fmt.Printf("  Total:     %.2f m3\n", *status.GasMeter.Total)
		}

		if status.ElectricityMeter.Available() {
			fmt.Println("Electricity:")
			if delivery := status.ElectricityMeter.Delivery(); delivery != nil {
				fmt.Printf("  Delivery: %.0f W\n", *delivery)
			}
			if ret := status.ElectricityMeter.Return(); ret != nil {
				fmt.Printf("  Return:   %.0f W\n", *ret)
			}
		}

		if status.Boiler.Available() {
			fmt.Println("Boiler:")
			fmt.Printf("  Pressure: %.2f bar\n", *status.Boiler.Pressure)
		}
	},
}

var programCmd = &cobra.Command{
	Use:   "program",
	Short: "Show the weekly heating program",
	Run: func(cmd *cobra.Command, args []string) {
		client := getClient()
		defer client.Close()

		status, err := client.UpdateProgram(cmd.Context())
		if err != nil {
			fmt.Printf("Error fetching program: %v\n", err)
			os.Exit(1)
		}

		days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
		for _, entry := range status.Program {
			day := "?"
			if entry.WeekDay >= 0 && entry.WeekDay < len(days) {
				day = days[entry.WeekDay]
			}
			fmt.Printf("%s %s-%s  %s\n", day, entry.StartClock(), entry.EndClock(), entry.TargetState)
		}
	},
}

var setTempCmd = &cobra.Command{
	Use:   "set-temp [celsius]",
	Short: "Set the target temperature",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		celsius, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			fmt.Printf("Invalid temperature '%s': must be a number\n", args[0])
			os.Exit(1)
		}
		if celsius < 6 || celsius > 30 {
			fmt.Printf("Invalid temperature %.1f: must be 6-30\n", celsius)
			os.Exit(1)
		}

		client := getClient()
		defer client.Close()

		if err := client.SetSetpoint(cmd.Context(), celsius); err != nil {
			fmt.Printf("Error setting temperature: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Setpoint set to %.1f\n", celsius)
	},
}

var setStateCmd = &cobra.Command{
	Use:   "set-state [comfort|home|sleep|away|holiday]",
	Short: "Override the active preset",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		state, err := parseActiveState(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		client := getClient()
		defer client.Close()

		if err := client.SetActiveState(cmd.Context(), state); err != nil {
			fmt.Printf("Error setting state: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Active state set to %s\n", state)
	},
}

var setModeCmd = &cobra.Command{
	Use:   "set-mode [off|on|override]",
	Short: "Switch the weekly program mode",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		state, err := parseProgramState(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		client := getClient()
		defer client.Close()

		if err := client.SetProgramState(cmd.Context(), state); err != nil {
			fmt.Printf("Error setting mode: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Program mode set to %s\n", state)
	},
}

func parseActiveState(s string) (toon.ActiveState, error) {
	switch s {
	case "comfort":
		return toon.StateComfort, nil
	case "home":
		return toon.StateHome, nil
	case "sleep":
		return toon.StateSleep, nil
	case "away":
		return toon.StateAway, nil
	case "holiday":
		return toon.StateHoliday, nil
	}
	return toon.StateNone, fmt.Errorf("invalid state '%s': must be comfort, home, sleep, away or holiday", s)
}

func parseProgramState(s string) (toon.ProgramState, error) {
	switch s {
	case "off":
		return toon.ProgramOff, nil
	case "on":
		return toon.ProgramOn, nil
	case "override":
		return toon.ProgramOverride, nil
	}
	return toon.ProgramOff, fmt.Errorf("invalid mode '%s': must be off, on or override", s)
}

func formatTemp(t *float64) string {
	if t == nil {
		return "unknown"
	}
	return fmt.Sprintf("%.1f °C", *t)
}
