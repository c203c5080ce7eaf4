package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "toon",
	Short: "Rooted Toon thermostat CLI",
	Long:  `A command line interface for querying and controlling a rooted Toon thermostat over its local API.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
