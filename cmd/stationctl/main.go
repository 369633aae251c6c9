package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// stationctl is a thin HTTP client for the geostation server: list, add and
// delete records, pull the CSV export, and read or update settings.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var serverURL string
	root := &cobra.Command{
		Use:           "stationctl",
		Short:         "Geostation CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Server base URL")

	root.AddCommand(newListCmd(&serverURL))
	root.AddCommand(newAddCmd(&serverURL))
	root.AddCommand(newDeleteCmd(&serverURL))
	root.AddCommand(newExportCmd(&serverURL))
	root.AddCommand(newSettingsCmd(&serverURL))
	return root
}
