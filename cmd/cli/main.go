package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	host    string
	dryRun  bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "atr",
	Short: "A CLI to score matches and read ATR ratings",
	Long: `A command-line interface for the atr-tennis server. It drives live
scoring sessions and reads rankings over the HTTP API.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Ask the server not to persist or publish anything")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Ask the server for debug logging on this request")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'\n", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
