// Package cmd provides the command-line interface of cosimctl.
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var envFiles []string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cosimctl",
	Short: "Run discrete-event scenarios against a fixed-step neural engine.",
	Long: `cosimctl runs co-simulation scenarios described in YAML, ` +
		`optionally recording every handled event into SQLite and serving ` +
		`a monitoring page, and reports on recorded runs. Settings come ` +
		`from COSIM_* environment variables and .env files.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil,
		"Load settings from these .env files (default ./.env)")
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Registered exit handlers, such as the recorder flush, run
// before the process exits.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		logrus.WithError(err).Error("cosimctl failed")
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
