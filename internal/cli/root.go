package cli

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "ayuni",
	Short: "AI companion service",
	Long:  "Ayuni hosts AI companion personas with emotional state that drifts during inactivity and a simulated social life generated in the background.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to TOML config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(decayCmd)
	rootCmd.AddCommand(socialCmd)
}
