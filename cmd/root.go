package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/dPrefs/cmd/pref"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dprefs",
		Short: "typed preferences on a flat key-value store",
		Long: fmt.Sprintf(`dPrefs (v%s)

Typed, default-aware preferences on top of a flat key-value store.
This tool inspects and edits the suites written by the dPrefs library.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dPrefs",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dPrefs v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(pref.PrefCommands)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
