package pref

import (
	"os"

	"github.com/ValentinKolb/dPrefs/cmd/util"
	"github.com/ValentinKolb/dPrefs/lib/common"
	"github.com/VictoriaMetrics/metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	session *util.Session

	// PrefCommands represents the preference command group
	PrefCommands = &cobra.Command{
		Use:                "pref",
		Short:              "Inspect and edit the preferences of a suite",
		Long:               `Inspect and edit the preferences of a suite. The configuration can be set via command line flags or environment variables. The format of the environment variables is DPREFS_<flag> (e.g. DPREFS_SUITE=app.group.id)`,
		PersistentPreRunE:  setupSession,
		PersistentPostRunE: closeSession,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add flags to open a suite
	util.SetupSuiteFlags(PrefCommands)

	key := "metrics"
	PrefCommands.PersistentFlags().Bool(key, false, util.WrapString("Print the accessor metrics in Prometheus format to stderr after the command"))

	// Add subcommands
	PrefCommands.AddCommand(getCmd)
	PrefCommands.AddCommand(hasCmd)
	PrefCommands.AddCommand(setCmd)
	PrefCommands.AddCommand(delCmd)
	PrefCommands.AddCommand(keysCmd)
	PrefCommands.AddCommand(suitesCmd)
	PrefCommands.AddCommand(dumpCmd)
	PrefCommands.AddCommand(configCmd)
}

// setupSession opens the configured suite
func setupSession(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	conf, err := util.GetConfig()
	if err != nil {
		return err
	}
	if err := common.InitLoggers(conf.LogLevel); err != nil {
		return err
	}

	session, err = util.OpenSession(conf)
	return err
}

// closeSession releases the suite and prints metrics if requested
func closeSession(_ *cobra.Command, _ []string) error {
	if viper.GetBool("metrics") {
		metrics.WritePrometheus(os.Stderr, false)
	}
	if session == nil {
		return nil
	}
	err := session.Close()
	session = nil
	return err
}
