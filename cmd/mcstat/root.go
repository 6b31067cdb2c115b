package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "mcstat",
	Short: "Markov chain reward analysis: readers, expectation/variance/covariance passes, Herman generator",
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().Bool("json-log", false, "emit operational log lines as JSON instead of console text")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug-level logging")
	_ = viper.BindPFlag("json_log", rootCmd.PersistentFlags().Lookup("json-log"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(
		readTraCmd,
		readGMCCmd,
		addRewCmd,
		readTargetCmd,
		readLabelCmd,
		calcExpectCmd,
		calcVarianceCmd,
		calcCovarianceCmd,
		generateHermanCmd,
		printMCCmd,
	)
}

func initConfig() {
	viper.SetEnvPrefix("MCSTAT")
	viper.AutomaticEnv()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if viper.GetBool("json_log") {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	if viper.GetBool("verbose") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// Execute runs the root command, exiting with a non-zero status on
// failure. Per-subcommand failures are logged by the subcommand itself
// and also surfaced here as the process exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
