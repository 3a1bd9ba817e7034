package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/armature-dev/armature/internal/engine"
	"github.com/armature-dev/armature/internal/logger"
	"github.com/armature-dev/armature/internal/validate"
)

type rootFlags struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "armature",
		Short:         "Armature validates and repairs blueprint documents",
		Long:          "Armature checks a component blueprint against the connectivity matrix and, when asked, repairs structural and schema problems before re-validating.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")

	initSettings()

	cmd.AddCommand(newValidateCmd(flags))
	cmd.AddCommand(newHealCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// initSettings wires viper so every knob can come from the environment
// (ARMATURE_MAX_ATTEMPTS and friends) as well as from flags.
func initSettings() {
	viper.SetEnvPrefix("ARMATURE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("max_attempts", engine.DefaultMaxAttempts)
	viper.SetDefault("thresholds.fan_out", validate.DefaultThresholds().FanOut)
	viper.SetDefault("thresholds.fan_in", validate.DefaultThresholds().FanIn)
	viper.SetDefault("thresholds.router_suggestion", validate.DefaultThresholds().RouterSuggestion)
}

func thresholdsFromSettings() validate.Thresholds {
	return validate.Thresholds{
		FanOut:           viper.GetInt("thresholds.fan_out"),
		FanIn:            viper.GetInt("thresholds.fan_in"),
		RouterSuggestion: viper.GetInt("thresholds.router_suggestion"),
	}
}

func newLogger(flags *rootFlags) (*logger.Logger, error) {
	level := "info"
	if flags.verbose {
		level = "debug"
	}
	return logger.New(logger.Options{Level: level, HumanReadable: true})
}
