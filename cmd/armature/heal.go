package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/armature-dev/armature/internal/blueprint"
	"github.com/armature-dev/armature/internal/connectivity"
	"github.com/armature-dev/armature/internal/engine"
)

type healOptions struct {
	BlueprintPath string
	OutputPath    string
	Verbose       bool
}

func newHealCmd(root *rootFlags) *cobra.Command {
	opts := healOptions{}

	cmd := &cobra.Command{
		Use:   "heal <blueprint-file>",
		Short: "Repair a blueprint and validate the result",
		Long: `Heal runs the full repair loop: structural healing, port inference,
schema healing, and re-validation, up to the configured attempt budget.
On success the healed document is written to the output path (or stdout).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.BlueprintPath = args[0]
			opts.Verbose = root.verbose
			return runHeal(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "", "Write the healed blueprint to this file instead of stdout")
	cmd.Flags().Int("max-attempts", engine.DefaultMaxAttempts, "Maximum heal-validate attempts, counting the first")
	_ = viper.BindPFlag("max_attempts", cmd.Flags().Lookup("max-attempts"))

	return cmd
}

func runHeal(cmd *cobra.Command, opts healOptions) error {
	raw, err := blueprint.ParseFile(opts.BlueprintPath)
	if err != nil {
		return err
	}

	log, err := newLogger(&rootFlags{verbose: opts.Verbose})
	if err != nil {
		return err
	}

	orchestrator := engine.New(connectivity.DefaultMatrix(), log, engine.Options{
		MaxAttempts: viper.GetInt("max_attempts"),
		Thresholds:  thresholdsFromSettings(),
	})

	result, healErr := orchestrator.HealAndValidate(raw)

	out := cmd.OutOrStdout()
	fmt.Fprint(out, renderRecords(result.Records))

	if healErr != nil {
		fmt.Fprint(out, renderReport(raw.Name(), result.Issues))
		return healErr
	}

	fmt.Fprint(out, renderReport(result.Document.System.Name, result.Issues))

	healed, err := raw.ToYAML()
	if err != nil {
		return err
	}

	if opts.OutputPath != "" {
		if err := os.WriteFile(opts.OutputPath, healed, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(out, "healed blueprint written to %s\n", opts.OutputPath)
		return nil
	}

	fmt.Fprintln(out, "---")
	fmt.Fprint(out, string(healed))
	return nil
}
