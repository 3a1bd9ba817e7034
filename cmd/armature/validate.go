package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/armature-dev/armature/internal/blueprint"
	"github.com/armature-dev/armature/internal/connectivity"
	"github.com/armature-dev/armature/internal/validate"
)

type validateOptions struct {
	BlueprintPath string
}

func newValidateCmd(root *rootFlags) *cobra.Command {
	opts := validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate <blueprint-file>",
		Short: "Validate a blueprint without modifying it",
		Long: `Validate parses the blueprint and runs the architectural checks:
connectivity, lint contradictions, boundary termination, pattern
classification, completeness, anti-patterns, and schema compatibility.
Exit code 1 signals at least one error-severity issue.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.BlueprintPath = args[0]
			return runValidate(cmd, opts)
		},
	}

	return cmd
}

func runValidate(cmd *cobra.Command, opts validateOptions) error {
	raw, err := blueprint.ParseFile(opts.BlueprintPath)
	if err != nil {
		return err
	}

	doc, err := blueprint.Parse(raw)
	if err != nil {
		return err
	}

	validator := validate.NewValidator(connectivity.DefaultMatrix(), thresholdsFromSettings())
	issues := validator.Validate(doc)

	fmt.Fprint(cmd.OutOrStdout(), renderReport(doc.System.Name, issues))

	if issues.HasErrors() {
		return fmt.Errorf("%d blocking issues found", len(issues.Errors()))
	}
	return nil
}
