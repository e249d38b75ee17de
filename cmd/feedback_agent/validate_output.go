package main

import (
	"fmt"
	"os"

	"github.com/jonathan/devlog-feedback/internal/feedback"
	"github.com/spf13/cobra"
)

var validateOutputCmd = &cobra.Command{
	Use:   "validate-output <file>",
	Short: "Check a saved model response against the output schema",
	Long:  "Applies the same strict parsing used on live model answers: schema validation, no surrounding text, scores within [0,1].",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidateOutput,
}

func init() {
	rootCmd.AddCommand(validateOutputCmd)
}

func runValidateOutput(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read output file: %w", err)
	}

	if _, err := feedback.ParseOutput(string(content)); err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Validation failed")
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Validation passed")
	return nil
}
