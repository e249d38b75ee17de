package main

import (
	"fmt"

	"github.com/jonathan/devlog-feedback/internal/feedback"
	"github.com/spf13/cobra"
)

var promptFlags requestFlags

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the prompt that would be sent to the model",
	RunE:  runPrompt,
}

func init() {
	promptFlags.register(promptCmd)
	rootCmd.AddCommand(promptCmd)
}

func runPrompt(cmd *cobra.Command, _ []string) error {
	req, err := promptFlags.build(cmd.InOrStdin())
	if err != nil {
		return err
	}

	prompt, err := feedback.BuildPrompt(req)
	if err != nil {
		return fmt.Errorf("failed to build prompt: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	return nil
}
