package main

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/devlog-feedback/internal/feedback"
	"github.com/jonathan/devlog-feedback/internal/llm"
	"github.com/jonathan/devlog-feedback/internal/observability"
	"github.com/spf13/cobra"
)

var (
	analyzeFlags   requestFlags
	analyzeStub    bool
	analyzeVerbose bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a single draft and print the feedback JSON",
	Long:  "Runs the full feedback pipeline (length gate, prompt, model call, strict parsing) once on a local draft and prints the response as JSON.",
	RunE:  runAnalyze,
}

func init() {
	analyzeFlags.register(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&analyzeStub, "stub", false, "Use the stub model even if a live model is configured")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print a human-readable summary to stderr")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}

	req, err := analyzeFlags.build(cmd.InOrStdin())
	if err != nil {
		return err
	}

	llmCfg := cfg.LLMConfig()
	if analyzeStub {
		llmCfg = llm.Config{}
	}
	log.Debug("analyzing draft", "request_id", req.RequestID, "llm_mode", llmCfg.Provider())

	agent := feedback.NewAgent(llm.NewClient(llmCfg, llm.WithLogger(log)), feedback.WithLogger(log))
	resp, err := agent.Analyze(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeVerbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintFeedback(resp)
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
