package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"genai-hq/inference/pkg/cli"
)

var (
	// Global flags
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "inference",
	Short: "GenAI inference router with backend fallback",
	Long: `Inference routes text-generation requests to a primary backend (Ollama)
and falls back to a secondary backend when the primary fails.

Configuration is read from an optional YAML file and overridden by
environment variables (OLLAMA_URL, BEDROCK_FALLBACK, DEFAULT_MODEL and
INFERENCE_* keys).`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with cli.ExitCode of its error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults and environment only when empty)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format (text, json)")
}

// formatter returns the formatter selected by --output.
func formatter() (cli.Formatter, error) {
	format, err := cli.ParseOutputFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	return cli.NewFormatter(format), nil
}
