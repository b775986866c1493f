package main

import (
	"github.com/spf13/cobra"

	"genai-hq/inference/pkg/backends"
	"genai-hq/inference/pkg/cli"
	"genai-hq/inference/pkg/proxy/types"
)

var (
	generatePrompt      string
	generateModel       string
	generateMaxTokens   int
	generateTemperature float64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run a single generation through the configured backends",
	Long: `Send one prompt through the same primary and fallback chain the server
uses and print the result.

With --output json the full response (text, model, tokens_used, latency_ms,
source) is printed; text output prints the generated text only.

Examples:
  # Use the configured default model
  inference generate --prompt "Why is the sky blue?"

  # Pick a model and sampling parameters
  inference generate -p "Write a haiku" --model mistral --max-tokens 60 --temperature 0.2

  # Machine-readable output
  inference generate -p "hi" -o json`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generatePrompt, "prompt", "p", "", "prompt text (required)")
	generateCmd.Flags().StringVarP(&generateModel, "model", "m", "", "model name (defaults to generation.default_model)")
	generateCmd.Flags().IntVar(&generateMaxTokens, "max-tokens", 0, "maximum tokens to generate (defaults to generation.default_max_tokens)")
	generateCmd.Flags().Float64Var(&generateTemperature, "temperature", 0, "sampling temperature (defaults to generation.default_temperature)")
	_ = generateCmd.MarkFlagRequired("prompt")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	f, err := formatter()
	if err != nil {
		return cli.NewConfigError("output", err.Error(), err)
	}

	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	req := backends.Request{
		Prompt:      generatePrompt,
		Model:       generateModel,
		MaxTokens:   cfg.Generation.DefaultMaxTokens,
		Temperature: cfg.Generation.DefaultTemperature,
	}
	if cmd.Flags().Changed("max-tokens") {
		req.MaxTokens = generateMaxTokens
	}
	if cmd.Flags().Changed("temperature") {
		req.Temperature = generateTemperature
	}
	req = req.WithDefaults(cfg.Generation.DefaultModel)
	if err := req.Validate(); err != nil {
		return cli.NewCommandError("generate", err)
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := cli.WithSignals(cmd.Context())
	defer stop()

	res, err := a.orchestrator.Generate(ctx, req)
	if err != nil {
		return cli.NewCommandError("generate", err)
	}

	out := cmd.OutOrStdout()
	if _, ok := f.(*cli.JSONFormatter); ok {
		return f.FormatTo(out, types.NewGenerateResponse(res))
	}
	return f.FormatTo(out, res.Text)
}
