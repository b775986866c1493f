/*
Package cli provides helpers shared by the inference command: output
formatting, signal handling and error-to-exit-code mapping.

Output Formatting:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, report); err != nil {
		return err
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

Exit Codes:

	os.Exit(cli.ExitCode(err)) // 0 ok, 1 failure, 2 configuration error
*/
package cli
