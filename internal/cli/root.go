// Package cli wires the watchlist engines to a cobra command tree.
package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/watchlist/internal/ui"
)

const skipConfigAnnotation = "skipConfigLoad"

func newRootCommand(ctx *commandContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "watchlist",
		Short:         "Track what you read, watch and listen to",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          noArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			return ctx.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if isInteractive(ctx, cmd.OutOrStdout()) {
				return runBrowse(cmd, ctx)
			}
			return cmd.Help()
		},
	}
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{msg: err.Error()}
	})

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.flags.config, "config", "c", "", "Configuration file path")
	flags.StringVar(&ctx.flags.dataDir, "data-dir", "", "Directory holding the collection")
	flags.StringVar(&ctx.flags.backend, "backend", "", "Storage backend (json or sqlite)")
	flags.StringVar(&ctx.flags.locale, "locale", "", "Label language, e.g. en or fr")
	flags.StringVar(&ctx.flags.theme, "theme", "", "Color theme (classic, neon, mono)")
	flags.BoolVar(&ctx.flags.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newAddCommand(ctx))
	rootCmd.AddCommand(newEditCommand(ctx))
	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newRemoveCommand(ctx))
	rootCmd.AddCommand(newCycleCommand(ctx))
	rootCmd.AddCommand(newQuickCommand(ctx))
	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newImportCommand(ctx))
	rootCmd.AddCommand(newBrowseCommand(ctx))
	rootCmd.AddCommand(newTypesCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

// Execute runs the command tree and returns the process exit code. stdin
// feeds confirmation prompts and `import -`.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cc := newCommandContext(stdin)
	cmd := newRootCommand(cc)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if cerr := cc.close(); err == nil && cerr != nil {
		err = cerr
	}
	if err == nil {
		return exitOK
	}
	if errors.Is(err, context.Canceled) {
		return exitError
	}
	ui.Fail(stderr, err.Error())
	return exitCode(err)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations[skipConfigAnnotation] == "true" {
			return true
		}
	}
	return false
}

func isInteractive(ctx *commandContext, out io.Writer) bool {
	if _, ok := os.LookupEnv("WATCHLIST_NONINTERACTIVE"); ok {
		return false
	}
	return ui.IsTerminal(ctx.stdin) && ui.IsTerminal(out)
}
