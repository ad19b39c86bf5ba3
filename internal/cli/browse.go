package cli

import (
	"github.com/spf13/cobra"

	"github.com/idilsaglam/watchlist/internal/tui"
)

func newBrowseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive browser",
		Args:  exactArgs(0, "watchlist browse"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isInteractive(ctx, cmd.OutOrStdout()) {
				return usagef("browse needs an interactive terminal; try `watchlist ls`")
			}
			return runBrowse(cmd, ctx)
		},
	}
}

func runBrowse(cmd *cobra.Command, ctx *commandContext) error {
	s, err := ctx.loadStore(cmd.Context())
	if err != nil {
		return err
	}
	labels := ctx.labels()
	return tui.Run(cmd.Context(), tui.Options{
		Store:  s,
		Query:  ctx.queryEngine(),
		Labels: labels,
		Logger: ctx.log(),
	})
}
