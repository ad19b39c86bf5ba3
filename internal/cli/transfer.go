package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/watchlist/internal/i18n"
	"github.com/idilsaglam/watchlist/internal/model"
	"github.com/idilsaglam/watchlist/internal/transfer"
	"github.com/idilsaglam/watchlist/internal/ui"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var out, format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the collection to a dated JSON file, a path or stdout",
		Args:  exactArgs(0, "watchlist export [--out path|-] [--format json|csv]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format != formatJSON && format != formatCSV {
				return usagef("invalid --format %q (want json or csv)", format)
			}
			s, err := ctx.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			items := s.Items()

			target := strings.TrimSpace(out)
			if target == "-" {
				return writeExport(cmd, items, format)
			}
			if target == "" {
				target = transfer.ExportFileName(s.Now())
				if format == formatCSV {
					target = strings.TrimSuffix(target, ".json") + ".csv"
				}
			}
			if err := writeExportFile(target, items, format); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("exported %d items to %s", len(items), target))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Destination file, or - for stdout (default watchlist-<date>.json)")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "Output format: json or csv")
	return cmd
}

func writeExport(cmd *cobra.Command, items []model.Item, format string) error {
	if format == formatCSV {
		return transfer.ExportCSV(cmd.OutOrStdout(), items)
	}
	data, err := transfer.Export(items)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func writeExportFile(path string, items []model.Item, format string) error {
	if format == formatJSON {
		return transfer.WriteExport(path, items)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	if err := transfer.ExportCSV(f, items); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Load a JSON export, replacing or merging into the collection",
		Args:  exactArgs(1, "watchlist import <file|-> --mode replace|merge"),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := transfer.ParseMode(mode)
			if err != nil {
				return usageError{msg: err.Error() + " (--mode replace|merge)"}
			}
			s, err := ctx.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			eng := ctx.importer(s)

			var res transfer.Result
			if args[0] == "-" {
				res, err = eng.ImportReader(cmd.Context(), "stdin", ctx.stdin, m)
			} else {
				res, err = eng.ImportFile(cmd.Context(), args[0], m)
			}
			if err != nil && res.Mode == "" {
				return err
			}

			outw := cmd.OutOrStdout()
			ui.OK(outw, ctx.labels().Text(i18n.MsgImportDone, res.Imported, res.Dropped, res.Total))
			if m == transfer.Merge {
				fmt.Fprintln(outw, ui.Current().Muted.Render(fmt.Sprintf("%d replaced, %d added", res.Replaced, res.Added)))
			}
			return ctx.mutationErr(cmd, err)
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "replace or merge (required)")
	return cmd
}
