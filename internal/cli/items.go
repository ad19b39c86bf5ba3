package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/watchlist/internal/i18n"
	"github.com/idilsaglam/watchlist/internal/model"
	"github.com/idilsaglam/watchlist/internal/query"
	"github.com/idilsaglam/watchlist/internal/store"
	"github.com/idilsaglam/watchlist/internal/ui"
)

const cardWidth = 72

// itemFlags are shared by add and edit.
type itemFlags struct {
	typ      string
	title    string
	creator  string
	media    string
	link     string
	notes    string
	cover    string
	status   string
	progress int
	rating   float64
}

func (f *itemFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.typ, "type", "t", "", "Media type tag, matched exactly (see `watchlist types`)")
	fl.StringVar(&f.title, "title", "", "Title")
	fl.StringVar(&f.creator, "creator", "", "Author, director or studio")
	fl.StringVar(&f.media, "media", "", "Format or platform")
	fl.StringVar(&f.link, "link", "", "Where to find it")
	fl.StringVar(&f.notes, "notes", "", "Free-form notes (markdown)")
	fl.StringVar(&f.cover, "cover", "", "Cover image URL")
	fl.StringVarP(&f.status, "status", "s", "", "planned, current, paused, done or dropped")
	fl.IntVarP(&f.progress, "progress", "p", 0, "Progress percent (0-100)")
	fl.Float64VarP(&f.rating, "rating", "r", 0, "Rating (0-5, halves allowed)")
}

// apply copies the flags the user actually set onto it.
func (f *itemFlags) apply(cmd *cobra.Command, it *model.Item) (bool, error) {
	fl := cmd.Flags()
	changed := false
	set := func(name string, dst *string, v string) {
		if fl.Changed(name) {
			*dst = v
			changed = true
		}
	}
	set("type", &it.Type, f.typ)
	set("title", &it.Title, f.title)
	set("creator", &it.Creator, f.creator)
	set("media", &it.Media, f.media)
	set("link", &it.Link, f.link)
	set("notes", &it.Notes, f.notes)
	set("cover", &it.Cover, f.cover)
	if fl.Changed("status") {
		s, ok := model.ParseStatus(f.status)
		if !ok {
			return false, usagef("invalid --status %q (want one of %s)", f.status, joinStatuses())
		}
		it.Status = s
		changed = true
	}
	if fl.Changed("progress") {
		it.Progress = f.progress
		changed = true
	}
	if fl.Changed("rating") {
		it.Rating = f.rating
		changed = true
	}
	return changed, nil
}

func joinStatuses() string {
	parts := make([]string, 0, 5)
	for _, s := range model.Statuses() {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, ", ")
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var (
		typ, status, search, sortBy string
		asJSON                      bool
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items, most recently updated first",
		Args:    exactArgs(0, "watchlist ls [flags]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := listParams(typ, status, search, sortBy)
			if err != nil {
				return err
			}
			s, err := ctx.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			items := ctx.queryEngine().Apply(s.Items(), params)
			if asJSON {
				if items == nil {
					items = []model.Item{}
				}
				return writeJSON(cmd, items)
			}

			out := cmd.OutOrStdout()
			labels := ctx.labels()
			if len(items) == 0 {
				fmt.Fprintln(out, ui.Current().Muted.Render(labels.Text(i18n.MsgEmpty)))
				return nil
			}
			fmt.Fprintln(out, ui.ItemTable(items, labels))
			return nil
		},
	}
	cmd.Flags().StringVarP(&typ, "type", "t", query.All, "Filter by type tag")
	cmd.Flags().StringVarP(&status, "status", "s", query.All, "Filter by status")
	cmd.Flags().StringVarP(&search, "search", "q", "", "Match title or creator")
	cmd.Flags().StringVar(&sortBy, "sort", string(query.SortUpdated), "Sort by updated, title, rating or progress")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func listParams(typ, status, search, sortBy string) (query.Params, error) {
	key, ok := query.ParseSort(sortBy)
	if !ok {
		return query.Params{}, usagef("invalid --sort %q", sortBy)
	}
	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" && status != query.All {
		if _, ok := model.ParseStatus(status); !ok {
			return query.Params{}, usagef("invalid --status %q (want all, %s)", status, joinStatuses())
		}
	}
	return query.Params{
		Type:   strings.TrimSpace(typ),
		Status: status,
		Search: search,
		SortBy: key,
	}, nil
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var f itemFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item",
		Args:  exactArgs(0, `watchlist add --type book --title "Dune"`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(f.typ) == "" || strings.TrimSpace(f.title) == "" {
				return usagef(`--type and --title are required (e.g. watchlist add --type book --title "Dune")`)
			}
			s, err := ctx.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			var it model.Item
			if _, err := f.apply(cmd, &it); err != nil {
				return err
			}
			it, err = model.NormalizeItem(it, s.Now(), s.NewID)
			if err != nil {
				return err
			}
			_, err = s.Upsert(cmd.Context(), it)
			if err = ctx.mutationErr(cmd, err); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("added %s (%s)", it.Title, it.ID))
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func newEditCommand(ctx *commandContext) *cobra.Command {
	var f itemFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an item",
		Args:  exactArgs(1, "watchlist edit <id> [flags]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			it, err := resolveItem(s, args[0])
			if err != nil {
				return err
			}
			changed, err := f.apply(cmd, &it)
			if err != nil {
				return err
			}
			if !changed {
				return usagef("nothing to change; pass at least one field flag")
			}
			it, err = model.NormalizeItem(it, s.Now(), s.NewID)
			if err != nil {
				return err
			}
			_, err = s.Upsert(cmd.Context(), it)
			if err = ctx.mutationErr(cmd, err); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "updated "+it.Title)
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one item with its notes",
		Args:  exactArgs(1, "watchlist show <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			it, err := resolveItem(s, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, it)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Card(it, ctx.labels(), cardWidth))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an item",
		Args:    exactArgs(1, "watchlist rm <id> [--yes]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			it, err := resolveItem(s, args[0])
			if err != nil {
				return err
			}
			if !yes {
				if !isInteractive(ctx, cmd.OutOrStdout()) {
					return usagef("refusing to delete %q without --yes", it.Title)
				}
				if !confirm(cmd, ctx, ctx.labels().Text(i18n.MsgConfirmDelete, it.Title)) {
					fmt.Fprintln(cmd.OutOrStdout(), "kept")
					return nil
				}
			}
			_, err = s.Delete(cmd.Context(), it.ID)
			if err = ctx.mutationErr(cmd, err); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "removed "+it.Title)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	return cmd
}

// confirm accepts y/yes and the French o/oui.
func confirm(cmd *cobra.Command, ctx *commandContext, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt+" ")
	line, err := bufio.NewReader(ctx.stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return slices.Contains([]string{"y", "yes", "o", "oui"}, answer)
}

func newCycleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cycle <id>",
		Short: "Advance an item to its next status",
		Args:  exactArgs(1, "watchlist cycle <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			it, err := resolveItem(s, args[0])
			if err != nil {
				return err
			}
			_, err = s.CycleStatus(cmd.Context(), it.ID)
			if err = ctx.mutationErr(cmd, err); err != nil {
				return err
			}
			next, _ := s.Get(it.ID)
			labels := ctx.labels()
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("%s: %s → %s", it.Title, labels.Status(it.Status), labels.Status(next.Status)))
			return nil
		},
	}
}

func newQuickCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "quick",
		Short: `Show the "Currently" and "Up next" lists`,
		Args:  exactArgs(0, "watchlist quick"),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			q := ctx.queryEngine()
			items := s.Items()
			current := q.CurrentlyActive(items, query.QuickListSize)
			next := q.UpNext(items, query.QuickListSize)
			if asJSON {
				return writeJSON(cmd, map[string][]model.Item{"currently": current, "upNext": next})
			}
			labels := ctx.labels()
			fmt.Fprintln(cmd.OutOrStdout(), ui.Columns(
				ui.QuickList(labels.Text(i18n.MsgCurrently), current, labels),
				ui.QuickList(labels.Text(i18n.MsgUpNext), next, labels),
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newTypesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List type tags with their labels and item counts",
		Args:  exactArgs(0, "watchlist types"),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			counts := make(map[string]int)
			for _, it := range s.Items() {
				counts[it.Type]++
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.TypeTable(counts, ctx.labels()))
			return nil
		},
	}
}

// resolveItem accepts a full id or any unambiguous prefix of one.
func resolveItem(s *store.Store, ref string) (model.Item, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Item{}, usagef("an item id is required")
	}
	if it, ok := s.Get(ref); ok {
		return it, nil
	}
	var matches []model.Item
	for _, it := range s.Items() {
		if strings.HasPrefix(it.ID, ref) {
			matches = append(matches, it)
		}
	}
	switch len(matches) {
	case 0:
		return model.Item{}, errNotFound("item", ref)
	case 1:
		return matches[0], nil
	default:
		return model.Item{}, usagef("id prefix %q matches %d items", ref, len(matches))
	}
}

// mutationErr reports a failed save; the change stays in memory only.
func (c *commandContext) mutationErr(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	if store.IsStorageError(err) {
		ui.Warn(cmd.ErrOrStderr(), c.labels().Text(i18n.MsgSaveFailed))
	}
	return err
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
