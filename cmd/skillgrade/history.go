package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillgrade/pkg/history"
	"github.com/jingkaihe/skillgrade/pkg/presenter"
	"github.com/jingkaihe/skillgrade/pkg/report"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse stored evaluation reports",
	Long: `History manages the local evaluation database populated by
"skillgrade evaluate --save". Reports are stored under ~/.skillgrade
(override with SKILLGRADE_BASE_PATH).`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored evaluations, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		skillName, _ := cmd.Flags().GetString("skill")
		limit, _ := cmd.Flags().GetInt("limit")

		store := openHistoryStore(ctx)
		defer store.Close()

		entries, err := store.List(ctx, skillName, limit)
		if err != nil {
			presenter.Error(err, "failed to list evaluations")
			os.Exit(1)
		}
		if len(entries) == 0 {
			presenter.Info("No stored evaluations")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RUN ID\tSKILL\tSCORE\tGRADE\tEVALUATED AT")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n",
				e.RunID, e.SkillName, e.TotalScore, e.Grade, e.EvaluatedAt.Format(time.RFC3339))
		}
		w.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one stored evaluation report",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		format, _ := cmd.Flags().GetString("format")
		formatter, err := report.NewFormatter(format)
		if err != nil {
			presenter.Error(err, "invalid output format")
			os.Exit(1)
		}

		store := openHistoryStore(ctx)
		defer store.Close()

		rep, err := store.Show(ctx, args[0])
		if err != nil {
			presenter.Error(err, "failed to load evaluation")
			os.Exit(1)
		}

		out, err := formatter.Format(rep)
		if err != nil {
			presenter.Error(err, "failed to format report")
			os.Exit(1)
		}
		fmt.Println(out)
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old evaluations",
	Long: `Prune deletes stored evaluations. With --keep it retains only the
newest n entries; with --older-than it deletes entries older than the
given duration (e.g. 720h for 30 days).`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		keep, _ := cmd.Flags().GetInt("keep")
		olderThan, _ := cmd.Flags().GetDuration("older-than")

		if keep < 0 && olderThan == 0 {
			presenter.Warning("Nothing to do: pass --keep or --older-than")
			os.Exit(1)
		}

		store := openHistoryStore(ctx)
		defer store.Close()

		var removed int64
		var err error
		if olderThan > 0 {
			removed, err = store.Prune(ctx, time.Now().UTC().Add(-olderThan))
		} else {
			removed, err = store.PruneKeep(ctx, keep)
		}
		if err != nil {
			presenter.Error(err, "failed to prune evaluations")
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("Removed %d evaluation(s)", removed))
	},
}

func openHistoryStore(ctx context.Context) *history.Store {
	dbPath, err := history.DefaultPath()
	if err != nil {
		presenter.Error(err, "failed to locate history database")
		os.Exit(1)
	}
	store, err := history.Open(ctx, dbPath)
	if err != nil {
		presenter.Error(err, "failed to open history database")
		os.Exit(1)
	}
	return store
}

func init() {
	historyListCmd.Flags().String("skill", "", "Only list evaluations of this skill")
	historyListCmd.Flags().Int("limit", 20, "Maximum number of entries to list (0 for all)")

	historyShowCmd.Flags().String("format", "text", "Output format (text, markdown, json)")

	historyPruneCmd.Flags().Int("keep", -1, "Retain only the newest n evaluations")
	historyPruneCmd.Flags().Duration("older-than", 0, "Delete evaluations older than this duration")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPruneCmd)
}
