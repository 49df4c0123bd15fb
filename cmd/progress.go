package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/vocabtrainer/internal/catalog"
	"github.com/example/vocabtrainer/internal/progress"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show a learner's progress per topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetInt64("user")
		if userID <= 0 {
			return fmt.Errorf("--user is required")
		}

		cfg := loadConfig(cmd)
		be, err := openBackend(cfg)
		if err != nil {
			return err
		}
		defer be.Close()

		ctx := cmd.Context()
		snap, err := catalog.Load(ctx, be)
		if err != nil {
			return err
		}
		records, err := progress.NewTracker(be).Records(ctx, userID)
		if err != nil {
			return err
		}
		exams, err := be.ListExams(ctx)
		if err != nil {
			return fmt.Errorf("failed to load exams: %w", err)
		}

		sum := progress.Dashboard(snap, userID, records, exams)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TOPIC\tWORDS\tPERCENT\tSTATUS")
		for _, t := range sum.Topics {
			fmt.Fprintf(w, "%s\t%d\t%d%%\t%s\n", t.Topic.Title, t.CardCount, t.Progress.Percent, t.Progress.Status)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "\nCompleted %d of %d topics, %d words learned, %d exams taken\n",
			sum.CompletedTopics, sum.TotalTopics, sum.LearnedCards, sum.TotalExams)
		if sum.Continue != nil {
			fmt.Fprintf(out, "Continue with: %s (%d%%)\n", sum.Continue.Topic.Title, sum.Continue.Progress.Percent)
		}
		return nil
	},
}

func init() {
	progressCmd.Flags().Int64("user", 0, "Backend user ID")
}
