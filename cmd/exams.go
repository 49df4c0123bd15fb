package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/vocabtrainer/internal/exam"
	"github.com/example/vocabtrainer/internal/excel"
)

var examsCmd = &cobra.Command{
	Use:   "exams",
	Short: "Print the exam scoreboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		be, err := openBackend(cfg)
		if err != nil {
			return err
		}
		defer be.Close()

		rows, err := exam.NewEngine(be, be, nil).Scoreboard(cmd.Context())
		if err != nil {
			return err
		}

		if path, _ := cmd.Flags().GetString("xlsx"); path != "" {
			if err := excel.WriteScoreboard(path, rows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d exams to %s\n", len(rows), path)
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSER\tNAME\tSCORE")
		for _, r := range rows {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", r.Exam.ID, r.Exam.UserID, r.Exam.Name, r.Label())
		}
		return w.Flush()
	},
}

var gradeCmd = &cobra.Command{
	Use:   "grade <examID>",
	Short: "Print the grade of one exam",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		examID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid exam ID %q", args[0])
		}

		cfg := loadConfig(cmd)
		be, err := openBackend(cfg)
		if err != nil {
			return err
		}
		defer be.Close()

		g, err := exam.NewEngine(be, be, nil).Grade(cmd.Context(), examID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d / %d\n", g.Correct, g.Total)
		return nil
	},
}

func init() {
	examsCmd.Flags().String("xlsx", "", "Write the scoreboard to an Excel file instead of stdout")
}
