package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/vocabtrainer/internal/excel"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import topics and vocabulary from an .xlsx or .csv file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		be, err := openBackend(cfg)
		if err != nil {
			return err
		}
		defer be.Close()

		importCfg := excel.DefaultImportConfig()
		importCfg.FilePath = args[0]
		if sheet, _ := cmd.Flags().GetString("sheet"); sheet != "" {
			importCfg.SheetName = sheet
		}

		result, err := excel.ImportQuestions(cmd.Context(), be, importCfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Rows processed: %d\n", result.TotalProcessed)
		fmt.Fprintf(out, "Topics created: %d\n", result.TopicsCreated)
		fmt.Fprintf(out, "Words created:  %d\n", result.Created)
		fmt.Fprintf(out, "Words updated:  %d\n", result.Updated)
		fmt.Fprintf(out, "Skipped:        %d\n", result.Skipped)
		for _, e := range result.Errors {
			fmt.Fprintln(cmd.ErrOrStderr(), e)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().String("sheet", "", "Worksheet to read (default: first sheet)")
}
