package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/example/vocabtrainer/internal/exam"
)

const scoreSheet = "Scores"

// WriteScoreboard saves the graded exams as an .xlsx workbook
func WriteScoreboard(path string, rows []exam.ScoreRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), scoreSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []interface{}{"Exam ID", "User ID", "Name", "Topic ID", "Correct", "Total", "Score"}
	if err := f.SetSheetRow(scoreSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		values := []interface{}{r.Exam.ID, r.Exam.UserID, r.Exam.Name, r.Exam.TopicID, r.Grade.Correct, r.Grade.Total, r.Label()}
		if err := f.SetSheetRow(scoreSheet, cellRef, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
