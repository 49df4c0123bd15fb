// Package excel imports vocabulary questions from spreadsheets and exports scores.
package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/vocabtrainer/internal/backend"
	"github.com/example/vocabtrainer/internal/catalog"
	"github.com/example/vocabtrainer/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath            string // Path to the Excel or CSV file
	TopicColumn         string
	TitleENColumn       string
	TitleVIColumn       string
	DescriptionENColumn string
	DescriptionVIColumn string
	AudioENColumn       string
	AudioVIColumn       string
	ImageColumn         string
	SheetName           string // Empty means the first sheet
	StartRow            int    // The row to start importing from (1-based index)
	DefaultTopic        string // Used for rows with an empty topic cell
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		TopicColumn:         "A",
		TitleENColumn:       "B",
		TitleVIColumn:       "C",
		DescriptionENColumn: "D",
		DescriptionVIColumn: "E",
		AudioENColumn:       "F",
		AudioVIColumn:       "G",
		ImageColumn:         "H",
		StartRow:            2, // skip header
		DefaultTopic:        "General",
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	TopicsCreated  int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

// ImportQuestions imports questions from an Excel or CSV file into store
func ImportQuestions(ctx context.Context, store backend.Catalog, config ImportConfig) (*ImportResult, error) {
	var rows [][]string
	var err error

	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, err
	}

	imp, err := newImporter(ctx, store, config)
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		imp.result.TotalProcessed++
		if err := imp.processRow(ctx, row); err != nil {
			imp.result.Errors = append(imp.result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}
	return imp.result, nil
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type questionKey struct {
	topicID int64
	title   string
}

// importer keeps lookup maps in sync while rows are written
type importer struct {
	store  backend.Catalog
	config ImportConfig
	result *ImportResult

	topics    map[string]int64 // lower-cased title -> topic ID
	vocabs    map[int64]int64  // topic ID -> vocabulaire ID
	questions map[questionKey]models.VocabularyItem
}

func newImporter(ctx context.Context, store backend.Catalog, config ImportConfig) (*importer, error) {
	snap, err := catalog.Load(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("failed to get existing catalog: %w", err)
	}

	imp := &importer{
		store:     store,
		config:    config,
		result:    &ImportResult{Errors: make([]string, 0)},
		topics:    make(map[string]int64),
		vocabs:    make(map[int64]int64),
		questions: make(map[questionKey]models.VocabularyItem),
	}

	for _, t := range snap.Topics {
		imp.topics[normalize(t.Title)] = t.ID
	}
	vocabTopic := make(map[int64]int64)
	for _, v := range snap.Vocabulaires {
		if _, ok := imp.vocabs[v.TopicID]; !ok {
			imp.vocabs[v.TopicID] = v.ID
		}
		vocabTopic[v.ID] = v.TopicID
	}
	for _, q := range snap.Questions {
		if q.TitleEN == "" {
			continue
		}
		if topicID, ok := vocabTopic[q.VocabulaireID]; ok {
			imp.questions[questionKey{topicID, normalize(q.TitleEN)}] = q
		}
	}
	return imp, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func (imp *importer) processRow(ctx context.Context, row []string) error {
	c := imp.config
	item := models.VocabularyItem{
		TitleEN:       cell(row, c.TitleENColumn),
		TitleVI:       cell(row, c.TitleVIColumn),
		DescriptionEN: cell(row, c.DescriptionENColumn),
		DescriptionVI: cell(row, c.DescriptionVIColumn),
		AudioEN:       cell(row, c.AudioENColumn),
		AudioVI:       cell(row, c.AudioVIColumn),
		Image:         cell(row, c.ImageColumn),
	}
	if item.TitleEN == "" && item.TitleVI == "" {
		imp.result.Skipped++
		return nil
	}

	topicName := cell(row, c.TopicColumn)
	if topicName == "" {
		topicName = c.DefaultTopic
	}
	topicID, vocabID, err := imp.getOrCreateTopic(ctx, topicName)
	if err != nil {
		return fmt.Errorf("failed to process topic: %w", err)
	}
	item.VocabulaireID = vocabID

	key := questionKey{topicID, normalize(item.TitleEN)}
	if existing, ok := imp.questions[key]; ok && item.TitleEN != "" {
		item.ID = existing.ID
		item.VocabulaireID = existing.VocabulaireID
		if err := imp.store.UpdateQuestion(ctx, &item); err != nil {
			return fmt.Errorf("failed to update question: %w", err)
		}
		imp.questions[key] = item
		imp.result.Updated++
		return nil
	}

	if err := imp.store.CreateQuestion(ctx, &item); err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	if item.TitleEN != "" {
		imp.questions[key] = item
	}
	imp.result.Created++
	return nil
}

// getOrCreateTopic returns the topic and its vocabulaire, creating what is missing
func (imp *importer) getOrCreateTopic(ctx context.Context, name string) (int64, int64, error) {
	key := normalize(name)
	topicID, ok := imp.topics[key]
	if !ok {
		topic := &models.Topic{Title: strings.TrimSpace(name)}
		if err := imp.store.CreateTopic(ctx, topic); err != nil {
			return 0, 0, fmt.Errorf("failed to create topic: %w", err)
		}
		topicID = topic.ID
		imp.topics[key] = topicID
		imp.result.TopicsCreated++
	}

	if vocabID, ok := imp.vocabs[topicID]; ok {
		return topicID, vocabID, nil
	}
	vocab := &models.Vocabulaire{TopicID: topicID}
	if err := imp.store.CreateVocabulaire(ctx, vocab); err != nil {
		return 0, 0, fmt.Errorf("failed to create vocabulaire: %w", err)
	}
	imp.vocabs[topicID] = vocab.ID
	return topicID, vocab.ID, nil
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
