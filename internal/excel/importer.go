// Package excel reads card pairs from Excel or CSV files
package excel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/cardbot/internal/cards"
	"github.com/example/cardbot/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath     string // Path to the Excel or CSV file
	SourceColumn string // Column with the russian word
	TargetColumn string // Column with the english translation
	SheetName    string // Sheet to read, the first sheet if empty
	StartRow     int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig(path string) ImportConfig {
	return ImportConfig{
		FilePath:     path,
		SourceColumn: "A",
		TargetColumn: "B",
		StartRow:     2, // skip header
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	Pairs          []models.CardPair
	TotalProcessed int
	Skipped        int
	Errors         []string
}

var errEmptyRow = errors.New("empty row")

// ImportCards reads card pairs from an Excel or CSV file. Rows with an
// empty or overlong word are skipped and reported in Errors.
func ImportCards(config ImportConfig) (*ImportResult, error) {
	if config.StartRow < 1 {
		config.StartRow = 1
	}

	var rows [][]string
	var err error
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config)
	}
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	sourceIdx := columnToIndex(config.SourceColumn)
	targetIdx := columnToIndex(config.TargetColumn)

	for i, row := range rows {
		rowNum := i + 1
		if rowNum < config.StartRow {
			continue
		}

		pair, err := processRow(row, sourceIdx, targetIdx)
		if errors.Is(err, errEmptyRow) {
			continue
		}
		result.TotalProcessed++
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		result.Pairs = append(result.Pairs, pair)
	}
	return result, nil
}

func readExcel(config ImportConfig) ([][]string, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := config.SheetName
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

// processRow extracts and validates a pair from one row
func processRow(row []string, sourceIdx, targetIdx int) (models.CardPair, error) {
	var source, target string
	if sourceIdx < len(row) {
		source = cleanWord(row[sourceIdx])
	}
	if targetIdx < len(row) {
		target = cleanWord(row[targetIdx])
	}
	if source == "" && target == "" {
		return models.CardPair{}, errEmptyRow
	}

	var pair models.CardPair
	var err error
	if pair.Source, err = cards.Validate(source); err != nil {
		return models.CardPair{}, fmt.Errorf("word %q: %w", source, err)
	}
	if pair.Target, err = cards.Validate(target); err != nil {
		return models.CardPair{}, fmt.Errorf("translation %q: %w", target, err)
	}
	return pair, nil
}

// cleanWord drops extra information in brackets, "go (went, gone)" -> "go"
func cleanWord(word string) string {
	if i := strings.Index(word, "("); i > 0 {
		word = word[:i]
	}
	return strings.Trim(strings.TrimSpace(word), "\"")
}

// columnToIndex converts an Excel column letter to a zero-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
