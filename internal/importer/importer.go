// Package importer bulk-loads vocabulary from spreadsheets into the study
// service. Rows are read from .xlsx workbooks or .csv files with the
// columns key, level, pinyin, vi, en.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/hanzi-srs/internal/domain"
	"github.com/phrazzld/hanzi-srs/internal/platform/logger"
	"github.com/phrazzld/hanzi-srs/internal/service/study"
	"github.com/xuri/excelize/v2"
)

// Column positions within a row.
const (
	colKey = iota
	colLevel
	colPinyin
	colVI
	colEN
)

// ErrUnsupportedFormat is returned for files that are neither .xlsx nor .csv.
var ErrUnsupportedFormat = errors.New("unsupported import format")

// Config controls an import.
type Config struct {
	// FilePath is the .xlsx or .csv file to read.
	FilePath string
	// SheetName selects the workbook sheet; empty means the first sheet.
	SheetName string
	// SkipHeader drops the first row.
	SkipHeader bool
	// Workers is the number of rows saved concurrently. Values below 1 mean 1.
	Workers int
}

// DefaultConfig returns the configuration for a file with a header row.
func DefaultConfig(path string) Config {
	return Config{
		FilePath:   path,
		SkipHeader: true,
		Workers:    4,
	}
}

// Result summarizes an import.
type Result struct {
	Processed int      `json:"processed"`
	Created   int      `json:"created"`
	Existing  int      `json:"existing"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors,omitempty"`
}

// Import reads cfg.FilePath and saves every row through svc.
// Row-level failures are collected in Result.Errors; only failures to read
// the file are returned as errors.
func Import(ctx context.Context, svc study.Service, cfg Config) (*Result, error) {
	rows, err := readRows(cfg)
	if err != nil {
		return nil, err
	}
	firstRow := 1
	if cfg.SkipHeader && len(rows) > 0 {
		rows = rows[1:]
		firstRow = 2
	}
	return ImportRows(ctx, svc, rows, firstRow, cfg.Workers)
}

func readRows(cfg Config) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(cfg.FilePath)) {
	case ".xlsx", ".xlsm":
		return readExcel(cfg.FilePath, cfg.SheetName)
	case ".csv":
		return readCSV(cfg.FilePath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(cfg.FilePath))
	}
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
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
		if len(rows) == 0 && len(row) > 0 {
			row[0] = strings.TrimPrefix(row[0], "\ufeff")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type job struct {
	rowNum int
	word   domain.Word
}

type rowError struct {
	rowNum int
	msg    string
}

// ImportRows saves already parsed rows using up to workers concurrent saves.
// firstRow is the 1-based source row number of rows[0], used in error
// messages.
func ImportRows(ctx context.Context, svc study.Service, rows [][]string, firstRow, workers int) (*Result, error) {
	log := logger.FromContext(ctx).With(
		slog.String("component", "importer"),
		slog.String("batch_id", uuid.NewString()),
	)

	if workers < 1 {
		workers = 1
	}

	var (
		mu      sync.Mutex
		result  = &Result{}
		errs    []rowError
		jobs    = make(chan job)
		wg      sync.WaitGroup
		addErr  = func(rowNum int, msg string) { errs = append(errs, rowError{rowNum, msg}) }
		process = func(j job) {
			res, err := svc.SaveWord(ctx, j.word)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				addErr(j.rowNum, err.Error())
			case res.Status == study.SaveStatusCreated:
				result.Created++
			case res.Status == study.SaveStatusExists:
				result.Existing++
			default:
				addErr(j.rowNum, "storage unavailable")
			}
		}
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				process(j)
			}
		}()
	}

feed:
	for i, row := range rows {
		rowNum := firstRow + i
		word, ok := rowToWord(row)
		if !ok {
			log.Debug("skipping row without key", slog.Int("row", rowNum))
		}

		mu.Lock()
		result.Processed++
		if !ok {
			result.Skipped++
		}
		mu.Unlock()
		if !ok {
			continue
		}

		select {
		case jobs <- job{rowNum: rowNum, word: word}:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	sort.Slice(errs, func(i, j int) bool { return errs[i].rowNum < errs[j].rowNum })
	for _, e := range errs {
		result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s", e.rowNum, e.msg))
	}

	log.Info("import finished",
		slog.Int("processed", result.Processed),
		slog.Int("created", result.Created),
		slog.Int("existing", result.Existing),
		slog.Int("skipped", result.Skipped),
		slog.Int("errors", len(result.Errors)))

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("import interrupted: %w", err)
	}
	return result, nil
}

// rowToWord maps a row to a word. Rows with an empty key are skipped.
func rowToWord(row []string) (domain.Word, bool) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	key := cell(colKey)
	if key == "" {
		return domain.Word{}, false
	}
	return domain.Word{
		Key:       key,
		Level:     cell(colLevel),
		Pinyin:    cell(colPinyin),
		MeaningVI: cell(colVI),
		MeaningEN: cell(colEN),
	}, true
}
