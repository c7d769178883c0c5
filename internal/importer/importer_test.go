package importer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/hanzi-srs/internal/domain"
	"github.com/phrazzld/hanzi-srs/internal/domain/srs"
	"github.com/phrazzld/hanzi-srs/internal/importer"
	"github.com/phrazzld/hanzi-srs/internal/platform/clock"
	"github.com/phrazzld/hanzi-srs/internal/platform/memory"
	"github.com/phrazzld/hanzi-srs/internal/service/study"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newService(t *testing.T, opts study.Options) study.Service {
	t.Helper()
	return study.NewService(memory.NewCardStore(nil), memory.NewLookupStore(), srs.NewDefaultService(),
		clock.NewFixed(time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC)), opts, nil)
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// writeXLSX writes rows to the default sheet of a new workbook.
func writeXLSX(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	const sheet = "Sheet1"
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	path := filepath.Join(t.TempDir(), "words.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestImport_CSV(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "\ufeffkey,level,pinyin,vi,en\n"+
		"你好,HSK 1,nǐ hǎo,xin chào,hello\n"+
		"谢谢,1,xiè xie,cảm ơn,thanks\n"+
		",2,,,\n"+
		"你好,3,,,\n"+
		"龙,hsk7–9,lóng,rồng,dragon\n")

	svc := newService(t, study.DefaultOptions())
	res, err := importer.Import(context.Background(), svc, importer.DefaultConfig(path))
	require.NoError(t, err)

	assert.Equal(t, 5, res.Processed)
	assert.Equal(t, 3, res.Created)
	assert.Equal(t, 1, res.Existing)
	assert.Equal(t, 1, res.Skipped)
	assert.Empty(t, res.Errors)

	card, err := svc.GetCard(context.Background(), "龙")
	require.NoError(t, err)
	assert.Equal(t, "7-9", card.Level)
	assert.Equal(t, "dragon", card.MeaningEN)

	card, err = svc.GetCard(context.Background(), "你好")
	require.NoError(t, err)
	assert.Equal(t, "1", card.Level, "first row wins")
	assert.Equal(t, domain.DefaultEasinessFactor, card.EasinessFactor)
}

func TestImport_XLSX(t *testing.T) {
	t.Parallel()

	path := writeXLSX(t, [][]interface{}{
		{"key", "level", "pinyin", "vi", "en"},
		{"水", "HSK1", "shuǐ", "nước", "water"},
		{"火", 2, "huǒ"},
	})

	svc := newService(t, study.DefaultOptions())
	res, err := importer.Import(context.Background(), svc, importer.DefaultConfig(path))
	require.NoError(t, err)
	assert.Equal(t, &importer.Result{Processed: 2, Created: 2}, res)

	card, err := svc.GetCard(context.Background(), "火")
	require.NoError(t, err)
	assert.Equal(t, "2", card.Level)
	assert.Equal(t, "huǒ", card.Pinyin)

	cfg := importer.DefaultConfig(path)
	cfg.SheetName = "Missing"
	_, err = importer.Import(context.Background(), svc, cfg)
	assert.Error(t, err)
}

func TestImport_StrictLevelsReportRowErrors(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "key,level\n山,3\n河,unknown\n海,\n")
	svc := newService(t, study.Options{FrictionThreshold: 2, StrictLevels: true})

	res, err := importer.Import(context.Background(), svc, importer.DefaultConfig(path))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Processed)
	assert.Equal(t, 1, res.Created)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0], "row 3:")
	assert.Contains(t, res.Errors[1], "row 4:")
}

func TestImport_NoHeader(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "山,3\n")
	cfg := importer.DefaultConfig(path)
	cfg.SkipHeader = false
	cfg.Workers = 0

	res, err := importer.Import(context.Background(), newService(t, study.DefaultOptions()), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
}

func TestImport_FileErrors(t *testing.T) {
	t.Parallel()

	svc := newService(t, study.DefaultOptions())

	_, err := importer.Import(context.Background(), svc, importer.DefaultConfig("words.txt"))
	assert.ErrorIs(t, err, importer.ErrUnsupportedFormat)

	_, err = importer.Import(context.Background(), svc,
		importer.DefaultConfig(filepath.Join(t.TempDir(), "missing.csv")))
	assert.Error(t, err)

	_, err = importer.Import(context.Background(), svc,
		importer.DefaultConfig(filepath.Join(t.TempDir(), "missing.xlsx")))
	assert.Error(t, err)
}

func TestImportRows_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := [][]string{{"a", "1"}, {"b", "1"}, {"c", "1"}}
	res, err := importer.ImportRows(ctx, newService(t, study.DefaultOptions()), rows, 1, 1)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.LessOrEqual(t, res.Created, 3)
}

func TestImportRows_ConcurrentDuplicates(t *testing.T) {
	t.Parallel()

	rows := make([][]string, 0, 50)
	for i := 0; i < 50; i++ {
		rows = append(rows, []string{"同", "1"})
	}

	res, err := importer.ImportRows(context.Background(), newService(t, study.DefaultOptions()), rows, 1, 8)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 49, res.Existing)
}
