package price

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"MomentumBot/internal/models"
	"MomentumBot/internal/repositories"
)

// Importer loads daily OHLCV history from per-ticker CSV files
// (data/prices/<TICKER>.csv, columns Date,Open,High,Low,Close,Volume) into
// the prices table. Re-running an import is safe: existing (ticker, date)
// rows are left alone.
type Importer struct {
	priceRepo *repositories.PriceRepository
}

func NewImporter(priceRepo *repositories.PriceRepository) *Importer {
	return &Importer{priceRepo: priceRepo}
}

// ImportDir imports every *.csv file in dir, deriving the ticker from the
// file name. A file that fails to parse is logged and skipped; the count of
// imported bars is returned.
func (im *Importer) ImportDir(dir string) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return 0, err
	}
	if len(paths) == 0 {
		return 0, fmt.Errorf("no CSV files found in %s", dir)
	}

	total := 0
	for _, path := range paths {
		ticker := strings.TrimSuffix(filepath.Base(path), ".csv")
		n, err := im.ImportFile(path, ticker)
		if err != nil {
			log.Warn().Str("file", path).Err(err).Msg("import failed, skipping file")
			continue
		}
		total += n
		log.Info().Str("ticker", ticker).Int("bars", n).Msg("imported price history")
	}
	return total, nil
}

// ImportFile imports one CSV file for the given ticker. Unparseable rows
// are logged and skipped.
func (im *Importer) ImportFile(path, ticker string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	cols := columnIndex(header)
	for _, name := range []string{"date", "close"} {
		if _, ok := cols[name]; !ok {
			return 0, fmt.Errorf("missing column %q in %s", name, path)
		}
	}

	var bars []models.Price
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn().Str("file", path).Int("line", line+1).Err(err).Msg("csv read error, stopping file early")
			break
		}
		line++

		// ragged rows are allowed through the reader, so the row may be
		// shorter than the header promised
		if len(record) <= cols["date"] || len(record) <= cols["close"] {
			log.Warn().Str("file", path).Int("line", line).Msg("short row, skipping")
			continue
		}

		date, err := time.Parse("2006-01-02", record[cols["date"]])
		if err != nil {
			log.Warn().Str("file", path).Int("line", line).Err(err).Msg("bad date, skipping row")
			continue
		}
		closePx, err := strconv.ParseFloat(record[cols["close"]], 64)
		if err != nil || closePx <= 0 {
			log.Warn().Str("file", path).Int("line", line).Msg("bad close, skipping row")
			continue
		}

		bars = append(bars, models.Price{
			Ticker: ticker,
			Date:   date,
			Open:   optionalFloat(record, cols, "open"),
			High:   optionalFloat(record, cols, "high"),
			Low:    optionalFloat(record, cols, "low"),
			Close:  closePx,
			Volume: optionalFloat(record, cols, "volume"),
		})
	}

	if err := im.priceRepo.SaveBatch(bars); err != nil {
		return 0, fmt.Errorf("save %s: %w", ticker, err)
	}
	return len(bars), nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func optionalFloat(record []string, cols map[string]int, name string) float64 {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return 0
	}
	v, err := strconv.ParseFloat(record[idx], 64)
	if err != nil {
		return 0
	}
	return v
}
