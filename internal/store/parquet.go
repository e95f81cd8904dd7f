package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/parquet-go/parquet-go"
)

// Compile-time interface check.
var _ ArchiveStore = (*ParquetStore)(nil)

// ParquetStore implements ArchiveStore using one Parquet file per day.
type ParquetStore struct {
	DataDir string
}

// NewParquetStore creates a new ParquetStore rooted at the given data directory.
func NewParquetStore(dataDir string) *ParquetStore {
	return &ParquetStore{DataDir: dataDir}
}

// ---------------------------------------------------------------------------
// Parquet record types (on-disk schema)
// ---------------------------------------------------------------------------

// StockRecord is the Parquet schema for archived stock rows.
type StockRecord struct {
	Symbol      string   `parquet:"symbol"`
	Timestamp   int64    `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	CompanyName string   `parquet:"company_name"`
	Price       float64  `parquet:"price"`
	Profit      *float64 `parquet:"profit,optional"`
	Loss        *float64 `parquet:"loss,optional"`
	Sentiment   string   `parquet:"sentiment"`
	Trend       string   `parquet:"trend"`
}

// ---------------------------------------------------------------------------
// ArchiveStore implementation
// ---------------------------------------------------------------------------

// WriteStocks merges rows into the file for at's day:
//
//	<DataDir>/stocks/<YYYY-MM-DD>.parquet
func (s *ParquetStore) WriteStocks(_ context.Context, at time.Time, rows []StockRow) error {
	if len(rows) == 0 {
		return nil
	}

	ts := at.UnixMilli()
	records := make([]StockRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, StockRecord{
			Symbol:      r.Symbol,
			Timestamp:   ts,
			CompanyName: r.CompanyName,
			Price:       r.Price,
			Profit:      r.Profit,
			Loss:        r.Loss,
			Sentiment:   r.Sentiment,
			Trend:       r.Trend,
		})
	}

	date := at.Format("2006-01-02")
	path := s.stocksPath(date)

	// Read existing records to merge.
	existing, _ := readParquetFile[StockRecord](path)
	merged := mergeStockRecords(existing, records)

	if err := writeParquetFile(path, merged); err != nil {
		return fmt.Errorf("writing stocks for %s: %w", date, err)
	}
	return nil
}

// ReadStocks reads every archived row for date. A missing file yields no
// rows and no error.
func (s *ParquetStore) ReadStocks(_ context.Context, date string) ([]ArchivedStock, error) {
	path := s.stocksPath(date)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	records, err := readParquetFile[StockRecord](path)
	if err != nil {
		return nil, fmt.Errorf("reading stocks for %s: %w", date, err)
	}

	out := make([]ArchivedStock, 0, len(records))
	for _, r := range records {
		out = append(out, ArchivedStock{
			StockRow: StockRow{
				Symbol:      r.Symbol,
				CompanyName: r.CompanyName,
				Price:       r.Price,
				Profit:      r.Profit,
				Loss:        r.Loss,
				Sentiment:   r.Sentiment,
				Trend:       r.Trend,
			},
			At: time.UnixMilli(r.Timestamp),
		})
	}
	return out, nil
}

// ListDates returns the archived days in ascending order.
func (s *ParquetStore) ListDates() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.DataDir, "stocks"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var dates []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".parquet" {
			continue
		}
		date := name[:len(name)-len(".parquet")]
		if len(date) == 10 && date[4] == '-' && date[7] == '-' {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	return dates, nil
}

// ---------------------------------------------------------------------------
// Path helpers
// ---------------------------------------------------------------------------

// stocksPath returns the filesystem path for a day's archive file.
func (s *ParquetStore) stocksPath(date string) string {
	return filepath.Join(s.DataDir, "stocks", date+".parquet")
}

// ---------------------------------------------------------------------------
// Parquet file helpers
// ---------------------------------------------------------------------------

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

func readParquetFile[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// mergeStockRecords deduplicates by (symbol, timestamp), preferring incoming
// records. Results are sorted by timestamp, then symbol.
func mergeStockRecords(existing, incoming []StockRecord) []StockRecord {
	type key struct {
		symbol string
		ts     int64
	}
	seen := make(map[key]StockRecord, len(existing)+len(incoming))
	for _, r := range existing {
		seen[key{r.Symbol, r.Timestamp}] = r
	}
	for _, r := range incoming {
		seen[key{r.Symbol, r.Timestamp}] = r
	}

	merged := make([]StockRecord, 0, len(seen))
	for _, r := range seen {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Timestamp != merged[j].Timestamp {
			return merged[i].Timestamp < merged[j].Timestamp
		}
		return merged[i].Symbol < merged[j].Symbol
	})
	return merged
}
