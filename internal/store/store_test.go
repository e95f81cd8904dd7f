package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParquetStorePath(t *testing.T) {
	ps := NewParquetStore("/data")

	got := ps.stocksPath("2025-06-15")
	want := filepath.Join("/data", "stocks", "2025-06-15.parquet")
	if got != want {
		t.Errorf("stocksPath mismatch:\n  got  %s\n  want %s", got, want)
	}
	if !strings.HasSuffix(got, "2025-06-15.parquet") {
		t.Errorf("stocksPath should end with the date file: %s", got)
	}
}

func TestParquetStoreWriteReadStocks(t *testing.T) {
	dir := t.TempDir()
	ps := NewParquetStore(dir)
	ctx := context.Background()

	profit := 2.5
	loss := 12.0
	at := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	rows := []StockRow{
		{Symbol: "AAPL", CompanyName: "Apple Inc.", Price: 190.5, Profit: &profit, Sentiment: "Positive", Trend: "Uptrend"},
		{Symbol: "TCS.NS", CompanyName: "Tata Consultancy", Price: 3500, Loss: &loss, Sentiment: "Negative", Trend: "Downtrend"},
	}

	if err := ps.WriteStocks(ctx, at, rows); err != nil {
		t.Fatalf("WriteStocks: %v", err)
	}

	got, err := ps.ReadStocks(ctx, "2025-06-15")
	if err != nil {
		t.Fatalf("ReadStocks: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ReadStocks returned %d rows, want 2", len(got))
	}
	if got[0].Symbol != "AAPL" || got[0].Profit == nil || *got[0].Profit != 2.5 {
		t.Errorf("first row = %+v", got[0])
	}
	if got[0].Loss != nil {
		t.Errorf("first row Loss = %v, want nil", *got[0].Loss)
	}
	if got[1].Loss == nil || *got[1].Loss != 12 {
		t.Errorf("second row Loss = %v, want 12", got[1].Loss)
	}
	if !got[0].At.Equal(at) {
		t.Errorf("At = %v, want %v", got[0].At, at)
	}
}

func TestParquetStoreMergesRefreshes(t *testing.T) {
	dir := t.TempDir()
	ps := NewParquetStore(dir)
	ctx := context.Background()

	first := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(30 * time.Second)

	if err := ps.WriteStocks(ctx, first, []StockRow{{Symbol: "MSFT", Price: 400}}); err != nil {
		t.Fatalf("WriteStocks (first): %v", err)
	}
	if err := ps.WriteStocks(ctx, second, []StockRow{{Symbol: "MSFT", Price: 401}}); err != nil {
		t.Fatalf("WriteStocks (second): %v", err)
	}
	// Same instant again replaces rather than duplicates.
	if err := ps.WriteStocks(ctx, second, []StockRow{{Symbol: "MSFT", Price: 402}}); err != nil {
		t.Fatalf("WriteStocks (third): %v", err)
	}

	got, err := ps.ReadStocks(ctx, "2025-03-01")
	if err != nil {
		t.Fatalf("ReadStocks: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ReadStocks returned %d rows after merge, want 2", len(got))
	}
	if got[0].Price != 400 || got[1].Price != 402 {
		t.Errorf("prices = %v, %v; want 400, 402", got[0].Price, got[1].Price)
	}
}

func TestParquetStoreReadMissingDay(t *testing.T) {
	ps := NewParquetStore(t.TempDir())
	got, err := ps.ReadStocks(context.Background(), "1999-01-01")
	if err != nil {
		t.Fatalf("ReadStocks: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no rows, got %d", len(got))
	}
}

func TestParquetStoreListDates(t *testing.T) {
	dir := t.TempDir()
	ps := NewParquetStore(dir)
	ctx := context.Background()

	for _, d := range []string{"2025-01-03", "2025-01-02"} {
		at, _ := time.Parse("2006-01-02", d)
		if err := ps.WriteStocks(ctx, at, []StockRow{{Symbol: "AAPL", Price: 1}}); err != nil {
			t.Fatalf("WriteStocks: %v", err)
		}
	}

	dates, err := ps.ListDates()
	if err != nil {
		t.Fatalf("ListDates: %v", err)
	}
	if len(dates) != 2 || dates[0] != "2025-01-02" || dates[1] != "2025-01-03" {
		t.Errorf("ListDates = %v, want [2025-01-02 2025-01-03]", dates)
	}
}

func TestSQLiteStoreOpen(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore(%q) returned error: %v", dbPath, err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			t.Errorf("Close() returned error: %v", cerr)
		}
	}()

	// Verify the store is usable by pinging the database.
	if err := store.db.Ping(); err != nil {
		t.Fatalf("db.Ping() returned error: %v", err)
	}
}

func TestSQLiteStoreSnapshotSlot(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	if _, ok, err := store.Load(ctx, "TCS"); err != nil || ok {
		t.Fatalf("Load on empty store = ok %v, err %v; want false, nil", ok, err)
	}

	if err := store.Save(ctx, "TCS", []byte(`{"symbol":"TCS"}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, ok, err := store.Load(ctx, "TCS")
	if err != nil || !ok {
		t.Fatalf("Load(TCS) = ok %v, err %v", ok, err)
	}
	if string(data) != `{"symbol":"TCS"}` {
		t.Errorf("Load(TCS) data = %s", data)
	}

	if _, ok, _ := store.Load(ctx, "INFY"); ok {
		t.Error("Load(INFY) returned the TCS snapshot")
	}

	// Last write wins: saving INFY evicts TCS.
	if err := store.Save(ctx, "INFY", []byte(`{"symbol":"INFY"}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, ok, _ := store.Load(ctx, "TCS"); ok {
		t.Error("TCS snapshot survived an INFY save")
	}
	if _, ok, _ := store.Load(ctx, "INFY"); !ok {
		t.Error("INFY snapshot not found")
	}
}

func TestSQLiteStorePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	s1, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	if err := s1.Save(ctx, "AAPL", []byte("x")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	s1.Close()

	s2, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore (reopen): %v", err)
	}
	defer s2.Close()
	if _, ok, err := s2.Load(ctx, "AAPL"); err != nil || !ok {
		t.Errorf("Load after reopen = ok %v, err %v", ok, err)
	}
}
