package view

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"stockpulse/internal/util"
	"stockpulse/pkg/stockpulse"
)

// fakeGateway answers every call from its func fields; a nil field fails the
// call with a 500.
type fakeGateway struct {
	listStocks     func(ctx context.Context) ([]stockpulse.StockRecord, error)
	getStock       func(ctx context.Context, symbol string) (*stockpulse.StockRecord, error)
	getStockInfo   func(ctx context.Context, symbol string) (*stockpulse.StockInfo, error)
	historyChart   func(ctx context.Context, symbol string) (string, error)
	priceChart     func(ctx context.Context) (string, error)
	recommendation func(ctx context.Context) (*stockpulse.StockRecord, error)
	news           func(ctx context.Context, symbol string) ([]stockpulse.Headline, error)
	login          func(ctx context.Context, creds stockpulse.Credentials) (string, error)
	register       func(ctx context.Context, creds stockpulse.Credentials) (string, error)

	mu    sync.Mutex
	calls []string
}

var errServer = &stockpulse.Error{Method: "GET", Path: "/", StatusCode: http.StatusInternalServerError}

func (f *fakeGateway) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeGateway) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeGateway) ListStocks(ctx context.Context) ([]stockpulse.StockRecord, error) {
	f.record("stocks")
	if f.listStocks == nil {
		return nil, errServer
	}
	return f.listStocks(ctx)
}

func (f *fakeGateway) GetStock(ctx context.Context, symbol string) (*stockpulse.StockRecord, error) {
	f.record("stock/" + symbol)
	if f.getStock == nil {
		return nil, errServer
	}
	return f.getStock(ctx, symbol)
}

func (f *fakeGateway) GetStockInfo(ctx context.Context, symbol string) (*stockpulse.StockInfo, error) {
	f.record("stock-info/" + symbol)
	if f.getStockInfo == nil {
		return nil, errServer
	}
	return f.getStockInfo(ctx, symbol)
}

func (f *fakeGateway) StockHistoryChart(ctx context.Context, symbol string) (string, error) {
	f.record("stock-history/" + symbol)
	if f.historyChart == nil {
		return "", errServer
	}
	return f.historyChart(ctx, symbol)
}

func (f *fakeGateway) PriceChangeChart(ctx context.Context) (string, error) {
	f.record("price-change-graph")
	if f.priceChart == nil {
		return "", errServer
	}
	return f.priceChart(ctx)
}

func (f *fakeGateway) Recommendation(ctx context.Context) (*stockpulse.StockRecord, error) {
	f.record("recommend")
	if f.recommendation == nil {
		return nil, errServer
	}
	return f.recommendation(ctx)
}

func (f *fakeGateway) News(ctx context.Context, symbol string) ([]stockpulse.Headline, error) {
	f.record("news/" + symbol)
	if f.news == nil {
		return nil, errServer
	}
	return f.news(ctx, symbol)
}

func (f *fakeGateway) Login(ctx context.Context, creds stockpulse.Credentials) (string, error) {
	f.record("login")
	if f.login == nil {
		return "", errServer
	}
	return f.login(ctx, creds)
}

func (f *fakeGateway) Register(ctx context.Context, creds stockpulse.Credentials) (string, error) {
	f.record("register")
	if f.register == nil {
		return "", errServer
	}
	return f.register(ctx, creds)
}

// memSnapshots is an in-memory single-slot SnapshotStore.
type memSnapshots struct {
	mu     sync.Mutex
	symbol string
	data   []byte
	saves  int
}

func (m *memSnapshots) Save(_ context.Context, symbol string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.symbol, m.data = symbol, append([]byte(nil), data...)
	m.saves++
	return nil
}

func (m *memSnapshots) Load(_ context.Context, symbol string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil || m.symbol != symbol {
		return nil, false, nil
	}
	return m.data, true, nil
}

var (
	testStocks = []stockpulse.StockRecord{
		{CompanyName: "Apple Inc.", StockSymbol: "AAPL", Price: 190, Profit: stockpulse.Float(2), Sentiment: stockpulse.SentimentPositive, Trend: stockpulse.TrendUp},
		{CompanyName: "Tata Consultancy Services", StockSymbol: "TCS.NS", Price: 3500, Loss: stockpulse.Float(20), Sentiment: stockpulse.SentimentNegative, Trend: stockpulse.TrendDown},
		{CompanyName: "Infosys", StockSymbol: "INFY.NS", Price: 1500, Sentiment: stockpulse.SentimentNeutral, Trend: stockpulse.TrendNeutral},
	}
	testRecommended = &stockpulse.StockRecord{CompanyName: "Apple Inc.", StockSymbol: "AAPL", Price: 190, Sentiment: stockpulse.SentimentPositive, Trend: stockpulse.TrendUp}
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

var errBoom = errors.New("boom")

var testLogger = util.Discard
