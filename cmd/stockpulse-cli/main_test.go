package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"stockpulse/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /stocks", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"stocks":[
			{"company_name":"Apple Inc.","stock_symbol":"AAPL","price":190,"sentiment":"Positive","trend":"Uptrend"},
			{"company_name":"Infosys","stock_symbol":"INFY.NS","price":1500,"loss":12.5,"sentiment":"Neutral","trend":"Neutral"}
		]}`))
	})
	mux.HandleFunc("GET /recommend", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"No recommendation available"}`))
	})
	mux.HandleFunc("GET /stock-info/{symbol}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"stock_symbol":"INFY.NS","company_name":"Infosys","price":110,"profit":20}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.Backend.BaseURL = srv.URL
	cfg.Cache.SQLitePath = filepath.Join(t.TempDir(), "cache.db")
	return cfg
}

func TestRunStocksFiltered(t *testing.T) {
	cfg := testConfig(t)
	var out, errOut bytes.Buffer

	if err := run(context.Background(), cfg, []string{"stocks", "-q", "infy"}, &out, &errOut); err != nil {
		t.Fatalf("run: %v (stderr %s)", err, errOut.String())
	}
	got := out.String()
	if !strings.Contains(got, "INFY.NS") || strings.Contains(got, "AAPL") {
		t.Errorf("output:\n%s", got)
	}
}

func TestRunQuotePrintsAlert(t *testing.T) {
	cfg := testConfig(t)
	var out, errOut bytes.Buffer

	if err := run(context.Background(), cfg, []string{"quote", "infy.ns"}, &out, &errOut); err != nil {
		t.Fatalf("run: %v (stderr %s)", err, errOut.String())
	}
	got := out.String()
	if !strings.Contains(got, "Previous Close: ₹90\n") {
		t.Errorf("missing previous close:\n%s", got)
	}
	if !strings.Contains(got, "ALERT: Price changed by +22.22% from previous close!") {
		t.Errorf("missing alert:\n%s", got)
	}
}

func TestRunRecommendNone(t *testing.T) {
	cfg := testConfig(t)
	var out, errOut bytes.Buffer

	if err := run(context.Background(), cfg, []string{"recommend"}, &out, &errOut); err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.TrimSpace(out.String()) != "no recommendation" {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunUsageErrors(t *testing.T) {
	cfg := testConfig(t)
	for _, args := range [][]string{{}, {"bogus"}, {"search"}} {
		var out, errOut bytes.Buffer
		if err := run(context.Background(), cfg, args, &out, &errOut); !errors.Is(err, errUsage) {
			t.Errorf("run(%v) = %v, want errUsage", args, err)
		}
	}
}

func TestRunVersion(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), config.Default(), []string{"version"}, &out, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "stockpulse-cli ") {
		t.Errorf("output = %q", out.String())
	}
}
