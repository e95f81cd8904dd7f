// Package httpapi provides an HTTP REST API for the stockpulse pages,
// serving the same state as the terminal client in JSON format, plus a
// websocket feed of dashboard commits.
package httpapi

import (
	"time"

	"stockpulse/internal/view"
	"stockpulse/pkg/stockpulse"
)

// DashboardResponse is the dashboard state with the search filter applied.
type DashboardResponse struct {
	view.State
	Filtered []stockpulse.StockRecord `json:"filtered"`
}

// ChartResponse carries the absolute URL of a 7-day chart.
type ChartResponse struct {
	Symbol   string `json:"symbol"`
	GraphURL string `json:"graph_url"`
}

// AuthResponse is returned by the login and register endpoints.
type AuthResponse struct {
	Message       string `json:"message"`
	UsernameTaken bool   `json:"usernameTaken,omitempty"`
}

// DatesResponse lists archived days.
type DatesResponse struct {
	Dates []string `json:"dates"`
}

// ArchivedStockJSON is one archived row.
type ArchivedStockJSON struct {
	At          time.Time `json:"at"`
	Symbol      string    `json:"symbol"`
	CompanyName string    `json:"company_name"`
	Price       float64   `json:"price"`
	Profit      *float64  `json:"profit,omitempty"`
	Loss        *float64  `json:"loss,omitempty"`
	Sentiment   string    `json:"sentiment"`
	Trend       string    `json:"trend"`
}

// HistoryResponse holds every row archived on one day.
type HistoryResponse struct {
	Date   string              `json:"date"`
	Stocks []ArchivedStockJSON `json:"stocks"`
}

// wsMessage is one websocket frame.
type wsMessage struct {
	Type  string     `json:"type"`
	State view.State `json:"state"`
}
