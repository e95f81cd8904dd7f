package stockpulse

// Sentiment is the backend's sentiment classification for a stock.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

// Trend is the backend's trend classification for a stock.
type Trend string

const (
	TrendUp      Trend = "Uptrend"
	TrendDown    Trend = "Downtrend"
	TrendNeutral Trend = "Neutral"
)

// StockRecord is a snapshot of one instrument as reported by the backend.
// Profit and Loss are nil when the backend omits them (or sends null).
type StockRecord struct {
	CompanyName string    `json:"company_name"`
	StockSymbol string    `json:"stock_symbol"`
	Price       float64   `json:"price"`
	Profit      *float64  `json:"profit,omitempty"`
	Loss        *float64  `json:"loss,omitempty"`
	Sentiment   Sentiment `json:"sentiment,omitempty"`
	Trend       Trend     `json:"trend,omitempty"`
}

// StockInfo is the live price payload of /stock-info/{symbol}.
type StockInfo struct {
	StockSymbol string   `json:"stock_symbol"`
	CompanyName string   `json:"company_name"`
	Price       float64  `json:"price"`
	Profit      *float64 `json:"profit,omitempty"`
	Loss        *float64 `json:"loss,omitempty"`
}

// Headline is a single news article reference.
type Headline struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Credentials is the request body for /login and /register.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Wire envelopes.

type stocksResponse struct {
	Stocks *[]StockRecord `json:"stocks"`
}

type recommendResponse struct {
	Recommended *StockRecord `json:"recommended"`
}

type graphResponse struct {
	GraphURL string `json:"graph_url"`
}

type newsResponse struct {
	Headlines []Headline `json:"headlines"`
	News      []Headline `json:"news"`
}

type messageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Float returns a pointer to v, for building records with Profit or Loss set.
func Float(v float64) *float64 { return &v }
