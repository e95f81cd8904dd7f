package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"stockpulse/internal/app"
	"stockpulse/internal/config"
	"stockpulse/internal/dashboard"
	"stockpulse/internal/store"
	"stockpulse/internal/util"
	"stockpulse/internal/view"
	"stockpulse/pkg/stockpulse"
)

const version = "0.1.0"

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: stockpulse-cli <command> [options]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	fmt.Fprintf(w, "  version              Print the CLI version\n")
	fmt.Fprintf(w, "  stocks [-q term]     List the watchlist, optionally filtered\n")
	fmt.Fprintf(w, "  search SYMBOL        Look up one stock with sentiment\n")
	fmt.Fprintf(w, "  quote SYMBOL         Live price, previous close and alert\n")
	fmt.Fprintf(w, "  recommend            Show the recommended stock\n")
	fmt.Fprintf(w, "  news [SYMBOL]        Business headlines\n")
	fmt.Fprintf(w, "  login -u USER        Check credentials (password from -p or STOCKPULSE_PASSWORD)\n")
	fmt.Fprintf(w, "  register -u USER     Create an account\n")
	fmt.Fprintf(w, "  dates                List archived days\n")
	fmt.Fprintf(w, "  history DATE         Print the archive for a day (YYYY-MM-DD)\n")
	fmt.Fprintf(w, "\n")
}

func main() {
	_ = godotenv.Load(".env")

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(1)
	}

	cfg, err := config.LoadOptional(os.Getenv("STOCKPULSE_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// errUsage marks a malformed command line.
var errUsage = errors.New("invalid usage")

func run(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stderr)
		return errUsage
	}
	if args[0] == "version" {
		fmt.Fprintf(stdout, "stockpulse-cli %s\n", version)
		return nil
	}

	// Diagnostics go to stderr; command output stays clean.
	level := "warn"
	if cfg.Logging.Level == "debug" {
		level = "debug"
	}
	logger := util.NewLogger(level, "text", stderr)

	deps, err := app.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()
	gw := deps.Client

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "stocks":
		fs := flag.NewFlagSet("stocks", flag.ContinueOnError)
		fs.SetOutput(stderr)
		term := fs.String("q", "", "filter by company name or symbol")
		if err := fs.Parse(rest); err != nil {
			return errUsage
		}
		p := view.NewStocks(gw, logger)
		p.Activate()
		p.Refresh(ctx)
		p.SetSearch(*term)
		st := p.Snapshot()
		if st.Err != "" {
			return errors.New(st.Err)
		}
		printRecords(stdout, st.FilteredRecords())

	case "search":
		if len(rest) != 1 {
			usage(stderr)
			return errUsage
		}
		p := view.NewSearch(gw, logger)
		p.Activate()
		if err := p.Lookup(ctx, rest[0]); err != nil {
			return err
		}
		st := p.Snapshot()
		if st.Err != "" {
			return errors.New(st.Err)
		}
		printRecord(stdout, *st.Result)

	case "quote":
		if len(rest) != 1 {
			usage(stderr)
			return errUsage
		}
		q := view.NewQuote(gw, deps.Fallback, logger)
		q.Activate()
		q.Load(ctx, rest[0])
		st := q.Snapshot()
		if st.Err != "" {
			fmt.Fprintln(stderr, st.Err)
		}
		if st.Quote == nil {
			return errors.New("no quote available")
		}
		printQuote(stdout, st)

	case "recommend":
		rec, err := gw.Recommendation(ctx)
		if errors.Is(err, stockpulse.ErrNotFound) || (err == nil && rec == nil) {
			fmt.Fprintln(stdout, "no recommendation")
			return nil
		}
		if err != nil {
			return err
		}
		printRecord(stdout, *rec)

	case "news":
		symbol := ""
		if len(rest) > 0 {
			symbol = rest[0]
		}
		headlines, err := gw.News(ctx, symbol)
		if err != nil {
			return err
		}
		for _, h := range headlines {
			fmt.Fprintf(stdout, "%s (%s)\n  %s\n", h.Title, h.Source, h.URL)
		}

	case "login", "register":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		fs.SetOutput(stderr)
		user := fs.String("u", "", "username")
		pass := fs.String("p", os.Getenv("STOCKPULSE_PASSWORD"), "password")
		if err := fs.Parse(rest); err != nil {
			return errUsage
		}
		auth := view.NewAuth(gw, logger)
		submit := auth.Login
		if cmd == "register" {
			submit = auth.Register
		}
		msg, err := submit(ctx, *user, *pass)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, msg)

	case "dates":
		if deps.Archive == nil {
			return errors.New("archive not enabled")
		}
		dates, err := deps.Archive.ListDates()
		if err != nil {
			return err
		}
		for _, d := range dates {
			fmt.Fprintln(stdout, d)
		}

	case "history":
		if len(rest) != 1 {
			usage(stderr)
			return errUsage
		}
		if deps.Archive == nil {
			return errors.New("archive not enabled")
		}
		rows, err := deps.Archive.ReadStocks(ctx, rest[0])
		if err != nil {
			return err
		}
		printArchive(stdout, rows)

	default:
		fmt.Fprintf(stderr, "unknown command: %s\n\n", cmd)
		usage(stderr)
		return errUsage
	}
	return nil
}

func printRecords(w io.Writer, records []stockpulse.StockRecord) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tCOMPANY\tPRICE\tPROFIT\tLOSS\tSENTIMENT\tTREND")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.StockSymbol, r.CompanyName, dashboard.FormatPrice(r.Price),
			dashboard.FormatOptional(r.Profit), dashboard.FormatOptional(r.Loss),
			r.Sentiment, r.Trend)
	}
	tw.Flush()
}

func printRecord(w io.Writer, r stockpulse.StockRecord) {
	fmt.Fprintln(w, dashboard.RecordSummary(r))
}

func printQuote(w io.Writer, st view.State) {
	q := st.Quote
	fmt.Fprintf(w, "%s (%s)\n", q.CompanyName, q.Symbol)
	fmt.Fprintf(w, "  Price:          %s\n", dashboard.FormatPrice(q.Price))
	fmt.Fprintf(w, "  Previous Close: %s\n", dashboard.FormatPrice(q.PreviousClose))
	fmt.Fprintf(w, "  Open:           %s\n", dashboard.FormatPrice(q.Open))
	fmt.Fprintf(w, "  Exchange:       %s\n", q.Exchange)
	fmt.Fprintf(w, "  Currency:       %s\n", q.Currency)
	fmt.Fprintf(w, "  Last Updated:   %s\n", q.FetchedAt.Format("2006-01-02 15:04:05"))
	if st.ChartURL != "" {
		fmt.Fprintf(w, "  7-day chart:    %s\n", st.ChartURL)
	}
	if st.Alert != "" {
		fmt.Fprintf(w, "ALERT: %s\n", st.Alert)
	}
}

func printArchive(w io.Writer, rows []store.ArchivedStock) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSYMBOL\tPRICE\tSENTIMENT\tTREND")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.At.Format("15:04:05"), r.Symbol, dashboard.FormatPrice(r.Price), r.Sentiment, r.Trend)
	}
	tw.Flush()
}
