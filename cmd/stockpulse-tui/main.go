package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/mattn/go-runewidth"

	"stockpulse/internal/app"
	"stockpulse/internal/config"
	"stockpulse/internal/dashboard"
	"stockpulse/internal/util"
	"stockpulse/internal/view"
	"stockpulse/pkg/stockpulse"
)

// Styles.
var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	sectionStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
	symbolStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	gainStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lossStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	colHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1"))
	starStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	highlightBG    = lipgloss.Color("236")
)

// hlStyle returns a copy of s with the highlight background applied when hl is true.
func hlStyle(s lipgloss.Style, hl bool) lipgloss.Style {
	if hl {
		return s.Background(highlightBG)
	}
	return s
}

// Messages.
type tickMsg time.Time
type stateMsg view.State
type subClosedMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForState blocks on the next dashboard commit.
func waitForState(ch <-chan view.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return subClosedMsg{}
		}
		return stateMsg(s)
	}
}

// Model.
type model struct {
	ctx     context.Context
	dash    *view.Dashboard
	mounted *view.Mounted
	states  <-chan view.State
	logger  *slog.Logger

	state    view.State
	selected string // symbol of the highlighted row
	now      time.Time

	search    textinput.Model
	searching bool

	viewport      viewport.Model
	ready         bool
	width, height int
}

func initialModel(ctx context.Context, dash *view.Dashboard, mounted *view.Mounted, states <-chan view.State, logger *slog.Logger) model {
	ti := textinput.New()
	ti.Placeholder = "company or symbol"
	ti.Prompt = "/ "
	ti.CharLimit = 32

	return model{
		ctx:     ctx,
		dash:    dash,
		mounted: mounted,
		states:  states,
		logger:  logger,
		state:   dash.Snapshot(),
		now:     time.Now(),
		search:  ti,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), waitForState(m.states))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			m.mounted.Unmount()
			return m, tea.Quit
		case "/":
			m.searching = true
			return m, m.search.Focus()
		case "esc":
			if m.state.SearchTerm != "" {
				m.search.SetValue("")
				m.dash.SetSearch("")
			}
			return m, nil
		case "r":
			m.mounted.RefreshNow()
			return m, nil
		case "up", "down":
			m.moveSelection(msg.String() == "up")
			m.render()
			return m, nil
		case "enter":
			if m.selected == "" {
				return m, nil
			}
			dash, ctx, sym := m.dash, m.ctx, m.selected
			return m, func() tea.Msg {
				dash.LoadChart(ctx, sym)
				return nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := m.height - 2
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.MouseWheelEnabled = true
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.render()
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		return m, tickCmd()

	case stateMsg:
		m.state = view.State(msg)
		m.keepSelection()
		m.render()
		return m, waitForState(m.states)

	case subClosedMsg:
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.searching = false
		m.search.Blur()
		if msg.String() == "esc" {
			m.search.SetValue("")
			m.dash.SetSearch("")
		}
		return m, nil
	case "ctrl+c":
		m.mounted.Unmount()
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.dash.SetSearch(m.search.Value())
	return m, cmd
}

// moveSelection steps the highlighted row through the filtered list.
func (m *model) moveSelection(up bool) {
	rows := m.state.FilteredRecords()
	if len(rows) == 0 {
		m.selected = ""
		return
	}
	cur := -1
	for i, r := range rows {
		if r.StockSymbol == m.selected {
			cur = i
			break
		}
	}
	switch {
	case cur < 0:
		cur = 0
	case up && cur > 0:
		cur--
	case !up && cur < len(rows)-1:
		cur++
	}
	m.selected = rows[cur].StockSymbol
}

// keepSelection drops the highlight when its row is no longer visible.
func (m *model) keepSelection() {
	if m.selected == "" {
		return
	}
	for _, r := range m.state.FilteredRecords() {
		if r.StockSymbol == m.selected {
			return
		}
	}
	m.selected = ""
}

func (m *model) render() {
	if m.ready {
		m.viewport.SetContent(m.renderContent())
	}
}

func (m model) View() string {
	if !m.ready {
		return "Loading..."
	}

	updated := "never"
	if !m.state.UpdatedAt.IsZero() {
		updated = dashboard.FormatAgo(m.state.UpdatedAt, m.now)
	}
	status := ""
	if m.state.Loading {
		status = "    refreshing..."
	}
	headerText := fmt.Sprintf(" Live Stock Dashboard    stocks: %s    updated %s%s ",
		dashboard.FormatInt(len(m.state.Records)), updated, status)
	headerBar := headerStyle.Render(padOrTrunc(headerText, m.width))

	var footerBar string
	if m.searching {
		footerBar = m.search.View()
	} else {
		pct := m.viewport.ScrollPercent() * 100
		footerLeft := " q quit  / search  esc clear  r refresh  up/dn select  enter chart  pgup/dn scroll"
		footerRight := fmt.Sprintf("%.0f%% ", pct)
		gap := m.width - runewidth.StringWidth(footerLeft) - runewidth.StringWidth(footerRight)
		if gap < 0 {
			gap = 0
		}
		footerBar = footerStyle.Render(padOrTrunc(footerLeft+strings.Repeat(" ", gap)+footerRight, m.width))
	}

	return headerBar + "\n" + m.viewport.View() + "\n" + footerBar
}

func (m model) renderContent() string {
	var b strings.Builder
	s := m.state

	if s.Err != "" {
		b.WriteString(errorStyle.Render(" " + s.Err + " "))
		b.WriteString("\n\n")
	}

	if r := s.Recommended; r != nil {
		b.WriteString(sectionStyle.Render(" Recommended Stock "))
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s %s  %s\n", starStyle.Render("*"), symbolStyle.Render(r.StockSymbol), r.CompanyName)
		fmt.Fprintf(&b, "  price %s    %s    %s\n\n",
			dashboard.FormatPrice(r.Price), dashboard.SentimentLabel(r.Sentiment), dashboard.TrendLabel(r.Trend))
	}

	if s.SentimentChartURL != "" {
		fmt.Fprintf(&b, "%s %s\n\n", dimStyle.Render("sentiment chart:"), s.SentimentChartURL)
	}

	title := " Stocks "
	if s.SearchTerm != "" {
		title = fmt.Sprintf(" Stocks matching %q ", s.SearchTerm)
	}
	b.WriteString(sectionStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(colHeaderStyle.Render(fmt.Sprintf("  %-12s %-30s %14s %10s %10s  %-12s %-12s",
		"SYMBOL", "COMPANY", "PRICE", "PROFIT", "LOSS", "SENTIMENT", "TREND")))
	b.WriteString("\n")

	rows := s.FilteredRecords()
	if len(rows) == 0 {
		b.WriteString(dimStyle.Render("  no stocks"))
		b.WriteString("\n")
	}
	for _, r := range rows {
		b.WriteString(m.renderRow(r, r.StockSymbol == m.selected))
		b.WriteString("\n")
	}

	if s.ChartSymbol != "" {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(" 7-Day Chart: " + s.ChartSymbol + " "))
		b.WriteString("\n")
		if s.ChartURL == "" {
			b.WriteString(dimStyle.Render("  chart unavailable"))
		} else {
			b.WriteString("  " + s.ChartURL)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render(" Latest Headlines "))
	b.WriteString("\n")
	switch {
	case s.NewsLoading:
		b.WriteString(dimStyle.Render("  loading news..."))
		b.WriteString("\n")
	case len(s.News) == 0:
		b.WriteString(dimStyle.Render("  no headlines"))
		b.WriteString("\n")
	}
	if !s.NewsLoading {
		for _, h := range s.News {
			fmt.Fprintf(&b, "  %s %s\n", h.Title, dimStyle.Render("("+h.Source+")"))
			fmt.Fprintf(&b, "    %s\n", dimStyle.Render(h.URL))
		}
	}

	return b.String()
}

func (m model) renderRow(r stockpulse.StockRecord, hl bool) string {
	pad := hlStyle(lipgloss.NewStyle(), hl)
	name := runewidth.FillRight(runewidth.Truncate(r.CompanyName, 30, "~"), 30)
	return pad.Render("  ") +
		hlStyle(symbolStyle, hl).Render(fmt.Sprintf("%-12s", r.StockSymbol)) +
		pad.Render(fmt.Sprintf(" %s %14s ", name, dashboard.FormatPrice(r.Price))) +
		hlStyle(gainStyle, hl).Render(fmt.Sprintf("%10s", dashboard.FormatOptional(r.Profit))) +
		pad.Render(" ") +
		hlStyle(lossStyle, hl).Render(fmt.Sprintf("%10s", dashboard.FormatOptional(r.Loss))) +
		pad.Render(fmt.Sprintf("  %-12s %-12s", dashboard.SentimentLabel(r.Sentiment), dashboard.TrendLabel(r.Trend)))
}

// padOrTrunc fits s to width terminal cells.
func padOrTrunc(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, ""), width)
}

func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.LoadOptional(os.Getenv("STOCKPULSE_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI; log to a file.
	logPath := fmt.Sprintf("/tmp/stockpulse-tui-%s.log", time.Now().Format("2006-01-02"))
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := util.NewLogger(cfg.Logging.Level, "text", logFile)
	util.SetDefault(logger)

	deps, err := app.Open(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dash := view.NewDashboard(deps.Client, logger, deps.DashboardOptions()...)
	subID, states := dash.Subscribe(64)
	defer dash.Unsubscribe(subID)
	mounted := view.Mount(ctx, dash, cfg.Poll.Interval)
	defer mounted.Unmount()

	p := tea.NewProgram(
		initialModel(ctx, dash, mounted, states, logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
