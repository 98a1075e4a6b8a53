package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/career-runner/internal/registry"
	"github.com/vovakirdan/career-runner/internal/storage"
)

const (
	runsLimit    = 100
	summaryWidth = 26
)

// reasonFilters is the cycle the filter key walks through. "" shows every run.
var reasonFilters = []string{"", storage.ReasonGameOver, storage.ReasonQuit}

func reasonLabel(reason string) string {
	switch reason {
	case "":
		return "all runs"
	case storage.ReasonGameOver:
		return "game over"
	case storage.ReasonQuit:
		return "quit"
	default:
		return reason
	}
}

// RunsKeyMap defines the key bindings of the runs view.
type RunsKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	NextVariant key.Binding
	PrevVariant key.Binding
	Filter      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RunsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextVariant, k.Filter, k.Quit, k.Help}
}

// FullHelp returns key bindings for the full help view.
func (k RunsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextVariant, k.PrevVariant, k.Filter},
		{k.Help, k.Quit},
	}
}

// DefaultRunsKeyMap returns default key bindings.
func DefaultRunsKeyMap() RunsKeyMap {
	return RunsKeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "better run")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "worse run")),
		NextVariant: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next variant")),
		PrevVariant: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab", "prev variant")),
		Filter:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter by end")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:        key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// RunsView browses the run history: the best runs of one variant, filtered
// by how they ended, next to that variant's totals.
type RunsView struct {
	store    *storage.Store
	variants []string
	variant  int
	filter   int

	runs   []storage.RunRecord
	stats  *storage.VariantStats
	detail *storage.RunRecord
	err    error

	table  table.Model
	help   help.Model
	keys   RunsKeyMap
	width  int
	height int
}

// NewRunsView creates a runs view over the given variants.
func NewRunsView(store *storage.Store, variants []string, width, height int) RunsView {
	v := RunsView{
		store:    store,
		variants: variants,
		keys:     DefaultRunsKeyMap(),
		help:     help.New(),
		width:    width,
		height:   height,
	}
	v.table = v.newTable()
	v.reload()
	return v
}

func (v RunsView) newTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Score", Width: 7},
			{Title: "Level", Width: 5},
			{Title: "Time", Width: 8},
			{Title: "End", Width: 9},
		}),
		table.WithFocused(true),
		table.WithHeight(max(v.height-9, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(s)
	return t
}

func (v RunsView) currentVariant() string {
	if len(v.variants) == 0 {
		return ""
	}
	return v.variants[v.variant]
}

// reload queries runs and totals for the current variant and filter.
func (v *RunsView) reload() {
	v.runs, v.stats, v.detail, v.err = nil, nil, nil, nil

	if v.store != nil && len(v.variants) > 0 {
		variant := v.currentVariant()
		v.runs, v.err = v.store.Runs(storage.RunFilter{
			Variant: variant,
			Reason:  reasonFilters[v.filter],
			Limit:   runsLimit,
		})
		if v.err == nil {
			var all map[string]*storage.VariantStats
			all, v.err = v.store.Stats()
			v.stats = all[variant]
		}
	}

	rows := make([]table.Row, len(v.runs))
	for i, r := range v.runs {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d", r.Level),
			r.Duration.Round(time.Second).String(),
			reasonLabel(r.Reason),
		}
	}
	v.table.SetRows(rows)
	v.table.GotoTop()
	v.loadDetail()
}

// loadDetail reads the selected run back from the store.
func (v *RunsView) loadDetail() {
	v.detail = nil
	i := v.table.Cursor()
	if v.store == nil || i < 0 || i >= len(v.runs) {
		return
	}
	rec, err := v.store.RunByID(v.runs[i].RunID)
	if err != nil {
		v.err = err
		return
	}
	v.detail = rec
}

// Init initializes the runs view.
func (v RunsView) Init() tea.Cmd {
	return nil
}

// Update handles messages for the runs view.
func (v RunsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Help):
			v.help.ShowAll = !v.help.ShowAll
		case key.Matches(msg, v.keys.NextVariant):
			if len(v.variants) > 0 {
				v.variant = (v.variant + 1) % len(v.variants)
				v.reload()
			}
		case key.Matches(msg, v.keys.PrevVariant):
			if len(v.variants) > 0 {
				v.variant = (v.variant + len(v.variants) - 1) % len(v.variants)
				v.reload()
			}
		case key.Matches(msg, v.keys.Filter):
			v.filter = (v.filter + 1) % len(reasonFilters)
			v.reload()
		case key.Matches(msg, v.keys.Up), key.Matches(msg, v.keys.Down):
			var cmd tea.Cmd
			v.table, cmd = v.table.Update(msg)
			v.loadDetail()
			return v, cmd
		}
		return v, nil

	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
		v.help.Width = msg.Width
		v.table = v.newTable()
		v.reload()
	}
	return v, nil
}

var (
	runsTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	runsBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	runsDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

// View renders the runs view.
func (v RunsView) View() string {
	var b strings.Builder

	title := "RUN HISTORY"
	if len(v.variants) > 0 {
		title = fmt.Sprintf("RUN HISTORY - %s (%s)", v.currentVariant(), reasonLabel(reasonFilters[v.filter]))
	}
	b.WriteString(runsTitleStyle.Render(centerText(title, v.width)))
	b.WriteString("\n\n")

	var runs string
	switch {
	case v.err != nil:
		runs = runsDimStyle.Render("Cannot read run history:\n" + v.err.Error())
	case len(v.runs) == 0:
		runs = runsDimStyle.Render("No runs match.\nPlay a run to fill the table.")
	default:
		runs = v.table.View()
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		runsBoxStyle.Width(summaryWidth).Render(v.summary()),
		" ",
		runsBoxStyle.Render(runs),
	))
	b.WriteString("\n")
	b.WriteString(v.detailLine())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(v.help.View(v.keys)))
	return b.String()
}

// summary renders the totals of the current variant.
func (v RunsView) summary() string {
	if v.stats == nil {
		return "Totals\n\nno runs yet"
	}
	s := v.stats
	return strings.Join([]string{
		"Totals",
		"",
		fmt.Sprintf("Runs        %d", s.Runs),
		fmt.Sprintf("Best score  %d", s.HighScore),
		fmt.Sprintf("Best level  %d", s.BestLevel),
		fmt.Sprintf("Average     %.0f", s.AvgScore),
		fmt.Sprintf("Last played %s", s.LastPlayed.Format("Jan 02")),
	}, "\n")
}

// detailLine describes the selected run.
func (v RunsView) detailLine() string {
	d := v.detail
	if d == nil {
		return ""
	}
	return fmt.Sprintf("run %s  score %d  level %d  %s after %s  on %s",
		d.RunID, d.Score, d.Level, reasonLabel(d.Reason),
		d.Duration.Round(time.Second), d.CreatedAt.Format("2006-01-02 15:04"))
}

// RunRunsView shows the run history of every registered variant.
func RunRunsView(store *storage.Store, width, height int) error {
	var variants []string
	for _, g := range registry.List() {
		variants = append(variants, g.ID)
	}

	_, err := tea.NewProgram(NewRunsView(store, variants, width, height), tea.WithAltScreen()).Run()
	return err
}
