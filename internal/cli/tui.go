package cli

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/relcat/pkg/catalog"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// SeriesListModel - Interactive catalog browser
// =============================================================================

// seriesRow is one series of one project.
type seriesRow struct {
	Project   string
	Series    *catalog.Series
	Latest    *catalog.Release
	Displayed bool
}

// seriesRows flattens a sorted catalog into rows, projects by id and series
// newest first.
func seriesRows(cat *catalog.Catalog) []seriesRow {
	var rows []seriesRow
	for _, id := range cat.ProjectIDs() {
		p, _ := cat.Project(id)
		for _, s := range p.SortedSeries {
			rows = append(rows, seriesRow{
				Project:   id,
				Series:    s,
				Latest:    s.Latest(),
				Displayed: s.IsDisplayed(),
			})
		}
	}
	return rows
}

// SeriesListModel is the bubbletea model for browsing release series.
// Enter opens the dependencies of the selected series' newest release.
type SeriesListModel struct {
	Rows       []seriesRow
	Cursor     int
	Height     int
	Offset     int
	Detail     bool
	ShowHidden bool

	all []seriesRow
	now time.Time
}

// NewSeriesListModel creates a browser over a sorted catalog. Hidden series
// are left out until toggled with "h".
func NewSeriesListModel(cat *catalog.Catalog) SeriesListModel {
	m := SeriesListModel{
		Height: 15,
		all:    seriesRows(cat),
		now:    time.Now(),
	}
	m.filter()
	return m
}

func (m *SeriesListModel) filter() {
	m.Rows = m.Rows[:0]
	for _, r := range m.all {
		if r.Displayed || m.ShowHidden {
			m.Rows = append(m.Rows, r)
		}
	}
	m.Cursor, m.Offset = 0, 0
}

func (m SeriesListModel) Init() tea.Cmd {
	return nil
}

func (m SeriesListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Detail {
			switch msg.String() {
			case "q", "ctrl+c":
				return m, tea.Quit
			case "esc", "enter", "backspace":
				m.Detail = false
			}
			return m, nil
		}

		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "h":
			m.ShowHidden = !m.ShowHidden
			m.Rows = nil
			m.filter()
		case "enter":
			if len(m.Rows) > 0 {
				m.Detail = true
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m SeriesListModel) View() string {
	if m.Detail && m.Cursor < len(m.Rows) {
		return m.detailView(m.Rows[m.Cursor])
	}

	var b strings.Builder

	b.WriteString(StyleTitle.Render("Release Series"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ dependencies  h hidden  q quit"))
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  no series"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Rows))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		latest, date, deps := "—", "—", "—"
		if r.Latest != nil {
			latest = r.Latest.Version
			if r.Latest.Date != "" {
				date = formatReleaseAge(r.Latest.Date, m.now)
			}
			if r.Latest.Dependencies != nil {
				deps = strconv.Itoa(r.Latest.Dependencies.Len())
			}
		}
		rows = append(rows, []string{cursor, r.Project, r.Series.Version, latest, date, deps})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Project", "Series", "Latest", "Released", "Deps").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			idx := m.Offset + row
			if idx >= len(m.Rows) {
				return lipgloss.NewStyle()
			}
			r := m.Rows[idx]

			base := lipgloss.NewStyle()
			if col == 4 {
				base = base.Foreground(colorDim)
			}
			switch {
			case idx == m.Cursor && r.Displayed:
				return base.Foreground(colorGreen).Bold(true)
			case idx == m.Cursor:
				return base.Foreground(colorGray).Bold(true)
			case !r.Displayed:
				return base.Foreground(colorDim)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

func (m SeriesListModel) detailView(r seriesRow) string {
	var b strings.Builder

	title := r.Project + " " + r.Series.Version
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("⏎/esc back  q quit"))
	b.WriteString("\n\n")

	if r.Latest == nil {
		b.WriteString(listDimStyle.Render("  series has no releases"))
		return b.String()
	}

	b.WriteString(listSelectedStyle.Render(r.Latest.Version))
	if r.Latest.IsStable() {
		b.WriteString(" " + StyleSuccess.Render("stable"))
	}
	b.WriteString("\n")
	if r.Latest.AnnouncementURL != "" {
		b.WriteString(StyleLink.Render(r.Latest.AnnouncementURL))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	deps := r.Latest.Dependencies.Map()
	if len(deps) == 0 {
		b.WriteString(listDimStyle.Render("  no dependencies attached"))
		return b.String()
	}
	for _, key := range slices.Sorted(maps.Keys(deps)) {
		line := fmt.Sprintf("  %-60s %s", key, deps[key])
		b.WriteString(listNormalStyle.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// formatReleaseAge renders a YYYY-MM-DD release date relative to now.
// Unparseable dates are returned unchanged.
func formatReleaseAge(date string, now time.Time) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}

	diff := now.Sub(t)
	switch {
	case diff < 0:
		return t.Format("Jan 2, 2006")
	case diff < 24*time.Hour:
		return "today"
	case diff < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	case diff < 365*24*time.Hour:
		return fmt.Sprintf("%dmo ago", int(diff.Hours()/(24*30)))
	default:
		return t.Format("Jan 2006")
	}
}
