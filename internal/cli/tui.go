package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/wireframe/pkg/errors"
	"github.com/matzehuels/wireframe/pkg/export"
	"github.com/matzehuels/wireframe/pkg/studio"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	paneStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	paneFocusStyle    = paneStyle.BorderForeground(colorAccent)
)

type pane int

const (
	palettePane pane = iota
	layoutPane
)

// exportDoneMsg reports the end of an export started from the composer.
type exportDoneMsg struct {
	path   string
	cached bool
	err    error
}

// ComposeModel is the bubbletea model of the terminal composer. The palette
// lists catalog widgets; the layout pane shows the composition with its
// current preview images.
type ComposeModel struct {
	studio  *studio.Studio
	ctx     context.Context
	widgets []string
	project string
	outDir  string

	focus         pane
	paletteCursor int
	layoutCursor  int
	snap          studio.Snapshot

	status    string
	statusErr bool
	exported  []string
}

// NewComposeModel creates a composer over st. Exports are written to outDir
// under project's sanitized name.
func NewComposeModel(ctx context.Context, st *studio.Studio, project, outDir string) ComposeModel {
	cat, err := st.Catalog()
	m := ComposeModel{
		studio:  st,
		ctx:     ctx,
		widgets: cat.Names(),
		project: project,
		outDir:  outDir,
		snap:    st.Snapshot(),
	}
	if err != nil {
		m.setError(err)
	}
	return m
}

// Exported returns the files written during the session.
func (m ComposeModel) Exported() []string { return m.exported }

func (m ComposeModel) Init() tea.Cmd {
	return nil
}

func (m ComposeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case exportDoneMsg:
		m.snap = m.studio.Snapshot()
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.exported = append(m.exported, msg.path)
		if msg.cached {
			m.setStatus("Exported %s (cached)", msg.path)
		} else {
			m.setStatus("Exported %s", msg.path)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			if m.focus == palettePane {
				m.focus = layoutPane
			} else {
				m.focus = palettePane
			}
		case "up", "k":
			m.moveCursor(-1)
		case "down", "j":
			m.moveCursor(1)
		case "u":
			m.snap = m.studio.Update()
			m.setStatus("Previews updated")
		case "c":
			m.studio.Clear()
			m.refresh()
			m.setStatus("Layout cleared")
		case "e":
			m.setStatus("Exporting...")
			return m, m.exportCmd()
		default:
			if m.focus == palettePane {
				m.paletteKey(msg.String())
			} else {
				m.layoutKey(msg.String())
			}
		}
	}
	return m, nil
}

// paletteKey handles keys while the palette has focus. Positions are sent
// as pointer offsets against the studio's row geometry: entry i spans
// [i, i+1), so pointing at i inserts before it.
func (m *ComposeModel) paletteKey(key string) {
	if len(m.widgets) == 0 {
		return
	}
	widget := m.widgets[m.paletteCursor]
	switch key {
	case "enter", "a":
		m.drop(widget, float64(len(m.snap.Layout)))
	case "i":
		m.drop(widget, float64(m.layoutCursor))
	}
}

func (m *ComposeModel) drop(widget string, pointerY float64) {
	e, err := m.studio.Drop(widget, pointerY, nil)
	if err != nil {
		m.setError(err)
		return
	}
	m.refresh()
	for i, v := range m.snap.Layout {
		if v.ID == e.ID {
			m.layoutCursor = i
		}
	}
	m.setStatus("Added %s", widget)
}

// layoutKey handles keys while the layout has focus.
func (m *ComposeModel) layoutKey(key string) {
	if len(m.snap.Layout) == 0 {
		return
	}
	i := m.layoutCursor
	entry := m.snap.Layout[i]

	var err error
	switch key {
	case "K", "shift+up":
		if i == 0 {
			return
		}
		// Above the midpoint of the entry before.
		err = m.studio.Drag(entry.ID, float64(i-1), nil)
		m.layoutCursor--
	case "J", "shift+down":
		if i == len(m.snap.Layout)-1 {
			return
		}
		// Above the midpoint of the entry two below, or past the end.
		err = m.studio.Drag(entry.ID, float64(i+2), nil)
		m.layoutCursor++
	case "d", "x", "delete":
		m.studio.Remove(entry.ID)
	case "n", "right":
		_, err = m.studio.Next(entry.ID)
	case "p", "left":
		_, err = m.studio.Previous(entry.ID)
	default:
		return
	}
	m.refresh()
	if err != nil {
		m.setError(err)
		return
	}
	m.status = ""
}

func (m *ComposeModel) moveCursor(delta int) {
	if m.focus == palettePane {
		m.paletteCursor = clamp(m.paletteCursor+delta, len(m.widgets))
	} else {
		m.layoutCursor = clamp(m.layoutCursor+delta, len(m.snap.Layout))
	}
}

func (m *ComposeModel) refresh() {
	m.snap = m.studio.Snapshot()
	m.layoutCursor = clamp(m.layoutCursor, len(m.snap.Layout))
}

func (m *ComposeModel) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *ComposeModel) setError(err error) {
	m.status = errors.UserMessage(err)
	m.statusErr = true
}

func (m ComposeModel) exportCmd() tea.Cmd {
	st, ctx, project, dir := m.studio, m.ctx, m.project, m.outDir
	return func() tea.Msg {
		arch, err := st.Export(ctx, project)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		path := filepath.Join(dir, arch.Filename())
		if err := os.WriteFile(path, arch.Data, 0o644); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: path, cached: arch.Cached}
	}
}

func (m ComposeModel) View() string {
	var b strings.Builder

	title := "Compose " + export.SanitizeProjectName(m.project, "")
	b.WriteString(StyleTitle.Render(title))
	if m.snap.Exporting {
		b.WriteString("  " + StyleWarning.Render("exporting..."))
	}
	b.WriteString("\n\n")

	palette := m.paletteView()
	layout := m.layoutView()
	if m.focus == palettePane {
		palette = paneFocusStyle.Render(palette)
		layout = paneStyle.Render(layout)
	} else {
		palette = paneStyle.Render(palette)
		layout = paneFocusStyle.Render(layout)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, palette, " ", layout))
	b.WriteString("\n")

	if m.status != "" {
		if m.statusErr {
			b.WriteString(styleIconError.Render(iconError) + " " + m.status)
		} else {
			b.WriteString(styleIconInfo.Render(iconInfo) + " " + m.status)
		}
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(m.help()))
	return b.String()
}

func (m ComposeModel) help() string {
	common := "tab switch  u update  e export  c clear  q quit"
	if m.focus == palettePane {
		return "↑/↓ navigate  ⏎ append  i insert above layout cursor  " + common
	}
	return "↑/↓ navigate  K/J move  n/p next/previous image  d remove  " + common
}

func (m ComposeModel) paletteView() string {
	var b strings.Builder
	b.WriteString(StyleHighlight.Render("Widgets"))
	b.WriteString("\n")
	if len(m.widgets) == 0 {
		b.WriteString(listDimStyle.Render("no widgets in the manifest"))
		return b.String()
	}
	for i, w := range m.widgets {
		if i > 0 {
			b.WriteString("\n")
		}
		if i == m.paletteCursor {
			b.WriteString(listSelectedStyle.Render("▸ " + w))
		} else {
			b.WriteString(listNormalStyle.Render("  " + w))
		}
	}
	return b.String()
}

func (m ComposeModel) layoutView() string {
	if len(m.snap.Layout) == 0 {
		return StyleHighlight.Render("Layout") + "\n" + listDimStyle.Render("drop widgets here")
	}

	rows := make([][]string, len(m.snap.Layout))
	for i, v := range m.snap.Layout {
		cursor := "  "
		if i == m.layoutCursor {
			cursor = "▸ "
		}
		preview, history := "press u", ""
		switch {
		case v.Preview != nil:
			preview = v.Preview.Current
			history = fmt.Sprint(len(v.Preview.History))
		case v.Placeholder:
			preview = "no preview available"
		}
		rows[i] = []string{cursor, v.Widget, preview, history}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("", "Widget", "Preview", "Back").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= len(m.snap.Layout) {
				return lipgloss.NewStyle()
			}
			v := m.snap.Layout[row]
			base := lipgloss.NewStyle()
			if col >= 2 {
				base = base.Foreground(colorDim)
			}
			if v.Placeholder && col == 2 {
				base = base.Foreground(colorAmber)
			}
			if row == m.layoutCursor && m.focus == layoutPane {
				return base.Foreground(colorAccent).Bold(true)
			}
			if col == 2 && v.Preview != nil {
				return base.Foreground(colorGreen)
			}
			return base
		})
	return StyleHighlight.Render("Layout") + "\n" + t.Render()
}

// clamp bounds i to [0, n).
func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
