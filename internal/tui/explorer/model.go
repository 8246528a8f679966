// ============================================================================
// StormSQL - SQL Front-End Toolkit
// ============================================================================
//
// Package:     explorer
// Description: Bubbletea model for interactively exploring SQL front-end output
// Author:      StormSQL Authors
// Created:     2025-12-07
// License:     MIT
// ============================================================================

package explorer

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/stormsql/foundation/stormsql"
	mdwstringx "github.com/msto63/stormsql/foundation/utils/stringx"
	"github.com/msto63/stormsql/internal/history"
	"github.com/msto63/stormsql/internal/render"
	"github.com/msto63/stormsql/pkg/core/version"
)

// Tab selects what the result panel shows
type Tab int

const (
	TabTokens Tab = iota
	TabTree
	TabFormatted
)

var tabNames = []string{"Tokens", "Tree", "Formatted"}

func (t Tab) String() string {
	if int(t) < len(tabNames) {
		return tabNames[t]
	}
	return "Unknown"
}

// Model is the main Bubbletea model for the explorer
type Model struct {
	// State
	width     int
	height    int
	ready     bool
	analyzing bool
	tab       Tab
	err       error

	// Components
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	// Analysis state
	engine   *stormsql.Engine
	recorder *history.Recorder
	analysis *stormsql.Analysis
	checked  int

	// Submitted sources, oldest first; recall walks back from the end
	submitted []string
	recall    int
}

// Config holds explorer configuration
type Config struct {
	Engine *stormsql.Engine
	// Recorder is optional
	Recorder *history.Recorder
	// Initial is analyzed on start when not blank
	Initial string
}

// New creates a new explorer model
func New(cfg Config) Model {
	if cfg.Engine == nil {
		cfg.Engine = stormsql.New(stormsql.Options{IncludeComments: true})
	}

	ti := textinput.New()
	ti.Placeholder = "SELECT a FROM t WHERE b > 1;"
	ti.Prompt = "sql> "
	ti.CharLimit = 0
	ti.SetValue(cfg.Initial)
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(render.ColorPrimary)

	return Model{
		input:    ti,
		spinner:  sp,
		engine:   cfg.Engine,
		recorder: cfg.Recorder,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, tea.EnterAltScreen}
	if source := m.input.Value(); mdwstringx.IsNotBlank(source) {
		cmds = append(cmds, m.analyze(source))
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4 // title panel
		inputHeight := 3
		footerHeight := 3 // tabs + status + help
		viewportHeight := msg.Height - headerHeight - inputHeight - footerHeight - 2
		if viewportHeight < 3 {
			viewportHeight = 3
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}
		m.input.Width = msg.Width - 10
		m.updateViewportContent()

	case spinner.TickMsg:
		if m.analyzing {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case analyzedMsg:
		m.analyzing = false
		m.err = msg.err
		if msg.err == nil {
			m.analysis = msg.analysis
			m.checked++
		}
		m.updateViewportContent()
		m.viewport.GotoTop()
	}

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyEnter:
		source := m.input.Value()
		if mdwstringx.IsBlank(source) || m.analyzing {
			return m, nil
		}
		m.submitted = append(m.submitted, source)
		m.recall = len(m.submitted)
		m.analyzing = true
		return m, tea.Batch(m.spinner.Tick, m.analyze(source))

	case tea.KeyTab:
		m.tab = (m.tab + 1) % Tab(len(tabNames))
		m.updateViewportContent()
		return m, nil

	case tea.KeyShiftTab:
		m.tab = (m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
		m.updateViewportContent()
		return m, nil

	case tea.KeyUp:
		if m.recall > 0 {
			m.recall--
			m.input.SetValue(m.submitted[m.recall])
			m.input.CursorEnd()
		}
		return m, nil

	case tea.KeyDown:
		if m.recall < len(m.submitted)-1 {
			m.recall++
			m.input.SetValue(m.submitted[m.recall])
			m.input.CursorEnd()
		} else {
			m.recall = len(m.submitted)
			m.input.SetValue("")
		}
		return m, nil

	case tea.KeyPgUp:
		m.viewport.ViewUp()
		return m, nil

	case tea.KeyPgDown:
		m.viewport.ViewDown()
		return m, nil

	case tea.KeyCtrlL:
		m.analysis = nil
		m.err = nil
		m.input.SetValue("")
		m.updateViewportContent()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// analyze runs source through the engine off the update loop
func (m Model) analyze(source string) tea.Cmd {
	engine := m.engine
	recorder := m.recorder
	return func() tea.Msg {
		analysis, err := engine.Analyze(source)
		if err == nil {
			// history failures never block the explorer
			_, _ = recorder.Record(context.Background(), history.OriginTUI, "check", "", analysis)
		}
		return analyzedMsg{source: source, analysis: analysis, err: err}
	}
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading explorer..."
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(InputPanelStyle.Width(m.width - 2).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(ResultPanelStyle.Width(m.width - 2).Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())

	return b.String()
}

// renderHeader renders the title panel
func (m Model) renderHeader() string {
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		LogoStyle.Render(Logo),
		strings.Repeat(" ", 3),
		HelpDescStyle.Render("v"+version.Toolkit),
	)
	return TitlePanelStyle.Width(m.width - 4).Render(header)
}

// renderTabs renders the result tab bar
func (m Model) renderTabs() string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		tabs[i] = RenderTab(name, Tab(i) == m.tab)
	}
	return " " + strings.Join(tabs, "  ")
}

// renderStatusBar renders the status bar
func (m Model) renderStatusBar() string {
	var left string
	switch {
	case m.analyzing:
		left = m.spinner.View() + " Analyzing..."
	case m.err != nil:
		left = render.ErrorStyle.Render(m.err.Error())
	case m.analysis == nil:
		left = HelpDescStyle.Render("Enter a statement")
	case m.analysis.OK():
		left = render.OKStyle.Render("ok") + HelpDescStyle.Render(fmt.Sprintf(
			" %d statements, %d tokens, %s",
			len(m.analysis.Statements), len(m.analysis.Tokens), m.analysis.Duration))
	default:
		left = render.ErrorStyle.Render(mdwstringx.Truncate(firstError(m.analysis), m.width-20, "..."))
	}

	right := HelpDescStyle.Render(fmt.Sprintf("checked: %d", m.checked))

	space := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if space < 1 {
		space = 1
	}
	return StatusBarStyle.Width(m.width - 2).Render(left + strings.Repeat(" ", space) + right)
}

// renderHelpBar renders the help shortcuts bar
func (m Model) renderHelpBar() string {
	items := []string{
		RenderKeyHint("Enter", "Analyze"),
		RenderKeyHint("Tab", "View"),
		RenderKeyHint("Up/Down", "Recall"),
		RenderKeyHint("PgUp/PgDn", "Scroll"),
		RenderKeyHint("Ctrl+L", "Clear"),
		RenderKeyHint("Esc", "Quit"),
	}
	return " " + strings.Join(items, "  ")
}

// updateViewportContent renders the current analysis for the active tab
func (m *Model) updateViewportContent() {
	m.viewport.SetContent(m.content())
}

func (m Model) content() string {
	if m.analysis == nil {
		return ""
	}

	var buf bytes.Buffer
	r := render.New(&buf, render.FormatText, true)
	a := m.analysis

	if len(a.LexErrors) > 0 {
		_ = r.LexErrors(a.LexErrors)
		buf.WriteString("\n")
	}

	switch m.tab {
	case TabTokens:
		_ = r.Tokens(a.Tokens)
	case TabTree:
		if a.ParseError != nil {
			_ = r.SyntaxError(a.ParseError)
		} else if len(a.LexErrors) == 0 {
			_ = r.Statements(a.Statements)
		}
	case TabFormatted:
		if len(a.LexErrors) == 0 {
			buf.WriteString(r.Highlight(a.Tokens, a.Reconstructed))
			buf.WriteString("\n\n")
			if a.RoundTripOK {
				buf.WriteString(render.OKStyle.Render("round trip ok"))
			} else {
				buf.WriteString(render.ErrorStyle.Render("round trip mismatch"))
			}
		}
	}
	return buf.String()
}

func firstError(a *stormsql.Analysis) string {
	switch {
	case len(a.LexErrors) > 0:
		return a.LexErrors[0].Error()
	case a.ParseError != nil:
		return a.ParseError.Error()
	case !a.RoundTripOK:
		return "round trip mismatch"
	}
	return ""
}

// Run starts the explorer and blocks until the user quits
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
