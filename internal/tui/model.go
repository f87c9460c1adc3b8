// Package tui implements the interactive advisor chat interface.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cardwiz/cardwiz/internal/advisor"
)

// Config holds the chat interface configuration.
type Config struct {
	Session *advisor.Session
	// Width and Height preset the window size, mainly for tests.
	Width  int
	Height int
}

// Model holds the chat TUI state.
type Model struct {
	ctx       context.Context
	session   *advisor.Session
	input     textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	styles    Styles
	keymap    KeyMap
	width     int
	height    int
	statusErr string
	inFlight  bool
	ready     bool
	quitting  bool
}

// newModel creates a chat model around an advisor session.
func newModel(ctx context.Context, cfg Config) Model {
	input := textinput.New()
	input.Placeholder = "Ask where to use your cards..."
	input.CharLimit = 500
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:     ctx,
		session: cfg.Session,
		input:   input,
		spinner: sp,
		styles:  DefaultStyles(),
		keymap:  DefaultKeyMap(),
		width:   cfg.Width,
		height:  cfg.Height,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		textinput.Blink,
		m.loadHistory(),
	)
}

// loadHistory loads persisted conversation history into the session.
func (m Model) loadHistory() tea.Cmd {
	session := m.session
	ctx := m.ctx
	return func() tea.Msg {
		session.Start(ctx)
		return historyLoadedMsg{}
	}
}

// sendMessage dispatches the typed text to the advisor session.
func (m Model) sendMessage(text string) tea.Cmd {
	session := m.session
	ctx := m.ctx
	return func() tea.Msg {
		session.Send(ctx, text)
		return botRepliesMsg{}
	}
}

// clearHistory resets the conversation to the welcome message.
func (m Model) clearHistory() tea.Cmd {
	session := m.session
	ctx := m.ctx
	return func() tea.Msg {
		return historyClearedMsg{err: session.ClearHistory(ctx)}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keymap.ClearHistory):
			if !m.inFlight {
				return m, m.clearHistory()
			}
			return m, nil

		case key.Matches(msg, m.keymap.Send):
			// Input stays disabled while a request is in flight so the
			// session never sees interleaved sends.
			if m.inFlight {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.input.Reset()
			m.statusErr = ""
			m.inFlight = true
			m.refreshViewport()
			return m, tea.Batch(m.spinner.Tick, m.sendMessage(text))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	case historyLoadedMsg:
		m.refreshViewport()

	case historyClearedMsg:
		m.statusErr = ""
		if msg.err != nil {
			m.statusErr = "Could not clear chat history right now."
		}
		m.refreshViewport()

	case botRepliesMsg:
		m.inFlight = false
		m.refreshViewport()

	case spinner.TickMsg:
		if m.inFlight {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.inFlight {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// layout sizes the viewport to the window, leaving room for the header,
// input line, and status bar.
func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	const chromeHeight = 4
	vpHeight := m.height - chromeHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	if !m.ready {
		m.viewport = viewport.New(m.width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = vpHeight
	}
	m.input.Width = m.width - 4
	m.refreshViewport()
}

// refreshViewport re-renders the conversation and scrolls to the bottom.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderConversation())
	m.viewport.GotoBottom()
}

// View renders the chat interface.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	title := m.styles.Title.Render("CardWiz Advisor")
	status := m.styles.StatusBar.Render(fmt.Sprintf("currency: %s", m.session.Currency()))
	header := lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", status)

	inputLine := "> " + m.input.View()
	if m.inFlight {
		inputLine = m.spinner.View() + " thinking..."
	}

	help := m.styles.Help.Render("enter send · ctrl+l clear history · esc quit")
	if m.statusErr != "" {
		help = m.styles.Warning.Render("! " + m.statusErr)
	}

	return strings.Join([]string{
		header,
		m.viewport.View(),
		inputLine,
		help,
	}, "\n")
}
