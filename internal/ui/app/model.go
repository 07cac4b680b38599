package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	loredto "chonchon/internal/modules/lore/dto"
	"chonchon/internal/ui/components"
	"chonchon/internal/ui/theme"
	loreview "chonchon/internal/ui/views/lore"
	oracleview "chonchon/internal/ui/views/oracle"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type LorePort interface {
	loreview.LorePort
	StartSession(ctx context.Context, guildID, title string) (loredto.StartSessionOutput, error)
	RecordNote(ctx context.Context, guildID, authorID, authorName, content string) (loredto.RecordNoteOutput, error)
	ListSession(ctx context.Context, guildID string) (loredto.ListSessionOutput, error)
	CloseSession(ctx context.Context, guildID, summary string) (loredto.CloseSessionOutput, error)
	AmendSummary(ctx context.Context, guildID string, sessionID int64, summary string) (loredto.AmendSummaryOutput, error)
	Export(ctx context.Context, guildID string, sessionID int64) (loredto.ExportOutput, error)
}

// Author identifies whoever is typing notes at this terminal.
type Author struct {
	ID   string
	Name string
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabSessions tabID = iota
	tabOracle
	tabCount
)

var tabLabels = [tabCount]string{"Sessions", "Oracle"}

// ─── async messages ───────────────────────────────────────────────────────────

// loreDoneMsg carries the reply of a lore command; reload asks for a fresh history and
// focus, when set, brings that session's notes on screen.
type loreDoneMsg struct {
	text   string
	err    error
	reload bool
	focus  int64
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Reload  key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Reload},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It routes tabs and runs palette commands
// against the same lore keeper and oracle the bot uses.
type Model struct {
	guildID string
	author  Author
	lore    LorePort

	sessionsView loreview.Model
	oracleView   oracleview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

func NewModel(guildID string, author Author, lore LorePort, oracle oracleview.OraclePort) Model {
	return Model{
		guildID:      guildID,
		author:       author,
		lore:         lore,
		sessionsView: loreview.New(lore, guildID),
		oracleView:   oracleview.New(oracle),
		activeTab:    tabSessions,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.sessionsView.Init(), m.oracleView.Init())
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		return m, m.propagateSize()

	case loreDoneMsg:
		m.status = msg.text
		switch {
		case msg.focus != 0:
			m.activeTab = tabSessions
			cmds = append(cmds, m.sessionsView.Focus(msg.focus))
		case msg.reload:
			cmds = append(cmds, m.sessionsView.Reload())
		}
		return m, tea.Batch(cmds...)

	// Async results go to their view whichever tab is active.
	case loreview.SessionsLoadedMsg, loreview.NotesLoadedMsg:
		var cmd tea.Cmd
		m.sessionsView, cmd = m.sessionsView.Update(msg)
		return m, cmd

	case oracleview.AnsweredMsg:
		m.status = "the oracle has spoken"
		var cmd tea.Cmd
		m.oracleView, cmd = m.oracleView.Update(msg)
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to the session list while its filter is active.
		if m.activeTab == tabSessions && m.sessionsView.Filtering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			id, _ := m.sessionsView.SelectedSessionID()
			m.palette.SetSession(id)
			return m, m.palette.Open()
		case "r":
			m.status = "reloading"
			cmds = append(cmds, m.sessionsView.Reload())
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabSessions:
		m.sessionsView, tabCmd = m.sessionsView.Update(msg)
	case tabOracle:
		m.oracleView, tabCmd = m.oracleView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabOracle:
		content = m.oracleView.View()
	default:
		content = m.sessionsView.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "chonchon · " + m.guildID + "  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := firstLine(m.status)
	right := theme.Muted.Render("?:help  tab:switch  ::command  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	input = strings.TrimSpace(input)
	if input == "" {
		return m, nil
	}
	verb, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)
	guild, author, lore := m.guildID, m.author, m.lore

	switch verb {
	case "start":
		return m, loreCmd(true, func(ctx context.Context) (string, error) {
			out, err := lore.StartSession(ctx, guild, rest)
			return out.Text, err
		})
	case "note":
		return m, loreCmd(true, func(ctx context.Context) (string, error) {
			out, err := lore.RecordNote(ctx, guild, author.ID, author.Name, rest)
			return out.Text, err
		})
	case "list":
		return m, func() tea.Msg {
			out, err := lore.ListSession(context.Background(), guild)
			if err != nil || out.Session == nil {
				return loreDoneMsg{text: out.Text, err: err}
			}
			return loreDoneMsg{
				text:  fmt.Sprintf("%d notes in session #%d", len(out.Notes), out.Session.ID),
				focus: out.Session.ID,
			}
		}
	case "close":
		return m, loreCmd(true, func(ctx context.Context) (string, error) {
			out, err := lore.CloseSession(ctx, guild, rest)
			return out.Text, err
		})
	case "recap", "export":
		id, text, ok := m.targetSession(rest)
		if !ok {
			m.status = "select a session first"
			return m, nil
		}
		rest = text
		if verb == "export" {
			return m, loreCmd(false, func(ctx context.Context) (string, error) {
				out, err := lore.Export(ctx, guild, id)
				return out.Text, err
			})
		}
		return m, loreCmd(true, func(ctx context.Context) (string, error) {
			out, err := lore.AmendSummary(ctx, guild, id, rest)
			return out.Text, err
		})
	case "ask":
		m.activeTab = tabOracle
		m.status = "consulting the oracle"
		return m, m.oracleView.Ask(rest)
	default:
		m.status = "unknown command: " + verb
		return m, nil
	}
}

// targetSession reads an optional leading "#<id>" from args, falling back to the
// session on screen, and returns the remaining text.
func (m Model) targetSession(args string) (int64, string, bool) {
	if ref, text, _ := strings.Cut(args, " "); strings.HasPrefix(ref, "#") {
		if id, err := strconv.ParseInt(ref[1:], 10, 64); err == nil && id > 0 {
			return id, strings.TrimSpace(text), true
		}
	}
	id, ok := m.sessionsView.SelectedSessionID()
	return id, args, ok
}

func loreCmd(reload bool, run func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		text, err := run(context.Background())
		return loreDoneMsg{text: text, err: err, reload: reload && err == nil}
	}
}

func (m *Model) propagateSize() tea.Cmd {
	contentH := max(m.height-4, 1)
	size := tea.WindowSizeMsg{Width: m.width, Height: contentH}
	var c1, c2 tea.Cmd
	m.sessionsView, c1 = m.sessionsView.Update(size)
	m.oracleView, c2 = m.oracleView.Update(size)
	return tea.Batch(c1, c2)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
