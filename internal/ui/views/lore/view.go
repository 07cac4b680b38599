package lore

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	loredto "chonchon/internal/modules/lore/dto"
	"chonchon/internal/ui/theme"
)

const historyLimit = 200

// ─── port ────────────────────────────────────────────────────────────────────

type LorePort interface {
	History(ctx context.Context, guildID string, limit int) (loredto.HistoryOutput, error)
	SessionNotes(ctx context.Context, guildID string, sessionID int64) (loredto.SessionNotesOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type SessionsLoadedMsg struct {
	Sessions []loredto.SessionOutput
	Err      error
}

type NotesLoadedMsg struct {
	SessionID int64
	Out       loredto.SessionNotesOutput
	Err       error
}

// ─── list item ───────────────────────────────────────────────────────────────

type sessionItem struct {
	session loredto.SessionOutput
}

func (i sessionItem) Title() string { return fmt.Sprintf("#%d %s", i.session.ID, i.session.Label) }

func (i sessionItem) Description() string {
	state := "closed"
	if i.session.Open {
		state = "open"
	}
	return fmt.Sprintf("%s  %d notes  %s", state, i.session.NoteCount, i.session.StartedAt.Format("2006-01-02"))
}

func (i sessionItem) FilterValue() string { return i.session.Label }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     LorePort
	guildID  string
	list     list.Model
	notes    viewport.Model
	spinner  spinner.Model
	selected int64
	focus    int64
	current  loredto.SessionNotesOutput
	loading  bool
	err      error
	width    int
	height   int
}

func New(port LorePort, guildID string) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Moon).BorderForeground(theme.Moon)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Feather).BorderForeground(theme.Moon)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Sessions of " + guildID
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Moon
	sp.Style = lipgloss.NewStyle().Foreground(theme.Moon)

	return Model{
		port:    port,
		guildID: guildID,
		list:    l,
		notes:   vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload re-reads the session history; the store is the only source of truth.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return SessionsLoadedMsg{}
		}
		out, err := m.port.History(context.Background(), m.guildID, historyLimit)
		return SessionsLoadedMsg{Sessions: out.Sessions, Err: err}
	}
}

// Focus reloads the history and shows the notes of sessionID once it is listed.
func (m *Model) Focus(sessionID int64) tea.Cmd {
	m.focus = sessionID
	return m.Reload()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case SessionsLoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err != nil {
			m.notes.SetContent(theme.Failed.Render(msg.Err.Error()))
			return m, nil
		}
		items := make([]list.Item, len(msg.Sessions))
		for i, s := range msg.Sessions {
			items[i] = sessionItem{session: s}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if len(msg.Sessions) == 0 {
			m.notes.SetContent(theme.Muted.Render("No sessions yet. Press : and type start <title>."))
			break
		}
		if m.focus != 0 {
			for i, s := range msg.Sessions {
				if s.ID == m.focus {
					m.list.Select(i)
				}
			}
			m.focus = 0
		}
		if item, ok := m.list.SelectedItem().(sessionItem); ok {
			cmds = append(cmds, m.loadNotesCmd(item.session.ID))
		}

	case NotesLoadedMsg:
		if msg.Err != nil {
			m.notes.SetContent(theme.Failed.Render(msg.Out.Text))
			break
		}
		m.selected = msg.SessionID
		m.current = msg.Out
		m.notes.SetContent(m.renderNotes())
		m.notes.GotoTop()

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			if item, ok := m.list.SelectedItem().(sessionItem); ok {
				cmds = append(cmds, m.loadNotesCmd(item.session.ID))
			}
		}

		var vCmd tea.Cmd
		m.notes, vCmd = m.notes.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Reading the chronicle…")
	}

	listW := m.width * 4 / 10
	notesW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	notesPane := theme.Pane.
		Width(notesW - 2).
		Height(m.height - 2).
		Render(m.notes.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, notesPane)
}

// SelectedSessionID returns the session whose notes are on screen, if any.
func (m Model) SelectedSessionID() (int64, bool) {
	return m.selected, m.selected != 0
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	notesW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.notes.Width = notesW - 4
	m.notes.Height = m.height - 4
}

func (m Model) renderNotes() string {
	s := m.current.Session
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(fmt.Sprintf("#%d %s", s.ID, s.Label)) + "\n")
	if s.Open {
		sb.WriteString(theme.Open.Render("open") + theme.Muted.Render("  since "+s.StartedAt.Format("2006-01-02 15:04")) + "\n\n")
	} else {
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("%s → %s", s.StartedAt.Format("2006-01-02 15:04"), s.EndedAt.Format("2006-01-02 15:04"))) + "\n\n")
	}
	if strings.TrimSpace(s.Summary) != "" {
		sb.WriteString(theme.Hot.Render("Recap") + "\n" + s.Summary + "\n\n")
	}
	if len(m.current.Notes) == 0 {
		sb.WriteString(theme.Muted.Render("No notes recorded."))
		return sb.String()
	}
	for _, n := range m.current.Notes {
		sb.WriteString(n.Line + "\n")
	}
	return sb.String()
}

func (m Model) loadNotesCmd(sessionID int64) tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return NotesLoadedMsg{SessionID: sessionID}
		}
		out, err := m.port.SessionNotes(context.Background(), m.guildID, sessionID)
		return NotesLoadedMsg{SessionID: sessionID, Out: out, Err: err}
	}
}
