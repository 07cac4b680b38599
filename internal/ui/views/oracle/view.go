package oracle

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	oracledto "chonchon/internal/modules/oracle/dto"
	"chonchon/internal/ui/theme"
)

type OraclePort interface {
	Ask(ctx context.Context, question string) oracledto.AskOutput
}

type AnsweredMsg struct {
	Question string
	Out      oracledto.AskOutput
}

type exchange struct {
	question string
	answer   oracledto.AskOutput
}

// Model shows the questions asked from this terminal and the oracle's replies.
type Model struct {
	port       OraclePort
	transcript viewport.Model
	spinner    spinner.Model
	history    []exchange
	pending    string
	width      int
	height     int
}

func New(port OraclePort) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Feather)

	m := Model{port: port, transcript: vp, spinner: sp}
	m.transcript.SetContent(m.render())
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// Ask sends question to the oracle; the reply arrives as an AnsweredMsg.
func (m *Model) Ask(question string) tea.Cmd {
	question = strings.TrimSpace(question)
	if question == "" || m.pending != "" {
		return nil
	}
	m.pending = question
	m.transcript.SetContent(m.render())
	port := m.port
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		if port == nil {
			return AnsweredMsg{Question: question}
		}
		return AnsweredMsg{Question: question, Out: port.Ask(context.Background(), question)}
	})
}

func (m Model) Pending() bool { return m.pending != "" }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.transcript.Width = msg.Width - 4
		m.transcript.Height = msg.Height - 4

	case AnsweredMsg:
		m.pending = ""
		m.history = append(m.history, exchange{question: msg.Question, answer: msg.Out})
		m.transcript.SetContent(m.render())
		m.transcript.GotoBottom()

	case spinner.TickMsg:
		if m.pending != "" {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
			m.transcript.SetContent(m.render())
		}
	}

	var vCmd tea.Cmd
	m.transcript, vCmd = m.transcript.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	return theme.Pane.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(m.transcript.View())
}

func (m Model) render() string {
	if len(m.history) == 0 && m.pending == "" {
		return theme.Muted.Render("Press : and type ask <question> to consult the oracle.")
	}
	var sb strings.Builder
	for _, ex := range m.history {
		sb.WriteString(theme.Title.Render("» "+ex.question) + "\n")
		name := ex.answer.Persona
		if name == "" {
			name = "oracle"
		}
		text := ex.answer.Text
		if ex.answer.Fallback {
			text = theme.Failed.Render(text)
		}
		sb.WriteString(theme.Hot.Render(name+": ") + text + "\n\n")
	}
	if m.pending != "" {
		sb.WriteString(theme.Title.Render("» "+m.pending) + "\n")
		sb.WriteString(m.spinner.View() + theme.Muted.Render(" listening to the shadows…") + "\n")
	}
	return sb.String()
}
