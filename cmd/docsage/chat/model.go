package chatcmder

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// model is the Bubble Tea model for the chat client.
type model struct {
	client     *apiClient
	input      textinput.Model
	viewport   viewport.Model
	transcript []string
	status     string
	waiting    bool
	ready      bool
}

func newModel(client *apiClient) model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	vp := viewport.New(0, 0)
	return model{
		client:   client,
		input:    ti,
		viewport: vp,
		status:   "Connected. Ask away.",
	}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

// answerMsg carries the result of one chat request back into the UI loop.
type answerMsg struct {
	answer string
	err    error
}

func ask(client *apiClient, question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := client.Ask(question)
		return answerMsg{answer: answer, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ih := inputBoxStyle.GetFrameSize()
		m.viewport.Width = msg.Width
		m.viewport.Height = max(3, msg.Height-ih-3)
		m.viewport.SetContent(strings.Join(m.transcript, "\n"))
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter && !m.waiting {
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			m.input.Reset()
			m.waiting = true
			m.status = "Thinking..."
			m.appendLine(questionStyle.Render("You: " + question))
			return m, ask(m.client, question)
		}

	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = errorStyle.Render("Error: " + msg.err.Error())
			return m, nil
		}
		m.status = "Connected. Ask away."
		m.appendLine(renderAnswer(msg.answer))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) appendLine(line string) {
	m.transcript = append(m.transcript, line, "")
	m.viewport.SetContent(strings.Join(m.transcript, "\n"))
	m.viewport.GotoBottom()
}

func renderAnswer(answer string) string {
	rendered, err := glamour.Render(answer, "dark")
	if err != nil {
		return answer
	}
	return strings.TrimRight(rendered, "\n")
}

func (m model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View() + "\n" +
		inputBoxStyle.Render(m.input.View()) + "\n" +
		statusStyle.Render(m.status)
}
