package chat

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hifzlog/hifzlog/internal/conversation"
	"github.com/hifzlog/hifzlog/internal/extract"
	"github.com/hifzlog/hifzlog/internal/ui/theme"
)

// turnDoneMsg signals that a SendMessage or Retry call has returned.
// The transcript is re-read from the conversation, so the message
// carries nothing beyond the error for status display.
type turnDoneMsg struct {
	err error
}

// Model is the single chat screen: transcript on top, draft status bar
// and text input at the bottom. All conversation state lives in the
// Conversation itself; the model only holds presentation state.
type Model struct {
	conv   *conversation.Conversation
	input  textinput.Model
	width  int
	height int
}

func New(conv *conversation.Conversation) Model {
	ti := textinput.New()
	ti.Placeholder = "Describe your practice session..."
	ti.Focus()

	return Model{
		conv:  conv,
		input: ti,
	}
}

func (m Model) Init() tea.Cmd {
	return m.input.Focus()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case turnDoneMsg:
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.conv.IsLoading() {
				return m, nil
			}
			m.input.Reset()
			return m, m.sendCmd(text)

		case "ctrl+r":
			if m.conv.IsLoading() {
				return m, nil
			}
			return m, m.retryCmd()

		case "ctrl+l":
			m.conv.Clear()
			m.input.Reset()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) sendCmd(text string) tea.Cmd {
	return func() tea.Msg {
		err := m.conv.SendMessage(context.Background(), text)
		return turnDoneMsg{err: err}
	}
}

func (m Model) retryCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.conv.Retry(context.Background())
		return turnDoneMsg{err: err}
	}
}

// View renders the screen into the given content area.
func (m Model) View(width, height int) string {
	transcript := m.renderTranscript(width)
	status := m.renderStatusBar(width)
	input := theme.Body.Render("> ") + m.input.View()

	bottomHeight := lipgloss.Height(status) + lipgloss.Height(input)
	transcriptHeight := height - bottomHeight - 1
	if transcriptHeight < 1 {
		transcriptHeight = 1
	}
	transcript = clampToBottom(transcript, transcriptHeight)

	return lipgloss.JoinVertical(lipgloss.Left,
		transcript,
		"",
		status,
		input,
	)
}

func (m Model) renderTranscript(width int) string {
	msgs := m.conv.Messages()
	if len(msgs) == 0 {
		return theme.Hint.Render("Tell me about your practice session. For example:\n\"Revised Yaseen ayahs 1 to 20 for half an hour, two madd slips.\"")
	}

	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderMessage(msg, width))
		b.WriteString("\n")
	}

	if m.conv.IsLoading() {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Thinking..."))
	}
	return b.String()
}

func renderMessage(msg conversation.Message, width int) string {
	body := lipgloss.NewStyle().Width(width).Render(msg.Content)
	switch {
	case msg.Role == conversation.RoleUser:
		return theme.UserLabel.Render("You") + "\n" + theme.Body.Render(body)
	case msg.Failed:
		return theme.AssistantLabel.Render("Hifzlog") + "\n" + theme.FailedTurn.Render(body) +
			"\n" + theme.Hint.Render("(ctrl+r to retry)")
	default:
		return theme.AssistantLabel.Render("Hifzlog") + "\n" + theme.Body.Render(body)
	}
}

// renderStatusBar shows the accumulated draft in one line plus the
// save-readiness indicator.
func (m Model) renderStatusBar(width int) string {
	d := m.conv.Draft()

	var ready string
	if m.conv.IsReadyToSave() {
		ready = theme.Ready.Render("● ready to save")
	} else {
		ready = theme.NotReady.Render("○ not ready")
	}

	summary := summarizeDraft(d)
	bar := summary + "  " + ready
	return theme.DraftBar.Width(width).Render(bar)
}

func summarizeDraft(d conversation.Draft) string {
	var bits []string
	if d.Session.SessionType != nil {
		bits = append(bits, *d.Session.SessionType)
	}
	if d.Session.DurationMinutes != nil {
		bits = append(bits, fmt.Sprintf("%dm", *d.Session.DurationMinutes))
	}
	if len(d.Portions) > 0 {
		bits = append(bits, fmt.Sprintf("%d portion(s)", len(d.Portions)))
		if name := lastSurah(d.Portions); name != "" {
			bits = append(bits, name)
		}
	}
	if len(d.Mistakes) > 0 {
		bits = append(bits, fmt.Sprintf("%d mistake(s)", len(d.Mistakes)))
	}
	if len(bits) == 0 {
		return "draft: empty"
	}
	return "draft: " + strings.Join(bits, " · ")
}

func lastSurah(portions []extract.Portion) string {
	for i := len(portions) - 1; i >= 0; i-- {
		if portions[i].SurahName != nil {
			return *portions[i].SurahName
		}
	}
	return ""
}

// clampToBottom keeps only the last n lines so the newest turns stay
// visible without a scrollback viewport.
func clampToBottom(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
