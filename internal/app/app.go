package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hifzlog/hifzlog/internal/conversation"
	"github.com/hifzlog/hifzlog/internal/ui/chat"
	"github.com/hifzlog/hifzlog/internal/ui/theme"
)

// Model is the root Bubble Tea model: a header and footer wrapped
// around the single chat screen.
type Model struct {
	chat   chat.Model
	width  int
	height int
}

func newModel(conv *conversation.Conversation) Model {
	return Model{chat: chat.New(conv)}
}

func (m Model) Init() tea.Cmd {
	return m.chat.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	return m, cmd
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	header := theme.Title.Render("hifzlog") + theme.Hint.Render("  memorization practice log")
	footer := theme.Hint.Render("enter send · ctrl+r retry · ctrl+l clear · esc quit")

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight - 2
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.chat.View(m.width, contentHeight)

	v.SetContent(lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		content,
		"",
		footer,
	))
	return v
}

// Run starts the chat program over the given conversation.
func Run(conv *conversation.Conversation) error {
	p := tea.NewProgram(newModel(conv))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
