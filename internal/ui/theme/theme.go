package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette tuned for dark terminals.
var (
	Primary = lipgloss.Color("#10B981") // Emerald
	Accent  = lipgloss.Color("#F59E0B") // Amber
	Error   = lipgloss.Color("#F43F5E") // Rose
	Text    = lipgloss.Color("#F8FAFC") // White
	TextDim = lipgloss.Color("#94A3B8") // Slate
	BgCard  = lipgloss.Color("#1E293B") // Dark Slate
	Border  = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Chat transcript
var (
	UserLabel = lipgloss.NewStyle().
			Bold(true).
			Foreground(Accent)

	AssistantLabel = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	FailedTurn = lipgloss.NewStyle().
			Foreground(Error)
)

// Draft status bar
var (
	DraftBar = lipgloss.NewStyle().
			Background(BgCard).
			Foreground(TextDim).
			Padding(0, 1)

	Ready = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	NotReady = lipgloss.NewStyle().
			Foreground(TextDim)
)
