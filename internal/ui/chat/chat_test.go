package chat

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/hifzlog/hifzlog/internal/conversation"
	"github.com/hifzlog/hifzlog/internal/extract"
)

// stubExtractor returns a fixed extraction for every utterance.
type stubExtractor struct {
	result *extract.ExtractionResult
	err    error
	calls  int
}

func (s *stubExtractor) Extract(_ context.Context, _ string, _ extract.Context) (*extract.ExtractionResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func testModel(ext conversation.Extractor) Model {
	return New(conversation.New(ext))
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m, _ = m.Update(keyPress(r))
	}
	return m
}

func TestEnterSendsMessage(t *testing.T) {
	ext := &stubExtractor{result: &extract.ExtractionResult{
		Portions:   []extract.Portion{{SurahName: strPtr("Yaseen")}},
		Confidence: "high",
	}}
	m := testModel(ext)
	m = typeText(m, "revised Yaseen")

	m, cmd := m.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("enter with text must produce a send command")
	}

	// Execute the command synchronously, as the runtime would.
	msg := cmd()
	if _, ok := msg.(turnDoneMsg); !ok {
		t.Fatalf("expected turnDoneMsg, got %T", msg)
	}
	if ext.calls != 1 {
		t.Fatalf("extractor calls = %d, want 1", ext.calls)
	}

	msgs := m.conv.Messages()
	if len(msgs) != 2 {
		t.Fatalf("log length = %d, want user+assistant", len(msgs))
	}
	if m.input.Value() != "" {
		t.Errorf("input must reset after send, got %q", m.input.Value())
	}
}

func TestEnterWithBlankInputDoesNothing(t *testing.T) {
	ext := &stubExtractor{result: &extract.ExtractionResult{Confidence: "low"}}
	m := testModel(ext)

	_, cmd := m.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("blank input must not produce a send command")
	}
	if ext.calls != 0 {
		t.Errorf("extractor called %d times on blank input", ext.calls)
	}
}

func TestCtrlLClearsConversation(t *testing.T) {
	ext := &stubExtractor{result: &extract.ExtractionResult{Confidence: "high"}}
	m := testModel(ext)
	m = typeText(m, "memorized Al-Mulk")
	m, cmd := m.Update(specialKey(tea.KeyEnter))
	cmd()

	m = typeText(m, "half typed")
	m, _ = m.Update(tea.KeyPressMsg{Code: 'l', Mod: tea.ModCtrl})

	if len(m.conv.Messages()) != 0 {
		t.Error("ctrl+l must clear the message log")
	}
	if m.input.Value() != "" {
		t.Errorf("ctrl+l must reset the input, got %q", m.input.Value())
	}
}

func TestStatusBarReflectsReadiness(t *testing.T) {
	ext := &stubExtractor{result: &extract.ExtractionResult{
		Session:    extract.SessionFields{DurationMinutes: intPtr(20)},
		Portions:   []extract.Portion{{SurahName: strPtr("Al-Fatiha")}},
		Confidence: "high",
	}}
	m := testModel(ext)
	m.width, m.height = 80, 24

	if !strings.Contains(m.renderStatusBar(80), "not ready") {
		t.Error("empty draft must render as not ready")
	}

	m = typeText(m, "read Fatiha for 20 minutes")
	m, cmd := m.Update(specialKey(tea.KeyEnter))
	cmd()

	bar := m.renderStatusBar(80)
	for _, want := range []string{"ready to save", "Al-Fatiha", "20m"} {
		if !strings.Contains(bar, want) {
			t.Errorf("status bar missing %q: %s", want, bar)
		}
	}
}

func TestFailedTurnShowsRetryHint(t *testing.T) {
	ext := &stubExtractor{err: &extract.Failure{Kind: extract.FailureService, Err: context.DeadlineExceeded}}
	m := testModel(ext)
	m = typeText(m, "revised Yaseen")
	m, cmd := m.Update(specialKey(tea.KeyEnter))
	cmd()

	out := m.renderTranscript(80)
	if !strings.Contains(out, "ctrl+r to retry") {
		t.Errorf("failed turn must surface the retry hint:\n%s", out)
	}
}

func TestCtrlRRetriesLastTurn(t *testing.T) {
	ext := &stubExtractor{result: &extract.ExtractionResult{
		Portions:   []extract.Portion{{SurahName: strPtr("Yaseen")}},
		Confidence: "high",
	}}
	m := testModel(ext)
	m = typeText(m, "revised Yaseen")
	m, cmd := m.Update(specialKey(tea.KeyEnter))
	cmd()

	m, cmd = m.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("ctrl+r must produce a retry command")
	}
	cmd()

	if ext.calls != 2 {
		t.Fatalf("extractor calls = %d, want 2 after retry", ext.calls)
	}
	if got := len(m.conv.Messages()); got != 2 {
		t.Fatalf("log length after retry = %d, want 2", got)
	}
}

func TestSummarizeDraftEmpty(t *testing.T) {
	if got := summarizeDraft(conversation.Draft{}); got != "draft: empty" {
		t.Errorf("summarizeDraft(zero) = %q", got)
	}
}
