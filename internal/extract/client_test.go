package extract

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/hifzlog/hifzlog/internal/llm"
)

// minimalResult is a valid extraction payload with one named portion.
const minimalResult = `{
	"session": {"duration_minutes": 20, "session_type": null, "performance_score": null, "session_goal": null},
	"portions": [{"surah_name": "Al-Fatiha", "ayah_start": 1, "ayah_end": 7, "recency_category": null, "repetition_count": null}],
	"mistakes": [],
	"missing_fields": [],
	"follow_up_question": "",
	"confidence": "high"
}`

func TestClient_Extract(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(minimalResult)},
	)
	c := NewClient(mock, DefaultConfig())

	res, err := c.Extract(context.Background(), "I practiced Al-Fatiha for 20 minutes", Context{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Session.DurationMinutes == nil || *res.Session.DurationMinutes != 20 {
		t.Errorf("duration = %v, want 20", res.Session.DurationMinutes)
	}
	if len(res.Portions) != 1 || *res.Portions[0].SurahName != "Al-Fatiha" {
		t.Errorf("portions = %+v", res.Portions)
	}
	if res.Confidence != "high" {
		t.Errorf("confidence = %q", res.Confidence)
	}

	req := mock.Calls[0]
	if req.Schema != ResultSchema {
		t.Error("extraction schema not attached to the request")
	}
	if req.Temperature != 0 {
		t.Errorf("temperature = %g, want 0", req.Temperature)
	}
}

func TestClient_BlankInputNoNetworkCall(t *testing.T) {
	mock := llm.NewMockProvider()
	c := NewClient(mock, DefaultConfig())

	for _, blank := range []string{"", "   ", "\n\t "} {
		_, err := c.Extract(context.Background(), blank, Context{})
		if !errors.Is(err, ErrEmptyUtterance) {
			t.Errorf("Extract(%q) err = %v, want ErrEmptyUtterance", blank, err)
		}
	}
	if mock.CallCount() != 0 {
		t.Fatalf("blank input must not reach the provider, got %d calls", mock.CallCount())
	}
}

func TestClient_ContextInPrompt(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(minimalResult)},
	)
	c := NewClient(mock, DefaultConfig())

	_, err := c.Extract(context.Background(), "continued with the same surah",
		Context{Surah: "Yaseen", SessionType: "revision"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user := mock.Calls[0].Messages[0].Content
	if !strings.Contains(user, "Current surah: Yaseen") {
		t.Errorf("user message missing surah context:\n%s", user)
	}
	if !strings.Contains(user, "Session type: revision") {
		t.Errorf("user message missing session type context:\n%s", user)
	}
	if !strings.Contains(user, "continued with the same surah") {
		t.Errorf("user message missing verbatim utterance:\n%s", user)
	}
}

func TestClient_NoContextNoContextBlock(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(minimalResult)},
	)
	c := NewClient(mock, DefaultConfig())

	if _, err := c.Extract(context.Background(), "read some Quran", Context{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(mock.Calls[0].Messages[0].Content, "Conversation context") {
		t.Error("context block must be omitted when no context is established")
	}
}

func TestClient_ServiceFailureClassified(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("network unreachable")}},
	)
	c := NewClient(mock, DefaultConfig())

	_, err := c.Extract(context.Background(), "revised Al-Mulk", Context{})
	var f *Failure
	if !errors.As(err, &f) {
		t.Fatalf("expected *Failure, got %T", err)
	}
	if f.Kind != FailureService {
		t.Errorf("kind = %q, want service", f.Kind)
	}
	if !strings.Contains(f.UserMessage(), "network unreachable") {
		t.Errorf("service failures should echo the cause: %q", f.UserMessage())
	}
}

func TestClient_ContractViolationClassified(t *testing.T) {
	bad := strings.Replace(minimalResult, `"confidence": "high"`, `"confidence": "certain"`, 1)
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(bad)},
	)
	c := NewClient(mock, DefaultConfig())

	_, err := c.Extract(context.Background(), "revised Al-Mulk", Context{})
	var f *Failure
	if !errors.As(err, &f) {
		t.Fatalf("expected *Failure, got %T", err)
	}
	if f.Kind != FailureValidation {
		t.Errorf("kind = %q, want validation", f.Kind)
	}
	// Technical detail stays out of the user-facing text.
	if strings.Contains(f.UserMessage(), "confidence") {
		t.Errorf("validation detail leaked to user message: %q", f.UserMessage())
	}
}

func TestClient_UnexpectedFailureClassified(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: errors.New("panic elsewhere")},
	)
	c := NewClient(mock, DefaultConfig())

	_, err := c.Extract(context.Background(), "revised Al-Mulk", Context{})
	var f *Failure
	if !errors.As(err, &f) {
		t.Fatalf("expected *Failure, got %T", err)
	}
	if f.Kind != FailureUnexpected {
		t.Errorf("kind = %q, want unexpected", f.Kind)
	}
}
