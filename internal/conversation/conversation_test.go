package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/hifzlog/hifzlog/internal/extract"
	"github.com/hifzlog/hifzlog/internal/llm"
)

func intPtr(n int) *int { return &n }

func f64Ptr(f float64) *float64 { return &f }

func strPtr(s string) *string { return &s }

// stubExtractor replays scripted outcomes and records every call.
type stubExtractor struct {
	outcomes []stubOutcome
	calls    []stubCall
}

type stubOutcome struct {
	res *extract.ExtractionResult
	err error
}

type stubCall struct {
	utterance string
	cctx      extract.Context
}

func (s *stubExtractor) Extract(_ context.Context, utterance string, cctx extract.Context) (*extract.ExtractionResult, error) {
	s.calls = append(s.calls, stubCall{utterance: utterance, cctx: cctx})
	if len(s.outcomes) == 0 {
		return nil, &extract.Failure{Kind: extract.FailureUnexpected, Err: errors.New("script exhausted")}
	}
	out := s.outcomes[0]
	s.outcomes = s.outcomes[1:]
	return out.res, out.err
}

func emptyResult() *extract.ExtractionResult {
	return &extract.ExtractionResult{Confidence: "low"}
}

func TestFold_NullNeverOverwrites(t *testing.T) {
	first := emptyResult()
	first.Session.DurationMinutes = intPtr(20)
	second := emptyResult() // duration stays null

	stub := &stubExtractor{outcomes: []stubOutcome{{res: first}, {res: second}}}
	c := New(stub)
	ctx := context.Background()

	if err := c.SendMessage(ctx, "practiced for 20 minutes"); err != nil {
		t.Fatalf("send 1: %v", err)
	}
	if err := c.SendMessage(ctx, "it went fine"); err != nil {
		t.Fatalf("send 2: %v", err)
	}

	d := c.Draft()
	if d.Session.DurationMinutes == nil || *d.Session.DurationMinutes != 20 {
		t.Fatalf("duration = %v, want 20 (null must not overwrite)", d.Session.DurationMinutes)
	}
}

func TestFold_LaterNonNullWins(t *testing.T) {
	first := emptyResult()
	first.Session.PerformanceScore = f64Ptr(5)
	second := emptyResult()
	second.Session.PerformanceScore = f64Ptr(8)

	stub := &stubExtractor{outcomes: []stubOutcome{{res: first}, {res: second}}}
	c := New(stub)
	ctx := context.Background()

	c.SendMessage(ctx, "about a 5 out of 10")
	c.SendMessage(ctx, "actually more like an 8")

	d := c.Draft()
	if d.Session.PerformanceScore == nil || *d.Session.PerformanceScore != 8 {
		t.Fatalf("score = %v, want 8", d.Session.PerformanceScore)
	}
}

func TestFold_PortionsAdditive(t *testing.T) {
	first := emptyResult()
	first.Portions = []extract.Portion{{SurahName: strPtr("Al-Fatiha")}}
	second := emptyResult()
	second.Portions = []extract.Portion{{SurahName: strPtr("Al-Fatiha")}}

	stub := &stubExtractor{outcomes: []stubOutcome{{res: first}, {res: second}}}
	c := New(stub)
	ctx := context.Background()

	c.SendMessage(ctx, "recited Al-Fatiha")
	c.SendMessage(ctx, "then Al-Fatiha again")

	d := c.Draft()
	if len(d.Portions) != 2 {
		t.Fatalf("portions = %d, want 2 (lists are additive, never deduplicated)", len(d.Portions))
	}
}

func TestReadiness_PortionWithSurah(t *testing.T) {
	res := emptyResult()
	res.Portions = []extract.Portion{{SurahName: strPtr("Al-Fatiha"), AyahStart: intPtr(1), AyahEnd: intPtr(7)}}

	stub := &stubExtractor{outcomes: []stubOutcome{{res: res}}}
	c := New(stub)

	if c.IsReadyToSave() {
		t.Fatal("empty conversation must not be ready")
	}
	c.SendMessage(context.Background(), "recited Al-Fatiha fully")
	if !c.IsReadyToSave() {
		t.Fatal("one named portion must make the draft ready")
	}
}

func TestReadiness_MistakeSurahSentinel(t *testing.T) {
	first := emptyResult()
	first.Mistakes = []extract.Mistake{{
		PortionSurah: strPtr("Unknown"), Category: "tajweed", Subcategory: "madd", SeverityLevel: 2,
	}}
	second := emptyResult()
	second.Mistakes = []extract.Mistake{{
		PortionSurah: strPtr("Al-Baqarah"), Category: "tajweed", Subcategory: "madd", SeverityLevel: 2,
	}}

	stub := &stubExtractor{outcomes: []stubOutcome{{res: first}, {res: second}}}
	c := New(stub)
	ctx := context.Background()

	c.SendMessage(ctx, "made a madd mistake somewhere")
	if c.IsReadyToSave() {
		t.Fatal("a mistake with the Unknown sentinel must not satisfy the gate")
	}

	c.SendMessage(ctx, "it was in Al-Baqarah")
	if !c.IsReadyToSave() {
		t.Fatal("a mistake tied to a real surah must satisfy the gate")
	}
}

func TestSendMessage_BlankInputRejected(t *testing.T) {
	stub := &stubExtractor{}
	c := New(stub)

	for _, blank := range []string{"", "   ", "\t\n"} {
		if err := c.SendMessage(context.Background(), blank); !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("SendMessage(%q) = %v, want ErrEmptyMessage", blank, err)
		}
	}
	if len(c.Messages()) != 0 {
		t.Fatalf("blank input appended %d messages, want 0", len(c.Messages()))
	}
	if len(stub.calls) != 0 {
		t.Fatalf("blank input reached the extractor %d times, want 0", len(stub.calls))
	}
}

func TestSendMessage_ExactlyOneAssistantTurnPerOutcome(t *testing.T) {
	ok := emptyResult()
	ok.Portions = []extract.Portion{{SurahName: strPtr("Yaseen")}}
	stub := &stubExtractor{outcomes: []stubOutcome{
		{res: ok},
		{err: &extract.Failure{Kind: extract.FailureService, Err: errors.New("network unreachable")}},
	}}
	c := New(stub)
	ctx := context.Background()

	c.SendMessage(ctx, "revised Yaseen")
	c.SendMessage(ctx, "and some more")

	msgs := c.Messages()
	if len(msgs) != 4 {
		t.Fatalf("log length = %d, want 4 (user+assistant per send)", len(msgs))
	}
	for i, want := range []Role{RoleUser, RoleAssistant, RoleUser, RoleAssistant} {
		if msgs[i].Role != want {
			t.Errorf("msgs[%d].Role = %q, want %q", i, msgs[i].Role, want)
		}
	}
	if msgs[1].Failed || msgs[1].Extraction == nil {
		t.Error("successful turn must carry the extraction")
	}
	if !msgs[3].Failed || msgs[3].Extraction != nil {
		t.Error("failed turn must be marked and carry no extraction")
	}
	if !strings.Contains(msgs[3].Content, "network unreachable") {
		t.Errorf("service failure text should echo the cause: %q", msgs[3].Content)
	}
	if c.IsLoading() {
		t.Error("conversation must return to idle after a failure")
	}
}

func TestFold_FailedTurnsInvisible(t *testing.T) {
	ok := emptyResult()
	ok.Session.DurationMinutes = intPtr(15)
	stub := &stubExtractor{outcomes: []stubOutcome{
		{res: ok},
		{err: &extract.Failure{Kind: extract.FailureService, Err: errors.New("timeout")}},
	}}
	c := New(stub)
	ctx := context.Background()

	c.SendMessage(ctx, "15 minutes of revision")
	c.SendMessage(ctx, "also did Al-Mulk")

	d := c.Draft()
	if d.Session.DurationMinutes == nil || *d.Session.DurationMinutes != 15 {
		t.Fatalf("failed turn corrupted the fold: %+v", d.Session)
	}
	if len(d.Portions) != 0 {
		t.Fatalf("failed turn contributed portions: %+v", d.Portions)
	}
	if c.Err() == nil || c.Err().Kind != extract.FailureService {
		t.Fatalf("Err() = %+v, want recorded service failure", c.Err())
	}
}

func TestRetry_LogShapePreserved(t *testing.T) {
	ok := emptyResult()
	ok.Portions = []extract.Portion{{SurahName: strPtr("Al-Fatiha")}}
	stub := &stubExtractor{outcomes: []stubOutcome{
		{err: &extract.Failure{Kind: extract.FailureService, Err: errors.New("down")}},
		{res: ok},
	}}
	c := New(stub)
	ctx := context.Background()

	c.SendMessage(ctx, "recited Al-Fatiha")
	lenBefore := len(c.Messages())

	if err := c.Retry(ctx); err != nil {
		t.Fatalf("retry: %v", err)
	}

	msgs := c.Messages()
	if len(msgs) != lenBefore {
		t.Fatalf("log length after retry = %d, want %d (remove pair, re-append pair)", len(msgs), lenBefore)
	}
	if len(stub.calls) != 2 {
		t.Fatalf("extractor calls = %d, want 2", len(stub.calls))
	}
	if stub.calls[1].utterance != "recited Al-Fatiha" {
		t.Fatalf("retry re-sent %q, want original text", stub.calls[1].utterance)
	}
	if msgs[1].Failed {
		t.Error("retried turn should now be the successful one")
	}
	if c.Err() != nil {
		t.Errorf("Err() = %v after successful retry, want nil", c.Err())
	}
}

func TestRetry_NoPriorPairIsNoOp(t *testing.T) {
	stub := &stubExtractor{}
	c := New(stub)

	if err := c.Retry(context.Background()); err != nil {
		t.Fatalf("retry on empty log: %v", err)
	}
	if len(stub.calls) != 0 || len(c.Messages()) != 0 {
		t.Fatal("retry on empty log must not call the extractor or touch the log")
	}
}

func TestContextPropagation(t *testing.T) {
	first := emptyResult()
	first.Portions = []extract.Portion{{SurahName: strPtr("Yaseen")}}
	first.Session.SessionType = strPtr("revision")
	second := emptyResult()

	stub := &stubExtractor{outcomes: []stubOutcome{{res: first}, {res: second}}}
	c := New(stub)
	ctx := context.Background()

	c.SendMessage(ctx, "revised Yaseen")
	c.SendMessage(ctx, "same surah again, ayahs 10 to 20")

	if len(stub.calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(stub.calls))
	}
	if stub.calls[0].cctx.Surah != "" {
		t.Errorf("first call carried context %+v, want empty", stub.calls[0].cctx)
	}
	if stub.calls[1].cctx.Surah != "Yaseen" {
		t.Errorf("second call surah context = %q, want Yaseen", stub.calls[1].cctx.Surah)
	}
	if stub.calls[1].cctx.SessionType != "revision" {
		t.Errorf("second call session type context = %q, want revision", stub.calls[1].cctx.SessionType)
	}
}

func TestContextPropagation_MostRecentSurahWins(t *testing.T) {
	first := emptyResult()
	first.Portions = []extract.Portion{
		{SurahName: strPtr("Al-Fatiha")},
		{SurahName: strPtr("Al-Mulk")},
		{SurahName: nil},
	}
	second := emptyResult()

	stub := &stubExtractor{outcomes: []stubOutcome{{res: first}, {res: second}}}
	c := New(stub)
	ctx := context.Background()

	c.SendMessage(ctx, "did Al-Fatiha then Al-Mulk then something else")
	c.SendMessage(ctx, "kept going")

	if got := stub.calls[1].cctx.Surah; got != "Al-Mulk" {
		t.Fatalf("surah context = %q, want most recent named surah Al-Mulk", got)
	}
}

func TestClear_ResetsEverything(t *testing.T) {
	ok := emptyResult()
	ok.Portions = []extract.Portion{{SurahName: strPtr("Al-Fatiha")}}
	stub := &stubExtractor{outcomes: []stubOutcome{{res: ok}}}
	c := New(stub)

	c.SendMessage(context.Background(), "recited Al-Fatiha")
	c.Clear()

	if len(c.Messages()) != 0 {
		t.Error("clear must truncate the log")
	}
	if c.IsLoading() || c.Err() != nil || c.IsReadyToSave() {
		t.Error("clear must reset loading, error, and readiness")
	}
}

func TestClear_MidFlightDiscardsOutcome(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	blocking := &blockingExtractor{release: release, started: started}
	c := New(blocking)

	done := make(chan error, 1)
	go func() { done <- c.SendMessage(context.Background(), "revised Al-Mulk") }()

	<-started
	if !c.IsLoading() {
		t.Fatal("expected loading while the call is in flight")
	}
	c.Clear()
	close(release)
	<-done

	if got := len(c.Messages()); got != 0 {
		t.Fatalf("log length = %d after mid-flight clear, want 0 (outcome discarded)", got)
	}
	if c.IsLoading() {
		t.Fatal("loading must stay false after mid-flight clear")
	}
}

func TestSendMessage_SecondSendWhileInFlightRejected(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	blocking := &blockingExtractor{release: release, started: started}
	c := New(blocking)

	done := make(chan error, 1)
	go func() { done <- c.SendMessage(context.Background(), "first") }()

	<-started
	if err := c.SendMessage(context.Background(), "second"); !errors.Is(err, ErrBusy) {
		t.Fatalf("second send = %v, want ErrBusy", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first send: %v", err)
	}
	if got := len(c.Messages()); got != 2 {
		t.Fatalf("log length = %d, want 2 (rejected send must not append)", got)
	}
}

type blockingExtractor struct {
	release chan struct{}
	started chan struct{}
}

func (b *blockingExtractor) Extract(context.Context, string, extract.Context) (*extract.ExtractionResult, error) {
	close(b.started)
	<-b.release
	return &extract.ExtractionResult{Confidence: "low"}, nil
}

func TestTimestampsNonDecreasing(t *testing.T) {
	ok := emptyResult()
	stub := &stubExtractor{outcomes: []stubOutcome{{res: ok}, {res: ok}}}
	c := New(stub)
	ctx := context.Background()

	c.SendMessage(ctx, "one")
	c.SendMessage(ctx, "two")

	msgs := c.Messages()
	for i := 1; i < len(msgs); i++ {
		if msgs[i].Timestamp.Before(msgs[i-1].Timestamp) {
			t.Fatalf("timestamps regress at %d", i)
		}
		if msgs[i].ID == msgs[i-1].ID {
			t.Fatalf("duplicate message ID at %d", i)
		}
	}
}

// End-to-end through the real extraction client with a mocked provider.
func TestEndToEnd_SingleTurn(t *testing.T) {
	payload := `{
		"session": {"duration_minutes": 20, "session_type": null, "performance_score": null, "session_goal": null},
		"portions": [{"surah_name": "Al-Fatiha", "ayah_start": 1, "ayah_end": 7, "recency_category": null, "repetition_count": null}],
		"mistakes": [],
		"missing_fields": [],
		"follow_up_question": "",
		"confidence": "high"
	}`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(payload)})
	client := extract.NewClient(mock, extract.DefaultConfig())
	c := New(client)

	if err := c.SendMessage(context.Background(), "I practiced Al-Fatiha for 20 minutes"); err != nil {
		t.Fatalf("send: %v", err)
	}

	d := c.Draft()
	if d.Session.DurationMinutes == nil || *d.Session.DurationMinutes != 20 {
		t.Errorf("duration = %v, want 20", d.Session.DurationMinutes)
	}
	if len(d.Portions) != 1 || *d.Portions[0].SurahName != "Al-Fatiha" {
		t.Errorf("portions = %+v", d.Portions)
	}
	if !c.IsReadyToSave() {
		t.Error("draft must be ready to save after one named portion")
	}

	msgs := c.Messages()
	if len(msgs) != 2 {
		t.Fatalf("log length = %d, want 2", len(msgs))
	}
	if !strings.Contains(msgs[1].Content, "Al-Fatiha (ayahs 1-7)") {
		t.Errorf("acknowledgment missing portion phrasing: %q", msgs[1].Content)
	}
	if !strings.Contains(msgs[1].Content, "20 minutes") {
		t.Errorf("acknowledgment missing duration: %q", msgs[1].Content)
	}
}
