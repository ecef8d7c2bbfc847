package conversation

import (
	"strings"
	"testing"

	"github.com/hifzlog/hifzlog/internal/extract"
)

func TestAcknowledgment_FullExtraction(t *testing.T) {
	res := &extract.ExtractionResult{
		Session: extract.SessionFields{
			DurationMinutes: intPtr(30),
			SessionType:     strPtr("revision"),
		},
		Portions: []extract.Portion{
			{SurahName: strPtr("Yaseen"), AyahStart: intPtr(1), AyahEnd: intPtr(12)},
		},
		Mistakes: []extract.Mistake{
			{PortionSurah: strPtr("Yaseen"), Category: "tajweed", Subcategory: "madd", SeverityLevel: 2},
			{PortionSurah: strPtr("Yaseen"), Category: "fluency", Subcategory: "hesitation", SeverityLevel: 1},
		},
		Confidence: "high",
	}

	got := acknowledgment(res)
	for _, want := range []string{
		"revision session",
		"30 minutes",
		"Yaseen (ayahs 1-12)",
		"Noted 2 mistakes.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("acknowledgment missing %q:\n%s", want, got)
		}
	}
}

func TestAcknowledgment_StartOnlyRange(t *testing.T) {
	res := &extract.ExtractionResult{
		Portions:   []extract.Portion{{SurahName: strPtr("Al-Mulk"), AyahStart: intPtr(5)}},
		Confidence: "medium",
	}
	got := acknowledgment(res)
	if !strings.Contains(got, "Al-Mulk (starting from ayah 5)") {
		t.Errorf("wrong phrasing for open range: %q", got)
	}
}

func TestAcknowledgment_SingleMistakeSingular(t *testing.T) {
	res := &extract.ExtractionResult{
		Mistakes:   []extract.Mistake{{Category: "tajweed", Subcategory: "madd", SeverityLevel: 1}},
		Confidence: "high",
	}
	got := acknowledgment(res)
	if !strings.Contains(got, "Noted 1 mistake.") {
		t.Errorf("expected singular mistake phrasing: %q", got)
	}
}

func TestAcknowledgment_FollowUpAppended(t *testing.T) {
	res := &extract.ExtractionResult{
		Portions:         []extract.Portion{{SurahName: strPtr("Al-Fatiha")}},
		FollowUpQuestion: "How long did you practice?",
		Confidence:       "medium",
	}
	got := acknowledgment(res)
	if !strings.HasSuffix(got, "How long did you practice?") {
		t.Errorf("follow-up question must come last: %q", got)
	}
}

func TestAcknowledgment_NothingExtracted(t *testing.T) {
	got := acknowledgment(&extract.ExtractionResult{Confidence: "low"})
	if got != reAskPrompt {
		t.Errorf("empty extraction must produce the fixed re-ask prompt, got %q", got)
	}
}

func TestAcknowledgment_OnlyFollowUp(t *testing.T) {
	res := &extract.ExtractionResult{
		FollowUpQuestion: "Which surah did you work on?",
		Confidence:       "low",
	}
	got := acknowledgment(res)
	if got != "Which surah did you work on?" {
		t.Errorf("follow-up alone should stand by itself, got %q", got)
	}
}

func TestAcknowledgment_Deterministic(t *testing.T) {
	res := &extract.ExtractionResult{
		Session:    extract.SessionFields{DurationMinutes: intPtr(10)},
		Confidence: "high",
	}
	if acknowledgment(res) != acknowledgment(res) {
		t.Error("acknowledgment must be deterministic")
	}
}
