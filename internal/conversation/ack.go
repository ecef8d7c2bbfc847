package conversation

import (
	"fmt"
	"strings"

	"github.com/hifzlog/hifzlog/internal/extract"
)

// reAskPrompt is shown when an extraction succeeded but carried nothing
// usable and no clarifying question of its own.
const reAskPrompt = "I couldn't pick out any session details from that. Could you describe your practice again — which surah, and roughly how long?"

// acknowledgment builds the assistant turn's display text from a
// successful extraction. The text is generated locally and
// deterministically; the model's only job is the structured result.
func acknowledgment(res *extract.ExtractionResult) string {
	var parts []string

	if s := summarizeSession(res.Session); s != "" {
		parts = append(parts, s)
	}
	if p := summarizePortions(res.Portions); p != "" {
		parts = append(parts, p)
	}
	if n := len(res.Mistakes); n == 1 {
		parts = append(parts, "Noted 1 mistake.")
	} else if n > 1 {
		parts = append(parts, fmt.Sprintf("Noted %d mistakes.", n))
	}

	if len(parts) == 0 && res.FollowUpQuestion == "" {
		return reAskPrompt
	}

	if res.FollowUpQuestion != "" {
		parts = append(parts, res.FollowUpQuestion)
	}

	return strings.Join(parts, " ")
}

func summarizeSession(s extract.SessionFields) string {
	var bits []string
	if s.SessionType != nil {
		bits = append(bits, *s.SessionType+" session")
	}
	if s.DurationMinutes != nil {
		bits = append(bits, fmt.Sprintf("%d minutes", *s.DurationMinutes))
	}
	if s.PerformanceScore != nil {
		bits = append(bits, fmt.Sprintf("rated %.1f/10", *s.PerformanceScore))
	}
	if s.SessionGoal != nil {
		bits = append(bits, fmt.Sprintf("goal: %s", *s.SessionGoal))
	}
	if len(bits) == 0 {
		return ""
	}
	return "Recorded: " + strings.Join(bits, ", ") + "."
}

func summarizePortions(portions []extract.Portion) string {
	if len(portions) == 0 {
		return ""
	}
	names := make([]string, 0, len(portions))
	for _, p := range portions {
		names = append(names, describePortion(p))
	}
	return "Portions: " + strings.Join(names, ", ") + "."
}

func describePortion(p extract.Portion) string {
	name := "unnamed portion"
	if p.SurahName != nil {
		name = *p.SurahName
	}
	switch {
	case p.AyahStart != nil && p.AyahEnd != nil:
		return fmt.Sprintf("%s (ayahs %d-%d)", name, *p.AyahStart, *p.AyahEnd)
	case p.AyahStart != nil:
		return fmt.Sprintf("%s (starting from ayah %d)", name, *p.AyahStart)
	default:
		return name
	}
}
