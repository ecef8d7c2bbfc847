package extract

import (
	"fmt"
	"strings"

	"github.com/hifzlog/hifzlog/internal/taxonomy"
)

const systemPrompt = `You parse free-text descriptions of Quran memorization and recitation practice into a structured log entry.

Rules:
- Extract only what the text actually states. Use null for every field the text does not mention. Partial results are expected and correct.
- Never fabricate ayah ranges. If a surah is named with no ayah range, leave ayah_start and ayah_end null. Do not assume the whole surah was practiced.
- Surah names go in transliteration with standard hyphenation, e.g. "Al-Fatiha", "Al-Baqarah", "Yaseen".
- session_type must be one of: memorization, revision, listening, recitation.
- recency_category must be one of: new (memorized this week), recent (within the last month), old (older than a month).
- Mistake categories and subcategories:
  tajweed: madd, ghunnah, qalqalah, idgham, ikhfa, other
  memorization: forgotten_word, forgotten_verse, word_order, verse_order, substitution, other
  fluency: hesitation, long_pause, needed_prompt, restart, other
  pronunciation: makhraj, harakah, heavy_light, other
- severity_level: 1 = slip the reciter corrected alone, 3 = needed a hint, 5 = complete breakdown needing outside help.
- Set a mistake's portion_surah to the surah it occurred in. If the text gives no way to tell, use "Unknown".
- If conversation context is provided, resolve references like "that surah", "same one", or "continued" against it.
- List genuinely needed but unextractable fields in missing_fields, and ask at most one short clarifying question in follow_up_question when it would help complete the log.

Examples:

Input: "I practiced Al-Fatiha for 20 minutes"
Output: session.duration_minutes=20, all other session fields null, one portion {surah_name:"Al-Fatiha", ayah_start:null, ayah_end:null, recency_category:null, repetition_count:null}, no mistakes, confidence high.

Input: "revised Yaseen 1 to 12 five times, messed up the madd in ayah 8 twice"
Output: session.session_type="revision", one portion {surah_name:"Yaseen", ayah_start:1, ayah_end:12, repetition_count:5}, one mistake {portion_surah:"Yaseen", category:"tajweed", subcategory:"madd", severity_level:2, ayah_number:8}, confidence high.

Input: "went okay I guess"
Output: everything null/empty, missing_fields lists the surah and duration, follow_up_question asks what was practiced and for how long, confidence low.`

// buildUserMessage assembles the user turn: the running conversation
// context (when any) followed by the verbatim utterance.
func buildUserMessage(utterance string, cctx Context) string {
	var b strings.Builder

	if cctx.Surah != "" || cctx.SessionType != "" {
		b.WriteString("Conversation context so far:\n")
		if cctx.Surah != "" {
			fmt.Fprintf(&b, "- Current surah: %s\n", cctx.Surah)
		}
		if cctx.SessionType != "" {
			fmt.Fprintf(&b, "- Session type: %s\n", cctx.SessionType)
		}
		b.WriteString("\n")
	}

	b.WriteString("User said:\n")
	b.WriteString(utterance)

	return b.String()
}

// taxonomyReminder is appended to the system prompt so the closed sets
// survive model updates that shuffle instruction weighting. It is built
// from the taxonomy package so prompt and validator can't drift apart.
func taxonomyReminder() string {
	var b strings.Builder

	b.WriteString("\nValid values, verbatim:\n")

	names := make([]string, 0, len(taxonomy.SessionTypes))
	for _, t := range taxonomy.SessionTypes {
		names = append(names, string(t))
	}
	fmt.Fprintf(&b, "session_type: %s\n", strings.Join(names, ", "))

	names = names[:0]
	for _, r := range taxonomy.RecencyCategories {
		names = append(names, string(r))
	}
	fmt.Fprintf(&b, "recency_category: %s\n", strings.Join(names, ", "))

	for _, c := range taxonomy.MistakeCategories {
		fmt.Fprintf(&b, "%s subcategories: %s\n", c, strings.Join(taxonomy.Subcategories(c), ", "))
	}

	return b.String()
}
