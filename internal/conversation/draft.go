package conversation

import (
	"github.com/hifzlog/hifzlog/internal/extract"
	"github.com/hifzlog/hifzlog/internal/taxonomy"
)

// Draft is the derived aggregate over the whole message log: session
// fields merged last-non-null-wins, portions and mistakes concatenated in
// extraction order. It has no identity of its own and is rebuilt from the
// log on every read, so it can never diverge from the fold definition.
type Draft struct {
	Session  extract.SessionFields
	Portions []extract.Portion
	Mistakes []extract.Mistake
}

// buildDraft folds every successful assistant extraction in log order.
// Failed turns carry no extraction and contribute nothing.
func buildDraft(msgs []Message) Draft {
	var d Draft
	for _, m := range msgs {
		if m.Role != RoleAssistant || m.Extraction == nil {
			continue
		}
		d.Session = mergeSession(d.Session, m.Extraction.Session)
		d.Portions = append(d.Portions, m.Extraction.Portions...)
		d.Mistakes = append(d.Mistakes, m.Extraction.Mistakes...)
	}
	return d
}

// mergeSession overlays next onto prev field by field. A later non-null
// value wins; null never erases an earlier value. The field set is closed:
// adding a session field means extending this function, so nothing
// merges by accident.
func mergeSession(prev, next extract.SessionFields) extract.SessionFields {
	out := prev
	if next.DurationMinutes != nil {
		out.DurationMinutes = next.DurationMinutes
	}
	if next.SessionType != nil {
		out.SessionType = next.SessionType
	}
	if next.PerformanceScore != nil {
		out.PerformanceScore = next.PerformanceScore
	}
	if next.SessionGoal != nil {
		out.SessionGoal = next.SessionGoal
	}
	return out
}

// ReadyToSave reports whether the draft can go to review: at least one
// portion with a surah name, or one mistake tied to a known surah.
func (d Draft) ReadyToSave() bool {
	for _, p := range d.Portions {
		if p.SurahName != nil {
			return true
		}
	}
	for _, m := range d.Mistakes {
		if m.PortionSurah != nil && *m.PortionSurah != taxonomy.UnknownSurah {
			return true
		}
	}
	return false
}

// contextForNext derives the cross-message context for the next
// extraction: the most recently mentioned surah (portions scanned from
// the end) and the established session type.
func (d Draft) contextForNext() extract.Context {
	var cctx extract.Context
	for i := len(d.Portions) - 1; i >= 0; i-- {
		if d.Portions[i].SurahName != nil {
			cctx.Surah = *d.Portions[i].SurahName
			break
		}
	}
	if d.Session.SessionType != nil {
		cctx.SessionType = *d.Session.SessionType
	}
	return cctx
}
