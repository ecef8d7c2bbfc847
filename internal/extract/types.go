// Package extract turns one free-text practice utterance into a validated
// ExtractionResult via the LLM provider layer. Partial extraction is the
// norm: every scalar field is independently nullable and the conversation
// layer folds successive results into a single draft.
package extract

// SessionFields holds the session-level fields one extraction may fill.
// Nil means the utterance said nothing about that field.
type SessionFields struct {
	DurationMinutes  *int     `json:"duration_minutes"`
	SessionType      *string  `json:"session_type"`
	PerformanceScore *float64 `json:"performance_score"`
	SessionGoal      *string  `json:"session_goal"`
}

// Portion is one extracted portion fragment: a contiguous ayah range
// within a surah. Portions are additive across extractions; they carry
// no identity until the review surface assigns one at submission time.
type Portion struct {
	SurahName       *string `json:"surah_name"`
	AyahStart       *int    `json:"ayah_start"`
	AyahEnd         *int    `json:"ayah_end"`
	RecencyCategory *string `json:"recency_category"`
	RepetitionCount *int    `json:"repetition_count"`
}

// Mistake is one extracted mistake fragment. It references its portion by
// surah name because portions have no stable IDs during a conversation.
type Mistake struct {
	PortionSurah  *string `json:"portion_surah"`
	Category      string  `json:"category"`
	Subcategory   string  `json:"subcategory"`
	SeverityLevel int     `json:"severity_level"`
	AyahNumber    *int    `json:"ayah_number"`
	Notes         string  `json:"notes"`
}

// ExtractionResult is the normalized shape returned by one AI call.
type ExtractionResult struct {
	Session          SessionFields `json:"session"`
	Portions         []Portion     `json:"portions"`
	Mistakes         []Mistake     `json:"mistakes"`
	MissingFields    []string      `json:"missing_fields"`
	FollowUpQuestion string        `json:"follow_up_question"`
	Confidence       string        `json:"confidence"`
}

// Context carries the already-established conversation facts forward so
// the model can resolve references like "same surah" or "continue with
// that". Empty fields are omitted from the prompt.
type Context struct {
	Surah       string
	SessionType string
}
