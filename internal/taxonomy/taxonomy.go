// Package taxonomy defines the closed enumerations used across hifzlog:
// session types, portion recency categories, mistake categories and
// subcategories, severity, and extraction confidence. Values outside these
// sets are rejected at the validation boundary, never coerced.
package taxonomy

// SessionType classifies what kind of practice a session was.
type SessionType string

const (
	SessionMemorization SessionType = "memorization"
	SessionRevision     SessionType = "revision"
	SessionListening    SessionType = "listening"
	SessionRecitation   SessionType = "recitation"
)

// SessionTypes lists every valid session type, in display order.
var SessionTypes = []SessionType{
	SessionMemorization,
	SessionRevision,
	SessionListening,
	SessionRecitation,
}

// ValidSessionType reports whether s is a member of the session type enum.
func ValidSessionType(s string) bool {
	for _, t := range SessionTypes {
		if SessionType(s) == t {
			return true
		}
	}
	return false
}

// RecencyCategory classifies how recently a portion was memorized,
// which drives revision scheduling in the app's statistics views.
type RecencyCategory string

const (
	RecencyNew    RecencyCategory = "new"
	RecencyRecent RecencyCategory = "recent"
	RecencyOld    RecencyCategory = "old"
)

// RecencyCategories lists every valid recency category.
var RecencyCategories = []RecencyCategory{RecencyNew, RecencyRecent, RecencyOld}

// ValidRecency reports whether s is a member of the recency enum.
func ValidRecency(s string) bool {
	for _, r := range RecencyCategories {
		if RecencyCategory(s) == r {
			return true
		}
	}
	return false
}

// MistakeCategory is the top-level classification of a recitation or
// memorization error.
type MistakeCategory string

const (
	CategoryTajweed       MistakeCategory = "tajweed"
	CategoryMemorization  MistakeCategory = "memorization"
	CategoryFluency       MistakeCategory = "fluency"
	CategoryPronunciation MistakeCategory = "pronunciation"
)

// subcategories indexes the closed subcategory set per category.
var subcategories = map[MistakeCategory][]string{
	CategoryTajweed:       {"madd", "ghunnah", "qalqalah", "idgham", "ikhfa", "other"},
	CategoryMemorization:  {"forgotten_word", "forgotten_verse", "word_order", "verse_order", "substitution", "other"},
	CategoryFluency:       {"hesitation", "long_pause", "needed_prompt", "restart", "other"},
	CategoryPronunciation: {"makhraj", "harakah", "heavy_light", "other"},
}

// MistakeCategories lists every valid mistake category.
var MistakeCategories = []MistakeCategory{
	CategoryTajweed,
	CategoryMemorization,
	CategoryFluency,
	CategoryPronunciation,
}

// ValidCategory reports whether s is a member of the mistake category enum.
func ValidCategory(s string) bool {
	_, ok := subcategories[MistakeCategory(s)]
	return ok
}

// ValidSubcategory reports whether sub belongs to category cat.
func ValidSubcategory(cat, sub string) bool {
	for _, s := range subcategories[MistakeCategory(cat)] {
		if s == sub {
			return true
		}
	}
	return false
}

// Subcategories returns the closed subcategory set for a category,
// or nil for an unknown category.
func Subcategories(cat MistakeCategory) []string {
	return subcategories[cat]
}

// Severity bounds. Severity is an integer scale where 1 is a slip the
// reciter self-corrected and 5 is a breakdown requiring outside help.
const (
	SeverityMin = 1
	SeverityMax = 5
)

// ValidSeverity reports whether n is within the severity scale.
func ValidSeverity(n int) bool {
	return n >= SeverityMin && n <= SeverityMax
}

// Confidence is the extractor's self-reported certainty. Display only;
// never used for gating.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ValidConfidence reports whether s is a member of the confidence enum.
func ValidConfidence(s string) bool {
	switch Confidence(s) {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

// UnknownSurah is the sentinel surah name the extractor uses for a mistake
// it could not tie to a portion. Mistakes carrying it do not satisfy the
// save-readiness gate.
const UnknownSurah = "Unknown"
