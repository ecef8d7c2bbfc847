package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/hifzlog/hifzlog/internal/taxonomy"
)

// ValidationError describes the first contract violation found in an
// extraction payload: which field broke the contract and why. The field
// path addresses list elements, e.g. "mistakes[1].severity_level".
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("extraction field %s: %s", e.Field, e.Reason)
}

// Validate checks a raw payload against the extraction contract and
// returns the typed result. It enforces shape, enum membership, and
// numeric ranges exactly as specified; it never infers or coerces.
// The returned error is always a *ValidationError.
func Validate(raw json.RawMessage) (*ExtractionResult, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var res ExtractionResult
	if err := dec.Decode(&res); err != nil {
		return nil, &ValidationError{Field: "(root)", Reason: err.Error()}
	}

	if err := validateSession(res.Session); err != nil {
		return nil, err
	}
	for i, p := range res.Portions {
		if err := validatePortion(i, p); err != nil {
			return nil, err
		}
	}
	for i, m := range res.Mistakes {
		if err := validateMistake(i, m); err != nil {
			return nil, err
		}
	}
	if !taxonomy.ValidConfidence(res.Confidence) {
		return nil, &ValidationError{
			Field:  "confidence",
			Reason: fmt.Sprintf("%q is not one of high, medium, low", res.Confidence),
		}
	}

	return &res, nil
}

func validateSession(s SessionFields) *ValidationError {
	if s.DurationMinutes != nil && *s.DurationMinutes <= 0 {
		return &ValidationError{
			Field:  "session.duration_minutes",
			Reason: fmt.Sprintf("must be positive, got %d", *s.DurationMinutes),
		}
	}
	if s.SessionType != nil && !taxonomy.ValidSessionType(*s.SessionType) {
		return &ValidationError{
			Field:  "session.session_type",
			Reason: fmt.Sprintf("%q is not a valid session type", *s.SessionType),
		}
	}
	if s.PerformanceScore != nil && (*s.PerformanceScore < 0 || *s.PerformanceScore > 10) {
		return &ValidationError{
			Field:  "session.performance_score",
			Reason: fmt.Sprintf("must be in [0,10], got %g", *s.PerformanceScore),
		}
	}
	return nil
}

func validatePortion(i int, p Portion) *ValidationError {
	if p.SurahName != nil && *p.SurahName == "" {
		return &ValidationError{
			Field:  fmt.Sprintf("portions[%d].surah_name", i),
			Reason: "must be null or non-empty",
		}
	}
	if p.AyahStart != nil && *p.AyahStart < 1 {
		return &ValidationError{
			Field:  fmt.Sprintf("portions[%d].ayah_start", i),
			Reason: fmt.Sprintf("must be positive, got %d", *p.AyahStart),
		}
	}
	if p.AyahEnd != nil && *p.AyahEnd < 1 {
		return &ValidationError{
			Field:  fmt.Sprintf("portions[%d].ayah_end", i),
			Reason: fmt.Sprintf("must be positive, got %d", *p.AyahEnd),
		}
	}
	if p.RecencyCategory != nil && !taxonomy.ValidRecency(*p.RecencyCategory) {
		return &ValidationError{
			Field:  fmt.Sprintf("portions[%d].recency_category", i),
			Reason: fmt.Sprintf("%q is not a valid recency category", *p.RecencyCategory),
		}
	}
	if p.RepetitionCount != nil && *p.RepetitionCount < 0 {
		return &ValidationError{
			Field:  fmt.Sprintf("portions[%d].repetition_count", i),
			Reason: fmt.Sprintf("must be non-negative, got %d", *p.RepetitionCount),
		}
	}
	return nil
}

func validateMistake(i int, m Mistake) *ValidationError {
	if !taxonomy.ValidCategory(m.Category) {
		return &ValidationError{
			Field:  fmt.Sprintf("mistakes[%d].category", i),
			Reason: fmt.Sprintf("%q is not a valid mistake category", m.Category),
		}
	}
	if !taxonomy.ValidSubcategory(m.Category, m.Subcategory) {
		return &ValidationError{
			Field:  fmt.Sprintf("mistakes[%d].subcategory", i),
			Reason: fmt.Sprintf("%q is not a subcategory of %q", m.Subcategory, m.Category),
		}
	}
	if !taxonomy.ValidSeverity(m.SeverityLevel) {
		return &ValidationError{
			Field:  fmt.Sprintf("mistakes[%d].severity_level", i),
			Reason: fmt.Sprintf("must be in [%d,%d], got %d", taxonomy.SeverityMin, taxonomy.SeverityMax, m.SeverityLevel),
		}
	}
	if m.AyahNumber != nil && *m.AyahNumber < 1 {
		return &ValidationError{
			Field:  fmt.Sprintf("mistakes[%d].ayah_number", i),
			Reason: fmt.Sprintf("must be positive, got %d", *m.AyahNumber),
		}
	}
	if m.PortionSurah != nil && *m.PortionSurah == "" {
		return &ValidationError{
			Field:  fmt.Sprintf("mistakes[%d].portion_surah", i),
			Reason: "must be null or non-empty",
		}
	}
	return nil
}
