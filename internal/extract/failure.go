package extract

import (
	"errors"
	"fmt"

	"github.com/hifzlog/hifzlog/internal/llm"
)

// FailureKind classifies why an extraction attempt failed.
type FailureKind string

const (
	// FailureValidation: the model's structured response violated the
	// extraction contract (bad enum, out-of-range value, wrong shape).
	FailureValidation FailureKind = "validation"

	// FailureService: the extraction call itself failed (network error,
	// provider error, timeout).
	FailureService FailureKind = "service"

	// FailureUnexpected: anything not classified above.
	FailureUnexpected FailureKind = "unexpected"
)

// Failure is the classified error surfaced by Extract. The full technical
// detail stays in Err for diagnostics; UserMessage is what the
// conversation shows the user.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("extraction failed (%s): %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// UserMessage returns the user-facing text for this failure. Validation
// detail is never shown verbatim; service errors are echoed because they
// tend to be actionable ("network unreachable").
func (f *Failure) UserMessage() string {
	switch f.Kind {
	case FailureValidation:
		return "I had trouble reading the assistant's response. Please try sending that again."
	case FailureService:
		return fmt.Sprintf("The extraction service could not be reached: %v. Please retry.", f.Err)
	default:
		return "Something went wrong while processing your message. Please retry."
	}
}

// classify maps an error from the provider or validator to a Failure.
func classify(err error) *Failure {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return &Failure{Kind: FailureValidation, Err: err}
	}

	var invResp *llm.ErrInvalidResponse
	if errors.As(err, &invResp) {
		return &Failure{Kind: FailureValidation, Err: err}
	}

	var rl *llm.ErrRateLimit
	if errors.As(err, &rl) {
		return &Failure{Kind: FailureService, Err: err}
	}
	var unavail *llm.ErrProviderUnavailable
	if errors.As(err, &unavail) {
		return &Failure{Kind: FailureService, Err: err}
	}
	var maxTok *llm.ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return &Failure{Kind: FailureService, Err: err}
	}

	return &Failure{Kind: FailureUnexpected, Err: err}
}
