// Package conversation owns the chat-style extraction loop: an append-only
// message log, the draft folded from every successful extraction, the
// save-readiness gate, and loading/error state across turns. It is
// UI-independent; the TUI only reads Messages/Draft/IsLoading and calls
// SendMessage/Retry/Clear.
package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hifzlog/hifzlog/internal/extract"
)

// Role is a message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in the conversation. Messages are appended once and
// never edited; the log is truncated only by Clear and Retry.
type Message struct {
	ID         string
	Role       Role
	Content    string
	Extraction *extract.ExtractionResult // set only on successful assistant turns
	Failed     bool                      // true on assistant turns recording a failure
	Timestamp  time.Time
}

// Extractor is the AI boundary the conversation talks to.
type Extractor interface {
	Extract(ctx context.Context, utterance string, cctx extract.Context) (*extract.ExtractionResult, error)
}

// ErrEmptyMessage is returned by SendMessage for blank input. The log is
// not touched and no extraction call is made.
var ErrEmptyMessage = errors.New("message is empty")

// ErrBusy is returned when a send is already in flight. The conversation
// holds at most one outstanding request; the UI gates the send affordance
// on IsLoading, and this error keeps the log consistent if it doesn't.
var ErrBusy = errors.New("a message is already being processed")

// Conversation accumulates one practice-logging chat. Each instance is
// independent; the log lives only as long as the instance.
type Conversation struct {
	extractor Extractor
	now       func() time.Time

	mu       sync.Mutex
	messages []Message
	loading  bool
	lastErr  *extract.Failure
	gen      int // bumped by Clear to discard in-flight completions
}

// New creates an empty conversation over the given extractor.
func New(extractor Extractor) *Conversation {
	return &Conversation{
		extractor: extractor,
		now:       time.Now,
	}
}

// SendMessage appends the user's utterance, runs one extraction, and
// appends exactly one assistant turn recording the outcome. It always
// returns the conversation to idle. The returned error is nil on success,
// ErrEmptyMessage/ErrBusy for rejected input, or the classified
// *extract.Failure that was also recorded in the log.
func (c *Conversation) SendMessage(ctx context.Context, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return ErrBusy
	}
	c.loading = true
	c.lastErr = nil
	gen := c.gen

	// Optimistic append: the user sees their turn before the round trip.
	c.append(RoleUser, text, nil, false)

	// Context comes from the draft as of this send.
	cctx := buildDraft(c.messages).contextForNext()
	c.mu.Unlock()

	result, err := c.extractor.Extract(ctx, trimmed, cctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		// Cleared mid-flight; the outcome is discarded, not logged.
		return nil
	}
	c.loading = false

	if err != nil {
		failure := asFailure(err)
		c.lastErr = failure
		c.append(RoleAssistant, failure.UserMessage(), nil, true)
		return failure
	}

	c.append(RoleAssistant, acknowledgment(result), result, false)
	return nil
}

// Retry removes the trailing user+assistant pair in one atomic log update
// and re-sends the same user text. A log without a trailing pair makes
// this a no-op.
func (c *Conversation) Retry(ctx context.Context) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return ErrBusy
	}

	n := len(c.messages)
	if n < 2 || c.messages[n-1].Role != RoleAssistant || c.messages[n-2].Role != RoleUser {
		c.mu.Unlock()
		return nil
	}

	text := c.messages[n-2].Content
	c.messages = c.messages[:n-2]
	c.lastErr = nil
	c.mu.Unlock()

	return c.SendMessage(ctx, text)
}

// Clear truncates the log and resets loading/error state. A completion
// arriving from an in-flight send after Clear is discarded.
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
	c.loading = false
	c.lastErr = nil
	c.gen++
}

// Messages returns a copy of the message log in append order.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Draft returns the accumulated draft folded from every successful
// extraction in log order. Pure; safe to call anytime.
func (c *Conversation) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return buildDraft(c.messages)
}

// IsReadyToSave reports whether the draft has enough substance to hand to
// the review surface: at least one portion with a surah name, or one
// mistake tied to a known surah.
func (c *Conversation) IsReadyToSave() bool {
	return c.Draft().ReadyToSave()
}

// IsLoading reports whether a send is in flight.
func (c *Conversation) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the failure recorded by the most recent send, or nil. It is
// reset by the next send, by Retry, and by Clear.
func (c *Conversation) Err() *extract.Failure {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// append adds a message to the log. Caller must hold c.mu. Timestamps are
// clamped to be non-decreasing even if the wall clock steps backward.
func (c *Conversation) append(role Role, content string, res *extract.ExtractionResult, failed bool) {
	ts := c.now()
	if n := len(c.messages); n > 0 && ts.Before(c.messages[n-1].Timestamp) {
		ts = c.messages[n-1].Timestamp
	}
	c.messages = append(c.messages, Message{
		ID:         uuid.NewString(),
		Role:       role,
		Content:    content,
		Extraction: res,
		Failed:     failed,
		Timestamp:  ts,
	})
}

// asFailure normalizes any extractor error into a classified failure.
func asFailure(err error) *extract.Failure {
	var f *extract.Failure
	if errors.As(err, &f) {
		return f
	}
	return &extract.Failure{Kind: extract.FailureUnexpected, Err: err}
}
