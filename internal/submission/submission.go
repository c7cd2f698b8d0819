// Package submission sends a classification prompt for scoring and maps the
// per-question results onto the fixed test set.
package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dkoosis/promptboard/internal/api"
	"github.com/dkoosis/promptboard/internal/session"
)

// MaxAttempts is how many prompts a participant may submit.
const MaxAttempts = 5

var (
	// ErrEmptyPrompt is returned for a blank prompt. Nothing is sent.
	ErrEmptyPrompt = &ValidationError{Msg: "please enter your prompt"}

	// ErrSessionEnded means the server rejected the stored credentials and
	// the session was cleared. The participant must log in again.
	ErrSessionEnded = errors.New("session ended, please log in again")

	// ErrNoAttemptsLeft means MaxAttempts prompts were already submitted.
	ErrNoAttemptsLeft = errors.New("maximum attempts reached")
)

// ValidationError is a problem with the input, caught before any request.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ValidatePrompt rejects prompts that are empty after trimming.
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return ErrEmptyPrompt
	}
	return nil
}

// Submitter scores a prompt. *api.Client satisfies it.
type Submitter interface {
	Submit(ctx context.Context, name, password, prompt string) (*api.SubmissionResult, error)
}

// SessionStore persists the session between submissions.
type SessionStore interface {
	Save(*session.Session) error
	Clear() error
}

// Flow submits prompts on behalf of one signed-in participant.
type Flow struct {
	client  Submitter
	store   SessionStore
	session *session.Session
	log     *zap.Logger
}

// NewFlow creates a flow for sess. store may be nil, in which case the
// attempt count is not persisted.
func NewFlow(client Submitter, store SessionStore, sess *session.Session, log *zap.Logger) *Flow {
	if log == nil {
		log = zap.NewNop()
	}
	return &Flow{client: client, store: store, session: sess, log: log}
}

// Submit validates prompt, sends it, and returns the matched feedback.
//
// The session is cleared when the server reports the credentials as
// unauthorized. Every other failure leaves it intact.
func (f *Flow) Submit(ctx context.Context, prompt string) (*Feedback, error) {
	if err := ValidatePrompt(prompt); err != nil {
		return nil, err
	}
	if !f.session.Valid() {
		return nil, session.ErrNoSession
	}
	if f.session.Uses >= MaxAttempts {
		return nil, ErrNoAttemptsLeft
	}

	log := f.log.With(zap.String("participant", f.session.Name))
	res, err := f.client.Submit(ctx, f.session.Name, f.session.Password, prompt)
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		log.Info("credentials rejected, ending session")
		if f.store != nil {
			if cerr := f.store.Clear(); cerr != nil {
				log.Warn("clearing session", zap.Error(cerr))
			}
		}
		return nil, ErrSessionEnded
	case errors.Is(err, api.ErrAttemptsExhausted):
		f.recordUses(log, MaxAttempts)
		return nil, ErrNoAttemptsLeft
	case err != nil:
		return nil, fmt.Errorf("submitting prompt: %w", err)
	}

	f.recordUses(log, res.NumUses)
	fb := NewFeedback(res)
	log.Debug("prompt scored", zap.Int("correct", fb.Correct()), zap.Int("uses", fb.Uses))
	return fb, nil
}

func (f *Flow) recordUses(log *zap.Logger, uses int) {
	f.session.Uses = uses
	if f.store == nil {
		return
	}
	if err := f.store.Save(f.session); err != nil {
		log.Warn("saving attempt count", zap.Error(err))
	}
}
