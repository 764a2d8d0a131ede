package signup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"
)

var (
	// ErrInvalid is returned by Submit when any field fails validation.
	ErrInvalid = errors.New("signup draft is invalid")
	// ErrBusy is returned by Submit while another submission is in flight.
	ErrBusy = errors.New("signup submission already in progress")
	// ErrNotFinalStep is returned by Submit before the last step is reached.
	ErrNotFinalStep = errors.New("signup can only be submitted from the last step")
	// ErrCompleted is returned by Submit once the draft has been accepted.
	ErrCompleted = errors.New("signup already completed")
)

// fallbackSubmitMessage is shown when the collaborator fails without a message.
const fallbackSubmitMessage = "Something went wrong"

// Errors maps a field to its current validation message. A missing entry
// means the field is valid or has not been validated yet.
type Errors map[Field]string

// Submitter sends a completed draft to the account service.
type Submitter interface {
	Submit(ctx context.Context, d Draft) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, d Draft) error

func (f SubmitterFunc) Submit(ctx context.Context, d Draft) error { return f(ctx, d) }

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the clock used by the date-of-birth rules.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLogger sets the logger for submission outcomes. Field values are never
// logged.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// OnComplete registers a hook called with the submitted draft after the
// collaborator accepts it.
func OnComplete(fn func(Draft)) Option {
	return func(c *Controller) { c.onComplete = fn }
}

// Controller holds a signup draft and walks it through the three steps.
// It is safe for concurrent use.
type Controller struct {
	mu        sync.Mutex
	draft     Draft
	step      int
	errs      Errors
	submitErr string
	busy      bool
	completed bool

	submitter  Submitter
	now        func() time.Time
	log        *slog.Logger
	onComplete func(Draft)
}

// New creates a controller on the first step with an empty draft.
func New(s Submitter, opts ...Option) *Controller {
	c := &Controller{
		step:      FirstStep,
		errs:      Errors{},
		submitter: s,
		now:       time.Now,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Set normalizes and stores a field value. A field that currently carries an
// error is re-validated so the error clears as soon as the value passes.
func (c *Controller) Set(f Field, v string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.draft.Set(f, Normalize(f, v))
	if _, ok := c.errs[f]; ok {
		c.validate(f)
	}
	// confirmation depends on the password it confirms
	if f == FieldPassword {
		if _, ok := c.errs[FieldConfirmPassword]; ok {
			c.validate(FieldConfirmPassword)
		}
	}
}

// Advance validates the current step's fields and moves forward when they
// all pass. It never moves past the last step.
func (c *Controller) Advance() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ok := c.validate(stepFields[c.step]...)
	if ok && c.step < LastStep {
		c.step++
	}
	return ok
}

// Retreat moves back one step without validating. Errors are kept.
func (c *Controller) Retreat() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step > FirstStep {
		c.step--
	}
}

// Submit re-validates every field and hands the normalized draft to the
// submitter. On failure the submitter's message becomes the submission
// error and the draft and step are left untouched.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.completed {
		c.mu.Unlock()
		return ErrCompleted
	}
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.step != LastStep {
		c.mu.Unlock()
		return ErrNotFinalStep
	}
	if !c.validate(AllFields()...) {
		c.mu.Unlock()
		return ErrInvalid
	}
	c.busy = true
	c.submitErr = ""
	d := c.draft.Normalized()
	submitter := c.submitter
	c.mu.Unlock()

	err := submitter.Submit(ctx, d)

	c.mu.Lock()
	c.busy = false
	if err != nil {
		c.submitErr = submissionMessage(err)
		c.mu.Unlock()
		c.log.Warn("signup rejected", "err", err)
		return fmt.Errorf("submit signup: %w", err)
	}
	c.completed = true
	hook := c.onComplete
	c.mu.Unlock()

	c.log.Info("signup submitted")
	if hook != nil {
		hook(d)
	}
	return nil
}

// Step returns the current step, 1 through 3.
func (c *Controller) Step() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Value returns the stored (normalized) value of f.
func (c *Controller) Value(f Field) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Get(f)
}

// Draft returns a copy of the current draft.
func (c *Controller) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Errors returns a copy of the current validation state.
func (c *Controller) Errors() Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.errs)
}

// Error returns the current message for f, or "".
func (c *Controller) Error(f Field) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errs[f]
}

// SubmitError returns the last submission failure message, or "".
func (c *Controller) SubmitError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitErr
}

// Busy reports whether a submission is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Completed reports whether the draft has been accepted.
func (c *Controller) Completed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completed
}

// validate recomputes the errors for fields and reports whether all passed.
// Callers hold c.mu.
func (c *Controller) validate(fields ...Field) bool {
	now := c.now()
	ok := true
	for _, f := range fields {
		if msg := Validate(f, c.draft, now); msg != "" {
			c.errs[f] = msg
			ok = false
			continue
		}
		delete(c.errs, f)
	}
	return ok
}

func submissionMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallbackSubmitMessage
}
