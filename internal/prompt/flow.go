package prompt

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/zarlcorp/zsignup/internal/signup"
)

var hints = map[signup.Field]string{
	signup.FieldPassword:    "8+ characters with a number, upper and lower case letters and a symbol",
	signup.FieldPhoneNumber: "international format, e.g. +14155552671",
	signup.FieldDateOfBirth: "YYYY-MM-DD",
	signup.FieldSSN:         "9 digits, no dashes",
	signup.FieldZipCode:     "5 digits",
}

var secret = map[signup.Field]bool{
	signup.FieldPassword:        true,
	signup.FieldConfirmPassword: true,
	signup.FieldSSN:             true,
}

// Flow drives a signup controller through the line prompts.
type Flow struct {
	ctl    *signup.Controller
	driver Driver
	now    func() time.Time
}

// Option configures a Flow.
type Option func(*Flow)

// WithClock sets the clock used for inline date checks.
func WithClock(now func() time.Time) Option {
	return func(f *Flow) { f.now = now }
}

// NewFlow creates a flow asking through d.
func NewFlow(ctl *signup.Controller, d Driver, opts ...Option) *Flow {
	f := &Flow{ctl: ctl, driver: d, now: time.Now}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run asks every step's fields, then submits. A rejected submission can be
// edited and retried. Run returns ErrAborted if the user quits.
func (f *Flow) Run(ctx context.Context) error {
	for {
		step := f.ctl.Step()
		if err := f.driver.Info(ctx, fmt.Sprintf("Step %d of %d", step, signup.LastStep)); err != nil {
			return err
		}

		for _, field := range signup.Fields(step) {
			if err := f.ask(ctx, field); err != nil {
				return err
			}
		}

		if step < signup.LastStep {
			if !f.ctl.Advance() {
				if err := f.report(ctx); err != nil {
					return err
				}
			}
			continue
		}

		done, err := f.submit(ctx)
		if done || err != nil {
			return err
		}
	}
}

// submit confirms and submits the draft. It reports done once the draft is
// accepted; otherwise the controller is left on the step to re-ask.
func (f *Flow) submit(ctx context.Context) (bool, error) {
	ok, err := f.driver.Confirm(ctx, ConfirmConfig{Message: "Create account?", Default: true})
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrAborted
	}

	err = f.ctl.Submit(ctx)
	switch {
	case err == nil:
		d := f.ctl.Draft()
		return true, f.driver.Info(ctx, fmt.Sprintf("account created for %s", d.Email))

	case errors.Is(err, signup.ErrInvalid):
		if err := f.report(ctx); err != nil {
			return false, err
		}
		f.retreatTo(earliestInvalid(f.ctl.Errors()))
		return false, nil
	}

	if ierr := f.driver.Info(ctx, f.ctl.SubmitError()); ierr != nil {
		return false, ierr
	}
	retry, cerr := f.driver.Confirm(ctx, ConfirmConfig{Message: "Edit and try again?", Default: true})
	if cerr != nil {
		return false, cerr
	}
	if !retry {
		return false, err
	}
	f.retreatTo(signup.FirstStep)
	return false, nil
}

func (f *Flow) ask(ctx context.Context, field signup.Field) error {
	cfg := InputConfig{
		Message:   field.Label(),
		Help:      hints[field],
		Validator: f.validator(field),
	}

	var v string
	var err error
	switch {
	case field == signup.FieldState:
		v, err = f.askState(ctx)
	case secret[field]:
		v, err = f.driver.Password(ctx, cfg)
	default:
		cfg.Default = f.ctl.Value(field)
		v, err = f.driver.Input(ctx, cfg)
	}
	if err != nil {
		return err
	}

	f.ctl.Set(field, v)
	return nil
}

func (f *Flow) askState(ctx context.Context) (string, error) {
	codes := signup.StateCodes()
	idx, err := f.driver.Select(ctx, SelectConfig{
		Message:      signup.FieldState.Label(),
		Options:      codes,
		DefaultIndex: slices.Index(codes, f.ctl.Value(signup.FieldState)),
		PageSize:     10,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(codes) {
		return "", fmt.Errorf("state selection out of range: %d", idx)
	}
	return codes[idx], nil
}

// validator checks a candidate value against the rest of the draft so the
// driver can re-ask before the value is stored.
func (f *Flow) validator(field signup.Field) func(string) error {
	return func(v string) error {
		d := f.ctl.Draft()
		d.Set(field, v)
		if msg := signup.Validate(field, d, f.now()); msg != "" {
			return errors.New(msg)
		}
		return nil
	}
}

func (f *Flow) report(ctx context.Context) error {
	errs := f.ctl.Errors()
	for _, field := range signup.AllFields() {
		msg, ok := errs[field]
		if !ok {
			continue
		}
		if err := f.driver.Info(ctx, fmt.Sprintf("%s: %s", field.Label(), msg)); err != nil {
			return err
		}
	}
	return nil
}

func (f *Flow) retreatTo(step int) {
	for f.ctl.Step() > step {
		f.ctl.Retreat()
	}
}

func earliestInvalid(errs signup.Errors) int {
	step := signup.LastStep
	for field := range errs {
		if s := signup.StepOf(field); s != 0 && s < step {
			step = s
		}
	}
	return step
}
