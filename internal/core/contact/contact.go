// Package contact implements the contact-form submission flow. Outcomes are
// reported to the user through toast notifications.
package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/toaster/internal/core/logging"
	"github.com/colonyops/toaster/internal/core/toast"
	"github.com/colonyops/toaster/internal/core/validate"
)

// Toast copy shown after a submission.
const (
	SuccessTitle  = "Message sent successfully!"
	SuccessDetail = "We'll get back to you within 24 hours."
	FailureTitle  = "Failed to send message"
)

// Interests lists the accepted values for Form.Interest.
var Interests = []string{"demo", "lms", "automation", "ai", "pricing", "partnership", "support", "other"}

// Form is a contact request.
type Form struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Company  string `json:"company" validate:"required,min=2"`
	Interest string `json:"interest" validate:"required,oneof=demo lms automation ai pricing partnership support other"`
	Message  string `json:"message" validate:"required,min=10"`
}

// FieldError describes one invalid form field.
type FieldError = validate.FieldError

// ValidationError is returned when a Form fails validation. No toast is
// enqueued for it; the caller reports the fields inline.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	return "invalid contact form: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate checks the form rules.
func (f Form) Validate() error {
	fields, err := validate.Struct(f)
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Submitter delivers a validated form.
type Submitter interface {
	Submit(ctx context.Context, f Form) error
}

// Enqueuer is the part of the toast store used by the service.
type Enqueuer interface {
	Enqueue(in toast.Input) (string, error)
}

// Service validates and submits contact forms.
type Service struct {
	toasts       Enqueuer
	submitter    Submitter
	supportEmail string
	log          zerolog.Logger
}

// NewService creates a contact service that reports outcomes on toasts.
func NewService(toasts Enqueuer, submitter Submitter, supportEmail string) *Service {
	return &Service{
		toasts:       toasts,
		submitter:    submitter,
		supportEmail: supportEmail,
		log:          logging.Component("contact"),
	}
}

// FailureDetail returns the detail line of the failure toast.
func (s *Service) FailureDetail() string {
	return "Please try again or contact us directly at " + s.supportEmail
}

// Submit validates and submits f. On success it enqueues the success toast
// and returns its id. On submitter failure it enqueues the error toast and
// returns its id along with the wrapped submitter error.
func (s *Service) Submit(ctx context.Context, f Form) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}

	if err := s.submitter.Submit(ctx, f); err != nil {
		s.log.Error().Ctx(ctx).Err(err).Str("interest", f.Interest).Msg("contact submission failed")

		id, qerr := s.toasts.Enqueue(toast.Error(FailureTitle, s.FailureDetail()))
		if qerr != nil {
			return "", errors.Join(fmt.Errorf("submit contact form: %w", err), qerr)
		}
		return id, fmt.Errorf("submit contact form: %w", err)
	}

	id, err := s.toasts.Enqueue(toast.Success(SuccessTitle, SuccessDetail))
	if err != nil {
		return "", fmt.Errorf("enqueue success toast: %w", err)
	}

	s.log.Info().
		Ctx(ctx).
		Str("interest", f.Interest).
		Str("toast_id", id).
		Msg("contact form submitted")

	return id, nil
}

// LogSubmitter accepts every form after Delay and logs it. It stands in for
// a real delivery backend.
type LogSubmitter struct {
	Delay time.Duration
}

func (l LogSubmitter) Submit(ctx context.Context, f Form) error {
	if l.Delay > 0 {
		timer := time.NewTimer(l.Delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	logging.Component("contact").Info().
		Ctx(ctx).
		Str("name", f.Name).
		Str("email", f.Email).
		Str("company", f.Company).
		Str("interest", f.Interest).
		Int("message_len", len(f.Message)).
		Msg("contact form received")

	return nil
}
