// Package contact validates contact form submissions and hands them to a
// relay. Nothing is stored.
package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidForm   = errors.New("invalid contact form")
	ErrNotConfigured = errors.New("contact relay not configured")
	ErrSend          = errors.New("send contact message failed")
)

// Form is what the visitor typed.
type Form struct {
	Name    string `form:"name" validate:"required,max=200"`
	Email   string `form:"email" validate:"required,email,max=320"`
	Message string `form:"message" validate:"required,max=5000"`
}

var validate = validator.New()

// Normalize trims surrounding whitespace from every field.
func (f Form) Normalize() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Message: strings.TrimSpace(f.Message),
	}
}

// Validate checks the form after normalising it.
func (f Form) Validate() error {
	if err := validate.Struct(f.Normalize()); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s", ErrInvalidForm, strings.ToLower(verrs[0].Field()))
		}
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	return nil
}

// Relay delivers a validated form somewhere a human will read it.
type Relay interface {
	Send(ctx context.Context, f Form) error
}

// NopRelay is used when no relay is configured.
type NopRelay struct{}

func (NopRelay) Send(context.Context, Form) error { return ErrNotConfigured }

// Submit validates f and sends it through r.
func Submit(ctx context.Context, r Relay, f Form) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if r == nil {
		return ErrNotConfigured
	}
	return r.Send(ctx, f.Normalize())
}
