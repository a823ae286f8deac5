// Package planner implements the event planning operations: accounts,
// events, tasks, invites, RSVPs and notifications. Every mutation runs in a
// single store transaction.
package planner

import (
	"errors"
	"log/slog"
	"time"

	"github.com/narvanalabs/eventplanner/internal/models"
	"github.com/narvanalabs/eventplanner/internal/store"
)

// Error kinds. Use errors.Is to classify a returned error.
var (
	ErrValidation         = models.ErrValidation
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Error is a classified domain error with a client-facing message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func notFound(what string) error {
	return &Error{Kind: ErrNotFound, Message: what + " not found"}
}

func forbidden(msg string) error {
	return &Error{Kind: ErrForbidden, Message: msg}
}

func invalid(field, msg string) error {
	return &models.ValidationError{Field: field, Message: msg}
}

// translate maps store errors to domain errors. what names the entity for
// not-found messages.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return notFound(what)
	case errors.Is(err, store.ErrDuplicateUsername),
		errors.Is(err, store.ErrDuplicateEmail),
		errors.Is(err, store.ErrDuplicateInvite),
		errors.Is(err, store.ErrDuplicateRSVP):
		return &Error{Kind: ErrConflict, Message: err.Error()}
	}
	return err
}

// Service implements the planner operations over a store.
type Service struct {
	store  store.Store
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLocation sets the location used for dates given without a zone.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a planner service.
func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		loc:    time.UTC,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the location applied to naive dates.
func (s *Service) Location() *time.Location {
	return s.loc
}
