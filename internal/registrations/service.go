// Package registrations implements the registration workflow: input
// validation, the idempotent create-or-fetch against the local store, and
// the HTTP surface for the registration pages.
package registrations

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sra-webinar/backend/internal/apierr"
	"github.com/sra-webinar/backend/internal/models"
	"github.com/sra-webinar/backend/internal/zoom"
	"github.com/sra-webinar/backend/pkg/queue"
)

// TokenIssuer mints a short-lived credential for one upstream call.
type TokenIssuer interface {
	Issue(ttl time.Duration) (string, error)
}

// UpstreamClient is the slice of the Zoom API the workflow uses. The token
// is an explicit parameter on every call.
type UpstreamClient interface {
	GetWebinar(ctx context.Context, id, token string) (*zoom.Webinar, error)
	AddRegistrant(ctx context.Context, id string, reg zoom.RegistrantRequest, token string) (*zoom.RegistrationResponse, error)
}

// Store is the persistence contract for completed registrations.
type Store interface {
	Find(ctx context.Context, webinarID, email, firstName, lastName string) (*models.Registrant, error)
	Save(ctx context.Context, reg *models.Registrant) (*models.Registrant, error)
}

// ConfirmationQueue enqueues confirmation email jobs.
type ConfirmationQueue interface {
	EnqueueConfirmationEmail(ctx context.Context, payload queue.ConfirmationEmailPayload) error
}

// RegisterInput is the registrant data submitted by a visitor.
type RegisterInput struct {
	WebinarID string
	FirstName string
	LastName  string
	Email     string
}

// Service orchestrates the two public operations: describing a webinar for
// the registration page and registering a visitor.
type Service struct {
	store    Store
	tokens   TokenIssuer
	upstream UpstreamClient
	emails   ConfirmationQueue // optional
	tokenTTL time.Duration
	logger   *zap.Logger
}

// NewService creates the registration service. emails may be nil to skip
// confirmation jobs.
func NewService(store Store, tokens TokenIssuer, upstream UpstreamClient, emails ConfirmationQueue, tokenTTL time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tokenTTL <= 0 {
		tokenTTL = zoom.DefaultTokenTTL
	}
	return &Service{
		store:    store,
		tokens:   tokens,
		upstream: upstream,
		emails:   emails,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Describe validates the webinar ID and fetches a fresh descriptor from
// upstream. A webinar that does not require registration is an error: there
// is nothing to register for.
func (s *Service) Describe(ctx context.Context, webinarID string) (*models.WebinarDescriptor, error) {
	if err := ValidateWebinarID(webinarID); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(s.tokenTTL)
	if err != nil {
		return nil, err
	}
	w, err := s.upstream.GetWebinar(ctx, webinarID, token)
	if err != nil {
		return nil, err
	}
	if !w.RegistrationOpen() {
		return nil, &apierr.RegistrationClosedError{WebinarID: webinarID}
	}

	return &models.WebinarDescriptor{
		ID:               webinarID,
		Topic:            w.Topic,
		StartTime:        w.StartTime,
		RegistrationOpen: true,
	}, nil
}

// Register returns the stored registrant when the identity already
// registered, otherwise creates one upstream and persists the result. The
// upstream call and the store write each happen at most once per invocation.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.Registrant, error) {
	in = trimInput(in)
	if err := ValidateRegistration(in); err != nil {
		return nil, err
	}

	existing, err := s.store.Find(ctx, in.WebinarID, in.Email, in.FirstName, in.LastName)
	if err != nil {
		return nil, &apierr.InternalError{Cause: err}
	}
	if existing != nil {
		return existing, nil
	}

	token, err := s.tokens.Issue(s.tokenTTL)
	if err != nil {
		return nil, err
	}
	resp, err := s.upstream.AddRegistrant(ctx, in.WebinarID, zoom.RegistrantRequest{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}, token)
	if err != nil {
		return nil, err
	}

	saved, err := s.store.Save(ctx, &models.Registrant{
		WebinarID:    in.WebinarID,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Topic:        resp.Topic,
		JoinURL:      resp.JoinURL,
		StartTime:    resp.StartTime,
		RegistrantID: resp.RegistrantID,
	})
	if err != nil {
		return nil, &apierr.InternalError{Cause: err}
	}

	s.enqueueConfirmation(ctx, saved)
	return saved, nil
}

// enqueueConfirmation is best effort: a queue failure is logged and never
// fails a registration that already succeeded upstream.
func (s *Service) enqueueConfirmation(ctx context.Context, reg *models.Registrant) {
	if s.emails == nil {
		return
	}
	err := s.emails.EnqueueConfirmationEmail(ctx, queue.ConfirmationEmailPayload{
		RegistrationID: reg.ID,
		WebinarID:      reg.WebinarID,
		RecipientEmail: reg.Email,
		Topic:          reg.Topic,
		JoinURL:        reg.JoinURL,
		StartTime:      reg.StartTime,
	})
	if err != nil {
		s.logger.Warn("enqueue confirmation email failed",
			zap.Error(err),
			zap.String("webinar_id", reg.WebinarID),
			zap.String("registration_id", reg.ID.String()),
		)
	}
}
