package registrations

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sra-webinar/backend/internal/apierr"
	"github.com/sra-webinar/backend/internal/models"
	"github.com/sra-webinar/backend/internal/zoom"
	"github.com/sra-webinar/backend/pkg/queue"
)

var _ Store = &mockStore{}

type mockStore struct {
	FindFunc func(ctx context.Context, webinarID, email, firstName, lastName string) (*models.Registrant, error)
	SaveFunc func(ctx context.Context, reg *models.Registrant) (*models.Registrant, error)

	findCalls int
	saveCalls int
}

func (m *mockStore) Find(ctx context.Context, webinarID, email, firstName, lastName string) (*models.Registrant, error) {
	m.findCalls++
	if m.FindFunc != nil {
		return m.FindFunc(ctx, webinarID, email, firstName, lastName)
	}
	return nil, nil
}

func (m *mockStore) Save(ctx context.Context, reg *models.Registrant) (*models.Registrant, error) {
	m.saveCalls++
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, reg)
	}
	reg.ID = uuid.New()
	reg.CreatedAt = time.Now()
	return reg, nil
}

var _ TokenIssuer = &mockIssuer{}

type mockIssuer struct {
	IssueFunc func(ttl time.Duration) (string, error)
	calls     int
}

func (m *mockIssuer) Issue(ttl time.Duration) (string, error) {
	m.calls++
	if m.IssueFunc != nil {
		return m.IssueFunc(ttl)
	}
	return "test-token", nil
}

var _ UpstreamClient = &mockUpstream{}

type mockUpstream struct {
	GetWebinarFunc    func(ctx context.Context, id, token string) (*zoom.Webinar, error)
	AddRegistrantFunc func(ctx context.Context, id string, reg zoom.RegistrantRequest, token string) (*zoom.RegistrationResponse, error)

	getCalls int
	addCalls int
}

func (m *mockUpstream) GetWebinar(ctx context.Context, id, token string) (*zoom.Webinar, error) {
	m.getCalls++
	return m.GetWebinarFunc(ctx, id, token)
}

func (m *mockUpstream) AddRegistrant(ctx context.Context, id string, reg zoom.RegistrantRequest, token string) (*zoom.RegistrationResponse, error) {
	m.addCalls++
	return m.AddRegistrantFunc(ctx, id, reg, token)
}

var _ ConfirmationQueue = &mockQueue{}

type mockQueue struct {
	EnqueueFunc func(ctx context.Context, payload queue.ConfirmationEmailPayload) error
	calls       int
	last        queue.ConfirmationEmailPayload
}

func (m *mockQueue) EnqueueConfirmationEmail(ctx context.Context, payload queue.ConfirmationEmailPayload) error {
	m.calls++
	m.last = payload
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(ctx, payload)
	}
	return nil
}

var startTime = time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)

func openWebinar() *zoom.Webinar {
	return &zoom.Webinar{
		Topic:     "Go Deep Dive",
		StartTime: startTime,
		Settings:  zoom.WebinarSettings{ApprovalType: 0},
	}
}

func createdResponse() *zoom.RegistrationResponse {
	return &zoom.RegistrationResponse{
		RegistrantID: "reg-1",
		JoinURL:      "https://zoom.us/j/1",
		StartTime:    startTime,
		Topic:        "Go Deep Dive",
	}
}

func TestDescribeMalformedIDSkipsNetwork(t *testing.T) {
	issuer := &mockIssuer{}
	upstream := &mockUpstream{}
	svc := NewService(&mockStore{}, issuer, upstream, nil, 0, nil)

	_, err := svc.Describe(context.Background(), "5812345678")
	require.Error(t, err)

	var vErr *apierr.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "Webinar ID must be 11 digits long", vErr.Message)
	assert.Zero(t, issuer.calls)
	assert.Zero(t, upstream.getCalls)
}

func TestDescribeReturnsDescriptor(t *testing.T) {
	upstream := &mockUpstream{
		GetWebinarFunc: func(ctx context.Context, id, token string) (*zoom.Webinar, error) {
			assert.Equal(t, "58123456789", id)
			assert.Equal(t, "test-token", token)
			return openWebinar(), nil
		},
	}
	svc := NewService(&mockStore{}, &mockIssuer{}, upstream, nil, 0, nil)

	d, err := svc.Describe(context.Background(), "58123456789")
	require.NoError(t, err)
	assert.Equal(t, "58123456789", d.ID)
	assert.Equal(t, "Go Deep Dive", d.Topic)
	assert.Equal(t, startTime, d.StartTime)
	assert.True(t, d.RegistrationOpen)
}

func TestDescribeRegistrationClosed(t *testing.T) {
	upstream := &mockUpstream{
		GetWebinarFunc: func(ctx context.Context, id, token string) (*zoom.Webinar, error) {
			return &zoom.Webinar{
				Topic:    "Open Hours",
				Settings: zoom.WebinarSettings{ApprovalType: zoom.ApprovalTypeNone},
			}, nil
		},
	}
	svc := NewService(&mockStore{}, &mockIssuer{}, upstream, nil, 0, nil)

	_, err := svc.Describe(context.Background(), "58123456789")
	require.Error(t, err)

	var cErr *apierr.RegistrationClosedError
	require.True(t, errors.As(err, &cErr))
	assert.Zero(t, upstream.addCalls)

	status, _ := apierr.Translate(err)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRegisterMalformedIDSkipsStoreAndNetwork(t *testing.T) {
	store := &mockStore{}
	issuer := &mockIssuer{}
	upstream := &mockUpstream{}
	svc := NewService(store, issuer, upstream, nil, 0, nil)

	_, err := svc.Register(context.Background(), RegisterInput{
		WebinarID: "5812345678",
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
	})
	require.Error(t, err)

	var vErr *apierr.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Zero(t, store.findCalls)
	assert.Zero(t, issuer.calls)
	assert.Zero(t, upstream.addCalls)
}

func TestRegisterCacheHitSkipsUpstream(t *testing.T) {
	stored := &models.Registrant{
		ID:           uuid.New(),
		WebinarID:    "58123456789",
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        "jane@example.com",
		Topic:        "Go Deep Dive",
		JoinURL:      "https://zoom.us/j/1",
		StartTime:    startTime,
		RegistrantID: "reg-1",
	}
	store := &mockStore{
		FindFunc: func(ctx context.Context, webinarID, email, firstName, lastName string) (*models.Registrant, error) {
			assert.Equal(t, "58123456789", webinarID)
			assert.Equal(t, "jane@example.com", email)
			assert.Equal(t, "Jane", firstName)
			assert.Equal(t, "Doe", lastName)
			return stored, nil
		},
	}
	issuer := &mockIssuer{}
	upstream := &mockUpstream{}
	emails := &mockQueue{}
	svc := NewService(store, issuer, upstream, emails, 0, nil)

	got, err := svc.Register(context.Background(), RegisterInput{
		WebinarID: "58123456789",
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
	})
	require.NoError(t, err)

	assert.Same(t, stored, got)
	assert.Zero(t, issuer.calls)
	assert.Zero(t, upstream.addCalls)
	assert.Zero(t, store.saveCalls)
	assert.Zero(t, emails.calls, "cache hit must not re-send confirmation")
}

func TestRegisterCacheMissCreatesAndPersists(t *testing.T) {
	store := &mockStore{}
	upstream := &mockUpstream{
		AddRegistrantFunc: func(ctx context.Context, id string, reg zoom.RegistrantRequest, token string) (*zoom.RegistrationResponse, error) {
			assert.Equal(t, "58123456789", id)
			assert.Equal(t, "test-token", token)
			assert.Equal(t, zoom.RegistrantRequest{
				Email:     "jane@example.com",
				FirstName: "Jane",
				LastName:  "Doe",
			}, reg)
			return createdResponse(), nil
		},
	}
	emails := &mockQueue{}
	svc := NewService(store, &mockIssuer{}, upstream, emails, 0, nil)

	got, err := svc.Register(context.Background(), RegisterInput{
		WebinarID: "58123456789",
		FirstName: "  Jane ",
		LastName:  " Doe ",
		Email:     "jane@example.com",
	})
	require.NoError(t, err)

	// response fields mirror upstream exactly
	assert.Equal(t, "reg-1", got.RegistrantID)
	assert.Equal(t, "https://zoom.us/j/1", got.JoinURL)
	assert.Equal(t, "Go Deep Dive", got.Topic)
	assert.Equal(t, startTime, got.StartTime)
	assert.Equal(t, "Jane", got.FirstName)
	assert.Equal(t, "Doe", got.LastName)

	assert.Equal(t, 1, upstream.addCalls)
	assert.Equal(t, 1, store.saveCalls)
	assert.Equal(t, 1, emails.calls)
	assert.Equal(t, "jane@example.com", emails.last.RecipientEmail)
	assert.Equal(t, "https://zoom.us/j/1", emails.last.JoinURL)
}

func TestRegisterTwiceCallsUpstreamOnce(t *testing.T) {
	var saved *models.Registrant
	store := &mockStore{
		FindFunc: func(ctx context.Context, webinarID, email, firstName, lastName string) (*models.Registrant, error) {
			return saved, nil
		},
		SaveFunc: func(ctx context.Context, reg *models.Registrant) (*models.Registrant, error) {
			reg.ID = uuid.New()
			reg.CreatedAt = time.Now()
			saved = reg
			return reg, nil
		},
	}
	upstream := &mockUpstream{
		AddRegistrantFunc: func(ctx context.Context, id string, reg zoom.RegistrantRequest, token string) (*zoom.RegistrationResponse, error) {
			return createdResponse(), nil
		},
	}
	svc := NewService(store, &mockIssuer{}, upstream, nil, 0, nil)

	in := RegisterInput{
		WebinarID: "12345678901",
		FirstName: "A",
		LastName:  "B",
		Email:     "a@b.com",
	}
	first, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	second, err := svc.Register(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 1, upstream.addCalls)
	assert.Equal(t, first.RegistrantID, second.RegistrantID)
	assert.Equal(t, first.JoinURL, second.JoinURL)
}

func TestRegisterUpstreamFailurePropagates(t *testing.T) {
	store := &mockStore{}
	upstream := &mockUpstream{
		AddRegistrantFunc: func(ctx context.Context, id string, reg zoom.RegistrantRequest, token string) (*zoom.RegistrationResponse, error) {
			return nil, &apierr.UpstreamError{Status: http.StatusConflict, Body: []byte(`{"reason":"duplicate"}`)}
		},
	}
	svc := NewService(store, &mockIssuer{}, upstream, nil, 0, nil)

	_, err := svc.Register(context.Background(), RegisterInput{
		WebinarID: "58123456789",
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
	})
	require.Error(t, err)

	status, body := apierr.Translate(err)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, `{"reason":"duplicate"}`, string(body.([]byte)))
	assert.Zero(t, store.saveCalls, "nothing is persisted on upstream failure")
}

func TestRegisterQueueFailureDoesNotFailRegistration(t *testing.T) {
	upstream := &mockUpstream{
		AddRegistrantFunc: func(ctx context.Context, id string, reg zoom.RegistrantRequest, token string) (*zoom.RegistrationResponse, error) {
			return createdResponse(), nil
		},
	}
	emails := &mockQueue{
		EnqueueFunc: func(ctx context.Context, payload queue.ConfirmationEmailPayload) error {
			return errors.New("redis down")
		},
	}
	svc := NewService(&mockStore{}, &mockIssuer{}, upstream, emails, 0, nil)

	got, err := svc.Register(context.Background(), RegisterInput{
		WebinarID: "58123456789",
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "reg-1", got.RegistrantID)
	assert.Equal(t, 1, emails.calls)
}

func TestRegisterTokenIssueFailure(t *testing.T) {
	issuer := &mockIssuer{
		IssueFunc: func(ttl time.Duration) (string, error) {
			return "", apierr.NewConfigurationError("zoom: api key and secret required")
		},
	}
	upstream := &mockUpstream{}
	svc := NewService(&mockStore{}, issuer, upstream, nil, 0, nil)

	_, err := svc.Register(context.Background(), RegisterInput{
		WebinarID: "58123456789",
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
	})
	require.Error(t, err)

	var cfgErr *apierr.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
	assert.Zero(t, upstream.addCalls)
}
