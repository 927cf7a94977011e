package mailer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	mail "github.com/go-mail/mail/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/articletrack/articletrack_app/internal/core/domain"
	portssvc "github.com/articletrack/articletrack_app/internal/core/ports/services"
)

type mockUserReader struct {
	mock.Mock
}

func (m *mockUserReader) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserReader) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserReader) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func newTestMailer(userRepo *mockUserReader, send func(*mail.Message) error) *WorkflowMailer {
	return &WorkflowMailer{
		from:          "ArticleTrack <no-reply@articletrack.test>",
		subjectPrefix: "[ArticleTrack]",
		userRepo:      userRepo,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		queue:         make(chan portssvc.TransitionEvent, 4),
		closed:        make(chan struct{}),
		done:          make(chan struct{}),
		backoff:       time.Millisecond,
		send:          send,
	}
}

func acceptedEvent() portssvc.TransitionEvent {
	submitter := "user-submitter"
	return portssvc.TransitionEvent{
		Checkin: domain.Checkin{
			CheckinID:    "checkin-1",
			CollectionID: "coll-1",
			PackageName:  "pkg-2024-001.zip",
			SubmittedBy:  &submitter,
			Status:       domain.CheckinAccepted,
		},
		Action:      domain.ActionAccept,
		ActorName:   "Ana Editor",
		Description: domain.MsgWorkflowAccepted,
	}
}

func activeSubmitter() *domain.User {
	return &domain.User{
		UserID:   "user-submitter",
		Name:     "Sam Submitter",
		Email:    "sam@journal.test",
		IsActive: true,
	}
}

func TestDeliver_SendsToSubmitter(t *testing.T) {
	userRepo := new(mockUserReader)

	var sent *mail.Message
	m := newTestMailer(userRepo, func(msg *mail.Message) error {
		sent = msg
		return nil
	})

	userRepo.On("FindUserByID", mock.Anything, "user-submitter").Return(activeSubmitter(), nil)

	m.deliver(acceptedEvent())

	require.NotNil(t, sent, "expected a message to be sent")
	var buf bytes.Buffer
	_, err := sent.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "sam@journal.test")
	assert.Contains(t, raw, "pkg-2024-001.zip")
	assert.Contains(t, raw, "Ana Editor")
}

func TestDeliver_NoSubmitterSkipsSend(t *testing.T) {
	userRepo := new(mockUserReader)

	sendCalled := false
	m := newTestMailer(userRepo, func(msg *mail.Message) error {
		sendCalled = true
		return nil
	})

	event := acceptedEvent()
	event.Checkin.SubmittedBy = nil

	m.deliver(event)

	assert.False(t, sendCalled)
	userRepo.AssertNotCalled(t, "FindUserByID", mock.Anything, mock.Anything)
}

func TestDeliver_InactiveSubmitterSkipsSend(t *testing.T) {
	userRepo := new(mockUserReader)

	sendCalled := false
	m := newTestMailer(userRepo, func(msg *mail.Message) error {
		sendCalled = true
		return nil
	})

	submitter := activeSubmitter()
	submitter.IsActive = false
	userRepo.On("FindUserByID", mock.Anything, "user-submitter").Return(submitter, nil)

	m.deliver(acceptedEvent())

	assert.False(t, sendCalled)
}

func TestDeliver_RejectionIncludesCause(t *testing.T) {
	userRepo := new(mockUserReader)

	var sent *mail.Message
	m := newTestMailer(userRepo, func(msg *mail.Message) error {
		sent = msg
		return nil
	})

	userRepo.On("FindUserByID", mock.Anything, "user-submitter").Return(activeSubmitter(), nil)

	cause := "corrupt archive"
	event := acceptedEvent()
	event.Action = domain.ActionDoReject
	event.Description = domain.MsgWorkflowRejected
	event.Checkin.Status = domain.CheckinRejected
	event.Checkin.RejectedCause = &cause

	m.deliver(event)

	require.NotNil(t, sent)
	var buf bytes.Buffer
	_, err := sent.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "corrupt archive")
}

func TestSendWithRetry_RecoversAfterFailure(t *testing.T) {
	userRepo := new(mockUserReader)

	attempts := 0
	m := newTestMailer(userRepo, func(msg *mail.Message) error {
		attempts++
		if attempts < 3 {
			return errors.New("connection reset")
		}
		return nil
	})

	err := m.sendWithRetry(mail.NewMessage())

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestSendWithRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	userRepo := new(mockUserReader)

	attempts := 0
	m := newTestMailer(userRepo, func(msg *mail.Message) error {
		attempts++
		return errors.New("connection reset")
	})

	err := m.sendWithRetry(mail.NewMessage())

	require.Error(t, err)
	assert.Equal(t, sendAttempts, attempts)
}

func TestNotifyTransition_DropsWhenQueueFull(t *testing.T) {
	userRepo := new(mockUserReader)

	m := newTestMailer(userRepo, func(msg *mail.Message) error { return nil })
	m.queue = make(chan portssvc.TransitionEvent, 1)

	// No worker is running, so the second event has nowhere to go.
	m.NotifyTransition(context.Background(), acceptedEvent())
	m.NotifyTransition(context.Background(), acceptedEvent())

	assert.Equal(t, 1, len(m.queue))
}

func TestWorkerDrainsQueueOnClose(t *testing.T) {
	userRepo := new(mockUserReader)

	delivered := make(chan struct{}, 1)
	m := newTestMailer(userRepo, func(msg *mail.Message) error {
		delivered <- struct{}{}
		return nil
	})

	userRepo.On("FindUserByID", mock.Anything, "user-submitter").Return(activeSubmitter(), nil)

	go m.run()
	m.NotifyTransition(context.Background(), acceptedEvent())
	m.Close()

	select {
	case <-delivered:
	case <-time.After(time.Second):
		t.Fatal("worker did not deliver the queued event before Close returned")
	}
}

// A transition committed just as the server shuts down may call
// NotifyTransition concurrently with Close. The event is dropped, but the
// call must not panic and Close must stay idempotent.
func TestNotifyTransition_AfterCloseDoesNotPanic(t *testing.T) {
	userRepo := new(mockUserReader)

	m := newTestMailer(userRepo, func(msg *mail.Message) error { return nil })

	go m.run()
	m.Close()

	assert.NotPanics(t, func() {
		m.NotifyTransition(context.Background(), acceptedEvent())
	})
	assert.Equal(t, 0, len(m.queue))
	assert.NotPanics(t, m.Close)
}
