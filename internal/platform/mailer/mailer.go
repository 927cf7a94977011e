package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mail "github.com/go-mail/mail/v2"

	"github.com/articletrack/articletrack_app/internal/core/domain"
	portsrepo "github.com/articletrack/articletrack_app/internal/core/ports/repositories"
	portssvc "github.com/articletrack/articletrack_app/internal/core/ports/services"
	"github.com/articletrack/articletrack_app/internal/platform/config"
)

const (
	// queueSize bounds the number of pending notifications. When the queue is
	// full new events are dropped rather than blocking the workflow.
	queueSize = 64

	// deliveryTimeout bounds recipient resolution plus the SMTP round trip
	// for a single event.
	deliveryTimeout = 15 * time.Second

	// sendAttempts is the number of delivery tries per message.
	sendAttempts = 3
)

// WorkflowMailer delivers workflow transition e-mails to the submitter of the
// affected checkin over SMTP. Events are queued and sent by a single
// background worker; NotifyTransition never blocks on network I/O.
type WorkflowMailer struct {
	from          string
	subjectPrefix string
	userRepo      portsrepo.UserReader
	logger        *slog.Logger

	queue     chan portssvc.TransitionEvent
	closed    chan struct{}
	closeOnce sync.Once
	done      chan struct{}
	backoff   time.Duration
	send      func(msg *mail.Message) error
}

// Ensure WorkflowMailer implements portssvc.WorkflowNotifier
var _ portssvc.WorkflowNotifier = (*WorkflowMailer)(nil)

// NewWorkflowMailer creates a WorkflowMailer from the SMTP settings in cfg and
// starts its delivery worker. Callers should Close it on shutdown to flush the
// queue.
func NewWorkflowMailer(cfg *config.Config, userRepo portsrepo.UserReader, logger *slog.Logger) *WorkflowMailer {
	dialer := mail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	dialer.StartTLSPolicy = mail.MandatoryStartTLS
	dialer.TLSConfig = &tls.Config{ServerName: cfg.SMTPHost}
	dialer.Timeout = deliveryTimeout

	m := &WorkflowMailer{
		from:          cfg.SMTPFrom,
		subjectPrefix: cfg.SMTPSubjectPrefix,
		userRepo:      userRepo,
		logger:        logger,
		queue:         make(chan portssvc.TransitionEvent, queueSize),
		closed:        make(chan struct{}),
		done:          make(chan struct{}),
		backoff:       2 * time.Second,
		send: func(msg *mail.Message) error {
			return dialer.DialAndSend(msg)
		},
	}
	go m.run()
	return m
}

// NotifyTransition queues the event for delivery. When the queue is full, or
// the mailer is shutting down, the event is dropped with a warning; a
// workflow transition must never wait on the mail server. The queue channel
// itself is never closed, so a send racing Close cannot panic.
func (m *WorkflowMailer) NotifyTransition(_ context.Context, event portssvc.TransitionEvent) {
	select {
	case <-m.closed:
		m.logger.Warn("Mailer is shutting down, dropping transition event",
			slog.String("checkin_id", event.Checkin.CheckinID),
			slog.String("action", string(event.Action)))
		return
	default:
	}
	select {
	case m.queue <- event:
	default:
		m.logger.Warn("Notification queue full, dropping transition event",
			slog.String("checkin_id", event.Checkin.CheckinID),
			slog.String("action", string(event.Action)))
	}
}

// Close stops accepting events and waits for the worker to drain the queue.
// Safe to call more than once.
func (m *WorkflowMailer) Close() {
	m.closeOnce.Do(func() { close(m.closed) })
	<-m.done
}

func (m *WorkflowMailer) run() {
	defer close(m.done)
	for {
		select {
		case event := <-m.queue:
			m.deliver(event)
		case <-m.closed:
			// Drain what was queued before shutdown began.
			for {
				select {
				case event := <-m.queue:
					m.deliver(event)
				default:
					return
				}
			}
		}
	}
}

// deliver resolves the submitter for one event and sends the e-mail. Checkins
// without a recorded submitter produce no notification. Errors are logged and
// swallowed; delivery is best effort.
func (m *WorkflowMailer) deliver(event portssvc.TransitionEvent) {
	logger := m.logger.With(
		slog.String("checkin_id", event.Checkin.CheckinID),
		slog.String("collection_id", event.Checkin.CollectionID),
		slog.String("action", string(event.Action)),
	)

	if event.Checkin.SubmittedBy == nil {
		logger.Info("Checkin has no submitter, skipping notification")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	submitter, err := m.userRepo.FindUserByID(ctx, *event.Checkin.SubmittedBy)
	if err != nil {
		logger.Error("Failed to resolve notification recipient",
			slog.String("user_id", *event.Checkin.SubmittedBy),
			slog.String("error", err.Error()))
		return
	}
	if !submitter.Active() || submitter.Email == "" {
		logger.Info("Submitter cannot receive notifications, skipping",
			slog.String("user_id", submitter.UserID))
		return
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", submitter.Email)
	msg.SetHeader("Subject", m.subject(event))
	msg.SetBody("text/html", body(event))

	if err := m.sendWithRetry(msg); err != nil {
		logger.Error("Failed to send transition notification", slog.String("error", err.Error()))
		return
	}
	logger.Info("Transition notification sent", slog.String("recipient", submitter.Email))
}

// sendWithRetry tries the SMTP delivery up to sendAttempts times with linear
// backoff between tries.
func (m *WorkflowMailer) sendWithRetry(msg *mail.Message) error {
	var err error
	for attempt := 1; attempt <= sendAttempts; attempt++ {
		if err = m.send(msg); err == nil {
			return nil
		}
		if attempt < sendAttempts {
			time.Sleep(time.Duration(attempt) * m.backoff)
		}
	}
	return fmt.Errorf("after %d attempts: %w", sendAttempts, err)
}

func (m *WorkflowMailer) subject(event portssvc.TransitionEvent) string {
	return fmt.Sprintf("%s [%s] %s", m.subjectPrefix, event.Checkin.PackageName, event.Description)
}

// bodyTemplates holds the per-transition message bodies. The %s placeholders
// are package name and actor name, in that order.
var bodyTemplates = map[domain.CheckinAction]string{
	domain.ActionAccept:        "<p>The package <strong>%s</strong> has been accepted by %s and is being handed to checkout.</p>",
	domain.ActionDoReject:      "<p>The package <strong>%s</strong> has been rejected by %s.</p>",
	domain.ActionDoReview:      "<p>The package <strong>%s</strong> has been reviewed by %s.</p>",
	domain.ActionSendToPending: "<p>The package <strong>%s</strong> has been sent back to pending by %s.</p>",
	domain.ActionSendToReview:  "<p>The package <strong>%s</strong> has been sent to review by %s.</p>",
}

func body(event portssvc.TransitionEvent) string {
	tmpl, ok := bodyTemplates[event.Action]
	if !ok {
		tmpl = "<p>The package <strong>%s</strong> has been updated by %s.</p>"
	}
	html := fmt.Sprintf(tmpl, event.Checkin.PackageName, event.ActorName)
	if event.Action == domain.ActionDoReject && event.Checkin.RejectedCause != nil {
		html += fmt.Sprintf("<p><strong>Cause:</strong> %s</p>", *event.Checkin.RejectedCause)
	}
	html += fmt.Sprintf("<p>Checkin: %s<br>Status: %s</p>", event.Checkin.CheckinID, event.Checkin.Status)
	return html
}
