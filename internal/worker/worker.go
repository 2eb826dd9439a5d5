// Package worker runs background jobs dequeued from Redis.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sra-webinar/backend/internal/models"
	"github.com/sra-webinar/backend/pkg/queue"
)

// Sender delivers a composed email.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// EmailLogStore records email attempts.
type EmailLogStore interface {
	Insert(ctx context.Context, el *models.EmailLog) error
}

// EmailProcessor processes confirmation email jobs: compose, send, record.
type EmailProcessor struct {
	logRepo EmailLogStore
	sender  Sender
	queue   *queue.Queue
	logger  *zap.Logger
}

// NewEmailProcessor creates a confirmation email processor.
func NewEmailProcessor(logRepo EmailLogStore, sender Sender, q *queue.Queue, logger *zap.Logger) *EmailProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailProcessor{logRepo: logRepo, sender: sender, queue: q, logger: logger}
}

// Process executes one confirmation email job.
func (p *EmailProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeConfirmationEmail {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.ConfirmationEmailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	subject := fmt.Sprintf("You're registered for %s", payload.Topic)
	body := fmt.Sprintf(
		"Your registration for %q is confirmed.\nStarts: %s\nJoin: %s\n",
		payload.Topic, payload.StartTime.Format(time.RFC1123), payload.JoinURL,
	)

	sendErr := p.sender.Send(ctx, payload.RecipientEmail, subject, body)

	el := &models.EmailLog{
		WebinarID:      payload.WebinarID,
		RegistrationID: payload.RegistrationID,
		EmailType:      models.EmailTypeRegistrationConfirmation,
		RecipientEmail: payload.RecipientEmail,
		Subject:        subject,
	}
	if sendErr != nil {
		el.Status = models.EmailLogStatusFailed
		el.ErrorMessage = sendErr.Error()
	} else {
		now := time.Now()
		el.Status = models.EmailLogStatusSent
		el.SentAt = &now
	}
	if err := p.logRepo.Insert(ctx, el); err != nil {
		p.logger.Error("insert email log failed", zap.Error(err), zap.String("registration_id", payload.RegistrationID.String()))
		return fmt.Errorf("insert email log: %w", err)
	}
	if sendErr != nil {
		return fmt.Errorf("send email: %w", sendErr)
	}

	p.logger.Info("confirmation email sent",
		zap.String("registration_id", payload.RegistrationID.String()),
		zap.String("recipient", payload.RecipientEmail),
	)
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *EmailProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("email worker stopping")
			return
		default:
		}

		job, _, err := p.queue.Dequeue(ctx)
		if err != nil {
			p.logger.Warn("dequeue error", zap.Error(err))
			waitOrDone(ctx, queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			waitOrDone(ctx, queue.RetryBackoff)
			continue
		}
	}
}

// waitOrDone blocks for d, returning early when ctx is cancelled so the
// worker shuts down without waiting out the backoff.
func waitOrDone(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
