package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atelier116/fashionweek-api/pkg/jobs"
	"github.com/atelier116/fashionweek-api/pkg/notify"
)

type alertSender interface {
	Send(ctx context.Context, event notify.EventType, reference string) error
}

type notificationPayload struct {
	Event     notify.EventType
	Reference string
}

// NotificationService fans side-channel alerts out through a background
// queue so bot hiccups never slow a request down.
type NotificationService struct {
	sender  alertSender
	queue   *jobs.Queue
	enabled bool
	logger  *zap.Logger
}

// NewNotificationService builds the notification dispatcher. When
// disabled every Notify call is a cheap no-op.
func NewNotificationService(sender alertSender, enabled bool, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{sender: sender, enabled: enabled, logger: logger}
	s.queue = jobs.NewQueue("notifications", s.handle, jobs.QueueConfig{
		Workers:    1,
		MaxRetries: 3,
		RetryDelay: 5 * time.Second,
		Logger:     logger,
	})
	return s
}

// Start launches the queue workers.
func (s *NotificationService) Start(ctx context.Context) {
	if !s.enabled {
		return
	}
	s.queue.Start(ctx)
}

// Stop drains the queue workers.
func (s *NotificationService) Stop() {
	if !s.enabled {
		return
	}
	s.queue.Stop()
}

// Notify enqueues an alert. Delivery is best effort; callers never see
// bot failures.
func (s *NotificationService) Notify(event notify.EventType, reference string) {
	if !s.enabled || s.sender == nil {
		return
	}
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    string(event),
		Payload: notificationPayload{Event: event, Reference: reference},
	})
	if err != nil {
		s.logger.Warn("failed to enqueue notification", zap.String("event", string(event)), zap.Error(err))
	}
}

func (s *NotificationService) handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(notificationPayload)
	if !ok {
		s.logger.Warn("dropping notification with unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.sender.Send(ctx, payload.Event, payload.Reference)
}
