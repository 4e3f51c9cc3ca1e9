package worker

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-network/pkg/mailer"
)

// Outcome is what the consumer does with a delivery after handling it.
type Outcome int

const (
	Ack     Outcome = iota
	Drop            // nack without requeue: the message can never succeed
	Requeue         // nack with requeue: delivery failed, try again later
)

const sendTimeout = 15 * time.Second

// EmailConsumer renders queued email jobs and hands them to a Sender.
type EmailConsumer struct {
	Sender mailer.Sender
	Logger *logrus.Logger
}

func NewEmailConsumer(sender mailer.Sender, logger *logrus.Logger) *EmailConsumer {
	return &EmailConsumer{Sender: sender, Logger: logger}
}

// Handle processes one message body.
func (w *EmailConsumer) Handle(ctx context.Context, body []byte) Outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.Logger.WithError(err).Warn("bad email message")
		return Drop
	}
	job.To = strings.TrimSpace(job.To)
	if job.To == "" {
		w.Logger.WithField("template", job.Template).Warn("email message without recipient")
		return Drop
	}

	subject, text, html, err := mailer.Compose(job)
	if err != nil {
		w.Logger.WithError(err).WithField("template", job.Template).Warn("render failed")
		return Drop
	}

	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		w.Logger.WithError(err).WithField("template", job.Template).Error("send failed")
		return Requeue
	}
	w.Logger.WithFields(logrus.Fields{"template": job.Template, "to": job.To}).Info("email sent")
	return Ack
}

// Consume drains deliveries until the channel closes or ctx is done.
func (w *EmailConsumer) Consume(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			switch w.Handle(ctx, msg.Body) {
			case Ack:
				_ = msg.Ack(false)
			case Drop:
				_ = msg.Nack(false, false)
			case Requeue:
				_ = msg.Nack(false, true)
			}
		}
	}
}

// LogSender writes emails to the log instead of delivering them. Used when
// MAIL_SEND_ENABLED is false so the queue still drains.
type LogSender struct {
	Logger *logrus.Logger
}

func (s LogSender) Send(_ context.Context, to, subject, _, _ string) error {
	s.Logger.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("mail sending disabled, email logged only")
	return nil
}
