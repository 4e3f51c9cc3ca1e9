package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robfig/cron/v3"

	"github.com/oksasatya/go-social-network/config"
	"github.com/oksasatya/go-social-network/internal/container"
	"github.com/oksasatya/go-social-network/internal/worker"
	"github.com/oksasatya/go-social-network/pkg/helpers"
	"github.com/oksasatya/go-social-network/pkg/mailer"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadNoAuth()
	logger := helpers.NewLogger(cfg.AppName+"-worker", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Likes reconciler; an in-memory store is private to the API process
	if cfg.StorageDriver == "memory" {
		logger.Warn("STORAGE_DRIVER=memory; likes reconciler disabled")
	} else {
		c, closeStore, err := container.Open(ctx, cfg, logger, nil)
		if err != nil {
			logger.Fatalf("failed to open store: %v", err)
		}
		defer closeStore()

		sched := cron.New()
		reconciler := worker.NewLikesReconciler(c.Posts, logger)
		if _, err := reconciler.Schedule(ctx, sched, cfg.LikesReconcileSchedule); err != nil {
			logger.Fatalf("invalid LIKES_RECONCILE_SCHEDULE %q: %v", cfg.LikesReconcileSchedule, err)
		}
		sched.Start()
		defer func() { <-sched.Stop().Done() }()
		logger.WithField("schedule", cfg.LikesReconcileSchedule).Info("likes reconciler scheduled")
	}

	// Email consumer
	done := make(chan struct{})
	if cfg.RabbitMQURL == "" {
		logger.Warn("RABBITMQ_URL not set; email consumer disabled")
		close(done)
	} else {
		var sender mailer.Sender = worker.LogSender{Logger: logger}
		if cfg.MailSendEnabled {
			if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
				logger.Fatal("MAIL_SEND_ENABLED=true but Mailgun is not configured")
			}
			sender = mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
		} else {
			logger.Info("MAIL_SEND_ENABLED=false; emails will be logged, not sent")
		}

		conn, err := amqp.Dial(cfg.RabbitMQURL)
		if err != nil {
			logger.Fatalf("amqp dial: %v", err)
		}
		defer func() { _ = conn.Close() }()

		ch, err := conn.Channel()
		if err != nil {
			logger.Fatalf("amqp channel: %v", err)
		}
		defer func() { _ = ch.Close() }()

		// prefetch for fair dispatch
		if err := ch.Qos(16, 0, false); err != nil {
			logger.Fatalf("qos: %v", err)
		}
		if err := helpers.DeclareQueue(ch, cfg.RabbitMQEventsQueue); err != nil {
			logger.Fatalf("queue declare: %v", err)
		}
		msgs, err := ch.Consume(cfg.RabbitMQEventsQueue, "", false, false, false, false, nil)
		if err != nil {
			logger.Fatalf("consume: %v", err)
		}

		consumer := worker.NewEmailConsumer(sender, logger)
		go func() {
			consumer.Consume(ctx, msgs)
			close(done)
		}()
		logger.WithField("queue", cfg.RabbitMQEventsQueue).Info("email worker listening")
	}

	<-ctx.Done()
	logger.Info("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
