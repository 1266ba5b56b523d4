package notifications

import (
	"context"
	"fmt"
	"log"
	"sync"

	"skybook/internal/shared/config"
)

// NotificationService is the entry point the rest of the app talks to.
// Booking events go through Kafka so the request path never waits on SMTP.
type NotificationService interface {
	SendNotification(ctx context.Context, notification *EmailNotification) error
	SendBatchNotifications(ctx context.Context, notifications []*EmailNotification) error

	NotifyBookingConfirmed(ctx context.Context, email, bookingRef, flightNumber string, seats []string, totalPrice float64)
	NotifyBookingCancelled(ctx context.Context, email, bookingRef, flightNumber string)

	Start(ctx context.Context) error
	Stop() error
	HealthCheck(ctx context.Context) error
}

type EmailNotificationService struct {
	cfg          *config.Config
	producer     NotificationProducer
	consumer     NotificationConsumer
	emailService EmailService

	// State
	isRunning bool
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewEmailNotificationService(cfg *config.Config) (NotificationService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var emailService EmailService
	if cfg.Email.SMTPHost == "" || cfg.Email.SMTPUsername == "" {
		// No SMTP credentials means local development; log instead of sending
		log.Printf("📧 SMTP not configured, falling back to mock email service")
		emailService = NewMockEmailService()
	} else {
		smtpService, err := NewSMTPEmailService(&SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
			UseTLS:    true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create SMTP email service: %w", err)
		}
		emailService = smtpService
	}

	producerConfig := DefaultKafkaProducerConfig()
	producerConfig.Brokers = cfg.Kafka.Brokers
	producerConfig.NotificationTopic = cfg.Kafka.NotificationTopic

	producer, err := NewKafkaNotificationProducer(producerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification producer: %w", err)
	}

	consumerConfig := DefaultConsumerConfig()
	consumerConfig.Brokers = cfg.Kafka.Brokers
	consumerConfig.Topics = []string{cfg.Kafka.NotificationTopic}
	consumerConfig.GroupID = cfg.Kafka.ConsumerGroupID

	consumer, err := NewKafkaNotificationConsumer(consumerConfig, emailService)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification consumer: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	log.Printf("📧 Notification service initialized (topic: %s, group: %s)",
		cfg.Kafka.NotificationTopic, cfg.Kafka.ConsumerGroupID)

	return &EmailNotificationService{
		cfg:          cfg,
		producer:     producer,
		consumer:     consumer,
		emailService: emailService,
		isRunning:    false,
		ctx:          ctx,
		cancel:       cancel,
	}, nil
}

func (ens *EmailNotificationService) Start(ctx context.Context) error {
	ens.mu.Lock()
	defer ens.mu.Unlock()

	if ens.isRunning {
		return fmt.Errorf("notification service is already running")
	}

	log.Printf("🚀 Starting notification service...")

	err := ens.consumer.StartConsumers(ens.ctx, ens.cfg.Kafka.ConsumerWorkers)
	if err != nil {
		return fmt.Errorf("failed to start consumers: %w", err)
	}

	ens.isRunning = true
	log.Printf("✅ Notification service started successfully")

	return nil
}

func (ens *EmailNotificationService) Stop() error {
	ens.mu.Lock()
	defer ens.mu.Unlock()

	if !ens.isRunning {
		return fmt.Errorf("notification service is not running")
	}

	log.Printf("🛑 Stopping notification service...")

	ens.cancel()

	if err := ens.consumer.Stop(); err != nil {
		log.Printf("Error stopping consumer: %v", err)
	}

	if err := ens.producer.Close(); err != nil {
		log.Printf("Error closing producer: %v", err)
	}

	ens.isRunning = false
	log.Printf("✅ Notification service stopped")

	return nil
}

func (ens *EmailNotificationService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	return ens.producer.PublishNotification(ctx, notification)
}

func (ens *EmailNotificationService) SendBatchNotifications(ctx context.Context, notifications []*EmailNotification) error {
	return ens.producer.PublishBatchNotifications(ctx, notifications)
}

// NotifyBookingConfirmed queues a confirmation email. Publish failures are
// logged, not returned, so a Kafka outage never fails the booking itself.
func (ens *EmailNotificationService) NotifyBookingConfirmed(ctx context.Context, email, bookingRef, flightNumber string, seats []string, totalPrice float64) {
	if email == "" {
		return
	}

	notification := NewNotificationBuilder().
		WithType(NotificationTypeBookingConfirmed).
		WithRecipient(email, "").
		WithSubject(fmt.Sprintf("Booking Confirmed - %s", bookingRef)).
		WithBookingContext(bookingRef, flightNumber).
		WithTemplateData(map[string]interface{}{
			"seats":       seats,
			"total_price": totalPrice,
		}).
		Build()

	if err := ens.producer.PublishNotification(ctx, notification); err != nil {
		log.Printf("Failed to publish booking confirmation for %s: %v", bookingRef, err)
	}
}

// NotifyBookingCancelled queues a cancellation email.
func (ens *EmailNotificationService) NotifyBookingCancelled(ctx context.Context, email, bookingRef, flightNumber string) {
	if email == "" {
		return
	}

	notification := NewNotificationBuilder().
		WithType(NotificationTypeBookingCancelled).
		WithRecipient(email, "").
		WithSubject(fmt.Sprintf("Booking Cancelled - %s", bookingRef)).
		WithBookingContext(bookingRef, flightNumber).
		Build()

	if err := ens.producer.PublishNotification(ctx, notification); err != nil {
		log.Printf("Failed to publish booking cancellation for %s: %v", bookingRef, err)
	}
}

func (ens *EmailNotificationService) HealthCheck(ctx context.Context) error {
	ens.mu.RLock()
	isRunning := ens.isRunning
	ens.mu.RUnlock()

	if !isRunning {
		return fmt.Errorf("notification service is not running")
	}

	if err := ens.producer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("producer health check failed: %w", err)
	}

	if err := ens.consumer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("consumer health check failed: %w", err)
	}

	return nil
}
