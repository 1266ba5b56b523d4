package notifications

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationBuilder(t *testing.T) {
	expiry := time.Now().Add(time.Hour)

	notification := NewNotificationBuilder().
		WithType(NotificationTypeBookingConfirmed).
		WithRecipient("traveler@example.com", "Amelia").
		WithSubject("Booking Confirmed - SKY-20260901-ABCDEF").
		WithBookingContext("SKY-20260901-ABCDEF", "SB101").
		WithTemplateData(map[string]interface{}{
			"seats":       []string{"1A", "1B"},
			"total_price": 200.0,
		}).
		WithExpiration(&expiry).
		Build()

	assert.NotEqual(t, "", notification.ID.String())
	assert.Equal(t, NotificationTypeBookingConfirmed, notification.Type)
	assert.Equal(t, NotificationPriorityHigh, notification.Priority, "confirmations default to high priority")
	assert.Equal(t, "traveler@example.com", notification.RecipientEmail)
	assert.Equal(t, "SKY-20260901-ABCDEF", notification.BookingRef)
	assert.Equal(t, "SB101", notification.FlightNumber)
	assert.Equal(t, NotificationStatusPending, notification.Status)
	assert.False(t, notification.IsExpired())

	assert.Equal(t, "traveler@example.com", notification.GetPartitionKey())
}

func TestGetDefaultPriority(t *testing.T) {
	assert.Equal(t, NotificationPriorityHigh, GetDefaultPriority(NotificationTypeBookingConfirmed))
	assert.Equal(t, NotificationPriorityMedium, GetDefaultPriority(NotificationTypeBookingCancelled))
	assert.Equal(t, NotificationPriorityMedium, GetDefaultPriority(NotificationType("UNKNOWN")))
}

func TestNotificationRetryLifecycle(t *testing.T) {
	notification := NewNotificationBuilder().
		WithType(NotificationTypeBookingCancelled).
		WithRecipient("traveler@example.com", "").
		WithMaxRetries(2).
		Build()

	notification.MarkFailed(assert.AnError)
	assert.Equal(t, NotificationStatusFailed, notification.Status)
	require.NotNil(t, notification.LastError)
	assert.True(t, notification.ShouldRetry())

	notification.IncrementRetry()
	assert.Equal(t, NotificationStatusRetrying, notification.Status)

	notification.Status = NotificationStatusFailed
	notification.IncrementRetry()
	assert.False(t, notification.ShouldRetry(), "retries are exhausted after max_retries")

	notification.MarkSent()
	assert.Equal(t, NotificationStatusSent, notification.Status)
	require.NotNil(t, notification.SentAt)
}

func TestIsExpired(t *testing.T) {
	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Minute)

	expired := NewNotificationBuilder().WithExpiration(&past).Build()
	assert.True(t, expired.IsExpired())

	live := NewNotificationBuilder().WithExpiration(&future).Build()
	assert.False(t, live.IsExpired())

	noExpiry := NewNotificationBuilder().Build()
	assert.False(t, noExpiry.IsExpired())
}

func TestGenerateContent_BookingConfirmed(t *testing.T) {
	notification := NewNotificationBuilder().
		WithType(NotificationTypeBookingConfirmed).
		WithRecipient("traveler@example.com", "Amelia").
		WithBookingContext("SKY-20260901-QKZMWA", "SB101").
		WithTemplateData(map[string]interface{}{
			"seats":       []string{"1A", "1B"},
			"total_price": 200.0,
		}).
		Build()

	html, text := generateContent(notification)

	for _, body := range []string{html, text} {
		assert.Contains(t, body, "Amelia")
		assert.Contains(t, body, "SB101")
		assert.Contains(t, body, "SKY-20260901-QKZMWA")
		assert.Contains(t, body, "1A, 1B")
		assert.Contains(t, body, "$200.00")
	}
}

func TestGenerateContent_BookingCancelled(t *testing.T) {
	notification := NewNotificationBuilder().
		WithType(NotificationTypeBookingCancelled).
		WithRecipient("traveler@example.com", "").
		WithBookingContext("SKY-20260901-QKZMWA", "SB101").
		Build()

	html, text := generateContent(notification)

	// Unknown recipient names fall back to a generic greeting
	assert.Contains(t, html, "Hi traveler")
	assert.Contains(t, text, "Hi traveler")
	assert.True(t, strings.Contains(text, "cancelled"))
}
