package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/tmurray-at-tygershark/solushipX-sub005/models"
	"github.com/tmurray-at-tygershark/solushipX-sub005/utils"

	"firebase.google.com/go/v4/messaging"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// NotificationService defines methods for sending FCM pushes about booking
// outcomes. Sends are best-effort; failures are logged, never propagated.
type NotificationService interface {
	RegisterDeviceToken(ctx context.Context, companyID, userID, token string) error
	NotifyBookingResult(ctx context.Context, draft *models.ShipmentDraft, attempt *models.BookingAttempt) error
}

// DefaultNotificationService is the production implementation. Device tokens
// are kept in Redis keyed by operator identity.
type DefaultNotificationService struct {
	Cache  *redis.Client
	Logger *zap.Logger
}

func NewDefaultNotificationService(cache *redis.Client, logger *zap.Logger) *DefaultNotificationService {
	return &DefaultNotificationService{Cache: cache, Logger: logger}
}

func tokenKey(companyID, userID string) string {
	return fmt.Sprintf("fcm:%s:%s", companyID, userID)
}

// RegisterDeviceToken stores the operator's current FCM device token.
func (s *DefaultNotificationService) RegisterDeviceToken(ctx context.Context, companyID, userID, token string) error {
	if token == "" {
		return fmt.Errorf("empty device token")
	}
	return s.Cache.Set(ctx, tokenKey(companyID, userID), token, 90*24*time.Hour).Err()
}

// NotifyBookingResult pushes the terminal outcome of a booking attempt to
// the draft owner's device.
func (s *DefaultNotificationService) NotifyBookingResult(ctx context.Context, draft *models.ShipmentDraft, attempt *models.BookingAttempt) error {
	if utils.FCMClient == nil {
		return nil
	}

	token, err := s.Cache.Get(ctx, tokenKey(draft.Owner.CompanyID, draft.Owner.UserID)).Result()
	if err != nil || token == "" {
		s.Logger.Debug("no device token registered for draft owner",
			zap.String("draftKey", draft.Key))
		return nil
	}

	title := "Shipment booked"
	body := fmt.Sprintf("Shipment %s confirmed (%s)", draft.ShipmentID, attempt.ConfirmationID)
	if attempt.Phase == models.PhaseError {
		title = "Shipment booking failed"
		body = fmt.Sprintf("Shipment %s could not be booked: %s", draft.ShipmentID, attempt.Error)
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: map[string]string{
			"draftKey":   draft.Key,
			"shipmentId": draft.ShipmentID,
			"phase":      string(attempt.Phase),
		},
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		s.Logger.Warn("failed to send booking notification",
			zap.String("draftKey", draft.Key),
			zap.Error(err))
	}
	return nil
}
