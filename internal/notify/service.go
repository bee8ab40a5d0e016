package notify

import (
	"encoding/json"
	"log"

	"listing-hub/internal/models"

	"gorm.io/gorm"
)

// Service is the notification entry point for the rest of the application.
// With a database it enqueues messages for the outbox worker; without one it
// delivers inline. Either way the caller never sees an error — notifications
// are best-effort side effects of the data write.
type Service struct {
	db      *gorm.DB
	client  *SlackClient
	enabled bool
}

// NewService creates a notification service. db may be nil (inline delivery).
func NewService(db *gorm.DB, client *SlackClient, enabled bool) *Service {
	return &Service{db: db, client: client, enabled: enabled}
}

// NotifyListing sends or enqueues the notification for a listing event.
func (s *Service) NotifyListing(event string, l *models.Listing) {
	if !s.enabled {
		return
	}
	s.dispatch(event, l.PropertyNumber, ListingMessage(event, l))
}

// NotifyImport sends or enqueues the notification for a completed import run.
func (s *Service) NotifyImport(sourcePath string, total, success, failed, skipped int) {
	if !s.enabled {
		return
	}
	s.dispatch(models.NotificationEventImport, "", ImportMessage(sourcePath, total, success, failed, skipped))
}

func (s *Service) dispatch(event, propertyNumber string, msg *Message) {
	if s.db == nil {
		if err := s.client.Send(msg); err != nil {
			LogSendFailure(event, err)
		}
		return
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		LogSendFailure(event, err)
		return
	}

	notification := models.Notification{
		PropertyNumber: propertyNumber,
		Event:          event,
		Text:           msg.Text,
		Payload:        string(payload),
		Status:         models.NotificationStatusPending,
	}
	if err := s.db.Create(&notification).Error; err != nil {
		log.Printf("Notify: failed to enqueue %s notification: %v", event, err)
	}
}
