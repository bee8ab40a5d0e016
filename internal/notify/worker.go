package notify

import (
	"log"
	"time"

	"listing-hub/internal/models"

	"gorm.io/gorm"
)

// OutboxWorker drains the notification queue and delivers messages to Slack
// with bounded retry. Delivery runs one message at a time; a permanently
// failed message stays in the table for the admin surface.
type OutboxWorker struct {
	db           *gorm.DB
	client       *SlackClient
	stopChan     chan struct{}
	isRunning    bool
	pollInterval time.Duration
	maxAttempts  int
}

// NewOutboxWorker creates a worker over the queue table.
func NewOutboxWorker(db *gorm.DB, client *SlackClient, maxAttempts int) *OutboxWorker {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &OutboxWorker{
		db:           db,
		client:       client,
		stopChan:     make(chan struct{}),
		pollInterval: 10 * time.Second,
		maxAttempts:  maxAttempts,
	}
}

// Start starts the worker loop.
func (w *OutboxWorker) Start() {
	if w.isRunning {
		log.Println("OutboxWorker: Already running")
		return
	}
	w.isRunning = true
	log.Printf("OutboxWorker: Started (poll_interval=%v, max_attempts=%d)", w.pollInterval, w.maxAttempts)
	go w.run()
}

// Stop stops the worker loop.
func (w *OutboxWorker) Stop() {
	if !w.isRunning {
		return
	}
	log.Println("OutboxWorker: Stopping...")
	w.isRunning = false
	close(w.stopChan)
}

func (w *OutboxWorker) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			log.Println("OutboxWorker: Stopped")
			return
		case <-ticker.C:
			w.processNext()
		}
	}
}

// processNext delivers the oldest deliverable notification, if any.
func (w *OutboxWorker) processNext() {
	var notification models.Notification
	now := time.Now()

	// Pending messages first, then failed ones whose retry time has passed.
	result := w.db.Where("status = ?", models.NotificationStatusPending).
		Order("created_at ASC").
		First(&notification)

	if result.Error == gorm.ErrRecordNotFound {
		result = w.db.Where("status = ? AND attempts < ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?",
			models.NotificationStatusFailed, w.maxAttempts, now).
			Order("created_at ASC").
			First(&notification)
	}
	if result.Error == gorm.ErrRecordNotFound {
		return
	}
	if result.Error != nil {
		log.Printf("OutboxWorker: failed to read queue: %v", result.Error)
		return
	}

	w.deliver(&notification)
}

func (w *OutboxWorker) deliver(n *models.Notification) {
	n.Attempts++

	err := w.client.SendRaw(n.Payload)
	if err == nil {
		now := time.Now()
		n.Status = models.NotificationStatusSent
		n.SentAt = &now
		n.LastError = ""
		n.NextRetryAt = nil
		if saveErr := w.db.Save(n).Error; saveErr != nil {
			log.Printf("OutboxWorker: failed to mark notification %d sent: %v", n.ID, saveErr)
		}
		log.Printf("OutboxWorker: delivered notification %d (%s)", n.ID, n.Event)
		return
	}

	n.Status = models.NotificationStatusFailed
	n.LastError = err.Error()
	if n.Attempts < w.maxAttempts {
		// Backoff doubles per attempt: 1m, 2m, 4m...
		backoff := time.Duration(1<<(n.Attempts-1)) * time.Minute
		retryAt := time.Now().Add(backoff)
		n.NextRetryAt = &retryAt
		log.Printf("OutboxWorker: notification %d failed (attempt %d/%d), retrying at %s: %v",
			n.ID, n.Attempts, w.maxAttempts, retryAt.Format("15:04:05"), err)
	} else {
		n.NextRetryAt = nil
		log.Printf("OutboxWorker: notification %d failed permanently after %d attempts: %v",
			n.ID, n.Attempts, err)
	}

	if saveErr := w.db.Save(n).Error; saveErr != nil {
		log.Printf("OutboxWorker: failed to update notification %d: %v", n.ID, saveErr)
	}
}

// QueueStats returns notification counts by status.
func (w *OutboxWorker) QueueStats() (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := w.db.Model(&models.Notification{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make(map[string]int64)
	for _, r := range rows {
		stats[r.Status] = r.Count
	}
	return stats, nil
}
