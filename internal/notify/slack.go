package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"listing-hub/internal/models"
)

// Message is a Slack incoming-webhook payload: a flat text summary plus
// optional block sections.
type Message struct {
	Text   string  `json:"text"`
	Blocks []Block `json:"blocks,omitempty"`
}

// Block is one Slack block-kit section.
type Block struct {
	Type string     `json:"type"`
	Text *BlockText `json:"text,omitempty"`
}

// BlockText is the text object inside a block.
type BlockText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SlackClient posts messages to a Slack incoming webhook. Delivery is
// best-effort; a failed notification never rolls back the data write that
// triggered it.
type SlackClient struct {
	webhookURL string
	httpClient *http.Client
}

// NewSlackClient creates a client for the given webhook URL.
func NewSlackClient(webhookURL string, timeout time.Duration) *SlackClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SlackClient{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send posts one message to the webhook.
func (c *SlackClient) Send(msg *Message) error {
	if c.webhookURL == "" {
		return fmt.Errorf("webhook URL is not configured")
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal slack payload: %w", err)
	}

	resp, err := c.httpClient.Post(c.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// SendRaw posts a pre-serialized payload, used by the outbox worker.
func (c *SlackClient) SendRaw(payload string) error {
	if c.webhookURL == "" {
		return fmt.Errorf("webhook URL is not configured")
	}

	resp, err := c.httpClient.Post(c.webhookURL, "application/json", bytes.NewReader([]byte(payload)))
	if err != nil {
		return fmt.Errorf("failed to post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// ListingMessage builds the standard notification for a listing event.
func ListingMessage(event string, l *models.Listing) *Message {
	var headline string
	switch event {
	case models.NotificationEventCreated:
		headline = "신규 매물 등록"
	case models.NotificationEventUpdated:
		headline = "매물 정보 수정"
	case models.NotificationEventDeleted:
		headline = "매물 삭제"
	case models.NotificationEventRestored:
		headline = "매물 복구"
	default:
		headline = "매물 알림"
	}

	text := fmt.Sprintf("%s: [%s] %s", headline, l.PropertyNumber, l.PropertyName)

	detail := fmt.Sprintf("*매물번호:* %s\n*매물명:* %s\n*상태:* %s",
		l.PropertyNumber, l.PropertyName, l.Status)
	if l.Address != "" {
		detail += fmt.Sprintf("\n*소재지:* %s", l.Address)
	}
	if l.Price != "" {
		detail += fmt.Sprintf("\n*금액:* %s", l.Price)
	}

	return &Message{
		Text: text,
		Blocks: []Block{
			{Type: "header", Text: &BlockText{Type: "plain_text", Text: headline}},
			{Type: "section", Text: &BlockText{Type: "mrkdwn", Text: detail}},
		},
	}
}

// ImportMessage builds the notification for a completed import run.
func ImportMessage(sourcePath string, total, success, failed, skipped int) *Message {
	text := fmt.Sprintf("CSV 업로드 완료: 성공 %d건 / 실패 %d건 / 건너뜀 %d건 (총 %d건)",
		success, failed, skipped, total)
	detail := fmt.Sprintf("*파일:* %s\n*성공:* %d\n*실패:* %d\n*건너뜀:* %d",
		sourcePath, success, failed, skipped)

	return &Message{
		Text: text,
		Blocks: []Block{
			{Type: "section", Text: &BlockText{Type: "mrkdwn", Text: detail}},
		},
	}
}

// LogSendFailure logs a delivery failure without propagating it.
func LogSendFailure(event string, err error) {
	log.Printf("Notify: failed to deliver %s notification: %v", event, err)
}
