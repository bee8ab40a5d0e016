package notify

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"listing-hub/internal/models"
)

func TestSendPostsWebhookPayload(t *testing.T) {
	var received Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("invalid payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewSlackClient(server.URL, time.Second)
	msg := &Message{Text: "테스트 알림"}
	if err := client.Send(msg); err != nil {
		t.Fatal(err)
	}
	if received.Text != "테스트 알림" {
		t.Errorf("received text = %q", received.Text)
	}
}

func TestSendNon200IsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewSlackClient(server.URL, time.Second)
	if err := client.Send(&Message{Text: "x"}); err == nil {
		t.Fatal("expected error on 503 response")
	}
}

func TestSendWithoutWebhookURL(t *testing.T) {
	client := NewSlackClient("", time.Second)
	if err := client.Send(&Message{Text: "x"}); err == nil {
		t.Fatal("expected error when webhook URL is empty")
	}
	if err := client.SendRaw(`{"text":"x"}`); err == nil {
		t.Fatal("expected error when webhook URL is empty")
	}
}

func TestSendRaw(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
	}))
	defer server.Close()

	client := NewSlackClient(server.URL, time.Second)
	if err := client.SendRaw(`{"text":"raw payload"}`); err != nil {
		t.Fatal(err)
	}
	if body != `{"text":"raw payload"}` {
		t.Errorf("body = %s", body)
	}
}

func TestListingMessage(t *testing.T) {
	l := &models.Listing{
		PropertyNumber: "20250101003",
		PropertyName:   "한강뷰 아파트",
		Status:         models.StatusAvailable,
		Address:        "서울시 용산구",
		Price:          "12억",
	}

	msg := ListingMessage(models.NotificationEventCreated, l)
	if !strings.Contains(msg.Text, "신규 매물 등록") {
		t.Errorf("headline missing from text: %q", msg.Text)
	}
	if !strings.Contains(msg.Text, "20250101003") {
		t.Errorf("property number missing from text: %q", msg.Text)
	}
	if len(msg.Blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(msg.Blocks))
	}
	detail := msg.Blocks[1].Text.Text
	for _, want := range []string{"서울시 용산구", "12억", "거래가능"} {
		if !strings.Contains(detail, want) {
			t.Errorf("detail missing %q: %s", want, detail)
		}
	}
}

func TestImportMessage(t *testing.T) {
	msg := ImportMessage("listings.csv", 200, 195, 4, 1)
	if !strings.Contains(msg.Text, "성공 195건") {
		t.Errorf("text = %q", msg.Text)
	}
	if !strings.Contains(msg.Blocks[0].Text.Text, "listings.csv") {
		t.Errorf("detail missing source path: %s", msg.Blocks[0].Text.Text)
	}
}
