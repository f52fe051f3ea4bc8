package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func confirmationFixture() *ConfirmationMessage {
	return &ConfirmationMessage{
		UserID:       "u1",
		Email:        "amy@example.com",
		Name:         "Amy Pond",
		Provider:     "google",
		ConfirmToken: "tok",
		ConfirmURL:   "https://app.example.com/auth/confirm/tok",
		RequestedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewMailClient(t *testing.T) {
	client := NewMailClient("api-key", "https://mail.example.com/send", "no-reply@example.com")
	if client.APIKey != "api-key" {
		t.Errorf("APIKey = %q, want api-key", client.APIKey)
	}
	if client.From != "no-reply@example.com" {
		t.Errorf("From = %q", client.From)
	}
	if client.HTTPClient == nil {
		t.Fatal("HTTPClient should be set")
	}
	if client.HTTPClient.Timeout != defaultMailTimeout {
		t.Errorf("Timeout = %v, want %v", client.HTTPClient.Timeout, defaultMailTimeout)
	}
}

func TestDeliverConfirmation_Success(t *testing.T) {
	var receivedBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("Authorization") != "Bearer test-api-key" {
			t.Errorf("Authorization = %q, want Bearer test-api-key", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&receivedBody); err != nil {
			t.Fatalf("Decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"queued"}`))
	}))
	defer server.Close()

	client := NewMailClient("test-api-key", server.URL, "no-reply@example.com")
	if err := client.DeliverConfirmation(context.Background(), confirmationFixture()); err != nil {
		t.Fatalf("DeliverConfirmation: %v", err)
	}

	if receivedBody["to"] != "amy@example.com" {
		t.Errorf("to = %v, want amy@example.com", receivedBody["to"])
	}
	if receivedBody["from"] != "no-reply@example.com" {
		t.Errorf("from = %v", receivedBody["from"])
	}
	text, _ := receivedBody["text"].(string)
	if !strings.Contains(text, "https://app.example.com/auth/confirm/tok") {
		t.Error("email text should contain the confirmation URL")
	}
	if !strings.Contains(text, "Amy Pond") {
		t.Error("email text should address the user by name")
	}
}

func TestDeliverConfirmation_MissingAPIKey(t *testing.T) {
	client := NewMailClient("", "https://mail.example.com/send", "no-reply@example.com")
	err := client.DeliverConfirmation(context.Background(), confirmationFixture())
	if err == nil || !strings.Contains(err.Error(), "API key not configured") {
		t.Fatalf("error = %v, want API key not configured", err)
	}
}

func TestDeliverConfirmation_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"upstream down"}`))
	}))
	defer server.Close()

	client := NewMailClient("api-key", server.URL, "no-reply@example.com")
	err := client.DeliverConfirmation(context.Background(), confirmationFixture())
	if err == nil {
		t.Fatal("expected error for 502 status")
	}
	if !strings.Contains(err.Error(), "status=502") {
		t.Errorf("error = %q, want to contain status=502", err.Error())
	}
	if !strings.Contains(err.Error(), "upstream down") {
		t.Errorf("error = %q, want to contain response body", err.Error())
	}
}
