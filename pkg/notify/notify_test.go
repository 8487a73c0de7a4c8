package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailSender_Send(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer SG.key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewEmailSender(EmailConfig{APIKey: "SG.key", From: "fleet@yachtexcel.com", BaseURL: srv.URL + "/v3"})
	err := s.Send(context.Background(), Notification{
		To:      []string{"Captain Ana <ana@example.com>"},
		Subject: "Service due",
		Body:    "Watermaker service is due.",
		HTML:    "<p>Watermaker service is due.</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "Service due", got["subject"])
	assert.Equal(t, map[string]any{"email": "fleet@yachtexcel.com"}, got["from"])
	personalizations := got["personalizations"].([]any)
	to := personalizations[0].(map[string]any)["to"].([]any)
	assert.Equal(t, map[string]any{"email": "ana@example.com", "name": "Captain Ana"}, to[0])
	content := got["content"].([]any)
	require.Len(t, content, 2)
	assert.Equal(t, "text/plain", content[0].(map[string]any)["type"])
	assert.Equal(t, "text/html", content[1].(map[string]any)["type"])
}

func TestEmailSender_Validate(t *testing.T) {
	s := NewEmailSender(EmailConfig{APIKey: "k"})
	assert.Error(t, s.Validate(Notification{Subject: "s", Body: "b"}))
	assert.Error(t, s.Validate(Notification{To: []string{"not-an-address"}, Subject: "s", Body: "b"}))
	assert.Error(t, s.Validate(Notification{To: []string{"a@example.com"}, Body: "b"}))
	assert.Error(t, s.Validate(Notification{To: []string{"a@example.com"}, Subject: "s"}))
	assert.NoError(t, s.Validate(Notification{To: []string{"a@example.com"}, Subject: "s", HTML: "<p>b</p>"}))
}

func TestEmailSender_Errors(t *testing.T) {
	err := NewEmailSender(EmailConfig{}).Send(context.Background(), Notification{To: []string{"a@example.com"}, Subject: "s", Body: "b"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"errors":[{"message":"sender not verified"}]}`))
	}))
	defer srv.Close()

	err = NewEmailSender(EmailConfig{APIKey: "k", From: "x@example.com", BaseURL: srv.URL}).
		Send(context.Background(), Notification{To: []string{"a@example.com"}, Subject: "s", Body: "b"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "sender not verified")
}

func TestWhatsAppSender_Send(t *testing.T) {
	var mu sync.Mutex
	var recipients []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v19.0/12345/messages", r.URL.Path)
		var msg whatsAppMessage
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &msg))
		assert.Equal(t, "whatsapp", msg.MessagingProduct)
		assert.Equal(t, "text", msg.Type)
		assert.Equal(t, "Crew change at 14:00", msg.Text.Body)
		mu.Lock()
		recipients = append(recipients, msg.To)
		mu.Unlock()
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	s := NewWhatsAppSender(WhatsAppConfig{Token: "t", PhoneNumberID: "12345", BaseURL: srv.URL + "/v19.0"})
	err := s.Send(context.Background(), Notification{
		To:   []string{"+34 600-123-456", "447700900123"},
		Body: "Crew change at 14:00",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"34600123456", "447700900123"}, recipients)
}

func TestWhatsAppSender_PartialDelivery(t *testing.T) {
	var mu sync.Mutex
	var attempted []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg whatsAppMessage
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &msg))
		mu.Lock()
		attempted = append(attempted, msg.To)
		mu.Unlock()
		if msg.To == "447700900123" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"recipient not on WhatsApp"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	s := NewWhatsAppSender(WhatsAppConfig{Token: "t", PhoneNumberID: "12345", BaseURL: srv.URL})
	err := s.Send(context.Background(), Notification{
		To:   []string{"+34600123456", "447700900123", "+35699123456"},
		Body: "Crew change at 14:00",
	})

	var delivery *DeliveryError
	require.ErrorAs(t, err, &delivery)
	assert.Equal(t, []string{"34600123456", "447700900123", "35699123456"}, attempted)
	assert.Equal(t, []string{"+34600123456", "+35699123456"}, delivery.Delivered)
	require.Len(t, delivery.Failed, 1)
	assert.Equal(t, "447700900123", delivery.Failed[0].To)
	assert.Contains(t, err.Error(), "1 of 3 recipients")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestWhatsAppSender_Validate(t *testing.T) {
	s := NewWhatsAppSender(WhatsAppConfig{Token: "t", PhoneNumberID: "1"})
	assert.Error(t, s.Validate(Notification{To: []string{"abc"}, Body: "b"}))
	assert.Error(t, s.Validate(Notification{To: []string{"+34600123456"}}))
	assert.NoError(t, s.Validate(Notification{To: []string{"+34 (600) 123 456"}, Body: "b"}))

	err := NewWhatsAppSender(WhatsAppConfig{}).Send(context.Background(), Notification{To: []string{"+34600123456"}, Body: "b"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
