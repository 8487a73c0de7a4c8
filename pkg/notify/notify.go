// Package notify sends e-mail through SendGrid and WhatsApp messages through
// the Meta Cloud API.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

const (
	ChannelEmail    = "email"
	ChannelWhatsApp = "whatsapp"
)

const (
	defaultSendGridURL = "https://api.sendgrid.com/v3"
	defaultWhatsAppURL = "https://graph.facebook.com/v19.0"
)

var ErrNotConfigured = errors.New("notify: channel is not configured")

// Notification is a message to one or more recipients. Recipients are
// e-mail addresses or E.164 phone numbers depending on the channel.
type Notification struct {
	To      []string `json:"to"`
	Subject string   `json:"subject,omitempty"`
	Body    string   `json:"body"`
	HTML    string   `json:"html,omitempty"`
}

type Notifier interface {
	Channel() string
	Validate(n Notification) error
	Send(ctx context.Context, n Notification) error
}

// APIError is a non-2xx vendor response.
type APIError struct {
	Channel    string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notify: %s provider returned %d: %s", e.Channel, e.StatusCode, e.Body)
}

// RecipientError is a failed delivery to one recipient.
type RecipientError struct {
	To  string
	Err error
}

// DeliveryError is returned when a send that fans out per recipient could not
// reach some of them. Delivered and Failed keep the request order.
type DeliveryError struct {
	Channel   string
	Delivered []string
	Failed    []RecipientError
}

func (e *DeliveryError) Error() string {
	parts := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		parts = append(parts, f.To+": "+f.Err.Error())
	}
	return fmt.Sprintf("notify: %s delivery failed for %d of %d recipients: %s",
		e.Channel, len(e.Failed), len(e.Failed)+len(e.Delivered), strings.Join(parts, "; "))
}

func (e *DeliveryError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, f := range e.Failed {
		errs = append(errs, f.Err)
	}
	return errs
}

var phoneRgx = regexp.MustCompile(`^\+?[1-9][0-9]{6,14}$`)

// NormalizePhone strips spaces, dashes and brackets from a phone number.
func NormalizePhone(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "").Replace(strings.TrimSpace(s))
}

func post(ctx context.Context, client *http.Client, channel, url, token string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: %s request failed: %w", channel, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &APIError{Channel: channel, StatusCode: resp.StatusCode, Body: string(body)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func defaultClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: 30 * time.Second}
}

// EmailSender sends through the SendGrid v3 mail/send API.
type EmailSender struct {
	apiKey  string
	from    string
	baseURL string
	client  *http.Client
}

type EmailConfig struct {
	APIKey     string
	From       string
	BaseURL    string
	HTTPClient *http.Client
}

func NewEmailSender(cfg EmailConfig) *EmailSender {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultSendGridURL
	}
	return &EmailSender{
		apiKey:  cfg.APIKey,
		from:    cfg.From,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  defaultClient(cfg.HTTPClient),
	}
}

func (s *EmailSender) Channel() string { return ChannelEmail }

func (s *EmailSender) Validate(n Notification) error {
	if len(n.To) == 0 {
		return errors.New("at least one recipient is required")
	}
	for _, to := range n.To {
		if _, err := mail.ParseAddress(to); err != nil {
			return fmt.Errorf("invalid e-mail address %q", to)
		}
	}
	if strings.TrimSpace(n.Subject) == "" {
		return errors.New("subject is required")
	}
	if strings.TrimSpace(n.Body) == "" && strings.TrimSpace(n.HTML) == "" {
		return errors.New("body is required")
	}
	return nil
}

type sendGridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridMail struct {
	Personalizations []struct {
		To []sendGridAddress `json:"to"`
	} `json:"personalizations"`
	From    sendGridAddress   `json:"from"`
	Subject string            `json:"subject"`
	Content []sendGridContent `json:"content"`
}

func (s *EmailSender) Send(ctx context.Context, n Notification) error {
	if s.apiKey == "" {
		return fmt.Errorf("%w: %s", ErrNotConfigured, ChannelEmail)
	}
	if err := s.Validate(n); err != nil {
		return err
	}

	m := sendGridMail{From: sendGridAddress{Email: s.from}, Subject: n.Subject}
	to := make([]sendGridAddress, 0, len(n.To))
	for _, addr := range n.To {
		a, _ := mail.ParseAddress(addr)
		to = append(to, sendGridAddress{Email: a.Address, Name: a.Name})
	}
	m.Personalizations = append(m.Personalizations, struct {
		To []sendGridAddress `json:"to"`
	}{To: to})
	// text/plain must precede text/html
	if n.Body != "" {
		m.Content = append(m.Content, sendGridContent{Type: "text/plain", Value: n.Body})
	}
	if n.HTML != "" {
		m.Content = append(m.Content, sendGridContent{Type: "text/html", Value: n.HTML})
	}

	return post(ctx, s.client, ChannelEmail, s.baseURL+"/mail/send", s.apiKey, m)
}

// WhatsAppSender sends text messages through the WhatsApp Cloud API.
type WhatsAppSender struct {
	token   string
	phoneID string
	baseURL string
	client  *http.Client
}

type WhatsAppConfig struct {
	Token         string
	PhoneNumberID string
	BaseURL       string
	HTTPClient    *http.Client
}

func NewWhatsAppSender(cfg WhatsAppConfig) *WhatsAppSender {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultWhatsAppURL
	}
	return &WhatsAppSender{
		token:   cfg.Token,
		phoneID: cfg.PhoneNumberID,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  defaultClient(cfg.HTTPClient),
	}
}

func (s *WhatsAppSender) Channel() string { return ChannelWhatsApp }

func (s *WhatsAppSender) Validate(n Notification) error {
	if len(n.To) == 0 {
		return errors.New("at least one recipient is required")
	}
	for _, to := range n.To {
		if !phoneRgx.MatchString(NormalizePhone(to)) {
			return fmt.Errorf("invalid phone number %q", to)
		}
	}
	if strings.TrimSpace(n.Body) == "" {
		return errors.New("body is required")
	}
	return nil
}

type whatsAppText struct {
	Body string `json:"body"`
}

type whatsAppMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             whatsAppText `json:"text"`
}

// Send delivers one message per recipient. Every recipient is attempted; when
// any fail the result is a *DeliveryError naming who was and was not reached.
func (s *WhatsAppSender) Send(ctx context.Context, n Notification) error {
	if s.token == "" || s.phoneID == "" {
		return fmt.Errorf("%w: %s", ErrNotConfigured, ChannelWhatsApp)
	}
	if err := s.Validate(n); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", s.baseURL, s.phoneID)
	result := &DeliveryError{Channel: ChannelWhatsApp}
	for _, to := range n.To {
		msg := whatsAppMessage{
			MessagingProduct: "whatsapp",
			To:               strings.TrimPrefix(NormalizePhone(to), "+"),
			Type:             "text",
			Text:             whatsAppText{Body: n.Body},
		}
		if err := post(ctx, s.client, ChannelWhatsApp, url, s.token, msg); err != nil {
			result.Failed = append(result.Failed, RecipientError{To: to, Err: err})
			continue
		}
		result.Delivered = append(result.Delivered, to)
	}
	if len(result.Failed) > 0 {
		return result
	}
	return nil
}
