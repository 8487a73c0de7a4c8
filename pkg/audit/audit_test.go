package audit

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)

	logger.Log(AuthenticateEvent{
		UserID:   "user-123",
		Email:    "skipper@example.com",
		ClientIP: "192.168.1.1",
		Method:   "jwt",
		Success:  true,
	})

	output := buf.String()

	// <PRI>1 TIMESTAMP HOST APP PID MSGID SD MSG
	pattern := regexp.MustCompile(`^<86>1 \d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z \S+ yachtexcel \d+ authn \[`)
	if !pattern.MatchString(output) {
		t.Errorf("unexpected RFC5424 header: %q", output)
	}
	for _, want := range []string{
		`[action@32473 operation="authenticate" result="success"]`,
		`[auth@32473 authenticator="jwt" email="skipper@example.com" user="user-123"]`,
		`[client@32473 ip="192.168.1.1"]`,
		"user-123 successfully authenticated with jwt\n",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output %q does not contain %q", output, want)
		}
	}
}

func TestFormatStructuredData(t *testing.T) {
	got := formatStructuredData(map[string]map[string]string{
		"b@1": {"z": "1", "a": `q"uo]te\`},
		"a@1": {"empty": ""},
	})
	want := `[a@1][b@1 a="q\"uo\]te\\" z="1"]`
	if got != want {
		t.Errorf("formatStructuredData() = %s, want %s", got, want)
	}
	if formatStructuredData(nil) != "" {
		t.Error("expected empty string for nil structured data")
	}
}

func TestAuthenticateEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   AuthenticateEvent
		wantMsg string
		wantSev Severity
	}{
		{
			name:    "successful authentication",
			event:   AuthenticateEvent{UserID: "u1", Method: "jwt", Success: true},
			wantMsg: "u1 successfully authenticated with jwt",
			wantSev: SeverityInfo,
		},
		{
			name:    "failed authentication without subject",
			event:   AuthenticateEvent{Method: "jwt", ErrorMessage: "token is expired"},
			wantMsg: "anonymous failed to authenticate with jwt: token is expired",
			wantSev: SeverityWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.event.Message() != tt.wantMsg {
				t.Errorf("Message() = %q, want %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.Facility() != FacilityAuthPriv {
				t.Errorf("Facility() = %v, want %v", tt.event.Facility(), FacilityAuthPriv)
			}
			if tt.event.MessageID() != "authn" {
				t.Errorf("MessageID() = %v, want authn", tt.event.MessageID())
			}
		})
	}
}

func TestAccessEvent(t *testing.T) {
	event := AccessEvent{UserID: "u1", Role: "viewer", Resource: "yachts", Action: "delete"}

	if event.Message() != "u1 (viewer) requested delete on yachts: denied" {
		t.Errorf("Message() = %q", event.Message())
	}
	if event.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want SeverityWarning", event.Severity())
	}
	if event.StructuredData()[SDIDAction]["result"] != "failure" {
		t.Error("expected failure result")
	}

	event.Allowed = true
	if !strings.HasSuffix(event.Message(), ": allowed") {
		t.Errorf("Message() = %q, want allowed", event.Message())
	}
}

func TestRoleChangeEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   RoleChangeEvent
		wantMsg string
	}{
		{
			name:    "first assignment",
			event:   RoleChangeEvent{UserID: "admin", TargetUserID: "u2", NewRole: "manager", Operation: "assign", Success: true},
			wantMsg: "admin changed role of u2 from none to manager",
		},
		{
			name:    "revoke",
			event:   RoleChangeEvent{UserID: "admin", TargetUserID: "u2", OldRole: "manager", Operation: "revoke", Success: true},
			wantMsg: "admin revoked role manager from u2",
		},
		{
			name:    "failure",
			event:   RoleChangeEvent{UserID: "admin", TargetUserID: "u2", Operation: "assign", ErrorMessage: "invalid role"},
			wantMsg: "admin tried to assign role of u2: invalid role",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.event.Message() != tt.wantMsg {
				t.Errorf("Message() = %q, want %q", tt.event.Message(), tt.wantMsg)
			}
		})
	}
}

func TestExtractionEvent(t *testing.T) {
	event := ExtractionEvent{UserID: "u1", ProcessorID: "abc123", FileName: "registry.pdf", FieldCount: 7, Success: true}
	if event.Message() != "u1 extracted 7 fields from registry.pdf with processor abc123" {
		t.Errorf("Message() = %q", event.Message())
	}
	if event.StructuredData()[SDIDSubject]["fields"] != "7" {
		t.Error("expected field count in structured data")
	}
	if event.Facility() != FacilityLocal0 {
		t.Errorf("Facility() = %d", event.Facility())
	}
}

func TestProviderChangeEvent(t *testing.T) {
	event := ProviderChangeEvent{UserID: "u1", ProviderName: "openai", Operation: "delete", Success: true}
	if event.Message() != "u1 deleted AI provider openai" {
		t.Errorf("Message() = %q", event.Message())
	}
	event.Operation = "rotate"
	if event.Message() != "u1 rotated AI provider openai" {
		t.Errorf("Message() = %q", event.Message())
	}
	event.Success = false
	event.ErrorMessage = "boom"
	if event.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v", event.Severity())
	}
}

func TestNotificationEvent(t *testing.T) {
	event := NotificationEvent{UserID: "u1", Channel: "whatsapp", Recipients: 2, Success: true}
	if event.Message() != "u1 sent whatsapp notification to 2 recipient(s)" {
		t.Errorf("Message() = %q", event.Message())
	}
}

func TestLogRespectsEnabled(t *testing.T) {
	var buf bytes.Buffer
	DefaultLogger.SetWriter(&buf)
	t.Cleanup(func() {
		DefaultLogger.SetWriter(&bytes.Buffer{})
		Configure(true, nil)
	})

	Configure(false, nil)
	Log(context.Background(), AccessEvent{UserID: "u1"})
	if buf.Len() != 0 {
		t.Errorf("expected no output when disabled, got %q", buf.String())
	}

	Configure(true, nil)
	Log(context.Background(), AccessEvent{UserID: "u1"})
	if !strings.Contains(buf.String(), " check ") {
		t.Errorf("expected check event, got %q", buf.String())
	}
}
