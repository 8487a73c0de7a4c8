package audit

import (
	"fmt"
	"strconv"
)

// AuthenticateEvent is a bearer token authentication attempt
type AuthenticateEvent struct {
	UserID       string
	Email        string
	ClientIP     string
	Method       string
	Success      bool
	ErrorMessage string
}

func (e AuthenticateEvent) MessageID() string {
	return "authn"
}

func (e AuthenticateEvent) Message() string {
	who := e.UserID
	if who == "" {
		who = "anonymous"
	}
	if e.Success {
		return fmt.Sprintf("%s successfully authenticated with %s", who, e.Method)
	}
	return withError(fmt.Sprintf("%s failed to authenticate with %s", who, e.Method), e.ErrorMessage)
}

func (e AuthenticateEvent) Severity() Severity {
	return severity(e.Success)
}

func (e AuthenticateEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AuthenticateEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"authenticator": e.Method,
			"user":          e.UserID,
			"email":         e.Email,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "authenticate",
			"result":    result(e.Success),
		},
	}
}

// AccessEvent is a permission check on a resource
type AccessEvent struct {
	UserID   string
	Role     string
	ClientIP string
	Resource string
	Action   string
	Allowed  bool
}

func (e AccessEvent) MessageID() string {
	return "check"
}

func (e AccessEvent) Message() string {
	outcome := "allowed"
	if !e.Allowed {
		outcome = "denied"
	}
	return fmt.Sprintf("%s (%s) requested %s on %s: %s", e.UserID, e.Role, e.Action, e.Resource, outcome)
}

func (e AccessEvent) Severity() Severity {
	return severity(e.Allowed)
}

func (e AccessEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AccessEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
			"role": e.Role,
		},
		SDIDSubject: {
			"resource":  e.Resource,
			"privilege": e.Action,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "check",
			"result":    result(e.Allowed),
		},
	}
}

// RoleChangeEvent is the assignment or revocation of a stored role
type RoleChangeEvent struct {
	UserID       string
	ClientIP     string
	TargetUserID string
	OldRole      string
	NewRole      string
	Operation    string // "assign", "revoke"
	Success      bool
	ErrorMessage string
}

func (e RoleChangeEvent) MessageID() string {
	return "role"
}

func (e RoleChangeEvent) Message() string {
	if !e.Success {
		return withError(fmt.Sprintf("%s tried to %s role of %s", e.UserID, e.Operation, e.TargetUserID), e.ErrorMessage)
	}
	if e.Operation == "revoke" {
		return fmt.Sprintf("%s revoked role %s from %s", e.UserID, e.OldRole, e.TargetUserID)
	}
	from := e.OldRole
	if from == "" {
		from = "none"
	}
	return fmt.Sprintf("%s changed role of %s from %s to %s", e.UserID, e.TargetUserID, from, e.NewRole)
}

func (e RoleChangeEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e RoleChangeEvent) Facility() int {
	return FacilityAuth
}

func (e RoleChangeEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"member":   e.TargetUserID,
			"old_role": e.OldRole,
			"new_role": e.NewRole,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result(e.Success),
		},
	}
}

// ExtractionEvent is a Document AI extraction run
type ExtractionEvent struct {
	UserID       string
	ClientIP     string
	ExtractionID string
	ProcessorID  string
	FileName     string
	FieldCount   int
	Success      bool
	ErrorMessage string
}

func (e ExtractionEvent) MessageID() string {
	return "extract"
}

func (e ExtractionEvent) Message() string {
	doc := e.FileName
	if doc == "" {
		doc = "document"
	}
	if e.Success {
		return fmt.Sprintf("%s extracted %d fields from %s with processor %s", e.UserID, e.FieldCount, doc, e.ProcessorID)
	}
	return withError(fmt.Sprintf("%s tried to extract %s with processor %s", e.UserID, doc, e.ProcessorID), e.ErrorMessage)
}

func (e ExtractionEvent) Severity() Severity {
	return severity(e.Success)
}

func (e ExtractionEvent) Facility() int {
	return FacilityLocal0
}

func (e ExtractionEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"extraction": e.ExtractionID,
			"processor":  e.ProcessorID,
			"file":       e.FileName,
			"fields":     strconv.Itoa(e.FieldCount),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "extract",
			"result":    result(e.Success),
		},
	}
}

// ProviderChangeEvent is a change to an AI provider configuration
type ProviderChangeEvent struct {
	UserID       string
	ClientIP     string
	ProviderID   string
	ProviderName string
	Operation    string // "create", "update", "delete", "test"
	Success      bool
	ErrorMessage string
}

func (e ProviderChangeEvent) MessageID() string {
	return "ai-provider"
}

func (e ProviderChangeEvent) Message() string {
	var verb string
	switch e.Operation {
	case "create":
		verb = "created"
	case "update":
		verb = "updated"
	case "delete":
		verb = "deleted"
	case "test":
		verb = "tested"
	default:
		verb = e.Operation + "d"
	}
	if e.Success {
		return fmt.Sprintf("%s %s AI provider %s", e.UserID, verb, e.ProviderName)
	}
	return withError(fmt.Sprintf("%s tried to %s AI provider %s", e.UserID, e.Operation, e.ProviderName), e.ErrorMessage)
}

func (e ProviderChangeEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e ProviderChangeEvent) Facility() int {
	return FacilityAuth
}

func (e ProviderChangeEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"provider": e.ProviderID,
			"name":     e.ProviderName,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result(e.Success),
		},
	}
}

// NotificationEvent is an outbound e-mail or WhatsApp send
type NotificationEvent struct {
	UserID       string
	ClientIP     string
	Channel      string // "email", "whatsapp"
	Recipients   int
	Success      bool
	ErrorMessage string
}

func (e NotificationEvent) MessageID() string {
	return "notify"
}

func (e NotificationEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s sent %s notification to %d recipient(s)", e.UserID, e.Channel, e.Recipients)
	}
	return withError(fmt.Sprintf("%s tried to send %s notification", e.UserID, e.Channel), e.ErrorMessage)
}

func (e NotificationEvent) Severity() Severity {
	return severity(e.Success)
}

func (e NotificationEvent) Facility() int {
	return FacilityLocal0
}

func (e NotificationEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"channel":    e.Channel,
			"recipients": strconv.Itoa(e.Recipients),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "notify",
			"result":    result(e.Success),
		},
	}
}
