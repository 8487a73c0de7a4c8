// Package audit provides the security audit trail.
//
// Events are written in RFC5424 syslog format and, when a Store is
// configured, persisted to the audit_messages table.
//
// # Event Types
//
//   - AuthenticateEvent: bearer token authentication
//   - AccessEvent: permission checks
//   - RoleChangeEvent: role assignment and revocation
//   - ExtractionEvent: Document AI extraction runs
//   - ProviderChangeEvent: AI provider configuration changes
//   - NotificationEvent: e-mail and WhatsApp sends
//
// # Usage
//
//	audit.Log(ctx, audit.AccessEvent{UserID: id, Resource: "yachts", Action: "write"})
package audit
