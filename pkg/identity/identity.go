package identity

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yachtexcel/yachtexcel/pkg/role"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Metadata is the user or app metadata block of an access token.
type Metadata struct {
	Role  string   `json:"role,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// Claims are the claims of an access token issued by the auth platform.
type Claims struct {
	Email        string   `json:"email,omitempty"`
	UserMetadata Metadata `json:"user_metadata"`
	AppMetadata  Metadata `json:"app_metadata"`
	jwt.RegisteredClaims
}

// MetadataRoles returns the role names carried in the token's app metadata,
// without blanks or duplicates. User metadata is writable by the user
// through the auth platform and never grants a role.
func (c *Claims) MetadataRoles() []string {
	var out []string
	seen := make(map[string]bool)
	add := func(names ...string) {
		for _, n := range names {
			n = strings.ToLower(strings.TrimSpace(n))
			if n != "" && !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	add(c.AppMetadata.Role)
	add(c.AppMetadata.Roles...)
	return out
}

// Identity represents the authenticated identity for a request.
// It combines token claims with the resolved role and request context.
type Identity struct {
	// Token claims
	UserID        string
	Email         string
	MetadataRoles []string
	IssuedAt      time.Time
	ExpiresAt     time.Time

	// Resolved role
	Role       role.Role
	RoleSource string

	// Request context
	RemoteIP net.IP
}

// FromClaims creates an Identity from verified token claims.
func FromClaims(c *Claims) *Identity {
	id := &Identity{
		UserID:        c.Subject,
		Email:         strings.ToLower(strings.TrimSpace(c.Email)),
		MetadataRoles: c.MetadataRoles(),
	}
	if c.IssuedAt != nil {
		id.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return id
}

// Subject returns what the role resolver needs to know about the identity.
func (i *Identity) Subject() role.Subject {
	return role.Subject{
		UserID:        i.UserID,
		Email:         i.Email,
		MetadataRoles: i.MetadataRoles,
	}
}

// WithRole sets the resolved role.
func (i *Identity) WithRole(res role.Resolution) *Identity {
	i.Role = res.Role
	i.RoleSource = res.Source
	return i
}

// WithRemoteIP sets the remote IP address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

// ClientIP returns the remote IP as a string, or "" if unknown.
func (i *Identity) ClientIP() string {
	if i == nil || i.RemoteIP == nil {
		return ""
	}
	return i.RemoteIP.String()
}

// Can reports whether the identity's role is allowed action on resource.
func (i *Identity) Can(m role.Matrix, resource role.Resource, action role.Action) bool {
	return m.Allows(i.Role, resource, action)
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
