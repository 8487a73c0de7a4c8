package role

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Resolution sources, in lookup order.
const (
	SourceDatabase = "database"
	SourceMetadata = "metadata"
	SourceEmail    = "email"
	SourceDefault  = "default"
)

// AssignmentSource looks up role assignments recorded for a user.
type AssignmentSource interface {
	RolesForUser(ctx context.Context, userID string) ([]Role, error)
}

// Subject is what is known about the caller when resolving a role.
type Subject struct {
	UserID        string
	Email         string
	MetadataRoles []string
}

// Resolution is a resolved role and where it came from.
type Resolution struct {
	Role   Role   `json:"role"`
	Source string `json:"source"`
}

// Resolver determines a user's effective role.
type Resolver struct {
	source      AssignmentSource
	superadmins map[string]struct{}
	defaultRole Role
	logger      *zap.Logger
}

type ResolverOption func(*Resolver)

// WithSuperadminEmails sets the e-mail addresses that always resolve to
// superadmin.
func WithSuperadminEmails(emails []string) ResolverOption {
	return func(r *Resolver) {
		for _, e := range emails {
			e = strings.ToLower(strings.TrimSpace(e))
			if e != "" {
				r.superadmins[e] = struct{}{}
			}
		}
	}
}

// WithDefaultRole sets the role used when no source yields one.
func WithDefaultRole(def Role) ResolverOption {
	return func(r *Resolver) {
		r.defaultRole = def
	}
}

func WithLogger(l *zap.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = l
	}
}

func NewResolver(source AssignmentSource, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		source:      source,
		superadmins: make(map[string]struct{}),
		defaultRole: RoleUser,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve walks the fallback chain: stored assignments, then token
// metadata roles together with the superadmin e-mail list, then the default
// role. A step is only consulted when the previous ones yield no role; within
// a step the highest-ranked role wins. A failing assignment lookup is logged
// and treated as yielding nothing.
func (r *Resolver) Resolve(ctx context.Context, subject Subject) Resolution {
	if r.source != nil && subject.UserID != "" {
		roles, err := r.source.RolesForUser(ctx, subject.UserID)
		if err != nil {
			r.logger.Warn("role lookup failed, falling back",
				zap.String("user_id", subject.UserID), zap.Error(err))
		}
		if best, ok := Highest(roles...); ok {
			return Resolution{Role: best, Source: SourceDatabase}
		}
	}

	var (
		res   Resolution
		found bool
	)
	if best, ok := Highest(ParseAll(subject.MetadataRoles...)...); ok {
		res, found = Resolution{Role: best, Source: SourceMetadata}, true
	}
	if _, ok := r.superadmins[strings.ToLower(strings.TrimSpace(subject.Email))]; ok && subject.Email != "" {
		if !found || res.Role < RoleSuperadmin {
			res, found = Resolution{Role: RoleSuperadmin, Source: SourceEmail}, true
		}
	}
	if found {
		return res
	}
	return Resolution{Role: r.defaultRole, Source: SourceDefault}
}
