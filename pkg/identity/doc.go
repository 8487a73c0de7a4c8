// Package identity provides the authenticated identity of a request.
//
// An Identity combines verified access token claims (subject, e-mail,
// metadata roles) with the role resolved for the user and request context
// such as the client IP.
//
// # Basic Usage
//
//	id := identity.FromClaims(claims)
//	id.WithRole(resolver.Resolve(ctx, id.Subject())).
//	   WithRemoteIP(clientIP)
//
//	ctx = identity.Set(ctx, id)
//
//	id, ok := identity.Get(ctx)
package identity
