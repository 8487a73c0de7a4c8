package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/yachtexcel/yachtexcel/pkg/audit"
	"github.com/yachtexcel/yachtexcel/pkg/identity"
	"github.com/yachtexcel/yachtexcel/pkg/role"
)

const authMethod = "jwt"

var (
	ErrMissingAuthorization = errors.New("authorization missing")
	ErrMalformedHeader      = errors.New("malformed authorization header")
	ErrMissingSubject       = errors.New("token has no subject")
)

// JWTAuthenticator is middleware that validates bearer access tokens
// signed with the auth platform's shared HS256 secret.
type JWTAuthenticator struct {
	secret   []byte
	resolver *role.Resolver
	logger   *zap.Logger
	proxies  TrustedProxies
	now      func() time.Time
}

// NewJWTAuthenticator creates a new JWT authenticator middleware
func NewJWTAuthenticator(secret []byte, resolver *role.Resolver, logger *zap.Logger) *JWTAuthenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if resolver == nil {
		resolver = role.NewResolver(nil)
	}
	return &JWTAuthenticator{
		secret:   secret,
		resolver: resolver,
		logger:   logger,
		now:      time.Now,
	}
}

// WithTrustedProxies makes the authenticator honour X-Forwarded-For on
// requests arriving from the given proxies.
func (j *JWTAuthenticator) WithTrustedProxies(proxies TrustedProxies) *JWTAuthenticator {
	j.proxies = proxies
	return j
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingAuthorization
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMalformedHeader
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMalformedHeader
	}
	return token, nil
}

// Verify checks the token signature and expiry and returns its claims.
func (j *JWTAuthenticator) Verify(tokenString string) (*identity.Claims, error) {
	if len(j.secret) == 0 {
		return nil, errors.New("no token secret configured")
	}

	claims := &identity.Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}

// Middleware returns an HTTP middleware that validates bearer tokens and
// stores the resolved identity in the request context.
func (j *JWTAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := j.proxies.ClientIP(r)

		tokenString, err := BearerToken(r.Header.Get("Authorization"))
		if err != nil {
			j.reject(w, r, clientIP, err)
			return
		}

		claims, err := j.Verify(tokenString)
		if err != nil {
			j.reject(w, r, clientIP, err)
			return
		}

		id := identity.FromClaims(claims).WithRemoteIP(net.ParseIP(clientIP))
		id.WithRole(j.resolver.Resolve(r.Context(), id.Subject()))

		audit.Log(r.Context(), audit.AuthenticateEvent{
			UserID:   id.UserID,
			Email:    id.Email,
			ClientIP: clientIP,
			Method:   authMethod,
			Success:  true,
		})

		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

func (j *JWTAuthenticator) reject(w http.ResponseWriter, r *http.Request, clientIP string, err error) {
	j.logger.Debug("authentication failed",
		zap.String("path", r.URL.Path),
		zap.String("client_ip", clientIP),
		zap.Error(err))

	audit.Log(r.Context(), audit.AuthenticateEvent{
		ClientIP:     clientIP,
		Method:       authMethod,
		Success:      false,
		ErrorMessage: err.Error(),
	})

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="yachtexcel"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    "unauthorized",
			"message": message(err),
		},
	})
}

func message(err error) string {
	switch {
	case errors.Is(err, ErrMissingAuthorization):
		return "Authorization missing"
	case errors.Is(err, ErrMalformedHeader):
		return "Malformed authorization header"
	case errors.Is(err, jwt.ErrTokenExpired):
		return "Token expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "Invalid signature"
	case errors.Is(err, ErrMissingSubject):
		return "Token has no subject"
	default:
		return fmt.Sprintf("Invalid token: %v", err)
	}
}
