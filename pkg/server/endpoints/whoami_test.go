package endpoints

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yachtexcel/yachtexcel/pkg/role"
)

func TestWhoamiEndpoint(t *testing.T) {
	env := newTestEnv(t)

	t.Run("whoami with valid token", func(t *testing.T) {
		rec := env.do(t, "GET", "/whoami", "", "captain", role.RoleManager)
		requireStatus(t, rec, http.StatusOK)

		var result WhoamiResponse
		decodeBody(t, rec, &result)
		assert.Equal(t, "captain", result.UserID)
		assert.Equal(t, "captain@example.com", result.Email)
		assert.Equal(t, "manager", result.Role)
		assert.Equal(t, role.SourceMetadata, result.RoleSource)
		assert.Equal(t, "192.0.2.1", result.ClientIP)
		assert.False(t, result.ExpiresAt.IsZero())
	})

	t.Run("whoami without token", func(t *testing.T) {
		rec := env.do(t, "GET", "/whoami", "", "", 0)
		requireStatus(t, rec, http.StatusUnauthorized)
		code, msg := errorBody(t, rec)
		assert.Equal(t, "unauthorized", code)
		assert.Equal(t, "Authorization missing", msg)
	})
}

func TestMyPermissions(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/roles/me/permissions", "", "deckhand", role.RoleViewer)
	requireStatus(t, rec, http.StatusOK)

	var body PermissionsResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, role.RoleViewer, body.Role)
	assert.Equal(t, []role.Action{role.ActionRead}, body.Permissions[role.ResourceYachts])
	assert.NotContains(t, body.Permissions, role.ResourceAIProviders)
	assert.NotContains(t, body.Permissions, role.ResourceRoles)
}

func TestPermissionDenied(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/ai/providers", "", "deckhand", role.RoleUser)
	requireStatus(t, rec, http.StatusForbidden)
	code, msg := errorBody(t, rec)
	assert.Equal(t, "forbidden", code)
	assert.Equal(t, "role user may not read ai_providers", msg)
	env.providers.AssertNotCalled(t, "ListProviders")
}
