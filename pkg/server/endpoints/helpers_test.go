package endpoints

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yachtexcel/yachtexcel/pkg/config"
	"github.com/yachtexcel/yachtexcel/pkg/identity"
	"github.com/yachtexcel/yachtexcel/pkg/role"
	"github.com/yachtexcel/yachtexcel/pkg/server"
	"github.com/yachtexcel/yachtexcel/pkg/server/middleware"
)

var testSecret = []byte("endpoint-test-secret-0123456789abcdef")

type testEnv struct {
	srv *server.Server

	yachts      *MockYachtsStore
	crew        *MockCrewStore
	equipment   *MockEquipmentStore
	inventory   *MockInventoryStore
	providers   *MockAIProvidersStore
	usage       *MockUsageStore
	roles       *MockRolesStore
	extractions *MockExtractionsStore
	health      *MockHealthStore
}

// newTestEnv builds a server backed by mock stores. setup runs before the
// routes are registered.
func newTestEnv(t *testing.T, setup ...func(*server.Server)) *testEnv {
	t.Helper()

	cfg := config.Default()
	cfg.APIListLimitMax = 100
	s := server.NewServer(nil, cfg, zap.NewNop(), "127.0.0.1:0")
	s.Resolver = role.NewResolver(nil)
	s.JWTMiddleware = middleware.NewJWTAuthenticator(testSecret, s.Resolver, nil)

	env := &testEnv{
		srv:         s,
		yachts:      &MockYachtsStore{},
		crew:        &MockCrewStore{},
		equipment:   &MockEquipmentStore{},
		inventory:   &MockInventoryStore{},
		providers:   &MockAIProvidersStore{},
		usage:       &MockUsageStore{},
		roles:       &MockRolesStore{},
		extractions: &MockExtractionsStore{},
		health:      &MockHealthStore{},
	}
	s.YachtsStore = env.yachts
	s.CrewStore = env.crew
	s.EquipmentStore = env.equipment
	s.InventoryStore = env.inventory
	s.AIProvidersStore = env.providers
	s.UsageStore = env.usage
	s.RolesStore = env.roles
	s.ExtractionsStore = env.extractions
	s.HealthStore = env.health

	for _, f := range setup {
		f(s)
	}
	RegisterAll(s)
	return env
}

func testToken(t *testing.T, userID string, r role.Role) string {
	t.Helper()
	now := time.Now()
	claims := identity.Claims{
		Email:       userID + "@example.com",
		AppMetadata: identity.Metadata{Role: r.String()},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

// do sends a request as userID with role r. An empty userID sends no
// Authorization header.
func (e *testEnv) do(t *testing.T, method, path, body, userID string, r role.Role) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+testToken(t, userID, r))
	}
	rec := httptest.NewRecorder()
	e.srv.Router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

// errorBody returns the code and message of a JSON error response.
func errorBody(t *testing.T, rec *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	decodeBody(t, rec, &body)
	return body.Error.Code, body.Error.Message
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "body: %s", rec.Body.String())
}
