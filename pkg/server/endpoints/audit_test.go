package endpoints

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yachtexcel/yachtexcel/pkg/audit"
	"github.com/yachtexcel/yachtexcel/pkg/role"
	"github.com/yachtexcel/yachtexcel/pkg/server"
)

func TestRecentAuditDisabled(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/audit", "", "adm", role.RoleAdmin)
	requireStatus(t, rec, http.StatusNotImplemented)

	rec = env.do(t, "GET", "/audit", "", "m", role.RoleManager)
	requireStatus(t, rec, http.StatusForbidden)
}

func TestRecentAudit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	env := newTestEnv(t, func(s *server.Server) { s.AuditStore = audit.NewStore(db) })
	mock.ExpectQuery("SELECT (.+) FROM audit_messages").
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows([]string{}))

	rec := env.do(t, "GET", "/audit?limit=500", "", "adm", role.RoleAdmin)
	requireStatus(t, rec, http.StatusOK)
	assert.NoError(t, mock.ExpectationsWereMet())

	rec = env.do(t, "GET", "/audit?limit=x", "", "adm", role.RoleAdmin)
	requireStatus(t, rec, http.StatusBadRequest)
}
