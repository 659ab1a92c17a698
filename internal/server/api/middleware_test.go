package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/punchkeeper/internal/common"
	"github.com/dmitrijs2005/punchkeeper/internal/logging"
	"github.com/dmitrijs2005/punchkeeper/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthRequired_ScopesLogLines(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewTextLogger(&buf, slog.LevelInfo)

	var seen auth.Principal
	h := AuthRequired(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = PrincipalFromContext(r.Context())
		log.Info(r.Context(), "punch saved")
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token(t, "acme", "u1", auth.RoleEmployee))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "acme", seen.TenantID)
	assert.Contains(t, buf.String(), "tenant_id=acme")
	assert.Contains(t, buf.String(), "user_id=u1")
}

func TestAuthRequired_MissingToken(t *testing.T) {
	called := false
	h := AuthRequired(testSecret)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}
