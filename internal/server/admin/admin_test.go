package admin

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/punchkeeper/internal/server/auth"
	"github.com/dmitrijs2005/punchkeeper/internal/server/config"
	"github.com/dmitrijs2005/punchkeeper/internal/server/repositories/repomanager"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return cfg
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(testConfig())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func withMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	old := openDB
	openDB = func(string) (*sql.DB, error) { return db, nil }
	t.Cleanup(func() { openDB = old })
	return mock
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(testConfig())
	for _, name := range []string{"token", "employee", "entitlement"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	dsn := cmd.PersistentFlags().Lookup("dsn")
	require.NotNil(t, dsn)
	assert.Equal(t, "d", dsn.Shorthand)
}

func TestToken_RoundTrip(t *testing.T) {
	out, err := run(t, "token", "--tenant", "acme", "--user", "u-42", "--role", "manager", "--secret", "s3cret", "--validity", "1h")
	require.NoError(t, err)

	p, err := auth.ParseToken(strings.TrimSpace(out), []byte("s3cret"))
	require.NoError(t, err)
	assert.Equal(t, auth.Principal{TenantID: "acme", UserID: "u-42", Role: auth.RoleManager}, p)
}

func TestToken_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad role", []string{"token", "--tenant", "a", "--user", "u", "--role", "admin"}, "invalid role"},
		{"zero validity", []string{"token", "--tenant", "a", "--user", "u", "--validity", "0s"}, "validity"},
		{"missing user", []string{"token", "--tenant", "a"}, "user"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEmployee_Upsert(t *testing.T) {
	mock := withMockDB(t)
	mock.ExpectExec("INSERT INTO employees").
		WithArgs("acme", "u-42", "Dana K", "2024-02-01").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectClose()

	out, err := run(t, "employee", "--tenant", "acme", "--user", "u-42", "--name", "Dana K", "--hire-date", "2024-02-01")
	require.NoError(t, err)
	assert.Equal(t, "employee acme/u-42 saved\n", out)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployee_BadHireDate(t *testing.T) {
	mock := withMockDB(t)

	_, err := run(t, "employee", "--tenant", "acme", "--user", "u-42", "--hire-date", "01/02/2024")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hire-date")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntitlement_Set(t *testing.T) {
	mock := withMockDB(t)
	mock.ExpectExec("INSERT INTO leave_entitlements").
		WithArgs("acme", "ANNUAL", 25).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectClose()

	out, err := run(t, "entitlement", "--tenant", "acme", "--type", "annual", "--days", "25")
	require.NoError(t, err)
	assert.Equal(t, "acme: 25 days of ANNUAL\n", out)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntitlement_Errors(t *testing.T) {
	_, err := run(t, "entitlement", "--tenant", "acme", "--type", "SABBATICAL", "--days", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid leave type")

	_, err = run(t, "entitlement", "--tenant", "acme", "--type", "SICK", "--days", "-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative")
}

type failingMigrations struct {
	repomanager.RepositoryManager
	called bool
}

func (m *failingMigrations) RunMigrations(ctx context.Context, db *sql.DB) error {
	m.called = true
	return errors.New("boom")
}

func TestMigrateFlag_RunsMigrations(t *testing.T) {
	withMockDB(t)

	fake := &failingMigrations{RepositoryManager: repomanager.NewPostgresRepositoryManager()}
	old := newRepositoryManager
	newRepositoryManager = func() repomanager.RepositoryManager { return fake }
	t.Cleanup(func() { newRepositoryManager = old })

	_, err := run(t, "entitlement", "--migrate", "--tenant", "acme", "--type", "SICK", "--days", "5")
	require.Error(t, err)
	assert.True(t, fake.called)
	assert.Contains(t, err.Error(), "migrations error")
}
