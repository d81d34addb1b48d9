package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shofy/internal/config"
	"github.com/Skotchmaster/shofy/pkg/logging"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()

	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate"}, names)

	flag := root.PersistentFlags().Lookup("env-file")
	require.NotNil(t, flag)
	assert.Equal(t, ".env", flag.DefValue)
}

func TestMigrateCommand_SQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", ":memory:")
	t.Setenv("LOG_LEVEL", "error")

	root := NewRootCommand()
	root.SetArgs([]string{"migrate", "--env-file", ""})
	require.NoError(t, root.Execute())
}

func TestMigrateCommand_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "")

	root := NewRootCommand()
	root.SetArgs([]string{"migrate", "--env-file", ""})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestNewApp_ServesRequests(t *testing.T) {
	cfg := &config.Config{
		ServiceName: "shofy",
		DBDriver:    "sqlite",
		DatabaseURL: ":memory:",
		AutoMigrate: true,
	}
	var buf bytes.Buffer
	a, err := newApp(context.Background(), cfg, logging.NewWithWriter(&buf, "info"))
	require.NoError(t, err)
	t.Cleanup(a.close)

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/user/", strings.NewReader(`{"name":"Bob","username":"bob","email":"b@x.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	a.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/product/search?q=x", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	assert.Contains(t, buf.String(), "search_disabled")
	assert.Contains(t, buf.String(), "request_completed")
}
