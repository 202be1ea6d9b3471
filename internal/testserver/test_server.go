package testserver

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rpggio/pnaas/internal/config"
	"github.com/rpggio/pnaas/internal/domain/project"
	"github.com/rpggio/pnaas/internal/mcp"
	"github.com/rpggio/pnaas/internal/metrics"
	"github.com/rpggio/pnaas/internal/storage"
	"github.com/rpggio/pnaas/internal/transport"
	"github.com/stretchr/testify/require"
)

// TestServer is the full HTTP stack over an in-memory database.
type TestServer struct {
	Server   *httptest.Server
	Store    *storage.Store
	Projects *project.Service
	Metrics  *metrics.Metrics
	Token    string
}

// Options tweaks the stack. The zero value uses the gorm store with an open /respond.
type Options struct {
	Driver string
	Token  string
}

func New(t *testing.T, opts Options) *TestServer {
	t.Helper()

	driver := opts.Driver
	if driver == "" {
		driver = config.DriverGorm
	}
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	store, err := storage.Open(config.DBConfig{URL: dsn, Driver: driver}, nil)
	require.NoError(t, err)

	m := metrics.New()
	projectSvc := project.NewService(store, nil, project.WithObserver(m))
	m.TrackProjects(projectSvc.Count)

	var responseAuth transport.TokenVerifier
	if opts.Token != "" {
		responseAuth = transport.StaticToken(opts.Token)
	}

	mcpServer := mcp.NewServer(mcp.Config{Projects: projectSvc, Version: "test"})
	server := httptest.NewServer(transport.NewServer(transport.Options{
		Projects:     projectSvc,
		Metrics:      m,
		ServeMetrics: true,
		ResponseAuth: responseAuth,
		MCP:          mcp.NewHTTPHandler(mcpServer),
		Health:       store.Ping,
	}))

	ts := &TestServer{
		Server:   server,
		Store:    store,
		Projects: projectSvc,
		Metrics:  m,
		Token:    opts.Token,
	}

	t.Cleanup(func() {
		server.Close()
		_ = store.Close()
	})

	return ts
}

// URL joins path onto the server address.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}

// ProjectCount reports the number of stored projects.
func (ts *TestServer) ProjectCount(t *testing.T) int64 {
	t.Helper()
	n, err := ts.Store.CountProjects(context.Background())
	require.NoError(t, err)
	return n
}
