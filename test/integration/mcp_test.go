package integration_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/pnaas/internal/domain/project"
	"github.com/rpggio/pnaas/internal/testserver"
	"github.com/stretchr/testify/require"
)

type bearerTransport struct {
	token string
}

func (b bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return http.DefaultTransport.RoundTrip(req)
}

func dialMCP(ts *testserver.TestServer, token string) (*sdkmcp.ClientSession, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	transport := &sdkmcp.StreamableClientTransport{Endpoint: ts.URL("/mcp")}
	if token != "" {
		transport.HTTPClient = &http.Client{Transport: bearerTransport{token: token}}
	}
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	return client.Connect(ctx, transport, nil)
}

func connectMCP(t *testing.T, ts *testserver.TestServer) *sdkmcp.ClientSession {
	t.Helper()
	session, err := dialMCP(ts, ts.Token)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func toolText(t *testing.T, res *sdkmcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestMCPSharesStoreWithHTTP(t *testing.T) {
	ts := testserver.New(t, testserver.Options{})
	session := connectMCP(t, ts)
	ctx := context.Background()

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "submit_request",
		Arguments: map[string]any{"owner": "carol", "desc": "squeaky door"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	resid := toolText(t, res)
	require.True(t, project.IsResID(resid))

	// Visible over plain HTTP.
	code, body := retrieve(t, ts, resid)
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, string(body), `"owner":"carol"`)

	res, err = session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "add_response",
		Arguments: map[string]any{"resid": resid, "response": "oiled it"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var doc project.Document
	require.NoError(t, json.Unmarshal([]byte(toolText(t, res)), &doc))
	require.Equal(t, project.StatusResponded, doc.Status)
	require.Equal(t, "oiled it", doc.Responses[0].Response)
}

func TestMCPRetrieveUnknown(t *testing.T) {
	ts := testserver.New(t, testserver.Options{})
	session := connectMCP(t, ts)

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "retrieve_project",
		Arguments: map[string]any{"resid": "0000000000000000000000000000dead"},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)
}

func TestMCPSubmissionCountsOnce(t *testing.T) {
	ts := testserver.New(t, testserver.Options{})
	session := connectMCP(t, ts)

	_, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "submit_request",
		Arguments: map[string]any{"owner": "x", "desc": "y"},
	})
	require.NoError(t, err)
	code, _ := submit(t, ts, url.Values{"owner": {"x"}, "desc": {"y"}})
	require.Equal(t, http.StatusOK, code)

	require.EqualValues(t, 2, ts.ProjectCount(t))
}

func TestMCPRequiresResponderToken(t *testing.T) {
	ts := testserver.New(t, testserver.Options{Token: "responder-secret"})
	_, resid := submit(t, ts, url.Values{"owner": {"alice"}, "desc": {"x"}})

	_, err := dialMCP(ts, "")
	require.Error(t, err)

	_, err = dialMCP(ts, "wrong")
	require.Error(t, err)

	_, body := retrieve(t, ts, resid)
	require.Contains(t, string(body), `"responses":[]`)
	require.Contains(t, string(body), `"status":"Open"`)

	session := connectMCP(t, ts)
	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "add_response",
		Arguments: map[string]any{"resid": resid, "response": "with token"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Contains(t, toolText(t, res), `"status":"Responded"`)
}
