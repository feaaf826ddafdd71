package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const cliCalls = `{"calls":[
	{"call_id":"call_1","call_type":"phone_call","direction":"inbound","from_number":"+16502530000","start_timestamp":1700000000000,"end_timestamp":1700000060000,"call_status":"ended"},
	{"call_id":"call_2","call_type":"web_call","start_timestamp":1700000100000,"end_timestamp":1700000130000,"call_status":"ended"}
],"next_cursor":"page2"}`

func fakeUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer cli-key" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"bad key"}`))
			return
		}
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/list-calls":
			_, _ = w.Write([]byte(cliCalls))
		case r.Method == http.MethodGet && r.URL.Path == "/get-call/call_1":
			_, _ = w.Write([]byte(`{"call_id":"call_1","call_type":"phone_call","start_timestamp":1700000000000}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"call not found"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("RETELL_API_KEY", "cli-key")
	t.Setenv("DASHBOARD_TIMEZONE", "UTC")

	srv := fakeUpstream(t)
	var out, errOut bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--base-url", srv.URL}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCallsCommand(t *testing.T) {
	out, err := runCLI(t, "calls", "--limit", "2")
	require.NoError(t, err)

	var page struct {
		Calls      []json.RawMessage `json:"calls"`
		NextCursor *string           `json:"next_cursor"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Len(t, page.Calls, 2)
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, "page2", *page.NextCursor)
}

func TestCallsCommandRejectsBadLimit(t *testing.T) {
	_, err := runCLI(t, "calls", "--limit", "ten")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid limit")
}

func TestDashboardCommand(t *testing.T) {
	out, err := runCLI(t, "dashboard")
	require.NoError(t, err)

	var snapshot map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &snapshot))
	assert.NotEmpty(t, snapshot)
}

func TestGetCommand(t *testing.T) {
	out, err := runCLI(t, "get", "call_1")
	require.NoError(t, err)
	assert.Contains(t, out, `"call_id": "call_1"`)
}

func TestGetCommandUpstreamError(t *testing.T) {
	_, err := runCLI(t, "get", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "call not found")
	assert.Contains(t, err.Error(), "status 404")
}

func TestExportCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.xlsx")

	out, err := runCLI(t, "export", "--out", path, "--search", "call_1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "exported 1 calls"), out)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Call Logs")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
