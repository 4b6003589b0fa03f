package commands

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testItemsURL = "https://api.example.com/items"

// execute runs the root command in an empty working directory.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var out, errOut bytes.Buffer
	cmd := NewRootCommand("test")
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func decodeDescriptor(t *testing.T, out string) descriptorOutput {
	t.Helper()
	var d descriptorOutput
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	return d
}

func TestBuildCommandDefaults(t *testing.T) {
	out, _, err := execute(t, "build", testItemsURL, "--log-level", "disabled")
	require.NoError(t, err)

	d := decodeDescriptor(t, out)
	assert.Equal(t, "GET", d.Method)
	assert.Equal(t, testItemsURL, d.URL)
	assert.Equal(t, []string{"application/json"}, d.Headers["Content-Type"])
	assert.Equal(t, "use_protocol_cache_policy", d.CachePolicy)
	assert.Equal(t, "10s", d.Timeout)
	assert.Empty(t, d.Body)
	assert.Empty(t, d.BodyBase64)
}

func TestBuildCommandFlags(t *testing.T) {
	out, _, err := execute(t, "build", testItemsURL+"?fixed=1",
		"-X", "post",
		"-q", "tag=a", "-q", "page=2", "-q", "tag=b",
		"-H", "X-Tenant: acme",
		"-d", `{"name":"widget"}`,
		"--cache-policy", "reload-ignoring-local-cache-data",
		"--timeout", "3s",
	)
	require.NoError(t, err)

	d := decodeDescriptor(t, out)
	assert.Equal(t, "POST", d.Method)
	assert.Equal(t, testItemsURL+"?fixed=1&tag=a&page=2&tag=b", d.URL)
	assert.Equal(t, []string{"acme"}, d.Headers["X-Tenant"])
	assert.Equal(t, "reload_ignoring_local_cache_data", d.CachePolicy)
	assert.Equal(t, "3s", d.Timeout)
	assert.JSONEq(t, `{"name":"widget"}`, string(d.Body))
}

func TestBuildCommandBinaryBody(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "avatar.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0o600))

	out, _, err := execute(t, "build", testItemsURL, "-X", "PUT", "--content-type", "png", "--data-file", path)
	require.NoError(t, err)

	d := decodeDescriptor(t, out)
	assert.Equal(t, []string{"image/png"}, d.Headers["Content-Type"])
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{0x89, 'P', 'N', 'G'}), d.BodyBase64)
	assert.Empty(t, d.Body)
}

func TestBuildCommandConfigDefaults(t *testing.T) {
	out, _, err := execute(t, "build", testItemsURL,
		"--config-inline", "request:\n  method: DELETE\n  headers:\n    X-Api-Version: \"2\"\n",
		"-H", "X-Tenant:acme",
	)
	require.NoError(t, err)

	d := decodeDescriptor(t, out)
	assert.Equal(t, "DELETE", d.Method)
	assert.Equal(t, []string{"2"}, d.Headers["X-Api-Version"])
	assert.Equal(t, []string{"acme"}, d.Headers["X-Tenant"])
}

func TestBuildCommandHeaderFlagOverridesAnyCase(t *testing.T) {
	out, _, err := execute(t, "build", testItemsURL,
		"--config-inline", "request:\n  headers:\n    x-tenant: a\n",
		"-H", "X-Tenant:b",
	)
	require.NoError(t, err)

	d := decodeDescriptor(t, out)
	assert.Equal(t, []string{"b"}, d.Headers["X-Tenant"])
}

func TestBuildCommandBaseURL(t *testing.T) {
	out, _, err := execute(t, "build", "items",
		"--config-inline", "request:\n  baseurl: https://api.example.com/\n",
		"-q", "page=2",
	)
	require.NoError(t, err)

	d := decodeDescriptor(t, out)
	assert.Equal(t, testItemsURL+"?page=2", d.URL)
}

func TestBuildCommandErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{"get with body", []string{"build", testItemsURL, "-d", `{"a":1}`}, "data passed for GET request"},
		{"relative url", []string{"build", "/items"}, "invalid endpoint"},
		{"bad method", []string{"build", testItemsURL, "-X", "FETCH"}, "FETCH"},
		{"bad query", []string{"build", testItemsURL, "-q", "novalue"}, "expected name=value"},
		{"bad header", []string{"build", testItemsURL, "-H", "NoColon"}, "expected Name:Value"},
		{"bad content type", []string{"build", testItemsURL, "--content-type", "xml"}, "content type"},
		{"missing config file", []string{"build", testItemsURL, "--config", "missing.yaml"}, "missing.yaml"},
		{"data and data file", []string{"build", testItemsURL, "-d", "{}", "--data-file", "x"}, "none of the others"},
		{"missing url", []string{"build"}, "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestSendCommand(t *testing.T) {
	var calls atomic.Int32
	var gotBody atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		body, _ := io.ReadAll(r.Body)
		gotBody.Store(string(body))
		assert.Equal(t, "acme", r.Header.Get("X-Tenant"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	defer srv.Close()

	out, _, err := execute(t, "send", srv.URL, "-X", "POST", "-H", "X-Tenant: acme", "-d", `{"name":"widget"}`, "--log-level", "disabled")
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.JSONEq(t, `{"name":"widget"}`, gotBody.Load().(string))
	assert.True(t, strings.HasPrefix(out, "HTTP 201 Created (attempts: 1"), out)
	assert.Contains(t, out, `{"id":1}`+"\n")
}

func TestSendCommandRetriesAndReportsFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	out, stderr, err := execute(t, "send", srv.URL,
		"--config-inline", "retry:\n  strategy: fixed\n  maxattempts: 2\n  basedelay: 1ms\n",
		"--log-level", "warn",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP error 503")
	assert.Equal(t, int32(3), calls.Load())
	assert.Contains(t, out, "HTTP 503 Service Unavailable (attempts: 3")
	assert.Contains(t, stderr, "REST client retry")
}

func TestSendCommandMultipleURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path))
	}))
	defer srv.Close()

	out, _, err := execute(t, "send", srv.URL+"/a", srv.URL+"/b", "--log-level", "disabled")
	require.NoError(t, err)

	a := strings.Index(out, "==> "+srv.URL+"/a")
	b := strings.Index(out, "==> "+srv.URL+"/b")
	require.GreaterOrEqual(t, a, 0)
	require.Greater(t, b, a)
	assert.Contains(t, out, "/a\n")
}

func TestSendCommandLogsRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	_, stderr, err := execute(t, "send", srv.URL, "-H", "Authorization: Bearer secret", "--config-inline", "client:\n  logpayloads: true\n", "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, stderr, "REST client request")
	assert.Contains(t, stderr, "REST client response")
	assert.NotContains(t, stderr, "Bearer secret")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "requestkit version test\nBuilt with "+runtime.Version()+" "+runtime.GOOS+"/"+runtime.GOARCH+"\n", out)
}
