package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duck-insights/internal/api"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   map[string]interface{}
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
	srv      *httptest.Server
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	rec := recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Auth:   r.Header.Get("Authorization"),
	}
	_ = json.NewDecoder(r.Body).Decode(&rec.Body)
	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/generate-query":
		_, _ = w.Write([]byte(`{"sql":"SELECT name FROM customers LIMIT 5","explanation":"Top customers","confidence":0.85,"templateUsed":"top_customers"}`))
	case "/execute-query":
		if rec.Body["sql"] == "bad" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"query execution failed: syntax error"}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"name":"Acme","total":12.5},{"name":"Globex","total":null}],"columns":[{"name":"name","type":"VARCHAR"},{"name":"total","type":"DOUBLE"}],"rowCount":2,"executionTimeMs":7,"queryId":"q1","fromCache":true}`))
	case "/query-analytics":
		_, _ = w.Write([]byte(`{"totalQueries":3,"avgExecutionTimeMs":4.5,"cacheHits":1,"cacheMisses":2,"failedQueries":0,"recentQueries":[{"sql":"SELECT 1","executionTimeMs":3,"rowCount":1,"timestamp":"2026-01-02T03:04:05Z","status":"success"}]}`))
	case "/query-history":
		_, _ = w.Write([]byte(`{"queries":[{"id":"h1","sql":"SELECT 1","status":"success","principal":"alice","executionTimeMs":3,"rowCount":1,"timestamp":"2026-01-02T03:04:05Z"}]}`))
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeAPI) last(t *testing.T) recordedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

// isolateEnv clears CLI env vars and points the profile file at a temp dir.
func isolateEnv(t *testing.T) string {
	t.Helper()
	for _, k := range []string{"NLQ_HOST", "NLQ_TOKEN", "NLQ_OUTPUT", "NLQ_MODEL"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	t.Setenv("NLQ_CONFIG_DIR", dir)
	return dir
}

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestGenerate_ArgsJoinedIntoPrompt(t *testing.T) {
	isolateEnv(t)
	fake := newFakeAPI(t)

	out, _, err := runCLI(t, "", "--host", fake.srv.URL, "--model", "sales", "generate", "top", "5", "customers")
	require.NoError(t, err)

	req := fake.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/generate-query", req.Path)
	assert.Equal(t, "top 5 customers", req.Body["prompt"])
	assert.Equal(t, "sales", req.Body["modelId"])
	assert.Contains(t, out, "top_customers")
	assert.Contains(t, out, "0.85")
	assert.Contains(t, out, "SELECT name FROM customers LIMIT 5")
}

func TestGenerate_RequiresPrompt(t *testing.T) {
	isolateEnv(t)
	fake := newFakeAPI(t)

	_, _, err := runCLI(t, "", "--host", fake.srv.URL, "generate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provide a prompt")
}

func TestGenerate_QuietPrintsSQLOnly(t *testing.T) {
	isolateEnv(t)
	fake := newFakeAPI(t)

	out, _, err := runCLI(t, "", "--host", fake.srv.URL, "-q", "generate", "--prompt", "top customers")
	require.NoError(t, err)
	assert.Equal(t, "SELECT name FROM customers LIMIT 5\n", out)
}

func TestGenerate_RunExecutesGeneratedSQL(t *testing.T) {
	isolateEnv(t)
	fake := newFakeAPI(t)

	_, _, err := runCLI(t, "", "--host", fake.srv.URL, "generate", "top customers", "--run")
	require.NoError(t, err)

	req := fake.last(t)
	assert.Equal(t, "/execute-query", req.Path)
	assert.Equal(t, "SELECT name FROM customers LIMIT 5", req.Body["sql"])
	assert.Equal(t, true, req.Body["useCache"])
}

func TestExecute_TableOutput(t *testing.T) {
	isolateEnv(t)
	fake := newFakeAPI(t)

	out, errOut, err := runCLI(t, "", "--host", fake.srv.URL, "execute", "--sql", "SELECT 1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "name"))
	assert.Contains(t, lines[1], "Acme")
	assert.Contains(t, lines[1], "12.5")
	assert.Contains(t, lines[2], "NULL")
	assert.Contains(t, errOut, "(2 rows, 7 ms, cached)")
}

func TestExecute_ReadsPipedSQL(t *testing.T) {
	isolateEnv(t)
	fake := newFakeAPI(t)

	_, _, err := runCLI(t, "  SELECT 42\n", "--host", fake.srv.URL, "execute", "--no-cache")
	require.NoError(t, err)

	req := fake.last(t)
	assert.Equal(t, "SELECT 42", req.Body["sql"])
	assert.Equal(t, false, req.Body["useCache"])
}

func TestExecute_RequiresSQL(t *testing.T) {
	isolateEnv(t)
	fake := newFakeAPI(t)

	_, _, err := runCLI(t, "", "--host", fake.srv.URL, "execute")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provide SQL")
}

func TestExecute_ServerErrorSurfaces(t *testing.T) {
	isolateEnv(t)
	fake := newFakeAPI(t)

	_, _, err := runCLI(t, "", "--host", fake.srv.URL, "execute", "--sql", "bad")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.HTTPStatus)
	assert.Contains(t, apiErr.Message, "syntax error")
}

func TestExecute_JSONOutput(t *testing.T) {
	isolateEnv(t)
	fake := newFakeAPI(t)

	out, _, err := runCLI(t, "", "--host", fake.srv.URL, "-o", "json", "execute", "--sql", "SELECT 1")
	require.NoError(t, err)

	var res api.ExecutionResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2, res.RowCount)
	assert.True(t, res.FromCache)
	assert.Equal(t, "q1", res.QueryId)
}

func TestAnalytics_TableOutput(t *testing.T) {
	isolateEnv(t)
	fake := newFakeAPI(t)

	out, _, err := runCLI(t, "", "--host", fake.srv.URL, "analytics")
	require.NoError(t, err)
	assert.Equal(t, "/query-analytics", fake.last(t).Path)
	assert.Contains(t, out, "total queries:")
	assert.Contains(t, out, "4.5")
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "success")
}

func TestHistory_PassesLimit(t *testing.T) {
	isolateEnv(t)
	fake := newFakeAPI(t)

	out, _, err := runCLI(t, "", "--host", fake.srv.URL, "history", "--limit", "5")
	require.NoError(t, err)

	req := fake.last(t)
	assert.Equal(t, "/query-history", req.Path)
	assert.Equal(t, "limit=5", req.Query)
	assert.Contains(t, out, "h1")
	assert.Contains(t, out, "alice")
}

func TestHistory_RejectsNonPositiveLimit(t *testing.T) {
	isolateEnv(t)

	_, _, err := runCLI(t, "", "history", "--limit", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--limit")
}

func TestRoot_InvalidOutputFormat(t *testing.T) {
	isolateEnv(t)

	_, _, err := runCLI(t, "", "-o", "yaml", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestRoot_EnvOverridesProfile(t *testing.T) {
	dir := isolateEnv(t)
	fake := newFakeAPI(t)

	require.NoError(t, SaveUserConfig(&UserConfig{
		CurrentProfile: "default",
		Profiles: map[string]Profile{
			"default": {Host: "http://127.0.0.1:1", Token: "profile-token", Model: "sales"},
		},
	}))
	assert.FileExists(t, dir+"/config.yaml")
	t.Setenv("NLQ_HOST", fake.srv.URL)

	_, _, err := runCLI(t, "", "generate", "revenue")
	require.NoError(t, err)

	req := fake.last(t)
	assert.Equal(t, "Bearer profile-token", req.Auth)
	assert.Equal(t, "sales", req.Body["modelId"])
}

func TestRoot_FlagOverridesEnv(t *testing.T) {
	isolateEnv(t)
	fake := newFakeAPI(t)
	t.Setenv("NLQ_HOST", "http://127.0.0.1:1")
	t.Setenv("NLQ_TOKEN", "env-token")

	_, _, err := runCLI(t, "", "--host", fake.srv.URL, "--token", "flag-token", "analytics")
	require.NoError(t, err)
	assert.Equal(t, "Bearer flag-token", fake.last(t).Auth)
}

func TestRoot_NamedProfile(t *testing.T) {
	isolateEnv(t)
	fake := newFakeAPI(t)
	require.NoError(t, SaveUserConfig(&UserConfig{
		CurrentProfile: "default",
		Profiles: map[string]Profile{
			"default": {Host: "http://127.0.0.1:1"},
			"staging": {Host: fake.srv.URL, Token: "staging-token"},
		},
	}))

	_, _, err := runCLI(t, "", "--profile", "staging", "analytics")
	require.NoError(t, err)
	assert.Equal(t, "Bearer staging-token", fake.last(t).Auth)
}

func TestVersion(t *testing.T) {
	isolateEnv(t)

	out, _, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "nlq version dev (commit: none)\n", out)

	out, _, err = runCLI(t, "", "-o", "json", "version")
	require.NoError(t, err)
	var v map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "dev", v["version"])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "SELECT 1", truncate("SELECT\n  1", 20))
	assert.Equal(t, "SELECT ...", truncate("SELECT a, b, c FROM t", 10))
}
