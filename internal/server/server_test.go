package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/calcwidget"
)

func newTestServer(t *testing.T) (*Server, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return New(calcwidget.Default(calcwidget.WithLogger(logger)), logger), hook
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/solve", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) SolveResponse {
	t.Helper()
	var resp SolveResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestSolve(t *testing.T) {
	srv, _ := newTestServer(t)
	tests := []struct {
		name      string
		input     string
		result    string
		kind      string
		errorKind string
	}{
		{name: "integral", input: "∫ x^2 dx", result: "x ^ 3 / 3", kind: "integral"},
		{name: "derivative", input: "d/dx x^2", result: "2 * x", kind: "derivative"},
		{name: "unrecognized", input: "x^2", errorKind: "unrecognized_request"},
		{name: "unsupported", input: "∫ sin(x) dx", kind: "integral", errorKind: "unsupported_expression"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(SolveRequest{Input: tt.input})
			require.NoError(t, err)
			rec := post(t, srv, string(body))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			resp := decode(t, rec)
			assert.Equal(t, tt.input, resp.Input)
			assert.Equal(t, tt.kind, resp.Kind)
			assert.Equal(t, tt.result, resp.Result)
			assert.Equal(t, tt.errorKind, resp.ErrorKind)
			if tt.errorKind != "" {
				assert.NotEmpty(t, resp.Error)
				assert.Nil(t, resp.Tree)
			} else {
				assert.Empty(t, resp.Error)
				assert.NotEmpty(t, resp.LaTeX)
				assert.NotNil(t, resp.Tree)
			}
		})
	}
}

func TestSolve_BadRequests(t *testing.T) {
	srv, _ := newTestServer(t)
	tests := []struct {
		name string
		body string
	}{
		{"not json", "∫ x dx"},
		{"unknown field", `{"input": "∫ x dx", "mode": "fast"}`},
		{"trailing data", `{"input": "∫ x dx"} {}`},
		{"too large", `{"input": "` + strings.Repeat("x", maxBodyBytes) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, srv, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestSolve_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/solve", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestID(t *testing.T) {
	srv, hook := newTestServer(t)
	rec := post(t, srv, `{"input": "∫ x dx"}`)
	id := rec.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	var logged bool
	for _, e := range hook.AllEntries() {
		if e.Message == "solve" {
			logged = true
			assert.Equal(t, id, e.Data["request_id"])
			assert.Equal(t, "∫ x dx", e.Data["input"])
		}
	}
	assert.True(t, logged)
}

func TestExamplesAndHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/examples", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var examples struct {
		Integral   []string `json:"integral"`
		Derivative []string `json:"derivative"`
		Forms      []string `json:"forms"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&examples))
	assert.Equal(t, []string{"x^2", "3*x^2", "x", "5*x"}, examples.Forms)
	for _, in := range append(examples.Integral, examples.Derivative...) {
		assert.Nil(t, srv.solver.Evaluate(in).Err, in)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRecoverer(t *testing.T) {
	logger, hook := test.NewNullLogger()
	h := recoverer(logger, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/solve", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestNewResponse_ClassifiedError(t *testing.T) {
	res := calcwidget.Default().Evaluate("∫ x^2")
	resp := NewResponse(res)
	assert.Equal(t, "invalid_format", resp.ErrorKind)
	assert.Equal(t, "Invalid integral format. Use: ∫ x^2 dx", resp.Error)
	assert.Empty(t, resp.Kind)
}
