// Package testutil holds the request builders, response assertions and
// scenario helpers shared by handler and service tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewRequest builds a request without a body.
func NewRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, path, nil)
}

// NewRequestWithBody sends body verbatim as JSON, for malformed payload cases.
func NewRequestWithBody(t *testing.T, method, path, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewJSONRequest marshals body and sets the JSON content type.
func NewJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err, "marshal request body")
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func DoRequest(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// UnmarshalResponse decodes the recorded body into a T.
func UnmarshalResponse[T any](t *testing.T, rr *httptest.ResponseRecorder) *T {
	t.Helper()
	raw, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	out := new(T)
	require.NoError(t, json.Unmarshal(raw, out), "decode response: %s", raw)
	return out
}

// ErrorBody mirrors the JSON error envelope written by httputil.WriteError.
type ErrorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	assert.Equal(t, want, rr.Code, "status; body: %s", rr.Body.String())
}

// AssertStatusAndError checks the status and the error code of the envelope.
func AssertStatusAndError(t *testing.T, rr *httptest.ResponseRecorder, wantStatus int, wantCode string) *ErrorBody {
	t.Helper()
	AssertStatus(t, rr, wantStatus)
	body := UnmarshalResponse[ErrorBody](t, rr)
	assert.Equal(t, wantCode, body.Error, "error code")
	return body
}
