package apigw

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHandler запоминает последний запрос
type recordingHandler struct {
	last     *Request
	response *Response
}

func (h *recordingHandler) Handle(req *Request) *Response {
	h.last = req
	return h.response
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ":8080", config.ListenAddress)
	assert.Equal(t, DefaultMaxBodyBytes, config.MaxBodyBytes)
	assert.Positive(t, config.ReadTimeout)
}

func TestGateway_ParsesRequest(t *testing.T) {
	handler := &recordingHandler{response: &Response{
		StatusCode: http.StatusOK,
		Headers:    http.Header{"Content-Type": []string{"text/plain"}},
		Body:       []byte("pong"),
	}}
	gw := New(DefaultConfig(), handler)

	tests := []struct {
		name         string
		method       string
		target       string
		body         string
		expectedPath string
	}{
		{name: "GET with path", method: http.MethodGet, target: "/api/handler?path=files/list", expectedPath: "files/list"},
		{name: "POST without path", method: http.MethodPost, target: "/", body: `{"a":1}`, expectedPath: ""},
		{name: "DELETE on nested route", method: http.MethodDelete, target: "/x/y/z?path=obj", expectedPath: "obj"},
		{name: "PATCH with body", method: http.MethodPatch, target: "/?path=p&extra=1", body: "raw", expectedPath: "p"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			gw.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "pong", rec.Body.String())
			assert.Equal(t, "4", rec.Header().Get("Content-Length"))

			require.NotNil(t, handler.last)
			assert.Equal(t, tc.method, handler.last.Method)
			assert.Equal(t, tc.expectedPath, handler.last.Path)
			assert.Equal(t, tc.body, string(handler.last.Body))
			assert.Equal(t, "application/json", handler.last.Headers.Get("Content-Type"))
			assert.NotNil(t, handler.last.Context)
		})
	}
}

func TestGateway_BodyTooLarge(t *testing.T) {
	handler := &recordingHandler{response: &Response{StatusCode: http.StatusOK}}
	config := DefaultConfig()
	config.MaxBodyBytes = 4
	gw := New(config, handler)

	req := httptest.NewRequest(http.MethodPost, "/?path=x", strings.NewReader("too large body"))
	rec := httptest.NewRecorder()

	gw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "request body too large")
	assert.Nil(t, handler.last)
}

func TestGateway_NilResponse(t *testing.T) {
	gw := New(DefaultConfig(), RequestHandlerFunc(func(req *Request) *Response { return nil }))

	rec := httptest.NewRecorder()
	gw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGateway_RealServer(t *testing.T) {
	gw := New(DefaultConfig(), RequestHandlerFunc(func(req *Request) *Response {
		return TextResponse(http.StatusBadRequest, "bad: "+req.Path)
	}))

	server := httptest.NewServer(gw.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/?path=thing")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "bad: thing", string(body))
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
}
