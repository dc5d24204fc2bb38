package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"s3bridge/apigw"
	"s3bridge/storage"
)

// newTestBackend отвечает фиксированными телами в зависимости от пути
func newTestBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<h1>hello</h1>"))
	})
	mux.HandleFunc("/plain", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"Send":false}`))
	})
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	})
	mux.HandleFunc("/actions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`{"Send":[
			{"Service":"s3","Action":"listObjects"},
			{"Service":"s3","Action":"putObject","Params":{"Key":"new.txt"}},
			{"Service":"s3","Action":"deleteObject","Params":{"Key":"old.txt"}},
			{"Service":"sqs","Action":"sendMessage"}
		]}`))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Send":[{"Service":"s3","Action":"deleteObject","Params":{"Key":"missing.txt"}}]}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestStack(t *testing.T, backendURL string, container storage.Container) *httptest.Server {
	t.Helper()

	config := DefaultAppConfig()
	config.Backend.BaseURL = backendURL
	config.Storage.Container = "uploads"
	config.Storage.UseMock = true
	config.Monitoring.Enabled = false
	require.NoError(t, config.Validate())

	forwarder := newForwarder(config, storage.NewStaticProvider(container))
	gateway := apigw.New(config.ToAPIGatewayConfig(), forwarder)

	server := httptest.NewServer(gateway.Handler())
	t.Cleanup(server.Close)
	return server
}

func doRequest(t *testing.T, method, target, contentType, body string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, target, strings.NewReader(body))
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestIntegration_NonJSONResponse(t *testing.T) {
	backend := newTestBackend(t)
	stack := newTestStack(t, backend.URL, storage.NewMemoryContainer("uploads"))

	resp, body := doRequest(t, http.MethodGet, stack.URL+"/?path=page", "", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<h1>hello</h1>", string(body))
	assert.Equal(t, "text/html", resp.Header.Get("Content-Type"))
	assert.Equal(t, "max-age=3600", resp.Header.Get("Cache-Control"))
}

func TestIntegration_JSONWithoutActions(t *testing.T) {
	backend := newTestBackend(t)
	stack := newTestStack(t, backend.URL, storage.NewMemoryContainer("uploads"))

	resp, body := doRequest(t, http.MethodGet, stack.URL+"/?path=plain", "", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true,"Send":false}`, string(body))
	assert.Empty(t, resp.Header.Get("Cache-Control"))
}

func TestIntegration_JSONBodyForwarded(t *testing.T) {
	backend := newTestBackend(t)
	stack := newTestStack(t, backend.URL, storage.NewMemoryContainer("uploads"))

	resp, body := doRequest(t, http.MethodPost, stack.URL+"/?path=echo", "application/json", `{"name":"value"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"name":"value"}`, string(body))
}

func TestIntegration_ActionsTranslated(t *testing.T) {
	container := storage.NewMemoryContainer("uploads")
	modified := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	container.Put("old.txt", 3, modified)
	container.Put("keep.txt", 7, modified)

	backend := newTestBackend(t)
	stack := newTestStack(t, backend.URL, container)

	resp, body := doRequest(t, http.MethodGet, stack.URL+"/?path=actions", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var results []any
	require.NoError(t, json.Unmarshal(body, &results))
	require.Len(t, results, 4)

	// Порядок результатов не гарантирован, поэтому раскладываем по видам
	var (
		listing  map[string]any
		ack      map[string]any
		signed   string
		verbatim map[string]any
	)
	for _, item := range results {
		switch v := item.(type) {
		case string:
			signed = v
		case map[string]any:
			switch {
			case v["Contents"] != nil:
				listing = v
			case v["Service"] != nil:
				verbatim = v
			default:
				ack = v
			}
		}
	}

	require.NotNil(t, listing)
	contents, ok := listing["Contents"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, contents)

	u, err := url.Parse(signed)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(u.Path, "/uploads/new.txt"))
	assert.Equal(t, "w", u.Query().Get("sp"))

	require.NotNil(t, ack)
	assert.NotEmpty(t, ack["requestId"])
	assert.False(t, container.Has("old.txt"))
	assert.True(t, container.Has("keep.txt"))

	require.NotNil(t, verbatim)
	assert.Equal(t, "sqs", verbatim["Service"])
	assert.Equal(t, "sendMessage", verbatim["Action"])
}

func TestIntegration_ActionFailure(t *testing.T) {
	backend := newTestBackend(t)
	stack := newTestStack(t, backend.URL, storage.NewMemoryContainer("uploads"))

	resp, body := doRequest(t, http.MethodGet, stack.URL+"/?path=broken", "", "")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "BlobNotFound")
	assert.Contains(t, string(body), "missing.txt")
}

func TestIntegration_BackendUnavailable(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	backendURL := backend.URL
	backend.Close()

	stack := newTestStack(t, backendURL, storage.NewMemoryContainer("uploads"))

	resp, body := doRequest(t, http.MethodGet, stack.URL+"/?path=anything", "", "")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), backendURL+"/anything")
}
