package proxy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"s3bridge/action"
	"s3bridge/apigw"
	"s3bridge/logger"
)

// CacheControl выставляется на ответы бэкенда, не являющиеся JSON
const CacheControl = "max-age=3600"

// Translator обрабатывает JSON-ответ бэкенда
type Translator interface {
	Translate(ctx context.Context, body []byte) *action.Result
}

// Forwarder пересылает входящий запрос на бэкенд и разбирает ответ.
// Реализует apigw.RequestHandler.
type Forwarder struct {
	config     Config
	client     *http.Client
	translator Translator
}

// NewForwarder создает Forwarder. Если client не передан, создается
// клиент с таймаутом из конфигурации.
func NewForwarder(cfg *Config, client *http.Client, translator Translator) *Forwarder {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Forwarder{
		config:     *cfg,
		client:     client,
		translator: translator,
	}
}

// Handle реализует интерфейс apigw.RequestHandler
func (f *Forwarder) Handle(req *apigw.Request) *apigw.Response {
	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}

	mimetype := ContentType(req.Headers)
	isJSON := IsJSON(mimetype)
	target := f.config.TargetURL(req.Path)

	logger.Debug("Forwarding %s to %s (content-type: %s, json: %t)", req.Method, target, mimetype, isJSON)

	out, err := http.NewRequestWithContext(ctx, req.Method, target, bytes.NewReader(req.Body))
	if err != nil {
		logger.Error("Failed to build backend request: %v", err)
		return apigw.TextResponse(http.StatusBadRequest, err.Error())
	}
	out.Header.Set("Content-Type", mimetype)
	if isJSON {
		out.Header.Set("Accept", "application/json")
	}
	if id := middleware.GetReqID(ctx); id != "" {
		out.Header.Set(middleware.RequestIDHeader, id)
	}

	start := time.Now()
	resp, err := f.client.Do(out)
	metrics.BackendLatency.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(req.Method, "error").Inc()
		logger.Warn("Backend request %s %s failed: %v", req.Method, target, err)
		return apigw.TextResponse(http.StatusBadRequest, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(req.Method, "error").Inc()
		logger.Warn("Failed to read backend response: %v", err)
		return apigw.TextResponse(http.StatusBadRequest, fmt.Sprintf("failed to read backend response: %v", err))
	}

	respType := ContentType(resp.Header)
	logger.Debug("Backend responded %d (content-type: %s, %d bytes)", resp.StatusCode, respType, len(body))

	if IsJSON(respType) {
		metrics.BackendRequestsTotal.WithLabelValues(req.Method, "json").Inc()
		return f.translate(ctx, body)
	}

	metrics.BackendRequestsTotal.WithLabelValues(req.Method, "raw").Inc()

	headers := make(http.Header)
	headers.Set("Content-Type", respType)
	headers.Set("Cache-Control", CacheControl)
	return &apigw.Response{
		StatusCode: http.StatusOK,
		Headers:    headers,
		Body:       body,
	}
}

func (f *Forwarder) translate(ctx context.Context, body []byte) *apigw.Response {
	result := f.translator.Translate(ctx, body)

	headers := make(http.Header)
	if result.ContentType != "" {
		headers.Set("Content-Type", result.ContentType)
	}
	return &apigw.Response{
		StatusCode: result.StatusCode,
		Headers:    headers,
		Body:       result.Body,
	}
}
