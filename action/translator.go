package action

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"s3bridge/logger"

	"golang.org/x/sync/errgroup"
)

// ErrSendNotList возвращается, если поле Send истинно, но не является списком
var ErrSendNotList = errors.New("Send must be a list of action descriptors")

// Translator разбирает JSON-ответ бэкенда и выполняет действия из списка Send
type Translator struct {
	executor *Executor
}

// NewTranslator создает транслятор
func NewTranslator(executor *Executor) *Translator {
	return &Translator{executor: executor}
}

// Translate обрабатывает тело JSON-ответа бэкенда.
//
// Результаты собираются в порядке завершения действий, а не в порядке
// входного списка. При первой ошибке возвращается 400 с текстом этой ошибки
// без частичных результатов.
func (t *Translator) Translate(ctx context.Context, body []byte) *Result {
	send, ok := sendField(body)
	if !ok {
		logger.Debug("Backend response carries no Send list, passing through")
		return &Result{StatusCode: http.StatusOK, ContentType: "application/json", Body: body}
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(send, &entries); err != nil {
		metrics.BatchesTotal.WithLabelValues("failure").Inc()
		return errorResult(ErrSendNotList)
	}

	metrics.BatchSize.Observe(float64(len(entries)))
	logger.Debug("Dispatching %d descriptors", len(entries))

	results, err := t.dispatch(ctx, entries)
	if err != nil {
		metrics.BatchesTotal.WithLabelValues("failure").Inc()
		logger.Warn("Send batch aborted: %v", err)
		return errorResult(err)
	}

	payload, err := json.Marshal(results)
	if err != nil {
		metrics.BatchesTotal.WithLabelValues("failure").Inc()
		return errorResult(err)
	}

	metrics.BatchesTotal.WithLabelValues("success").Inc()
	return &Result{StatusCode: http.StatusOK, ContentType: "application/json", Body: payload}
}

// dispatch запускает все дескрипторы одновременно и ждет их завершения
func (t *Translator) dispatch(ctx context.Context, entries []json.RawMessage) ([]any, error) {
	var mu sync.Mutex
	results := make([]any, 0, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	for _, entry := range entries {
		entry := entry
		g.Go(func() error {
			result, err := t.dispatchOne(gctx, entry)
			if err != nil {
				return err
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (t *Translator) dispatchOne(ctx context.Context, entry json.RawMessage) (any, error) {
	d, ok := parseDescriptor(entry)
	if !ok || d.Service != ServiceS3 {
		metrics.ActionsTotal.WithLabelValues("other", "none", "passthrough").Inc()
		return entry, nil
	}
	return t.executor.Execute(ctx, d, entry)
}

// sendField возвращает значение Send, если тело - объект и Send истинно
func sendField(body []byte) (json.RawMessage, bool) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, false
	}

	send, ok := envelope["Send"]
	if !ok || !truthy(send) {
		return nil, false
	}
	return send, true
}

// truthy повторяет правила истинности JSON-значения: null, false, 0 и
// пустая строка ложны, остальное (включая пустой список) истинно.
func truthy(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	switch string(v) {
	case "", "null", "false", `""`:
		return false
	}

	if f, err := strconv.ParseFloat(string(v), 64); err == nil {
		return f != 0
	}
	return true
}

func errorResult(err error) *Result {
	return &Result{
		StatusCode:  http.StatusBadRequest,
		ContentType: "text/plain; charset=utf-8",
		Body:        []byte(err.Error()),
	}
}
