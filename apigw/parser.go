package apigw

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"s3bridge/logger"
)

// ErrBodyTooLarge возвращается, если тело запроса превышает лимит
var ErrBodyTooLarge = errors.New("request body too large")

// PathParam - имя query-параметра с путем на бэкенде
const PathParam = "path"

// RequestParser отвечает за преобразование http.Request в Request
type RequestParser struct {
	maxBodyBytes int64
}

// NewRequestParser создает новый экземпляр парсера
func NewRequestParser(maxBodyBytes int64) *RequestParser {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &RequestParser{maxBodyBytes: maxBodyBytes}
}

// Parse читает тело запроса и извлекает путь бэкенда
func (p *RequestParser) Parse(w http.ResponseWriter, r *http.Request) (*Request, error) {
	logger.Debug("Parsing HTTP request: %s %s", r.Method, r.URL.String())

	query := r.URL.Query()

	req := &Request{
		Method:  r.Method,
		Path:    query.Get(PathParam),
		Headers: r.Header.Clone(),
		Query:   query,
		Context: r.Context(),
	}

	if r.Body != nil {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, p.maxBodyBytes))
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return nil, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, maxErr.Limit)
			}
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		req.Body = body
	}

	logger.Debug("Parsed request - Method: %s, Path: %q, Body: %d bytes", req.Method, req.Path, len(req.Body))
	return req, nil
}
