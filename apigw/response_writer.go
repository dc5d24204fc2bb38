package apigw

import (
	"errors"
	"net/http"
	"strconv"

	"s3bridge/logger"
)

// ResponseWriter отвечает за запись Response в http.ResponseWriter
type ResponseWriter struct{}

// NewResponseWriter создает новый экземпляр writer'а ответов
func NewResponseWriter() *ResponseWriter {
	return &ResponseWriter{}
}

// WriteResponse записывает Response клиенту
func (rw *ResponseWriter) WriteResponse(w http.ResponseWriter, resp *Response) error {
	logger.Debug("Writing response: status=%d, body=%d bytes", resp.StatusCode, len(resp.Body))

	// Копируем заголовки
	for key, values := range resp.Headers {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(resp.Body)))

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if len(resp.Body) == 0 {
		return nil
	}

	_, err := w.Write(resp.Body)
	if err != nil {
		logger.Debug("Error writing response body: %v", err)
	}
	return err
}

// WriteError записывает ошибку разбора запроса текстом
func (rw *ResponseWriter) WriteError(w http.ResponseWriter, err error) *Response {
	status := http.StatusBadRequest
	if errors.Is(err, ErrBodyTooLarge) {
		status = http.StatusRequestEntityTooLarge
	}

	resp := TextResponse(status, err.Error())
	_ = rw.WriteResponse(w, resp)
	return resp
}

// TextResponse создает текстовый ответ
func TextResponse(status int, body string) *Response {
	headers := make(http.Header)
	headers.Set("Content-Type", "text/plain; charset=utf-8")
	return &Response{
		StatusCode: status,
		Headers:    headers,
		Body:       []byte(body),
	}
}
