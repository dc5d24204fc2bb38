package apigw

import (
	"context"
	"net/http"
	"net/url"
)

// Request - внутреннее представление входящего запроса.
// Создается модулем API Gateway из http.Request.
type Request struct {
	// HTTP метод, пересылается бэкенду как есть
	Method string

	// Path - значение query-параметра path (пустая строка, если его нет)
	Path string

	// Оригинальные заголовки HTTP запроса
	Headers http.Header

	// Оригинальные query-параметры запроса
	Query url.Values

	// Тело запроса, прочитанное целиком
	Body []byte

	// Оригинальный контекст запроса для поддержки таймаутов и отмены
	Context context.Context
}

// Response - внутреннее представление ответа клиенту
type Response struct {
	// HTTP код состояния (200 или 400)
	StatusCode int

	// Заголовки для отправки клиенту
	Headers http.Header

	// Тело ответа
	Body []byte
}

// RequestHandler - интерфейс следующего по цепочке модуля (Request Forwarder)
type RequestHandler interface {
	// Handle принимает разобранный Request и возвращает готовый Response
	Handle(req *Request) *Response
}

// RequestHandlerFunc позволяет использовать функцию как RequestHandler
type RequestHandlerFunc func(req *Request) *Response

// Handle реализует RequestHandler
func (f RequestHandlerFunc) Handle(req *Request) *Response {
	return f(req)
}
