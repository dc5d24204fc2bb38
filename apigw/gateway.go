package apigw

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"s3bridge/logger"
)

// Gateway представляет модуль API Gateway
type Gateway struct {
	config         Config
	handler        RequestHandler
	parser         *RequestParser
	responseWriter *ResponseWriter
	router         chi.Router
	server         *http.Server
	metrics        *Metrics
}

// New создает новый экземпляр API Gateway
func New(config Config, handler RequestHandler) *Gateway {
	gw := &Gateway{
		config:         config,
		handler:        handler,
		parser:         NewRequestParser(config.MaxBodyBytes),
		responseWriter: NewResponseWriter(),
		metrics:        defaultMetrics,
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	// Любой метод и любой путь уходят в обработчик: путь бэкенда
	// задается query-параметром path
	router.HandleFunc("/*", gw.serve)
	router.HandleFunc("/", gw.serve)

	gw.router = router
	return gw
}

// Handler возвращает http.Handler со всеми middleware
func (gw *Gateway) Handler() http.Handler {
	return gw.router
}

// ServeHTTP реализует интерфейс http.Handler
func (gw *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gw.router.ServeHTTP(w, r)
}

func (gw *Gateway) serve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetReqID(r.Context())

	logger.Info("Incoming request [%s]: %s %s", requestID, r.Method, r.URL.RequestURI())
	logger.Debug("Request headers: %+v", r.Header)

	req, err := gw.parser.Parse(w, r)
	if err != nil {
		logger.Error("Failed to parse request [%s]: %v", requestID, err)
		resp := gw.responseWriter.WriteError(w, err)
		gw.observe(r.Method, resp.StatusCode, start)
		return
	}
	gw.metrics.RequestBytes.Observe(float64(len(req.Body)))

	// Передаем управление обработчику
	resp := gw.handler.Handle(req)
	if resp == nil {
		resp = TextResponse(http.StatusInternalServerError, "empty response from handler")
	}

	if err := gw.responseWriter.WriteResponse(w, resp); err != nil {
		logger.Error("Failed to write response [%s]: %v", requestID, err)
	}

	logger.Info("Response sent [%s]: %d, %.3f ms", requestID, resp.StatusCode, float64(time.Since(start).Microseconds())/1000.0)
	gw.observe(r.Method, resp.StatusCode, start)
}

func (gw *Gateway) observe(method string, status int, start time.Time) {
	gw.metrics.RequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	gw.metrics.RequestLatency.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

// Start запускает сервер
func (gw *Gateway) Start() error {
	gw.server = &http.Server{
		Addr:         gw.config.ListenAddress,
		Handler:      gw.router,
		ReadTimeout:  gw.config.ReadTimeout,
		WriteTimeout: gw.config.WriteTimeout,
	}

	logger.Info("Starting API Gateway on %s", gw.config.ListenAddress)

	// Проверяем, нужно ли использовать TLS
	if gw.config.TLSCertFile != "" && gw.config.TLSKeyFile != "" {
		logger.Info("Starting HTTPS server with TLS")
		return gw.server.ListenAndServeTLS(gw.config.TLSCertFile, gw.config.TLSKeyFile)
	}

	logger.Info("Starting HTTP server")
	return gw.server.ListenAndServe()
}

// Stop останавливает сервер
func (gw *Gateway) Stop(ctx context.Context) error {
	if gw.server == nil {
		return nil
	}

	logger.Info("Stopping API Gateway...")
	return gw.server.Shutdown(ctx)
}
