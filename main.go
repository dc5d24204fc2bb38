package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"s3bridge/action"
	"s3bridge/apigw"
	"s3bridge/logger"
	"s3bridge/monitoring"
	"s3bridge/proxy"
	"s3bridge/storage"
)

func main() {
	// Парсим аргументы командной строки
	var (
		configFile     = flag.String("config", "", "Configuration file path (YAML, optional)")
		listenAddr     = flag.String("listen", "", "Listen address (overrides config)")
		logLevel       = flag.String("log-level", "", "Log level (debug, info, warn, error) (overrides config)")
		metricsAddr    = flag.String("metrics-listen", "", "Metrics server listen address (overrides config)")
		disableMetrics = flag.Bool("disable-metrics", false, "Disable metrics server (overrides config)")
		useMock        = flag.Bool("mock", false, "Use in-memory container instead of Azure Blob Storage (overrides config)")
	)
	flag.Parse()

	// Загружаем конфигурацию: файл, затем окружение, затем флаги
	config, err := LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	config.ApplyEnv(os.Getenv)
	applyCommandLineOverrides(config, *listenAddr, *logLevel, *metricsAddr, *disableMetrics, *useMock)

	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Устанавливаем уровень логирования
	level := logger.ParseLogLevel(config.Logging.Level)
	logger.SetGlobalLevel(level)
	logger.SetFormat(config.Logging.Format)

	logger.Info("s3bridge starting...")
	logger.Info("Log level: %s", level.String())

	provider, err := newProvider(&config.Storage)
	if err != nil {
		log.Fatalf("Failed to create storage provider: %v", err)
	}

	// Создаем и запускаем модуль мониторинга
	var monitor *monitoring.Monitor
	if config.Monitoring.Enabled {
		monitor, err = monitoring.New(&config.Monitoring, func() error {
			_, err := provider.Container()
			return err
		})
		if err != nil {
			log.Fatalf("Failed to create monitoring module: %v", err)
		}

		if err := monitor.Start(); err != nil {
			log.Fatalf("Failed to start monitoring module: %v", err)
		}
		logger.Info("Monitoring enabled on %s", config.Monitoring.ListenAddress)
	} else {
		logger.Info("Monitoring disabled")
	}

	gatewayConfig := config.ToAPIGatewayConfig()
	gateway := apigw.New(gatewayConfig, newForwarder(config, provider))

	logger.Info("Configuration:")
	logger.Info("  Listen Address: %s", gatewayConfig.ListenAddress)
	logger.Info("  Backend: %s", config.Backend.BaseURL)
	logger.Info("  Container: %s (mock: %t)", config.Storage.Container, config.Storage.UseMock)
	logger.Info("  Signed URL TTL: %v", config.Storage.SignedURLTTL)
	if gatewayConfig.TLSCertFile != "" {
		logger.Info("  TLS Enabled: Yes")
	} else {
		logger.Info("  TLS Enabled: No")
	}

	// Настраиваем graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Запускаем API Gateway в отдельной горутине
	go func() {
		if err := gateway.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	logger.Info("s3bridge started successfully")

	// Ждем сигнал для остановки
	sig := <-sigChan
	logger.Info("Received signal %v, shutting down...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Сначала помечаем сервис как не готовый
	if monitor != nil {
		if err := monitor.Stop(ctx); err != nil {
			logger.Error("Error stopping monitoring: %v", err)
		}
	}

	if err := gateway.Stop(ctx); err != nil {
		logger.Error("Error stopping API Gateway: %v", err)
	}

	logger.Info("s3bridge stopped")
}

// newProvider создает провайдер контейнера в зависимости от конфигурации
func newProvider(cfg *storage.Config) (storage.Provider, error) {
	if cfg.UseMock {
		logger.Info("Using in-memory container %s (for testing)", cfg.Container)
		return storage.NewStaticProvider(storage.NewMemoryContainer(cfg.Container)), nil
	}

	provider, err := storage.NewAzureProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("azure provider: %w", err)
	}
	return provider, nil
}

// newForwarder собирает цепочку Forwarder -> Translator -> Executor
func newForwarder(config *AppConfig, provider storage.Provider) *proxy.Forwarder {
	executor := action.NewExecutor(provider, config.Storage.SignedURLTTL)
	translator := action.NewTranslator(executor)
	return proxy.NewForwarder(&config.Backend, nil, translator)
}

// applyCommandLineOverrides применяет переопределения из командной строки
func applyCommandLineOverrides(config *AppConfig,
	listenAddr, logLevel, metricsAddr string, disableMetrics, useMock bool) {

	if listenAddr != "" {
		config.Server.ListenAddress = listenAddr
		logger.Debug("Override: server.listen_address = %s", listenAddr)
	}

	if logLevel != "" {
		config.Logging.Level = logLevel
		logger.Debug("Override: logging.level = %s", logLevel)
	}

	if metricsAddr != "" {
		config.Monitoring.ListenAddress = metricsAddr
		logger.Debug("Override: monitoring.listen_address = %s", metricsAddr)
	}

	if disableMetrics {
		config.Monitoring.Enabled = false
		logger.Debug("Override: monitoring.enabled = false")
	}

	if useMock {
		config.Storage.UseMock = true
		logger.Debug("Override: storage.use_mock = true")
	}
}
