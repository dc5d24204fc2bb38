package proxy

import (
	"fmt"
	"net/url"
	"time"
)

// Config содержит конфигурацию пересылки запросов на бэкенд
type Config struct {
	// BaseURL - базовый адрес бэкенда (BACKEND)
	BaseURL string `yaml:"url"`

	// Timeout - таймаут запроса к бэкенду, 0 - без таймаута
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{}
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("url cannot be empty")
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url %q must use http or https", c.BaseURL)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}

	return nil
}

// TargetURL возвращает адрес запроса: ${BACKEND}/${path}
func (c *Config) TargetURL(path string) string {
	return fmt.Sprintf("%s/%s", c.BaseURL, path)
}
