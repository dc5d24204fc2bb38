package storage

import (
	"fmt"
	"strings"
	"time"
)

// DefaultSignedURLTTL - время жизни подписанной ссылки
const DefaultSignedURLTTL = 5 * time.Minute

// Config содержит конфигурацию доступа к контейнеру
type Config struct {
	// Account - имя storage account (STORAGE_ACCOUNT)
	Account string `yaml:"account"`

	// AccountKey - ключ storage account в base64 (ACCOUNT_KEY)
	AccountKey string `yaml:"account_key"`

	// Container - имя контейнера (BUCKET)
	Container string `yaml:"container"`

	// Endpoint - адрес Blob service. Пустое значение означает
	// https://<account>.blob.core.windows.net
	Endpoint string `yaml:"endpoint"`

	// SignedURLTTL - срок действия подписанных ссылок
	SignedURLTTL time.Duration `yaml:"signed_url_ttl"`

	// UseMock - использовать контейнер в памяти вместо Azure
	UseMock bool `yaml:"use_mock"`
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		SignedURLTTL: DefaultSignedURLTTL,
	}
}

// ServiceURL возвращает адрес Blob service
func (c *Config) ServiceURL() string {
	if c.Endpoint != "" {
		return strings.TrimSuffix(c.Endpoint, "/")
	}
	return fmt.Sprintf("https://%s.blob.core.windows.net", c.Account)
}

// ContainerURL возвращает адрес контейнера
func (c *Config) ContainerURL() string {
	return c.ServiceURL() + "/" + c.Container
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if c.Container == "" {
		return fmt.Errorf("container cannot be empty")
	}

	if c.SignedURLTTL <= 0 {
		return fmt.Errorf("signed_url_ttl must be positive")
	}

	// Для контейнера в памяти учетные данные не нужны
	if c.UseMock {
		return nil
	}

	if c.Account == "" {
		return fmt.Errorf("account cannot be empty")
	}

	if c.AccountKey == "" {
		return fmt.Errorf("account_key cannot be empty")
	}

	return nil
}
