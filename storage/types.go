package storage

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var (
	// ErrBlobNotFound возвращается при обращении к отсутствующему объекту
	ErrBlobNotFound = errors.New("BlobNotFound: the specified blob does not exist")

	// ErrMissingKey возвращается, если во входных параметрах нет ключа объекта
	ErrMissingKey = errors.New("object key is required")
)

// PresignWindow задает интервал действия подписанной ссылки
type PresignWindow struct {
	Start  time.Time
	Expiry time.Time
}

// NewPresignWindow возвращает окно [now, now+ttl]
func NewPresignWindow(now time.Time, ttl time.Duration) PresignWindow {
	return PresignWindow{Start: now, Expiry: now.Add(ttl)}
}

// DeleteResult - подтверждение удаления от хранилища.
// Поля повторяют то, что возвращает Blob service.
type DeleteResult struct {
	RequestID       string     `json:"requestId,omitempty"`
	ClientRequestID string     `json:"clientRequestId,omitempty"`
	Version         string     `json:"version,omitempty"`
	Date            *time.Time `json:"date,omitempty"`
}

// Container - контейнер blob-хранилища, к которому обращаются в терминах S3.
// Bucket во входных структурах игнорируется: контейнер всегда один.
type Container interface {
	// ListObjects возвращает объекты контейнера. Возвращается только
	// первый сегмент листинга, остальные объекты молча опускаются.
	ListObjects(ctx context.Context, in *s3.ListObjectsV2Input) ([]types.Object, error)

	// PresignPutObject строит ссылку с правом записи на объект
	PresignPutObject(ctx context.Context, in *s3.PutObjectInput, window PresignWindow) (string, error)

	// PresignGetObject строит ссылку с правом чтения объекта
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, window PresignWindow) (string, error)

	// DeleteObject немедленно удаляет объект
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput) (*DeleteResult, error)
}

// Provider отдает процессный экземпляр контейнера
type Provider interface {
	Container() (Container, error)
}

// StaticProvider всегда возвращает один и тот же контейнер
type StaticProvider struct {
	container Container
}

// NewStaticProvider создает провайдер поверх готового контейнера
func NewStaticProvider(c Container) *StaticProvider {
	return &StaticProvider{container: c}
}

// Container реализует Provider
func (p *StaticProvider) Container() (Container, error) {
	return p.container, nil
}
