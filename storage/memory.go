package storage

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// memoryObject - объект в памяти
type memoryObject struct {
	size         int64
	lastModified time.Time
}

// MemoryContainer - контейнер в памяти для режима mock и тестов.
// Ссылки подписываются фиктивно, но несут те же параметры sp/st/se, что и SAS.
type MemoryContainer struct {
	name    string
	baseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
}

// NewMemoryContainer создает пустой контейнер в памяти
func NewMemoryContainer(name string) *MemoryContainer {
	return &MemoryContainer{
		name:    name,
		baseURL: "http://127.0.0.1:10000/devstoreaccount1/" + name,
		objects: make(map[string]memoryObject),
	}
}

// Put добавляет объект в контейнер
func (m *MemoryContainer) Put(key string, size int64, lastModified time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{size: size, lastModified: lastModified}
}

// Has проверяет наличие объекта
func (m *MemoryContainer) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}

// ListObjects возвращает объекты, отсортированные по ключу
func (m *MemoryContainer) ListObjects(ctx context.Context, in *s3.ListObjectsV2Input) ([]types.Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var prefix string
	limit := -1
	if in != nil {
		prefix = aws.ToString(in.Prefix)
		if in.MaxKeys != nil {
			limit = int(*in.MaxKeys)
		}
	}

	keys := make([]string, 0, len(m.objects))
	for key := range m.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	objects := make([]types.Object, 0, len(keys))
	for _, key := range keys {
		if limit >= 0 && len(objects) >= limit {
			break
		}
		obj := m.objects[key]
		objects = append(objects, types.Object{
			Key:          aws.String(key),
			Size:         aws.Int64(obj.size),
			LastModified: aws.Time(obj.lastModified),
		})
	}
	return objects, nil
}

// PresignPutObject реализует Container
func (m *MemoryContainer) PresignPutObject(ctx context.Context, in *s3.PutObjectInput, window PresignWindow) (string, error) {
	if in == nil {
		return "", ErrMissingKey
	}
	return m.presign(aws.ToString(in.Key), "w", window)
}

// PresignGetObject реализует Container
func (m *MemoryContainer) PresignGetObject(ctx context.Context, in *s3.GetObjectInput, window PresignWindow) (string, error) {
	if in == nil {
		return "", ErrMissingKey
	}
	return m.presign(aws.ToString(in.Key), "r", window)
}

func (m *MemoryContainer) presign(key, permission string, window PresignWindow) (string, error) {
	if key == "" {
		return "", ErrMissingKey
	}

	query := url.Values{}
	query.Set("sp", permission)
	query.Set("st", window.Start.UTC().Format(time.RFC3339))
	query.Set("se", window.Expiry.UTC().Format(time.RFC3339))
	query.Set("sr", "b")

	return fmt.Sprintf("%s/%s?%s", m.baseURL, url.PathEscape(key), query.Encode()), nil
}

// DeleteObject удаляет объект. Отсутствующий объект - ошибка, как в Blob service.
func (m *MemoryContainer) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput) (*DeleteResult, error) {
	var key string
	if in != nil {
		key = aws.ToString(in.Key)
	}
	if key == "" {
		return nil, ErrMissingKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[key]; !ok {
		return nil, fmt.Errorf("failed to delete %s: %w", key, ErrBlobNotFound)
	}
	delete(m.objects, key)

	now := time.Now().UTC()
	return &DeleteResult{
		RequestID: fmt.Sprintf("memory-%d", now.UnixNano()),
		Version:   "memory",
		Date:      &now,
	}, nil
}
