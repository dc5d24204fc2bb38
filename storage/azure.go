package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"s3bridge/logger"
)

// AzureProvider хранит процессный credential и лениво создает контейнер.
// Credential создается один раз в NewAzureProvider и больше не меняется.
type AzureProvider struct {
	config     Config
	credential *azblob.SharedKeyCredential

	mu        sync.Mutex
	container *AzureContainer
}

// NewAzureProvider создает провайдер контейнера Azure Blob Storage
func NewAzureProvider(cfg *Config) (*AzureProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage config not provided")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid storage config: %w", err)
	}

	credential, err := azblob.NewSharedKeyCredential(cfg.Account, cfg.AccountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create shared key credential for account %s: %w", cfg.Account, err)
	}

	logger.Info("Storage provider configured for %s", cfg.ContainerURL())

	return &AzureProvider{
		config:     *cfg,
		credential: credential,
	}, nil
}

// Container возвращает контейнер, создавая его при первом обращении.
// Первое успешное создание кэшируется до конца жизни процесса.
func (p *AzureProvider) Container() (Container, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.container != nil {
		return p.container, nil
	}

	c, err := newAzureContainer(&p.config, p.credential)
	if err != nil {
		return nil, err
	}

	logger.Debug("Created container handle for %s", p.config.ContainerURL())
	p.container = c
	return c, nil
}

// AzureContainer реализует Container поверх azblob
type AzureContainer struct {
	name       string
	client     *container.Client
	credential *azblob.SharedKeyCredential
}

func newAzureContainer(cfg *Config, credential *azblob.SharedKeyCredential) (*AzureContainer, error) {
	client, err := container.NewClientWithSharedKeyCredential(cfg.ContainerURL(), credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create container client for %s: %w", cfg.ContainerURL(), err)
	}

	return &AzureContainer{
		name:       cfg.Container,
		client:     client,
		credential: credential,
	}, nil
}

// ListObjects возвращает первый сегмент плоского листинга.
// Следующие страницы не запрашиваются.
func (c *AzureContainer) ListObjects(ctx context.Context, in *s3.ListObjectsV2Input) ([]types.Object, error) {
	start := time.Now()

	opts := &container.ListBlobsFlatOptions{}
	if in != nil {
		opts.Prefix = in.Prefix
		opts.MaxResults = in.MaxKeys
	}

	pager := c.client.NewListBlobsFlatPager(opts)
	resp, err := pager.NextPage(ctx)
	observe("list", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs in container %s: %w", c.name, err)
	}

	objects := make([]types.Object, 0)
	if resp.Segment == nil {
		return objects, nil
	}

	for _, item := range resp.Segment.BlobItems {
		if item == nil {
			continue
		}
		obj := types.Object{Key: item.Name}
		if item.Properties != nil {
			obj.Size = item.Properties.ContentLength
			obj.LastModified = item.Properties.LastModified
		}
		objects = append(objects, obj)
	}

	logger.Debug("Listed %d blobs in container %s", len(objects), c.name)
	return objects, nil
}

// PresignPutObject возвращает SAS-ссылку с правом записи
func (c *AzureContainer) PresignPutObject(ctx context.Context, in *s3.PutObjectInput, window PresignWindow) (string, error) {
	if in == nil {
		return "", ErrMissingKey
	}
	return c.presign("presign_put", aws.ToString(in.Key), sas.BlobPermissions{Write: true}, window)
}

// PresignGetObject возвращает SAS-ссылку с правом чтения
func (c *AzureContainer) PresignGetObject(ctx context.Context, in *s3.GetObjectInput, window PresignWindow) (string, error) {
	if in == nil {
		return "", ErrMissingKey
	}
	return c.presign("presign_get", aws.ToString(in.Key), sas.BlobPermissions{Read: true}, window)
}

func (c *AzureContainer) presign(operation, key string, permissions sas.BlobPermissions, window PresignWindow) (string, error) {
	start := time.Now()
	if key == "" {
		observe(operation, time.Since(start).Seconds(), ErrMissingKey)
		return "", ErrMissingKey
	}

	values := sas.BlobSignatureValues{
		StartTime:     window.Start.UTC(),
		ExpiryTime:    window.Expiry.UTC(),
		Permissions:   permissions.String(),
		ContainerName: c.name,
		BlobName:      key,
	}

	query, err := values.SignWithSharedKey(c.credential)
	observe(operation, time.Since(start).Seconds(), err)
	if err != nil {
		return "", fmt.Errorf("failed to sign url for %s: %w", key, err)
	}

	return c.client.NewBlobClient(key).URL() + "?" + query.Encode(), nil
}

// DeleteObject удаляет blob синхронно
func (c *AzureContainer) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput) (*DeleteResult, error) {
	var key string
	if in != nil {
		key = aws.ToString(in.Key)
	}
	if key == "" {
		return nil, ErrMissingKey
	}

	start := time.Now()
	resp, err := c.client.NewBlobClient(key).Delete(ctx, nil)
	observe("delete", time.Since(start).Seconds(), err)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, fmt.Errorf("failed to delete %s: %w", key, errors.Join(ErrBlobNotFound, err))
		}
		return nil, fmt.Errorf("failed to delete %s: %w", key, err)
	}

	logger.Debug("Deleted blob %s from container %s", key, c.name)

	return &DeleteResult{
		RequestID:       aws.ToString(resp.RequestID),
		ClientRequestID: aws.ToString(resp.ClientRequestID),
		Version:         aws.ToString(resp.Version),
		Date:            resp.Date,
	}, nil
}
