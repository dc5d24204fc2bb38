package action

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/mock"

	"s3bridge/storage"
)

// MockContainer - мок контейнера для тестов
type MockContainer struct {
	mock.Mock
}

func (m *MockContainer) ListObjects(ctx context.Context, in *s3.ListObjectsV2Input) ([]types.Object, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Object), args.Error(1)
}

func (m *MockContainer) PresignPutObject(ctx context.Context, in *s3.PutObjectInput, window storage.PresignWindow) (string, error) {
	args := m.Called(ctx, in, window)
	return args.String(0), args.Error(1)
}

func (m *MockContainer) PresignGetObject(ctx context.Context, in *s3.GetObjectInput, window storage.PresignWindow) (string, error) {
	args := m.Called(ctx, in, window)
	return args.String(0), args.Error(1)
}

func (m *MockContainer) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput) (*storage.DeleteResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.DeleteResult), args.Error(1)
}

// countingProvider считает обращения к контейнеру
type countingProvider struct {
	container storage.Container
	err       error
	calls     atomic.Int32
}

func (p *countingProvider) Container() (storage.Container, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return p.container, nil
}

var errBoom = errors.New("boom")
