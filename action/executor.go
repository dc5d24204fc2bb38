package action

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"s3bridge/logger"
	"s3bridge/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Executor выполняет одно действие сервиса s3 на контейнере
type Executor struct {
	provider storage.Provider
	ttl      time.Duration
	now      func() time.Time
}

// NewExecutor создает исполнитель действий
func NewExecutor(provider storage.Provider, ttl time.Duration) *Executor {
	if ttl <= 0 {
		ttl = storage.DefaultSignedURLTTL
	}
	return &Executor{
		provider: provider,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Execute выполняет дескриптор и возвращает значение для выходного списка.
// Неподдерживаемое действие возвращает исходный дескриптор без обращения к хранилищу.
func (e *Executor) Execute(ctx context.Context, d Descriptor, raw json.RawMessage) (any, error) {
	act, ok := ParseAction(d.Action)
	if !ok {
		logger.Debug("Action %q is not supported, passing descriptor through", d.Action)
		metrics.ActionsTotal.WithLabelValues(ServiceS3, "unsupported", "passthrough").Inc()
		return raw, nil
	}

	start := time.Now()
	result, err := e.execute(ctx, act, d)
	metrics.ActionLatency.WithLabelValues(act.String()).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ActionsTotal.WithLabelValues(ServiceS3, act.String(), "failure").Inc()
		logger.Warn("Action %s failed for key %q: %v", act, d.Key(), err)
		return nil, err
	}

	metrics.ActionsTotal.WithLabelValues(ServiceS3, act.String(), "success").Inc()
	return result, nil
}

func (e *Executor) execute(ctx context.Context, act Action, d Descriptor) (any, error) {
	c, err := e.provider.Container()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire container: %w", err)
	}

	switch act {
	case ListObjects:
		in := &s3.ListObjectsV2Input{}
		if prefix := d.param("Prefix"); prefix != "" {
			in.Prefix = aws.String(prefix)
		}
		objects, err := c.ListObjects(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", act, err)
		}

		contents := make([]ObjectSummary, 0, len(objects))
		for _, obj := range objects {
			contents = append(contents, ObjectSummary{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: obj.LastModified,
			})
		}
		return ListResult{Contents: contents}, nil

	case PutObject:
		signed, err := c.PresignPutObject(ctx, &s3.PutObjectInput{Key: aws.String(d.Key())}, e.window())
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", act, d.Key(), err)
		}
		return signed, nil

	case GetObject:
		signed, err := c.PresignGetObject(ctx, &s3.GetObjectInput{Key: aws.String(d.Key())}, e.window())
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", act, d.Key(), err)
		}
		return signed, nil

	case DeleteObject:
		ack, err := c.DeleteObject(ctx, &s3.DeleteObjectInput{Key: aws.String(d.Key())})
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", act, d.Key(), err)
		}
		return ack, nil
	}

	return nil, fmt.Errorf("unsupported action %s", act)
}

func (e *Executor) window() storage.PresignWindow {
	return storage.NewPresignWindow(e.now(), e.ttl)
}
