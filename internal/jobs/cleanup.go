package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"schoolerp/internal/storage"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Task types
const (
	TypeRemoveObject = "storage:remove_object"
)

const maintenanceQueue = "maintenance"

// RemoveObjectPayload names an object that is no longer referenced.
type RemoveObjectPayload struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

func NewRemoveObjectTask(bucket, key string) (*asynq.Task, error) {
	data, err := json.Marshal(RemoveObjectPayload{Bucket: bucket, Key: key})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRemoveObject, data), nil
}

// Enqueuer is the part of *asynq.Client the cleaner uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ObjectCleaner schedules removal of replaced uploads. Removal runs in the
// worker and is retried there.
type ObjectCleaner struct {
	client Enqueuer
}

func NewObjectCleaner(client Enqueuer) *ObjectCleaner {
	return &ObjectCleaner{client: client}
}

func (c *ObjectCleaner) RemoveLater(ctx context.Context, bucket, key string) error {
	task, err := NewRemoveObjectTask(bucket, key)
	if err != nil {
		return err
	}
	if _, err := c.client.EnqueueContext(ctx, task, asynq.Queue(maintenanceQueue), asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeRemoveObject, err)
	}
	return nil
}

// RemoveObjectHandler deletes the object named by a TypeRemoveObject task.
type RemoveObjectHandler struct {
	objects storage.ObjectStore
	log     *zap.Logger
}

func NewRemoveObjectHandler(objects storage.ObjectStore, log *zap.Logger) *RemoveObjectHandler {
	return &RemoveObjectHandler{objects: objects, log: log}
}

func (h *RemoveObjectHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload RemoveObjectPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal %s payload: %v: %w", TypeRemoveObject, err, asynq.SkipRetry)
	}
	if payload.Bucket == "" || payload.Key == "" {
		return fmt.Errorf("%s: empty bucket or key: %w", TypeRemoveObject, asynq.SkipRetry)
	}

	if err := h.objects.Remove(ctx, payload.Bucket, payload.Key); err != nil {
		h.log.Warn("object removal failed", zap.String("bucket", payload.Bucket), zap.String("key", payload.Key), zap.Error(err))
		return err
	}
	h.log.Info("object removed", zap.String("bucket", payload.Bucket), zap.String("key", payload.Key))
	return nil
}

// Worker runs the asynq server that processes maintenance tasks.
type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

func NewWorker(redis asynq.RedisConnOpt, objects storage.ObjectStore, log *zap.Logger) *Worker {
	srv := asynq.NewServer(redis, asynq.Config{
		Concurrency: 2,
		Queues:      map[string]int{maintenanceQueue: 1},
		Logger:      log.Named("asynq").Sugar(),
	})
	mux := asynq.NewServeMux()
	mux.Handle(TypeRemoveObject, NewRemoveObjectHandler(objects, log.Named("cleanup")))
	return &Worker{srv: srv, mux: mux}
}

func (w *Worker) Start() error { return w.srv.Start(w.mux) }

func (w *Worker) Shutdown() { w.srv.Shutdown() }
