package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeDocumentRegenerate = "document:regenerate"

// DocumentRegenPayload carries what the worker needs to replay a failed
// label or BOL generation. Document failures are advisory, so the replay is
// best-effort with a bounded retry budget.
type DocumentRegenPayload struct {
	DraftKey   string `json:"draftKey"`
	Carrier    string `json:"carrier"`
	ShipmentID string `json:"shipmentId"`
	Capability string `json:"capability"`
}

func NewDocumentRegenTask(payload DocumentRegenPayload, delay time.Duration) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeDocumentRegenerate, b)
	opts := []asynq.Option{asynq.ProcessIn(delay), asynq.MaxRetry(3)}

	return task, opts, nil
}

// Enqueuer abstracts the asynq client so services can queue deferred work.
type Enqueuer interface {
	EnqueueDocumentRegen(payload DocumentRegenPayload, delay time.Duration) error
}

// AsynqEnqueuer is the production Enqueuer backed by an asynq client.
type AsynqEnqueuer struct {
	client *asynq.Client
}

func NewAsynqEnqueuer(redisOpt asynq.RedisClientOpt) *AsynqEnqueuer {
	return &AsynqEnqueuer{client: asynq.NewClient(redisOpt)}
}

func (e *AsynqEnqueuer) EnqueueDocumentRegen(payload DocumentRegenPayload, delay time.Duration) error {
	task, opts, err := NewDocumentRegenTask(payload, delay)
	if err != nil {
		return err
	}
	_, err = e.client.Enqueue(task, opts...)
	return err
}
