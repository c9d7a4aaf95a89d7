package cron

import (
	"context"
	"encoding/json"
	"log"

	"github.com/tmurray-at-tygershark/solushipX-sub005/config"
	draftRepo "github.com/tmurray-at-tygershark/solushipX-sub005/database/repository/draft"
	"github.com/tmurray-at-tygershark/solushipX-sub005/models"
	"github.com/tmurray-at-tygershark/solushipX-sub005/services/carrierapi"
	"github.com/tmurray-at-tygershark/solushipX-sub005/services/tasks"

	"github.com/hibiken/asynq"
)

// InitDocumentWorker runs the async worker that replays failed label/BOL
// generations in the background. Document generation is advisory, so the
// worker only updates the draft's document status and never touches the
// booking outcome.
func InitDocumentWorker(gateway carrierapi.Client, drafts draftRepo.DraftRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeDocumentRegenerate, handleDocumentRegen(gateway, drafts))

	go func() {
		log.Println("[DocumentWorker] starting async worker...")
		if err := srv.Run(mux); err != nil {
			log.Printf("[DocumentWorker] worker stopped: %v", err)
		}
	}()
}

func handleDocumentRegen(gateway carrierapi.Client, drafts draftRepo.DraftRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.DocumentRegenPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[DocumentWorker] invalid payload: %v", err)
			return err
		}

		var (
			resp *carrierapi.GatewayResponse
			err  error
			kind string
		)
		switch models.DocumentCapability(p.Capability) {
		case models.CapabilityLabel:
			kind = "label"
			resp, err = gateway.GenerateLabel(ctx, carrierapi.LabelRequest{
				ShipmentID: p.ShipmentID,
				DraftKey:   p.DraftKey,
				Carrier:    p.Carrier,
				FormatHint: "PDF",
			})
		case models.CapabilityBOL:
			kind = "bol"
			resp, err = gateway.GenerateBOL(ctx, carrierapi.BOLRequest{
				OrderNumber: p.ShipmentID,
				DraftKey:    p.DraftKey,
				Carrier:     p.Carrier,
			})
		default:
			return nil
		}

		if err != nil {
			// Returning the error lets asynq retry within the task's budget.
			log.Printf("[DocumentWorker] %s regeneration failed for %s: %v", kind, p.DraftKey, err)
			return err
		}
		if !resp.Success {
			log.Printf("[DocumentWorker] %s regeneration rejected for %s: %s", kind, p.DraftKey, resp.ErrorText())
			return asynq.SkipRetry
		}

		if updateErr := drafts.SetDocumentStatus(ctx, p.DraftKey, kind+" generated"); updateErr != nil {
			log.Printf("[DocumentWorker] failed to update document status for %s: %v", p.DraftKey, updateErr)
		}
		return nil
	}
}
