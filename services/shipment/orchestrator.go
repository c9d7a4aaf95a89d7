package shipment

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	draftRepo "github.com/tmurray-at-tygershark/solushipX-sub005/database/repository/draft"
	rateRepo "github.com/tmurray-at-tygershark/solushipX-sub005/database/repository/rate"
	"github.com/tmurray-at-tygershark/solushipX-sub005/models"
	"github.com/tmurray-at-tygershark/solushipX-sub005/services/carrierapi"
	"github.com/tmurray-at-tygershark/solushipX-sub005/services/notification"
	"github.com/tmurray-at-tygershark/solushipX-sub005/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// confirmationFields is the ordered set of response fields tried when
// extracting the external confirmation identifier.
var confirmationFields = []string{
	"confirmationNumber",
	"proNumber",
	"bookingReferenceNumber",
	"shipmentId",
}

// BookingOrchestrator drives a booking attempt through its phases:
// reserving, carrier-specific document generation, terminal state. One
// attempt exists per operator-initiated booking action; a failed attempt is
// terminal for the attempt only and a retry starts fresh against the same
// draft key and rate binding.
type BookingOrchestrator struct {
	Drafts   draftRepo.DraftRepository
	Rates    rateRepo.RateRepository
	Gateway  carrierapi.Client
	Guard    *redis.Client
	Tasks    tasks.Enqueuer
	Notifier notification.NotificationService

	// LabelDelay is the mandatory settle time between a successful
	// reservation and a label generation call. The BOL path has no delay.
	LabelDelay time.Duration
	// ConfirmWait is how long to wait before re-reading the draft when the
	// reservation response carried no confirmation field.
	ConfirmWait time.Duration

	Logger *zap.Logger

	// sleep is swappable so tests can observe the pre-label delay.
	sleep func(ctx context.Context, d time.Duration)

	mu       sync.Mutex
	inflight map[string]bool
}

// Book runs one booking attempt for the draft. A reservation failure is
// reported on the returned attempt, not as a Go error; Go errors cover
// precondition failures where no attempt was started.
func (o *BookingOrchestrator) Book(ctx context.Context, draft *models.ShipmentDraft) (*models.BookingAttempt, error) {
	if err := o.acquire(ctx, draft.Key); err != nil {
		return nil, err
	}
	defer o.release(ctx, draft.Key)

	if err := checkBookable(draft.Sections); err != nil {
		return nil, err
	}

	// Resolve a snapshot-only binding to a persisted rate document before
	// anything else. A persistence failure here aborts with no attempt
	// recorded and no external side effects.
	record, err := o.resolveRate(ctx, draft)
	if err != nil {
		return nil, err
	}

	attempt := &models.BookingAttempt{
		AttemptID: uuid.New().String(),
		DraftKey:  draft.Key,
		Phase:     models.PhaseReserving,
		StartedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if record != nil {
		attempt.Carrier = record.Carrier
	}

	// Mark the draft in flight before the external call so a crash mid-call
	// still reads as processing, never silently as draft.
	if err := o.Drafts.SetStatus(ctx, draft.Key, models.StatusProcessing); err != nil {
		return nil, fmt.Errorf("failed to mark draft as processing: %w", err)
	}
	draft.Status = models.StatusProcessing

	resp, err := o.Gateway.BookRate(ctx, carrierapi.BookRequest{
		RateRequestContext: rateRequestContext(draft, record),
		DraftKey:           draft.Key,
		RateDocumentID:     draft.Sections.Rate.RateDocumentID,
	})
	if err != nil || !resp.Success {
		// The external side effect is ambiguous, so the draft stays
		// processing: surfaced to the operator as retryable, never reverted.
		attempt.Phase = models.PhaseError
		if err != nil {
			attempt.Error = err.Error()
		} else {
			attempt.Error = resp.ErrorText()
		}
		attempt.UpdatedAt = time.Now()
		o.Logger.Error("carrier reservation failed",
			zap.String("draftKey", draft.Key),
			zap.String("error", attempt.Error),
		)
		o.storeAttempt(ctx, attempt)
		o.notify(ctx, draft, attempt)
		return attempt, nil
	}

	attempt.ConfirmationID = o.extractConfirmation(ctx, draft, resp)

	carrier := LookupCarrier(attempt.Carrier)
	switch carrier.Capability {
	case models.CapabilityLabel:
		attempt.Phase = models.PhaseGeneratingDocument
		// The carrier needs its reservation to settle before it will
		// produce a label.
		o.wait(ctx, o.LabelDelay)
		labelResp, labelErr := o.Gateway.GenerateLabel(ctx, carrierapi.LabelRequest{
			ShipmentID: attempt.ConfirmationID,
			DraftKey:   draft.Key,
			Carrier:    carrier.ID,
			FormatHint: "PDF",
		})
		attempt.DocumentStatus = o.documentStatus(ctx, draft, carrier, "label", labelResp, labelErr)
	case models.CapabilityBOL:
		attempt.Phase = models.PhaseGeneratingDocument
		bolResp, bolErr := o.Gateway.GenerateBOL(ctx, carrierapi.BOLRequest{
			OrderNumber: draft.ShipmentID,
			DraftKey:    draft.Key,
			Carrier:     carrier.ID,
		})
		attempt.DocumentStatus = o.documentStatus(ctx, draft, carrier, "bol", bolResp, bolErr)
	}

	// Document outcomes are advisory: the reservation succeeded, so the
	// attempt completes regardless.
	attempt.Phase = models.PhaseCompleted
	attempt.UpdatedAt = time.Now()

	if err := o.Drafts.SetStatus(ctx, draft.Key, models.StatusBooked); err != nil {
		o.Logger.Warn("failed to mark draft booked",
			zap.String("draftKey", draft.Key), zap.Error(err))
	} else {
		draft.Status = models.StatusBooked
	}
	if err := o.Drafts.SetConfirmation(ctx, draft.Key, attempt.ConfirmationID, attempt.DocumentStatus); err != nil {
		o.Logger.Warn("failed to store confirmation on draft",
			zap.String("draftKey", draft.Key), zap.Error(err))
	}

	o.storeAttempt(ctx, attempt)
	o.notify(ctx, draft, attempt)

	o.Logger.Info("booking completed",
		zap.String("draftKey", draft.Key),
		zap.String("confirmationId", attempt.ConfirmationID),
		zap.String("documentStatus", attempt.DocumentStatus),
	)
	return attempt, nil
}

// rateRequestContext rebuilds the quoting context the gateway saw when the
// rate was produced, so the reservation binds to the same shipment shape.
func rateRequestContext(draft *models.ShipmentDraft, record *models.RateRecord) map[string]any {
	rrc := map[string]any{
		"shipmentId":      draft.ShipmentID,
		"referenceNumber": draft.Sections.Info.ReferenceNumber,
		"pickupDate":      draft.Sections.Info.PickupDate,
		"origin":          draft.Sections.Origin,
		"destination":     draft.Sections.Destination,
		"packages":        draft.Sections.Packages,
	}
	if record != nil {
		rrc["carrier"] = record.Carrier
		rrc["service"] = record.Service
		rrc["currency"] = record.Currency
	}
	return rrc
}

// checkBookable verifies every upstream section reports complete and a rate
// is bound.
func checkBookable(sections models.ShipmentSections) error {
	if !sections.Rate.Bound() {
		return ErrNoRateBound
	}
	statuses := Evaluate(sections)
	var incomplete []models.Section
	for _, section := range models.CanonicalSections {
		if section == models.SectionRate {
			continue
		}
		if !statuses[section].Complete {
			incomplete = append(incomplete, section)
		}
	}
	if len(incomplete) > 0 {
		return &IncompleteDraftError{Sections: incomplete}
	}
	return nil
}

// resolveRate makes sure the draft's rate binding points at a persisted rate
// document, persisting a snapshot-only binding itself. Returns the canonical
// record when one can be loaded.
func (o *BookingOrchestrator) resolveRate(ctx context.Context, draft *models.ShipmentDraft) (*models.RateRecord, error) {
	binding := draft.Sections.Rate

	if binding.RateDocumentID == "" {
		record, err := NormalizeRate(draft.Key, binding.Snapshot)
		if err != nil {
			return nil, fmt.Errorf("invalid rate snapshot: %w", err)
		}
		id, err := o.Rates.Save(ctx, record)
		if err != nil {
			return nil, fmt.Errorf("failed to persist selected rate: %w", err)
		}
		binding.RateDocumentID = id
		draft.Sections.Rate = binding
		if err := o.Drafts.PatchSection(ctx, draft.Key, models.SectionRate, binding); err != nil {
			// The rate is durably identified; a stale draft copy of the
			// binding is tolerable.
			o.Logger.Warn("failed to patch rate binding onto draft",
				zap.String("draftKey", draft.Key), zap.Error(err))
		}
		return record, nil
	}

	record, err := o.Rates.GetByID(ctx, binding.RateDocumentID)
	if err != nil {
		o.Logger.Warn("could not load rate record for bound id",
			zap.String("draftKey", draft.Key),
			zap.String("rateDocumentId", binding.RateDocumentID),
			zap.Error(err),
		)
		return nil, nil
	}
	return record, nil
}

// extractConfirmation walks the ordered response-field fallbacks and, when
// none are present, re-reads the draft after a short delay before falling
// back to its stored confirmation field and finally its own key.
func (o *BookingOrchestrator) extractConfirmation(ctx context.Context, draft *models.ShipmentDraft, resp *carrierapi.GatewayResponse) string {
	if id := resp.StringField(confirmationFields...); id != "" {
		return id
	}

	o.Logger.Warn("reservation response carried no confirmation field, re-reading draft",
		zap.String("draftKey", draft.Key))
	o.wait(ctx, o.ConfirmWait)

	if fresh, err := o.Drafts.GetByKey(ctx, draft.Key); err == nil && fresh.ConfirmationID != "" {
		return fresh.ConfirmationID
	}
	return draft.Key
}

// documentStatus normalizes the three document-call outcomes (success,
// explicit failure payload, transport error) into an advisory string, queuing
// a deferred regeneration when the call did not succeed.
func (o *BookingOrchestrator) documentStatus(ctx context.Context, draft *models.ShipmentDraft, carrier models.CarrierInfo, kind string, resp *carrierapi.GatewayResponse, callErr error) string {
	if callErr == nil && resp != nil && resp.Success {
		return kind + " generated"
	}

	detail := "call failed"
	if callErr != nil {
		detail = callErr.Error()
	} else if resp != nil {
		detail = resp.ErrorText()
	}
	o.Logger.Warn("document generation failed",
		zap.String("draftKey", draft.Key),
		zap.String("kind", kind),
		zap.String("detail", detail),
	)

	if o.Tasks != nil {
		payload := tasks.DocumentRegenPayload{
			DraftKey:   draft.Key,
			Carrier:    carrier.ID,
			ShipmentID: draft.ShipmentID,
			Capability: string(carrier.Capability),
		}
		if err := o.Tasks.EnqueueDocumentRegen(payload, 5*time.Minute); err != nil {
			o.Logger.Warn("failed to queue document regeneration",
				zap.String("draftKey", draft.Key), zap.Error(err))
		}
	}
	return fmt.Sprintf("%s generation failed: %s", kind, detail)
}

// acquire guards against a second Book for the same draft while one is in
// flight, first in-process and then across instances via Redis.
func (o *BookingOrchestrator) acquire(ctx context.Context, draftKey string) error {
	o.mu.Lock()
	if o.inflight == nil {
		o.inflight = make(map[string]bool)
	}
	if o.inflight[draftKey] {
		o.mu.Unlock()
		return ErrBookingInFlight
	}
	o.inflight[draftKey] = true
	o.mu.Unlock()

	if o.Guard != nil {
		ok, err := o.Guard.SetNX(ctx, "booking:inflight:"+draftKey, time.Now().Unix(), 5*time.Minute).Result()
		if err == nil && !ok {
			o.mu.Lock()
			delete(o.inflight, draftKey)
			o.mu.Unlock()
			return ErrBookingInFlight
		}
	}
	return nil
}

func (o *BookingOrchestrator) release(ctx context.Context, draftKey string) {
	o.mu.Lock()
	delete(o.inflight, draftKey)
	o.mu.Unlock()
	if o.Guard != nil {
		o.Guard.Del(ctx, "booking:inflight:"+draftKey)
	}
}

// storeAttempt keeps the most recent attempt per draft available for status
// polling.
func (o *BookingOrchestrator) storeAttempt(ctx context.Context, attempt *models.BookingAttempt) {
	if o.Guard == nil {
		return
	}
	data, err := json.Marshal(attempt)
	if err != nil {
		return
	}
	if err := o.Guard.Set(ctx, "booking:attempt:"+attempt.DraftKey, data, 24*time.Hour).Err(); err != nil {
		o.Logger.Warn("failed to store booking attempt",
			zap.String("draftKey", attempt.DraftKey), zap.Error(err))
	}
}

// LastAttempt returns the most recent booking attempt for a draft, if any.
func (o *BookingOrchestrator) LastAttempt(ctx context.Context, draftKey string) (*models.BookingAttempt, error) {
	if o.Guard == nil {
		return nil, nil
	}
	data, err := o.Guard.Get(ctx, "booking:attempt:"+draftKey).Result()
	if err != nil {
		return nil, nil
	}
	var attempt models.BookingAttempt
	if err := json.Unmarshal([]byte(data), &attempt); err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (o *BookingOrchestrator) notify(ctx context.Context, draft *models.ShipmentDraft, attempt *models.BookingAttempt) {
	if o.Notifier == nil {
		return
	}
	if err := o.Notifier.NotifyBookingResult(ctx, draft, attempt); err != nil {
		o.Logger.Debug("booking notification failed", zap.Error(err))
	}
}

func (o *BookingOrchestrator) wait(ctx context.Context, d time.Duration) {
	if o.sleep != nil {
		o.sleep(ctx, d)
		return
	}
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
