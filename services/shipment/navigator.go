package shipment

import (
	"context"

	draftRepo "github.com/tmurray-at-tygershark/solushipX-sub005/database/repository/draft"
	"github.com/tmurray-at-tygershark/solushipX-sub005/models"

	"go.uber.org/zap"
)

// Step indexes the ordered editing sequence.
type Step int

const (
	StepInfo Step = iota
	StepOrigin
	StepDestination
	StepPackages
	StepRates
	StepReview
)

// stepSections maps editing steps to the section they persist. The review
// step owns no section.
var stepSections = map[Step]models.Section{
	StepInfo:        models.SectionInfo,
	StepOrigin:      models.SectionOrigin,
	StepDestination: models.SectionDestination,
	StepPackages:    models.SectionPackages,
	StepRates:       models.SectionRate,
}

var stepNames = map[Step]string{
	StepInfo:        "info",
	StepOrigin:      "origin",
	StepDestination: "destination",
	StepPackages:    "packages",
	StepRates:       "rates",
	StepReview:      "review",
}

// Name returns the step's display name.
func (s Step) Name() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// Navigator walks an operator through the ordered editing steps, persisting
// each section to the draft store as the operator advances.
type Navigator struct {
	acc      *Accumulator
	drafts   draftRepo.DraftRepository
	draftKey string
	current  Step
	logger   *zap.Logger
}

// NewNavigator returns a navigator positioned at the first step.
func NewNavigator(acc *Accumulator, drafts draftRepo.DraftRepository, draftKey string, logger *zap.Logger) *Navigator {
	return &Navigator{
		acc:      acc,
		drafts:   drafts,
		draftKey: draftKey,
		current:  StepInfo,
		logger:   logger,
	}
}

// Current returns the step the navigator is on.
func (n *Navigator) Current() Step {
	return n.current
}

// Advance merges payload into the current step's section, persists that
// section, and moves forward. The in-memory state advances even when the
// persist call fails: the failure is surfaced as a PersistError and the
// stale persisted copy is left for the next successful persist to overwrite.
func (n *Navigator) Advance(ctx context.Context, payload any) error {
	if n.current >= StepReview {
		return ErrAtFinalStep
	}
	section := stepSections[n.current]

	if payload != nil {
		if err := n.acc.Update(section, payload); err != nil {
			return err
		}
	}

	persistErr := n.persist(ctx, section)
	n.current++

	if persistErr != nil {
		n.logger.Warn("section persist failed, advancing optimistically",
			zap.String("draftKey", n.draftKey),
			zap.String("section", string(section)),
			zap.Error(persistErr),
		)
		return &PersistError{Section: section, Err: persistErr}
	}
	return nil
}

// Retreat moves back one step. Nothing is persisted: data on the abandoned
// step is not considered in progress.
func (n *Navigator) Retreat() error {
	if n.current <= StepInfo {
		return ErrAtFirstStep
	}
	n.current--
	return nil
}

// JumpTo moves to an arbitrary step without validating intermediate steps.
// Used when resuming a draft whose sections are already persisted; sections
// the navigator did not just receive a payload for are never re-persisted.
func (n *Navigator) JumpTo(step Step) error {
	if step < StepInfo || step > StepReview {
		return &SectionPayloadError{Section: "", Reason: "step out of range"}
	}
	n.current = step
	return nil
}

func (n *Navigator) persist(ctx context.Context, section models.Section) error {
	sections := n.acc.Sections()
	var payload any
	switch section {
	case models.SectionInfo:
		payload = sections.Info
	case models.SectionOrigin:
		payload = sections.Origin
	case models.SectionDestination:
		payload = sections.Destination
	case models.SectionPackages:
		payload = sections.Packages
	case models.SectionRate:
		payload = sections.Rate
	}
	return n.drafts.PatchSection(ctx, n.draftKey, section, payload)
}
