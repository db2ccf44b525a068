package app

import (
	"context"

	"bizdev/api/internal/identity"
	"bizdev/api/internal/kvstore"
	"bizdev/api/internal/util"
)

// UpsertStepCompletion flips a step's completed flag, creating the record
// if the caller has none for this (journey, step) pair yet.
func (s *Service) UpsertStepCompletion(ctx context.Context, principal identity.Principal, journeyID, stepID string, completed bool) (Step, error) {
	return s.upsertStep(ctx, principal, journeyID, stepID, &completed, nil)
}

// UpsertStepNotes saves notes for a step, leaving completion untouched.
// A fresh record starts out not completed.
func (s *Service) UpsertStepNotes(ctx context.Context, principal identity.Principal, journeyID, stepID, notes string) (Step, error) {
	return s.upsertStep(ctx, principal, journeyID, stepID, nil, &notes)
}

// UpsertStep applies whichever of completed/notes the caller supplied,
// looking up the existing record by (journey_id, step_id) first. The store
// cannot enforce that pair's uniqueness, so every write path goes through
// this lookup.
func (s *Service) UpsertStep(ctx context.Context, principal identity.Principal, journeyID, stepID string, completed *bool, notes *string) (Step, error) {
	return s.upsertStep(ctx, principal, journeyID, stepID, completed, notes)
}

func (s *Service) upsertStep(ctx context.Context, principal identity.Principal, journeyID, stepID string, completed *bool, notes *string) (Step, error) {
	existing, err := s.findStep(ctx, principal, journeyID, stepID)
	if err != nil {
		return Step{}, err
	}

	if existing != nil {
		step := *existing
		s.applyStepChanges(&step, completed, notes)
		if err := s.putRecord(ctx, kvstore.CollectionSteps, step.ID, step); err != nil {
			return Step{}, err
		}
		return step, nil
	}

	step := Step{
		ID:        util.NewID("stp"),
		UserID:    principal.UserID,
		JourneyID: journeyID,
		StepID:    stepID,
	}
	s.applyStepChanges(&step, completed, notes)
	if err := s.putRecord(ctx, kvstore.CollectionSteps, step.ID, step); err != nil {
		return Step{}, err
	}
	return step, nil
}

// UpdateStep mutates a step record by id. A missing record and a record
// owned by someone else both read as not found.
func (s *Service) UpdateStep(ctx context.Context, principal identity.Principal, id string, completed *bool, notes *string) (Step, error) {
	var step Step
	if err := s.getRecord(ctx, kvstore.CollectionSteps, id, &step, "Step not found"); err != nil {
		return Step{}, err
	}
	if step.UserID != principal.UserID {
		return Step{}, notFound("Step not found")
	}
	s.applyStepChanges(&step, completed, notes)
	if err := s.putRecord(ctx, kvstore.CollectionSteps, step.ID, step); err != nil {
		return Step{}, err
	}
	return step, nil
}

// ListStepsByJourney returns the caller's step records for one journey,
// unordered.
func (s *Service) ListStepsByJourney(ctx context.Context, principal identity.Principal, journeyID string) ([]Step, error) {
	all, err := listRecords[Step](ctx, s, kvstore.CollectionSteps)
	if err != nil {
		return nil, err
	}
	steps := make([]Step, 0, len(all))
	for _, step := range all {
		if step.UserID == principal.UserID && step.JourneyID == journeyID {
			steps = append(steps, step)
		}
	}
	return steps, nil
}

// findStep locates the caller's record for (journeyID, stepID), nil if none.
func (s *Service) findStep(ctx context.Context, principal identity.Principal, journeyID, stepID string) (*Step, error) {
	steps, err := s.ListStepsByJourney(ctx, principal, journeyID)
	if err != nil {
		return nil, err
	}
	for i := range steps {
		if steps[i].StepID == stepID {
			return &steps[i], nil
		}
	}
	return nil, nil
}

// applyStepChanges applies the supplied fields. completed_date is stamped
// only on a false->true transition and kept through every other change.
func (s *Service) applyStepChanges(step *Step, completed *bool, notes *string) {
	if completed != nil {
		if *completed && !step.Completed {
			now := s.now()
			step.CompletedDate = &now
		}
		step.Completed = *completed
	}
	if notes != nil {
		step.Notes = *notes
	}
}
