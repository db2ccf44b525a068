package app

import (
	"context"
	"sort"

	"bizdev/api/internal/identity"
	"bizdev/api/internal/kvstore"
	"bizdev/api/internal/util"
)

// CreateJourney persists a new journey for the caller. New journeys are
// always active regardless of the input flag.
func (s *Service) CreateJourney(ctx context.Context, principal identity.Principal, input JourneyInput) (Journey, error) {
	journey := Journey{
		ID:                  util.NewID("jrn"),
		UserID:              principal.UserID,
		BusinessName:        input.BusinessName,
		Description:         input.Description,
		BusinessStatus:      input.BusinessStatus,
		BusinessExplanation: input.BusinessExplanation,
		IsActive:            true,
		CreatedDate:         s.now(),
	}
	if err := s.putRecord(ctx, kvstore.CollectionJourneys, journey.ID, journey); err != nil {
		return Journey{}, err
	}
	return journey, nil
}

// ListJourneys returns the caller's journeys, newest first.
func (s *Service) ListJourneys(ctx context.Context, principal identity.Principal) ([]Journey, error) {
	all, err := listRecords[Journey](ctx, s, kvstore.CollectionJourneys)
	if err != nil {
		return nil, err
	}
	journeys := make([]Journey, 0, len(all))
	for _, journey := range all {
		if journey.UserID == principal.UserID {
			journeys = append(journeys, journey)
		}
	}
	sort.Slice(journeys, func(i, j int) bool {
		return journeys[i].CreatedDate.After(journeys[j].CreatedDate)
	})
	return journeys, nil
}

func (s *Service) GetJourney(ctx context.Context, principal identity.Principal, id string) (Journey, error) {
	var journey Journey
	if err := s.getRecord(ctx, kvstore.CollectionJourneys, id, &journey, "Journey not found"); err != nil {
		return Journey{}, err
	}
	if journey.UserID != principal.UserID {
		return Journey{}, forbidden()
	}
	return journey, nil
}

// UpdateJourney replaces the writable field set wholesale. Identity,
// ownership, and created_date survive; everything else comes from input.
func (s *Service) UpdateJourney(ctx context.Context, principal identity.Principal, id string, input JourneyInput) (Journey, error) {
	journey, err := s.GetJourney(ctx, principal, id)
	if err != nil {
		return Journey{}, err
	}
	journey.BusinessName = input.BusinessName
	journey.Description = input.Description
	journey.BusinessStatus = input.BusinessStatus
	journey.BusinessExplanation = input.BusinessExplanation
	journey.IsActive = input.IsActive
	if err := s.putRecord(ctx, kvstore.CollectionJourneys, journey.ID, journey); err != nil {
		return Journey{}, err
	}
	return journey, nil
}

func (s *Service) DeleteJourney(ctx context.Context, principal identity.Principal, id string) error {
	if _, err := s.GetJourney(ctx, principal, id); err != nil {
		return err
	}
	existed, err := s.records.Delete(ctx, kvstore.CollectionJourneys, id)
	if err != nil {
		return err
	}
	if !existed {
		return notFound("Journey not found")
	}
	return nil
}
