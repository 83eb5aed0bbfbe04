package input

import (
	"context"

	"trip-planner/internal/domain/entity"
)

type TripPlanner interface {
	Plan(ctx context.Context, req entity.TripRequest, creds entity.Credentials) (*entity.Itinerary, error)
}
