package entity

import (
	"strings"
	"time"
)

const (
	BudgetMin     = 100
	BudgetMax     = 100000
	BudgetStep    = 100
	BudgetDefault = 5000

	DefaultDestination = "Hyderabad"
)

type TripRequest struct {
	Destination string `validate:"required"`
	Budget      int    `validate:"min=100,max=100000"`
}

// Normalize trims the destination and clamps the budget the way the form widget does.
func (r TripRequest) Normalize() TripRequest {
	return TripRequest{
		Destination: strings.TrimSpace(r.Destination),
		Budget:      ClampBudget(r.Budget),
	}
}

// ClampBudget bounds v to [BudgetMin, BudgetMax] and snaps it down to BudgetStep.
func ClampBudget(v int) int {
	if v < BudgetMin {
		return BudgetMin
	}
	if v > BudgetMax {
		return BudgetMax
	}
	return BudgetMin + ((v-BudgetMin)/BudgetStep)*BudgetStep
}

type Itinerary struct {
	RunID       string
	Destination string
	Budget      int
	Text        string
	Stages      []StageOutput
	Duration    time.Duration
}
