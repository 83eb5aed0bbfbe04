package web

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"trip-planner/internal/domain/entity"
)

// parseForm reads a plan submission. The budget is clamped to the widget
// bounds; an unparsable budget falls back to the default.
func parseForm(r *http.Request) (entity.TripRequest, entity.Credentials, error) {
	if err := r.ParseForm(); err != nil {
		return entity.TripRequest{}, entity.Credentials{}, err
	}

	req := entity.TripRequest{
		Destination: r.PostFormValue("destination"),
		Budget:      parseBudget(r.PostFormValue("budget")),
	}
	creds := entity.Credentials{
		LLMAPIKey:    strings.TrimSpace(r.PostFormValue("llm_api_key")),
		SearchAPIKey: strings.TrimSpace(r.PostFormValue("search_api_key")),
	}
	return req.Normalize(), creds, nil
}

func parseBudget(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return entity.BudgetDefault
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return entity.BudgetDefault
	}
	if v > float64(entity.BudgetMax) {
		return entity.BudgetMax
	}
	if v < float64(entity.BudgetMin) {
		return entity.BudgetMin
	}
	return entity.ClampBudget(int(v))
}
